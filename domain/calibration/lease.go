package calibration

import "github.com/soocke/overlay-calibrator/domain/gesture"

// PointerTracker installs global pointer-move and pointer-up handling. Acquire is
// called when a gesture starts; the returned func removes the handlers again and
// is called exactly once on every exit path.
type PointerTracker interface {
	Acquire() (release func())
}

// TrackerFunc adapts a plain function to PointerTracker.
type TrackerFunc func() func()

func (f TrackerFunc) Acquire() func() { return f() }

// Hints receives presentation side effects for the duration of a gesture.
type Hints interface {
	SuppressSelection(on bool)
	SetCursor(kind gesture.Kind, on bool)
}

type nopHints struct{}

func (nopHints) SuppressSelection(bool)       {}
func (nopHints) SetCursor(gesture.Kind, bool) {}

// lease holds at most one acquired tracker registration.
type lease struct {
	tracker   PointerTracker
	releaseFn func()
}

func (l *lease) acquire() {
	if l.tracker == nil || l.releaseFn != nil {
		return
	}
	if rel := l.tracker.Acquire(); rel != nil {
		l.releaseFn = rel
	} else {
		l.releaseFn = func() {}
	}
}

func (l *lease) release() {
	if l.releaseFn == nil {
		return
	}
	rel := l.releaseFn
	l.releaseFn = nil
	rel()
}

// held reports whether the tracker registration is currently installed.
func (l *lease) held() bool { return l.releaseFn != nil }
