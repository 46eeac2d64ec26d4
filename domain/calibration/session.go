package calibration

import (
	"log/slog"
	"runtime/debug"

	"github.com/soocke/overlay-calibrator/domain/geometry"
	"github.com/soocke/overlay-calibrator/domain/gesture"
)

// Props is the externally declared overlay geometry, as written in configuration.
type Props struct {
	TopPercent    float64 `json:"top_percent"`
	LeftPercent   float64 `json:"left_percent"`
	WidthPercent  float64 `json:"width_percent"`
	HeightPercent float64 `json:"height_percent"`
}

// Rect converts the props into a geometry rectangle.
func (p Props) Rect() geometry.Rect {
	return geometry.Rect{Top: p.TopPercent, Left: p.LeftPercent, Width: p.WidthPercent, Height: p.HeightPercent}
}

// PropsFromRect is the inverse of Props.Rect.
func PropsFromRect(r geometry.Rect) Props {
	return Props{TopPercent: r.Top, LeftPercent: r.Left, WidthPercent: r.Width, HeightPercent: r.Height}
}

// Snapshot is what observers receive after every change.
type Snapshot struct {
	Active    bool
	Rect      geometry.Rect
	Editing   bool
	Gesture   gesture.Kind // valid only when Editing
	MinExtent float64
}

// Options configures a Session. Every collaborator is optional.
type Options struct {
	MinExtent float64
	Tracker   PointerTracker
	Hints     Hints
	Container func() geometry.Size
	Logger    *slog.Logger
}

// Session owns the calibration edit mode: whether it is active, the current overlay
// rectangle and at most one in-flight gesture.
//
// A Session is not safe for concurrent use; drive it from the UI goroutine.
type Session struct {
	minExtent float64
	props     Props
	active    bool
	current   geometry.Rect
	gesture   *gesture.State
	lease     lease

	hints     Hints
	container func() geometry.Size
	logger    *slog.Logger
	observers []func(Snapshot)
	closed    bool
}

// NewSession seeds a session from the externally supplied props.
func NewSession(props Props, opts Options) *Session {
	minExtent := opts.MinExtent
	if minExtent <= 0 {
		minExtent = geometry.DefaultMinExtent
	}
	hints := opts.Hints
	if hints == nil {
		hints = nopHints{}
	}
	container := opts.Container
	if container == nil {
		container = func() geometry.Size { return geometry.Size{} }
	}
	return &Session{
		minExtent: minExtent,
		props:     props,
		current:   geometry.Normalize(props.Rect(), minExtent),
		lease:     lease{tracker: opts.Tracker},
		hints:     hints,
		container: container,
		logger:    opts.Logger,
	}
}

// Subscribe registers fn to receive a snapshot after each change.
func (s *Session) Subscribe(fn func(Snapshot)) {
	if s == nil || fn == nil {
		return
	}
	s.observers = append(s.observers, fn)
}

// Active reports whether calibration mode is on.
func (s *Session) Active() bool { return s != nil && s.active }

// Current returns the live overlay rectangle.
func (s *Session) Current() geometry.Rect {
	if s == nil {
		return geometry.Rect{}
	}
	return s.current
}

// MinExtent returns the floor applied to width/height during resize.
func (s *Session) MinExtent() float64 { return s.minExtent }

// Props returns the most recently supplied external configuration.
func (s *Session) Props() Props { return s.props }

// Gesture returns a copy of the in-flight gesture, if any.
func (s *Session) Gesture() (gesture.State, bool) {
	if s == nil || s.gesture == nil {
		return gesture.State{}, false
	}
	return *s.gesture, true
}

// Tracking reports whether pointer tracking is installed for a gesture.
func (s *Session) Tracking() bool { return s != nil && s.lease.held() }

// Snapshot returns the current observable state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{Active: s.active, Rect: s.current, MinExtent: s.minExtent}
	if s.gesture != nil {
		snap.Editing = true
		snap.Gesture = s.gesture.Kind
	}
	return snap
}

// StartGesture begins a move or resize at pointer p. It is ignored (returns false)
// when calibration is off, a gesture is already running, or the session is closed.
// An observer panic during start aborts the gesture.
func (s *Session) StartGesture(kind gesture.Kind, p geometry.Point) (started bool) {
	if s == nil || s.closed || !s.active || s.gesture != nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			s.recovered("gesture start panic", r)
			started = false
		}
	}()
	s.gesture = &gesture.State{
		Kind:          kind,
		AnchorPointer: p,
		AnchorRect:    s.current,
		AnchorSize:    s.container(),
	}
	s.lease.acquire()
	s.hints.SuppressSelection(true)
	s.hints.SetCursor(kind, true)
	if s.logger != nil {
		s.logger.Debug("gesture started", "kind", kind.String(), "anchor", s.current.String())
	}
	s.notify()
	return true
}

// OnPointerMove recomputes the rectangle from the anchor snapshot. It is a no-op
// without an active gesture. When the container was resized since the gesture
// started, the gesture is re-anchored at p instead of applying a stale delta.
func (s *Session) OnPointerMove(p geometry.Point) {
	if s == nil || s.gesture == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.recovered("pointer move panic", r)
		}
	}()
	g := s.gesture
	size := s.container()
	if size != g.AnchorSize {
		g.AnchorRect = s.current
		g.AnchorPointer = p
		g.AnchorSize = size
		if s.logger != nil {
			s.logger.Debug("gesture re-anchored", "width", size.W, "height", size.H)
		}
		return
	}
	dx, dy := gesture.PercentDelta(g.AnchorPointer, p, size)
	next := gesture.ApplyDelta(g.Kind, g.AnchorRect, dx, dy, s.minExtent)
	if next == s.current {
		return
	}
	s.current = next
	s.notify()
}

// EndGesture finishes the in-flight gesture, keeping its result. Idempotent.
func (s *Session) EndGesture() {
	if s == nil || s.gesture == nil {
		return
	}
	kind := s.gesture.Kind
	s.finish()
	if s.logger != nil {
		s.logger.Debug("gesture ended", "kind", kind.String(), "rect", s.current.String())
	}
	s.notify()
}

// ToggleActive flips calibration mode. Turning it off ends any running gesture first.
func (s *Session) ToggleActive() {
	if s == nil || s.closed {
		return
	}
	s.SetActive(!s.active)
}

// SetActive switches calibration mode on or off. Idempotent.
func (s *Session) SetActive(on bool) {
	if s == nil || s.closed || s.active == on {
		return
	}
	if !on && s.gesture != nil {
		s.finish()
	}
	s.active = on
	if s.logger != nil {
		s.logger.Info("calibration mode", "active", on)
	}
	s.notify()
}

// Reseed applies new external props. When they differ from the previous props and
// no gesture is running, the current rectangle is replaced by them, discarding
// any local edit, whether or not calibration is active.
func (s *Session) Reseed(p Props) {
	if s == nil || s.closed || p == s.props {
		return
	}
	s.props = p
	if s.gesture != nil {
		return
	}
	s.current = geometry.Normalize(p.Rect(), s.minExtent)
	s.notify()
}

// Close tears the session down. An in-flight gesture is discarded and the rectangle
// reverts to the gesture's anchor; observers are not notified.
func (s *Session) Close() {
	if s == nil || s.closed {
		return
	}
	if s.gesture != nil {
		s.current = s.gesture.AnchorRect
		s.finish()
	}
	s.closed = true
	s.observers = nil
}

// finish releases everything held for the gesture.
func (s *Session) finish() {
	s.gesture = nil
	s.lease.release()
	s.hints.SuppressSelection(false)
	s.hints.SetCursor(gesture.Move, false)
}

// recovered logs a recovered panic and aborts the running gesture.
func (s *Session) recovered(msg string, r any) {
	if s.logger != nil {
		s.logger.Error(msg, "error", r, "stack", string(debug.Stack()))
	}
	s.abort()
}

// abort drops a gesture after a failure, restoring the anchor rectangle.
func (s *Session) abort() {
	if s.gesture == nil {
		return
	}
	s.current = s.gesture.AnchorRect
	s.finish()
}

func (s *Session) notify() {
	if len(s.observers) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range s.observers {
		fn(snap)
	}
}
