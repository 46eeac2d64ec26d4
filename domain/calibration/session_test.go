package calibration

import (
	"testing"

	"github.com/soocke/overlay-calibrator/domain/geometry"
	"github.com/soocke/overlay-calibrator/domain/gesture"
)

type countingTracker struct{ acquired, released int }

func (c *countingTracker) Acquire() func() {
	c.acquired++
	return func() { c.released++ }
}

type recordingHints struct {
	suppressed bool
	cursorOn   bool
	cursorKind gesture.Kind
}

func (h *recordingHints) SuppressSelection(on bool) { h.suppressed = on }
func (h *recordingHints) SetCursor(k gesture.Kind, on bool) {
	h.cursorOn = on
	if on {
		h.cursorKind = k
	}
}

var referenceProps = Props{TopPercent: 25, LeftPercent: 55, WidthPercent: 43, HeightPercent: 65}

func newTestSession(tr PointerTracker, hints Hints) (*Session, *geometry.Size) {
	size := &geometry.Size{W: 1000, H: 500}
	s := NewSession(referenceProps, Options{
		MinExtent: 5,
		Tracker:   tr,
		Hints:     hints,
		Container: func() geometry.Size { return *size },
	})
	return s, size
}

func TestSession_StartGestureRequiresActive(t *testing.T) {
	tr := &countingTracker{}
	s, _ := newTestSession(tr, nil)
	if s.StartGesture(gesture.Move, geometry.Point{}) {
		t.Fatalf("gesture must not start while calibration is inactive")
	}
	if tr.acquired != 0 || s.Tracking() {
		t.Fatalf("tracker acquired while inactive")
	}
}

func TestSession_MoveGestureUpdatesRect(t *testing.T) {
	tr := &countingTracker{}
	hints := &recordingHints{}
	s, _ := newTestSession(tr, hints)
	s.ToggleActive()
	if !s.StartGesture(gesture.Move, geometry.Point{X: 600, Y: 200}) {
		t.Fatalf("expected gesture to start")
	}
	if !hints.suppressed || !hints.cursorOn || hints.cursorKind != gesture.Move {
		t.Fatalf("hints not applied: %+v", hints)
	}
	// 100px left on a 1000px container = -10%.
	s.OnPointerMove(geometry.Point{X: 500, Y: 200})
	if got := s.Current(); got.Left != 45 || got.Top != 25 {
		t.Fatalf("unexpected rect %v", got)
	}
	s.EndGesture()
	if tr.acquired != 1 || tr.released != 1 || s.Tracking() {
		t.Fatalf("lease not released: acquired=%d released=%d", tr.acquired, tr.released)
	}
	if hints.suppressed || hints.cursorOn {
		t.Fatalf("hints not restored: %+v", hints)
	}
	// EndGesture is idempotent.
	s.EndGesture()
	if tr.released != 1 {
		t.Fatalf("double release: %d", tr.released)
	}
}

func TestSession_SecondStartIsIgnored(t *testing.T) {
	tr := &countingTracker{}
	s, _ := newTestSession(tr, nil)
	s.ToggleActive()
	s.StartGesture(gesture.ResizeSE, geometry.Point{X: 100, Y: 100})
	if s.StartGesture(gesture.Move, geometry.Point{X: 900, Y: 400}) {
		t.Fatalf("second StartGesture should be a no-op")
	}
	g, ok := s.Gesture()
	if !ok || g.Kind != gesture.ResizeSE || g.AnchorPointer != (geometry.Point{X: 100, Y: 100}) {
		t.Fatalf("first anchor must stay in effect, got %+v", g)
	}
	if tr.acquired != 1 {
		t.Fatalf("tracker acquired %d times", tr.acquired)
	}
}

func TestSession_MoveWithoutGestureIsNoop(t *testing.T) {
	s, _ := newTestSession(nil, nil)
	s.ToggleActive()
	before := s.Current()
	s.OnPointerMove(geometry.Point{X: 5000, Y: 5000})
	if s.Current() != before {
		t.Fatalf("rect changed without gesture")
	}
}

func TestSession_ToggleOffEndsGesture(t *testing.T) {
	tr := &countingTracker{}
	s, _ := newTestSession(tr, nil)
	s.ToggleActive()
	s.StartGesture(gesture.ResizeNW, geometry.Point{X: 10, Y: 10})
	s.ToggleActive()
	if s.Active() {
		t.Fatalf("expected inactive")
	}
	if _, ok := s.Gesture(); ok {
		t.Fatalf("gesture should be cleared")
	}
	if tr.released != 1 {
		t.Fatalf("lease not released on toggle off")
	}
}

func TestSession_ReseedOverridesStaleEdit(t *testing.T) {
	s, _ := newTestSession(nil, nil)
	s.ToggleActive()
	s.StartGesture(gesture.Move, geometry.Point{X: 500, Y: 250})
	s.OnPointerMove(geometry.Point{X: 400, Y: 200})
	s.EndGesture()
	if s.Current() == referenceProps.Rect() {
		t.Fatalf("edit should have diverged the rect")
	}
	next := Props{TopPercent: 10, LeftPercent: 20, WidthPercent: 30, HeightPercent: 40}
	s.Reseed(next)
	if s.Current() != next.Rect() {
		t.Fatalf("reseed should replace rect, got %v", s.Current())
	}
	if !s.Active() {
		t.Fatalf("reseed must not change activity")
	}
}

func TestSession_ReseedSameValueKeepsEdit(t *testing.T) {
	s, _ := newTestSession(nil, nil)
	s.ToggleActive()
	s.StartGesture(gesture.Move, geometry.Point{X: 500, Y: 250})
	s.OnPointerMove(geometry.Point{X: 400, Y: 250})
	s.EndGesture()
	edited := s.Current()
	s.Reseed(referenceProps)
	if s.Current() != edited {
		t.Fatalf("unchanged props must not discard edit")
	}
}

func TestSession_ReseedDeferredDuringGesture(t *testing.T) {
	s, _ := newTestSession(nil, nil)
	s.ToggleActive()
	s.StartGesture(gesture.Move, geometry.Point{X: 500, Y: 250})
	s.Reseed(Props{TopPercent: 0, LeftPercent: 0, WidthPercent: 50, HeightPercent: 50})
	if s.Current() != referenceProps.Rect() {
		t.Fatalf("reseed applied during gesture: %v", s.Current())
	}
}

func TestSession_ContainerResizeReanchors(t *testing.T) {
	s, size := newTestSession(nil, nil)
	s.ToggleActive()
	s.StartGesture(gesture.Move, geometry.Point{X: 500, Y: 250})
	s.OnPointerMove(geometry.Point{X: 400, Y: 250}) // -10%
	*size = geometry.Size{W: 2000, H: 1000}
	s.OnPointerMove(geometry.Point{X: 100, Y: 250}) // re-anchor, no change
	if got := s.Current().Left; got != 45 {
		t.Fatalf("expected left 45 after re-anchor, got %v", got)
	}
	s.OnPointerMove(geometry.Point{X: 300, Y: 250}) // +200px of 2000 = +10%
	if got := s.Current().Left; got != 55 {
		t.Fatalf("expected left 55 relative to new anchor, got %v", got)
	}
}

func TestSession_PanicInObserverReleasesLease(t *testing.T) {
	tr := &countingTracker{}
	s, _ := newTestSession(tr, nil)
	s.ToggleActive()
	s.StartGesture(gesture.Move, geometry.Point{X: 500, Y: 250})
	s.Subscribe(func(Snapshot) { panic("boom") })
	s.OnPointerMove(geometry.Point{X: 400, Y: 250})
	if s.Tracking() || tr.released != 1 {
		t.Fatalf("lease must be released after panic")
	}
	if s.Current() != referenceProps.Rect() {
		t.Fatalf("aborted gesture must restore anchor, got %v", s.Current())
	}
}

func TestSession_PanicDuringStartReleasesLease(t *testing.T) {
	tr := &countingTracker{}
	hints := &recordingHints{}
	s, _ := newTestSession(tr, hints)
	s.ToggleActive()
	s.Subscribe(func(snap Snapshot) {
		if snap.Editing {
			panic("boom")
		}
	})
	if s.StartGesture(gesture.ResizeNW, geometry.Point{X: 500, Y: 250}) {
		t.Fatalf("start should report failure after a panic")
	}
	if s.Tracking() || tr.acquired != 1 || tr.released != 1 {
		t.Fatalf("lease must be released: acquired=%d released=%d", tr.acquired, tr.released)
	}
	if hints.suppressed || hints.cursorOn {
		t.Fatalf("hints must be restored after a failed start")
	}
	if _, ok := s.Gesture(); ok {
		t.Fatalf("gesture should be discarded")
	}
	if s.Current() != referenceProps.Rect() {
		t.Fatalf("rect changed: %v", s.Current())
	}
}

func TestSession_CloseDiscardsInFlightGesture(t *testing.T) {
	tr := &countingTracker{}
	s, _ := newTestSession(tr, nil)
	s.ToggleActive()
	s.StartGesture(gesture.ResizeSE, geometry.Point{X: 500, Y: 250})
	s.OnPointerMove(geometry.Point{X: 550, Y: 300})
	notified := 0
	s.Subscribe(func(Snapshot) { notified++ })
	s.Close()
	if tr.released != 1 {
		t.Fatalf("lease not released on close")
	}
	if s.Current() != referenceProps.Rect() {
		t.Fatalf("partial geometry committed: %v", s.Current())
	}
	if notified != 0 {
		t.Fatalf("close must not notify")
	}
	if s.StartGesture(gesture.Move, geometry.Point{}) {
		t.Fatalf("closed session accepted gesture")
	}
}

func TestSession_ObserversSeeChanges(t *testing.T) {
	s, _ := newTestSession(nil, nil)
	var snaps []Snapshot
	s.Subscribe(func(sn Snapshot) { snaps = append(snaps, sn) })
	s.ToggleActive()
	s.StartGesture(gesture.ResizeSE, geometry.Point{X: 0, Y: 0})
	s.OnPointerMove(geometry.Point{X: 10, Y: 10})
	s.EndGesture()
	if len(snaps) != 4 {
		t.Fatalf("expected 4 snapshots, got %d", len(snaps))
	}
	if !snaps[1].Editing || snaps[1].Gesture != gesture.ResizeSE {
		t.Fatalf("gesture start not reported: %+v", snaps[1])
	}
	if snaps[3].Editing {
		t.Fatalf("gesture end not reported")
	}
}
