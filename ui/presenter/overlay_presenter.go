package presenter

import (
	"fmt"
	"time"

	"github.com/soocke/overlay-calibrator/domain/calibration"
	"github.com/soocke/overlay-calibrator/domain/compositor"
	"github.com/soocke/overlay-calibrator/domain/geometry"
	"github.com/soocke/overlay-calibrator/domain/gesture"
)

// GestureSession is the session surface used for pointer input and rendering.
type GestureSession interface {
	StartGesture(kind gesture.Kind, p geometry.Point) bool
	OnPointerMove(p geometry.Point)
	EndGesture()
	Snapshot() calibration.Snapshot
}

// StageSizer reports the live stage size in pixels.
type StageSizer interface {
	Size() geometry.Size
}

// OverlayFrame is everything the stage needs to draw one state of the overlay.
type OverlayFrame struct {
	Host    compositor.Box
	Overlay compositor.Box
	Stack   []compositor.Placement
	// Handles is empty unless calibration mode is on.
	Handles map[gesture.Kind]compositor.Box
	Readout string
	// Literal is the export text for the rectangle shown.
	Literal string
	Editing bool
	Gesture gesture.Kind
}

// OverlayView draws frames produced by the presenter.
type OverlayView interface {
	RenderOverlay(OverlayFrame)
}

// OverlayPresenter turns session snapshots into stage layouts and feeds pointer
// input from the stage back into the session.
type OverlayPresenter struct {
	session    GestureSession
	stage      StageSizer
	view       OverlayView
	zIndex     int
	handleSize float64
	dirty      bool
	last       OverlayFrame
	rendered   bool

	// OnGestureEnd runs after a gesture is committed.
	OnGestureEnd func()
}

func NewOverlayPresenter(session GestureSession, stage StageSizer, view OverlayView, zIndex int, handleSize float64) *OverlayPresenter {
	return &OverlayPresenter{session: session, stage: stage, view: view, zIndex: zIndex, handleSize: handleSize, dirty: true}
}

// OnSnapshot is the session observer; the next Tick redraws.
func (p *OverlayPresenter) OnSnapshot(calibration.Snapshot) {
	if p == nil {
		return
	}
	p.dirty = true
}

// SetZIndex changes the overlay's stacking position.
func (p *OverlayPresenter) SetZIndex(z int) {
	if p == nil || p.zIndex == z {
		return
	}
	p.zIndex = z
	p.dirty = true
}

// Invalidate forces a redraw, for example after the stage was resized.
func (p *OverlayPresenter) Invalidate() {
	if p != nil {
		p.dirty = true
	}
}

// PointerDown starts a gesture of kind at stage pixel (x, y).
func (p *OverlayPresenter) PointerDown(kind gesture.Kind, x, y float64) {
	if p == nil || p.session == nil {
		return
	}
	if p.session.StartGesture(kind, geometry.Point{X: x, Y: y}) {
		p.flush()
	}
}

// PointerMove forwards a stage pixel position to the running gesture and redraws at once.
func (p *OverlayPresenter) PointerMove(x, y float64) {
	if p == nil || p.session == nil {
		return
	}
	p.session.OnPointerMove(geometry.Point{X: x, Y: y})
	p.flush()
}

// PointerUp commits the running gesture.
func (p *OverlayPresenter) PointerUp() {
	if p == nil || p.session == nil {
		return
	}
	editing := p.session.Snapshot().Editing
	p.session.EndGesture()
	if editing && p.OnGestureEnd != nil {
		p.OnGestureEnd()
	}
	p.flush()
}

// Tick redraws when something changed since the last frame.
func (p *OverlayPresenter) Tick(now time.Time) {
	p.flush()
}

func (p *OverlayPresenter) flush() {
	if p == nil || p.session == nil || p.view == nil || p.stage == nil || !p.dirty {
		return
	}
	size := p.stage.Size()
	if size.Empty() {
		return
	}
	frame := BuildFrame(p.session.Snapshot(), size, p.zIndex, p.handleSize)
	p.dirty = false
	if p.rendered && framesEqual(frame, p.last) {
		return
	}
	p.last = frame
	p.rendered = true
	p.view.RenderOverlay(frame)
}

// BuildFrame lays out snap inside a stage of the given size.
func BuildFrame(snap calibration.Snapshot, size geometry.Size, zIndex int, handleSize float64) OverlayFrame {
	host := compositor.Box{W: size.W, H: size.H}
	overlay := compositor.Layout(host, snap.Rect)
	f := OverlayFrame{
		Host:    host,
		Overlay: overlay,
		Stack:   compositor.Stack(zIndex, snap.Active),
		Readout: FormatReadout(snap),
		Literal: calibration.FormatLiteral(calibration.LiteralFields(snap.Rect)),
		Editing: snap.Editing,
		Gesture: snap.Gesture,
	}
	if snap.Active {
		f.Handles = compositor.HandleBoxes(overlay, handleSize)
	}
	return f
}

// FormatReadout renders the live percentage readout for the info panel.
func FormatReadout(snap calibration.Snapshot) string {
	r := snap.Rect.Rounded()
	s := fmt.Sprintf("top %.1f%%  left %.1f%%  width %.1f%%  height %.1f%%", r.Top, r.Left, r.Width, r.Height)
	if snap.Editing {
		s += "  [" + snap.Gesture.String() + "]"
	}
	return s
}

func framesEqual(a, b OverlayFrame) bool {
	if a.Host != b.Host || a.Overlay != b.Overlay || a.Readout != b.Readout || a.Literal != b.Literal || a.Editing != b.Editing || a.Gesture != b.Gesture {
		return false
	}
	if len(a.Stack) != len(b.Stack) || len(a.Handles) != len(b.Handles) {
		return false
	}
	for i := range a.Stack {
		if a.Stack[i] != b.Stack[i] {
			return false
		}
	}
	for k, v := range a.Handles {
		if b.Handles[k] != v {
			return false
		}
	}
	return true
}
