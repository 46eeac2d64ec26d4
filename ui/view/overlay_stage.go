package view

import (
	"image"
	"log/slog"

	"github.com/soocke/overlay-calibrator/domain/compositor"
	"github.com/soocke/overlay-calibrator/domain/geometry"
	"github.com/soocke/overlay-calibrator/domain/gesture"
	"github.com/soocke/overlay-calibrator/domain/host"
	"github.com/soocke/overlay-calibrator/ui/images"
	"github.com/soocke/overlay-calibrator/ui/presenter"
	"github.com/soocke/overlay-calibrator/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// StageHandlers receive pointer input in stage pixel coordinates.
type StageHandlers struct {
	Down func(kind gesture.Kind, x, y float64)
	Move func(x, y float64)
	Up   func()
}

// OverlayStage draws the host backdrop with the overlay region and its
// calibration affordances on top, and reports pointer gestures.
type OverlayStage interface {
	ResizeStage(w, h int)
	SetBackdrop(img image.Image)
	RenderOverlay(f presenter.OverlayFrame)
	SetHandlers(h StageHandlers)
	// Acquire installs pointer tracking for one gesture; the returned func removes it.
	Acquire() func()
	SetCursor(kind gesture.Kind, on bool)
}

// offstage parks hidden widgets outside the stage.
const offstage = -10000

type overlayStage struct {
	logger   *slog.Logger
	frame    *FrameWidget
	backdrop *LabelWidget
	photo    *Img
	overlay  *FrameWidget
	readout  *TLabelWidget
	handles  map[gesture.Kind]*FrameWidget
	origins  map[gesture.Kind]compositor.Box
	handlers StageHandlers
	pointer  *host.PointerMapper
	tracking bool
	w, h     int
}

// NewOverlayStage creates the stage frame at (row, col) of the root grid.
// Children are created bottom to top: backdrop, overlay, then affordances.
func NewOverlayStage(row, col, w, h int, logger *slog.Logger) OverlayStage {
	v := &overlayStage{
		logger:  logger,
		handles: make(map[gesture.Kind]*FrameWidget),
		origins: make(map[gesture.Kind]compositor.Box),
		pointer: host.NewPointerMapper(),
		w:       max(w, 1),
		h:       max(h, 1),
	}
	v.frame = Frame(Width(v.w), Height(v.h), Background(theme.ColorStage), Borderwidth(0))
	Grid(v.frame, Row(row), Column(col), Rowspan(4), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))

	placeholder := image.NewRGBA(image.Rect(0, 0, v.w, v.h))
	v.photo = NewPhoto(Data(images.EncodePNG(placeholder)))
	v.backdrop = v.frame.Label(Image(v.photo), Borderwidth(0))
	Place(v.backdrop, X(0), Y(0), Width(v.w), Height(v.h))

	v.overlay = v.frame.Frame(Background(theme.ColorOverlay), Borderwidth(2), Relief("ridge"))
	Place(v.overlay, X(offstage), Y(offstage))
	v.bindPress(v.overlay, gesture.Move)

	for _, k := range []gesture.Kind{gesture.ResizeNW, gesture.ResizeNE, gesture.ResizeSW, gesture.ResizeSE} {
		hw := v.frame.Frame(Background(theme.ColorHandle), Borderwidth(1), Relief("raised"))
		Place(hw, X(offstage), Y(offstage))
		v.bindPress(hw, k)
		v.handles[k] = hw
	}
	v.handles[gesture.Move] = v.overlay

	v.readout = v.frame.TLabel(Txt(""), Style(theme.StyleReadoutLabel), Anchor("w"))
	Place(v.readout, X(offstage), Y(offstage))
	return v
}

func (v *overlayStage) SetHandlers(h StageHandlers) {
	if v != nil {
		v.handlers = h
	}
}

func (v *overlayStage) ResizeStage(w, h int) {
	if v == nil || v.frame == nil || w <= 0 || h <= 0 {
		return
	}
	v.w, v.h = w, h
	v.frame.Configure(Width(w), Height(h))
	Place(v.backdrop, X(0), Y(0), Width(w), Height(h))
}

// SetBackdrop replaces the backdrop photo, deleting the previous one so obsolete
// pixel buffers are not retained.
func (v *overlayStage) SetBackdrop(img image.Image) {
	if v == nil || v.backdrop == nil || img == nil {
		return
	}
	if v.photo != nil {
		v.photo.Delete()
	}
	v.photo = NewPhoto(Data(images.EncodePNG(img)))
	v.backdrop.Configure(Image(v.photo))
}

func (v *overlayStage) RenderOverlay(f presenter.OverlayFrame) {
	if v == nil || v.overlay == nil {
		return
	}
	place(v.overlay, f.Overlay)
	v.origins[gesture.Move] = f.Overlay
	if f.Editing {
		v.overlay.Configure(Background(theme.ColorOverlayEdit))
	} else {
		v.overlay.Configure(Background(theme.ColorOverlay))
	}

	affordances := false
	for _, pl := range f.Stack {
		if pl.Layer == compositor.LayerAffordance {
			affordances = true
		}
	}
	for k, hw := range v.handles {
		if k == gesture.Move {
			continue
		}
		b, ok := f.Handles[k]
		if !affordances || !ok {
			Place(hw, X(offstage), Y(offstage))
			continue
		}
		place(hw, b)
		v.origins[k] = b
	}
	if !affordances {
		Place(v.readout, X(offstage), Y(offstage))
		return
	}
	v.readout.Configure(Txt(f.Readout))
	// Info panel sits just above the overlay, or inside it when there is no room.
	r := f.Overlay.Rect()
	y := r.Min.Y - 22
	if y < 0 {
		y = r.Min.Y + 4
	}
	Place(v.readout, X(max(r.Min.X, 0)), Y(y))
}

func place(w Widget, b compositor.Box) {
	r := b.Rect()
	Place(w, X(r.Min.X), Y(r.Min.Y), Width(max(r.Dx(), 1)), Height(max(r.Dy(), 1)))
}

func (v *overlayStage) bindPress(w Widget, kind gesture.Kind) {
	Bind(w, "<ButtonPress-1>", Command(func(e *Event) {
		if v.handlers.Down == nil {
			return
		}
		p := v.toStage(kind, e)
		v.pointer.Anchor(p)
		v.handlers.Down(kind, p.X, p.Y)
	}))
}

// toStage converts widget-relative event coordinates of the widget for kind
// into stage coordinates. It is only exact while the widget is at rest; during a
// drag the pointer mapper is used instead.
func (v *overlayStage) toStage(kind gesture.Kind, e *Event) geometry.Point {
	o := v.origins[kind].Rect().Min
	return geometry.Point{X: float64(o.X + e.X), Y: float64(o.Y + e.Y)}
}

// Acquire binds motion and release on every interactive widget. Tk delivers
// motion to the pressed widget while the button is held, so this covers
// pointer moves anywhere on screen.
func (v *overlayStage) Acquire() func() {
	if v == nil || v.tracking {
		return func() {}
	}
	v.tracking = true
	for kind, w := range v.handles {
		Bind(w, "<B1-Motion>", Command(func(e *Event) {
			if v.handlers.Move != nil {
				p := v.pointer.Map(v.toStage(kind, e))
				v.handlers.Move(p.X, p.Y)
			}
		}))
		Bind(w, "<ButtonRelease-1>", Command(func(e *Event) {
			if v.handlers.Up != nil {
				v.handlers.Up()
			}
		}))
	}
	if v.logger != nil {
		v.logger.Debug("pointer tracking installed")
	}
	return func() {
		if !v.tracking {
			return
		}
		v.tracking = false
		v.pointer.Release()
		for _, w := range v.handles {
			Bind(w, "<B1-Motion>", "")
			Bind(w, "<ButtonRelease-1>", "")
		}
		if v.logger != nil {
			v.logger.Debug("pointer tracking removed")
		}
	}
}

func (v *overlayStage) SetCursor(kind gesture.Kind, on bool) {
	if v == nil || v.frame == nil {
		return
	}
	cursor := ""
	if on {
		cursor = theme.CursorFor(kind.String())
	}
	v.frame.Configure(Cursor(cursor))
	for _, w := range v.handles {
		w.Configure(Cursor(cursor))
	}
}
