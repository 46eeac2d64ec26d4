package presenter

import (
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/soocke/overlay-calibrator/domain/calibration"
	"github.com/soocke/overlay-calibrator/ui/images"
	"github.com/soocke/overlay-calibrator/ui/model"
)

// BoundsSource is the host watcher surface read on the UI thread.
type BoundsSource interface {
	Latest() (image.Rectangle, bool)
	Generation() uint64
}

// Snapshotter captures a screen rectangle.
type Snapshotter func(image.Rectangle) (*image.RGBA, error)

// StageView resizes the stage and paints the host backdrop.
type StageView interface {
	ResizeStage(w, h int)
	SetBackdrop(img image.Image)
}

// PixelSeed converts a pixel overlay seed once the host size is known.
type PixelSeed interface {
	ResolvePixelSeed(hostW, hostH int) bool
	Props() calibration.Props
}

// HostPresenter follows the host viewport: it sizes the stage to the host
// bounds and refreshes the backdrop snapshot in the background.
type HostPresenter struct {
	source  BoundsSource
	stage   *model.StageModel
	view    StageView
	snap    Snapshotter
	logger  *slog.Logger
	maxW    int
	maxH    int
	refresh time.Duration

	// Seed and Session resolve a pixel seed on the first known bounds.
	Seed    PixelSeed
	Session Reseeder
	// OnResize runs after the stage size changed.
	OnResize func()

	gen      uint64
	bounds   image.Rectangle
	lastShot time.Time
	grabbing atomic.Bool
	pending  atomic.Pointer[image.RGBA]
}

func NewHostPresenter(source BoundsSource, stage *model.StageModel, view StageView, snap Snapshotter, maxW, maxH int, refresh time.Duration, logger *slog.Logger) *HostPresenter {
	return &HostPresenter{source: source, stage: stage, view: view, snap: snap, maxW: maxW, maxH: maxH, refresh: refresh, logger: logger}
}

// Tick applies new host bounds, schedules a snapshot when due and paints a finished one.
func (p *HostPresenter) Tick(now time.Time) {
	if p == nil || p.source == nil || p.stage == nil || p.view == nil {
		return
	}
	if g := p.source.Generation(); g != p.gen {
		p.gen = g
		if r, ok := p.source.Latest(); ok {
			p.applyBounds(r)
		}
	}
	if p.snap != nil && !p.bounds.Empty() && now.Sub(p.lastShot) >= p.refresh && !p.grabbing.Swap(true) {
		p.lastShot = now
		go p.grab(p.bounds)
	}
	if img := p.pending.Swap(nil); img != nil {
		w, h := p.stage.Pixels()
		p.view.SetBackdrop(images.ScaleTo(img, w, h))
	}
}

func (p *HostPresenter) applyBounds(r image.Rectangle) {
	p.bounds = r
	p.lastShot = time.Time{}
	w, h := FitStage(r.Dx(), r.Dy(), p.maxW, p.maxH)
	if p.stage.SetSize(w, h) {
		p.view.ResizeStage(w, h)
		if p.logger != nil {
			p.logger.Debug("stage resized", "host", r, "width", w, "height", h)
		}
		if p.OnResize != nil {
			p.OnResize()
		}
	}
	if p.Seed != nil && p.Session != nil && p.Seed.ResolvePixelSeed(r.Dx(), r.Dy()) {
		p.Session.Reseed(p.Seed.Props())
	}
}

func (p *HostPresenter) grab(r image.Rectangle) {
	defer p.grabbing.Store(false)
	defer recoverLog(p.logger, "host snapshot panic")
	img, err := p.snap(r)
	if err != nil {
		if p.logger != nil {
			p.logger.Debug("host snapshot failed", "error", err)
		}
		return
	}
	p.pending.Store(img)
}

// FitStage scales w x h down, preserving aspect ratio, to fit maxW x maxH.
// It never scales up; non-positive limits disable the bound.
func FitStage(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	ratio := 1.0
	if maxW > 0 && w > maxW {
		ratio = float64(maxW) / float64(w)
	}
	if maxH > 0 && h > maxH {
		ratio = min(ratio, float64(maxH)/float64(h))
	}
	return max(int(float64(w)*ratio+0.5), 1), max(int(float64(h)*ratio+0.5), 1)
}
