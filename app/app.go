package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/overlay-calibrator/config"
	"github.com/soocke/overlay-calibrator/debug"
	"github.com/soocke/overlay-calibrator/domain/gesture"
	"github.com/soocke/overlay-calibrator/ui/presenter"
	"github.com/soocke/overlay-calibrator/ui/theme"
	"github.com/soocke/overlay-calibrator/ui/view"
)

const (
	tick = 50 * time.Millisecond
)

type app struct {
	c       *AppContainer
	logger  *slog.Logger
	width   int
	height  int
	afterID string
	ctx     context.Context
	cancel  context.CancelFunc
	closed  bool
}

// NewApp prepares the main window. Widgets are created by Start. Background work
// stops when ctx is done or the window closes.
func NewApp(ctx context.Context, title string, width, height int, cfg *config.Config, cfgPath string, logger *slog.Logger) *app {
	a := &app{logger: logger, width: width, height: height}
	a.c = BuildContainer(cfg, cfgPath, logger)
	a.ctx, a.cancel = context.WithCancel(ctx)

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))
	return a
}

// Start builds the UI, starts background work and blocks until the window closes.
func (a *app) Start() {
	c := a.c
	theme.InitStyles()

	h := view.Handlers{
		Copy:           c.CalibrationPresenter.Copy,
		SaveProfile:    func() { _ = c.CalibrationPresenter.SaveProfile() },
		RefreshReports: func() { c.ReportPresenter.Refresh(a.ctx) },
		SelectReport:   c.ReportPresenter.Select,
		ConfigApplied:  c.ApplyConfig,
		Exit:           a.exitHandler,
	}
	if c.Config.CalibrationEnabled {
		h.ToggleCalibration = c.CalibrationPresenter.Toggle
	}
	c.RootView.Build(c.Config.HostW/2, c.Config.HostH/2, h)
	c.RootView.SetHandlers(view.StageHandlers{
		Down: func(kind gesture.Kind, x, y float64) { c.OverlayPresenter.PointerDown(kind, x, y) },
		Move: c.OverlayPresenter.PointerMove,
		Up:   c.OverlayPresenter.PointerUp,
	})
	c.CalibrationPresenter.Clipboard = clipboard.WriteAll

	if c.Config.Debug {
		debug.StartGoroutineLogger(a.ctx, 5*time.Second, a.logger)
		debug.StartMemLogger(a.ctx, 5*time.Second, a.logger)
	}
	c.Watcher.Start()
	c.ReportPresenter.Refresh(a.ctx)

	c.Loop = presenter.NewLoop(c.HostPresenter, c.OverlayPresenter, c.ActivityPresenter, c.ReportPresenter, a.scheduleUpdate)
	a.scheduleUpdate()

	App.Wait()
	a.shutdown()
}

func (a *app) scheduleUpdate() {
	if a.closed {
		return
	}
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.c.Loop.Tick() })
}

func (a *app) exitHandler() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	a.shutdown()
	Destroy(App)
}

func (a *app) shutdown() {
	if a.closed {
		return
	}
	a.closed = true
	a.cancel()
	a.c.Close()
	if a.logger != nil {
		a.logger.Info("calibrator stopped")
	}
}
