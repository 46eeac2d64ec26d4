package app

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/soocke/overlay-calibrator/capture"
	"github.com/soocke/overlay-calibrator/config"
	"github.com/soocke/overlay-calibrator/domain/calibration"
	"github.com/soocke/overlay-calibrator/domain/filtersync"
	"github.com/soocke/overlay-calibrator/domain/host"
	"github.com/soocke/overlay-calibrator/domain/reports"
	"github.com/soocke/overlay-calibrator/ui/model"
	"github.com/soocke/overlay-calibrator/ui/presenter"
	"github.com/soocke/overlay-calibrator/ui/view"
)

const (
	maxStageW = 960
	maxStageH = 600
)

// DefaultFilterFields links the report selection to the map's report layer.
var DefaultFilterFields = filtersync.FieldMap{presenter.ReportField: "report_layer"}

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger

	Stage    *model.StageModel
	Activity *model.ActivityModel
	Reports  *model.ReportModel

	Session *calibration.Session
	Watcher *host.Watcher
	Bridge  *filtersync.Bridge
	Client  *reports.Client

	RootView *view.RootView

	// Presenters
	CalibrationPresenter *presenter.CalibrationPresenter
	OverlayPresenter     *presenter.OverlayPresenter
	ActivityPresenter    *presenter.ActivityPresenter
	ReportPresenter      *presenter.ReportPresenter
	HostPresenter        *presenter.HostPresenter
	Loop                 *presenter.Loop
}

// profileStore persists profiles into the config file.
type profileStore struct {
	cfg  *config.Config
	path string
}

func (s profileStore) SaveProfile(reportID string, p calibration.Props) error {
	s.cfg.SetProfile(reportID, p)
	return s.cfg.Save(s.path)
}

// BuildContainer constructs all components. No goroutines are started and no
// Tk widgets are created; see app.Start.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger) *AppContainer {
	c := &AppContainer{Config: cfg, ConfigPath: cfgPath, Logger: logger}
	c.Stage = &model.StageModel{}
	c.Activity = model.NewActivityModel()
	c.Reports = model.NewReportModel()

	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	c.Session = calibration.NewSession(cfg.Props(), calibration.Options{
		MinExtent: cfg.MinExtent,
		Tracker:   c.RootView,
		Hints:     c.RootView,
		Container: c.Stage.Size,
		Logger:    logger,
	})

	hostRect := image.Rect(cfg.HostX, cfg.HostY, cfg.HostX+cfg.HostW, cfg.HostY+cfg.HostH)
	refresh := time.Duration(cfg.HostRefreshMillis) * time.Millisecond
	c.Watcher = host.NewWatcher(host.NewProvider(cfg.HostWindow, hostRect), refresh, logger)

	fields := DefaultFilterFields
	if len(cfg.FilterFields) > 0 {
		fields = filtersync.FieldMap(cfg.FilterFields)
	}
	c.Bridge = filtersync.NewBridge(fields, logApplier(filtersync.Report, logger), logApplier(filtersync.Map, logger), logger)
	c.Client = reports.NewClient(cfg.ReportsURL, logger)

	// Presenters
	c.CalibrationPresenter = presenter.NewCalibrationPresenter(c.Session, c.RootView, profileStore{cfg: cfg, path: cfgPath}, logger)
	c.OverlayPresenter = presenter.NewOverlayPresenter(c.Session, c.Stage, c.RootView, cfg.ZIndex, float64(cfg.HandleSizePx))
	c.OverlayPresenter.OnGestureEnd = c.Activity.CountGesture
	c.Session.Subscribe(c.OverlayPresenter.OnSnapshot)
	c.ActivityPresenter = presenter.NewActivityPresenter(c.Activity, c.Session, c.RootView)
	c.ReportPresenter = presenter.NewReportPresenter(c.Client, c.Reports, cfg, c.Session, c.RootView, c.Bridge, logger)
	c.CalibrationPresenter.Report = c.ReportPresenter.Selected
	c.HostPresenter = presenter.NewHostPresenter(c.Watcher, c.Stage, c.RootView, capture.GrabRect, maxStageW, maxStageH, refresh, logger)
	c.HostPresenter.Seed, c.HostPresenter.Session = cfg, c.Session
	c.HostPresenter.OnResize = c.OverlayPresenter.Invalidate
	return c
}

// logApplier stands in for a widget's filter API: the real report and map
// widgets are embedded elsewhere, so filters are only logged here.
func logApplier(w filtersync.Widget, logger *slog.Logger) filtersync.Applier {
	return filtersync.ApplierFunc(func(ctx context.Context, f filtersync.Filter) error {
		if logger != nil {
			logger.Info("filter applied", "widget", w.String(), "field", f.Field, "values", f.Values)
		}
		return nil
	})
}

// ApplyConfig pushes edited configuration into the running session.
func (c *AppContainer) ApplyConfig(cfg *config.Config) {
	if c == nil || cfg == nil {
		return
	}
	c.Session.Reseed(cfg.ProfileFor(c.ReportPresenter.Selected()))
	c.OverlayPresenter.SetZIndex(cfg.ZIndex)
}

// Close stops background work and tears the session down.
func (c *AppContainer) Close() {
	if c == nil {
		return
	}
	c.Session.Close()
	c.Watcher.Stop()
	c.Bridge.Close()
	c.ReportPresenter.Wait()
}
