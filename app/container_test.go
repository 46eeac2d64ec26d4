package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/soocke/overlay-calibrator/config"
	"github.com/soocke/overlay-calibrator/domain/calibration"
	"github.com/soocke/overlay-calibrator/domain/filtersync"
	"github.com/soocke/overlay-calibrator/domain/gesture"
)

func newTestContainer(t *testing.T) (*AppContainer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	cfg := config.DefaultConfig()
	cfg.ReportsURL = ""
	c := BuildContainer(cfg, path, nil)
	t.Cleanup(c.Close)
	return c, path
}

func TestBuildContainer_SessionSeededFromConfig(t *testing.T) {
	c, _ := newTestContainer(t)
	if got := calibration.PropsFromRect(c.Session.Current()); got != c.Config.Props() {
		t.Fatalf("session not seeded from config: %+v", got)
	}
	if c.Session.Active() {
		t.Fatalf("calibration must start inactive")
	}
}

func TestContainer_GestureFlowsThroughStage(t *testing.T) {
	c, _ := newTestContainer(t)
	c.Stage.SetSize(1000, 500)
	c.CalibrationPresenter.Enable()
	if !c.Session.Active() {
		t.Fatalf("enable should activate the session")
	}
	c.OverlayPresenter.PointerDown(gesture.ResizeSE, 980, 450)
	c.OverlayPresenter.PointerMove(1000, 500)
	c.OverlayPresenter.PointerUp()
	r := c.Session.Current()
	if r.Width != 45 || r.Height != 75 {
		t.Fatalf("unexpected rect after resize %v", r)
	}
	if _, _, n := c.Activity.Values(); n != 1 {
		t.Fatalf("expected one counted gesture, got %d", n)
	}
}

func TestContainer_SaveProfileAndApplyConfig(t *testing.T) {
	c, path := newTestContainer(t)
	if err := c.CalibrationPresenter.SaveProfile(); err != nil {
		t.Fatalf("save profile: %v", err)
	}
	loaded, err := config.Load(path)
	if err != nil || loaded.Props() != c.Config.Props() {
		t.Fatalf("profile not persisted: %+v err=%v", loaded, err)
	}

	edited := *c.Config
	edited.TopPercent, edited.LeftPercent = 10, 10
	*c.Config = edited
	c.ApplyConfig(c.Config)
	if r := c.Session.Current(); r.Top != 10 || r.Left != 10 {
		t.Fatalf("apply config should reseed, got %v", r)
	}
}

func TestDefaultFilterFields(t *testing.T) {
	f, ok := DefaultFilterFields.Translate(filtersync.Selection{Source: filtersync.Report, Field: "report", Values: []string{"r1"}})
	if !ok || f.Target != filtersync.Map || f.Field != "report_layer" {
		t.Fatalf("unexpected translation %+v ok=%v", f, ok)
	}
	if applied, err := filtersync.NewReceiver(logApplier(filtersync.Map, nil), nil).Receive(context.Background(), f); !applied || err != nil {
		t.Fatalf("log applier should apply, applied=%v err=%v", applied, err)
	}
}
