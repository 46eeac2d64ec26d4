package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/soocke/overlay-calibrator/domain/calibration"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Props() != DefaultConfig().Props() {
		t.Fatalf("expected default props, got %+v", cfg.Props())
	}
}

func TestSaveLoad_ProfilesSurvive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	cfg := DefaultConfig()
	p := calibration.Props{TopPercent: 5, LeftPercent: 10, WidthPercent: 20, HeightPercent: 30}
	cfg.SetProfile("report-1", p)
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ProfileFor("report-1") != p {
		t.Fatalf("profile lost: %+v", loaded.ProfileFor("report-1"))
	}
	if loaded.ProfileFor("unknown") != loaded.Props() {
		t.Fatalf("unknown report should fall back to defaults")
	}
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if cfg == nil || cfg.MinExtent != DefaultConfig().MinExtent {
		t.Fatalf("expected defaults alongside error")
	}
}

func TestValidate_ClampsGeometry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopPercent, cfg.LeftPercent, cfg.WidthPercent, cfg.HeightPercent = -5, 90, 30, 1
	cfg.MinExtent = 0
	cfg.Profiles = map[string]calibration.Props{"r": {TopPercent: 99, LeftPercent: 0, WidthPercent: 10, HeightPercent: 10}}
	_ = cfg.Validate()
	want := calibration.Props{TopPercent: 0, LeftPercent: 70, WidthPercent: 30, HeightPercent: 5}
	if cfg.Props() != want {
		t.Fatalf("got %+v want %+v", cfg.Props(), want)
	}
	if cfg.Profiles["r"].TopPercent != 90 {
		t.Fatalf("profile not clamped: %+v", cfg.Profiles["r"])
	}
}

func TestResolvePixelSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OverlayPx = &PixelBox{X: 550, Y: 125, W: 430, H: 325}
	if !cfg.ResolvePixelSeed(1000, 500) {
		t.Fatalf("expected conversion")
	}
	want := calibration.Props{TopPercent: 25, LeftPercent: 55, WidthPercent: 43, HeightPercent: 65}
	if cfg.Props() != want || cfg.OverlayPx != nil {
		t.Fatalf("got %+v px=%v", cfg.Props(), cfg.OverlayPx)
	}
	if cfg.ResolvePixelSeed(1000, 500) {
		t.Fatalf("seed must only resolve once")
	}
}
