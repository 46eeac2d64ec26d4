package cli

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/soocke/overlay-calibrator/config"
	"github.com/soocke/overlay-calibrator/domain/calibration"
	"github.com/soocke/overlay-calibrator/domain/host"
	"github.com/soocke/overlay-calibrator/domain/reports"
)

func writeConfig(t *testing.T, mutate func(*config.Config)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save config: %v", err)
	}
	return path
}

func run(t *testing.T, gui GUIFunc, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(gui, &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExport_DefaultLiteral(t *testing.T) {
	path := writeConfig(t, nil)
	out, err := run(t, nil, "export", "-c", path)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	want := "topPercent={25.0}\nleftPercent={55.0}\nwidthPercent={43.0}\nheightPercent={65.0}\n"
	if out != want {
		t.Fatalf("got %q want %q", out, want)
	}
}

func TestExport_ReportProfileAsJSON(t *testing.T) {
	path := writeConfig(t, func(c *config.Config) {
		c.SetProfile("r1", calibration.Props{TopPercent: 10, LeftPercent: 20, WidthPercent: 30.25, HeightPercent: 40})
	})
	out, err := run(t, nil, "export", "-c", path, "--report", "r1", "--format", "json")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, s := range []string{`"topPercent": 10`, `"leftPercent": 20`, `"widthPercent": 30.3`, `"heightPercent": 40`} {
		if !strings.Contains(out, s) {
			t.Fatalf("missing %s in %s", s, out)
		}
	}
}

func TestExport_PixelsUseHostBounds(t *testing.T) {
	path := writeConfig(t, nil)
	out, err := run(t, nil, "export", "-c", path, "-f", "px")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.TrimSpace(out) != "x=704 y=180 w=550 h=468" {
		t.Fatalf("unexpected pixel box %q", out)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	path := writeConfig(t, nil)
	if _, err := run(t, nil, "export", "-c", path, "-f", "yaml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestExport_CopyFailureIsNotFatal(t *testing.T) {
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })
	var copied string
	writeClipboard = func(s string) error { copied = s; return errors.New("no clipboard") }

	path := writeConfig(t, nil)
	out, err := run(t, nil, "export", "-c", path, "--copy")
	if err != nil {
		t.Fatalf("clipboard failure must not fail export: %v", err)
	}
	if copied == "" || copied != strings.TrimSpace(out) {
		t.Fatalf("clipboard got %q, stdout %q", copied, out)
	}
}

func TestExport_PNGSnapshot(t *testing.T) {
	origGrab, origHost := grabRect, hostProvider
	t.Cleanup(func() { grabRect, hostProvider = origGrab, origHost })
	hostProvider = func(*config.Config) host.Provider {
		return host.StaticProvider{Rect: image.Rect(300, 200, 500, 300)}
	}
	var grabbed image.Rectangle
	grabRect = func(area image.Rectangle) (*image.RGBA, error) {
		grabbed = area
		return image.NewRGBA(image.Rect(0, 0, area.Dx(), area.Dy())), nil
	}

	path := writeConfig(t, nil)
	pngPath := filepath.Join(t.TempDir(), "overlay.png")
	if _, err := run(t, nil, "export", "-c", path, "--png", pngPath); err != nil {
		t.Fatalf("export: %v", err)
	}
	if grabbed != image.Rect(300, 200, 500, 300) {
		t.Fatalf("expected host area grab, got %v", grabbed)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	// 43% x 65% of 200x100, offset by 55%/25%.
	if b := img.Bounds(); b.Dx() != 86 || b.Dy() != 65 {
		t.Fatalf("unexpected snapshot size %v", b)
	}
}

func TestExport_BrokenConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, nil, "export", "-c", path); err == nil {
		t.Fatalf("expected config error")
	}
}

func TestCalibrate_RunsGUIWithConfig(t *testing.T) {
	path := writeConfig(t, func(c *config.Config) { c.ZIndex = 42 })
	var got *config.Config
	var gotPath string
	gui := func(ctx context.Context, cfg *config.Config, cfgPath string) error {
		got, gotPath = cfg, cfgPath
		return nil
	}
	if _, err := run(t, gui, "-c", path, "-v"); err != nil {
		t.Fatalf("calibrate: %v", err)
	}
	if got == nil || got.ZIndex != 42 || gotPath != path {
		t.Fatalf("gui got cfg=%+v path=%q", got, gotPath)
	}
	if !got.Debug {
		t.Fatalf("--verbose should enable debug")
	}

	got = nil
	if _, err := run(t, gui, "calibrate", "-c", path); err != nil || got == nil || got.Debug {
		t.Fatalf("explicit calibrate: err=%v cfg=%+v", err, got)
	}
}

func TestCalibrate_NoGUI(t *testing.T) {
	path := writeConfig(t, nil)
	if _, err := run(t, nil, "calibrate", "-c", path); err == nil {
		t.Fatalf("expected error without GUI")
	}
}

func TestReportsList_PrintsTable(t *testing.T) {
	name := "Sales"
	store := reports.NewMemoryStore(
		reports.Descriptor{ID: "a", ExternalReportID: "rep-1", DisplayName: &name, Role: "viewer"},
		reports.Descriptor{ID: "b", ExternalReportID: "rep-2", Role: "editor"},
	)
	srv := httptest.NewServer(reports.NewHandler(store, nil))
	defer srv.Close()

	path := writeConfig(t, func(c *config.Config) { c.ReportsURL = srv.URL })
	out, err := run(t, nil, "reports", "list", "-c", path)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", out)
	}
	if !strings.Contains(lines[1], "Sales") || !strings.Contains(lines[2], "rep-2") {
		t.Fatalf("unexpected rows %q", lines[1:])
	}
}

func TestWriteReportTable_Empty(t *testing.T) {
	var b bytes.Buffer
	writeReportTable(&b, nil)
	if b.String() != "no reports\n" {
		t.Fatalf("got %q", b.String())
	}
}

func TestServeReports_ServesUntilCancelled(t *testing.T) {
	store, err := newSeededStore("")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveReports(ctx, ln, store) }()

	c := reports.NewClient("http://"+ln.Addr().String(), nil)
	c.Delay = 10 * time.Millisecond
	ds, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ds) != 3 || ds[0].ID != "sales-overview" {
		t.Fatalf("unexpected descriptors %+v", ds)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop")
	}
}

func TestNewSeededStore_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(`[{"externalReportId":"x","role":"viewer"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := newSeededStore(path)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	list := store.List()
	if len(list) != 1 || list[0].ID == "" || list[0].ExternalReportID != "x" {
		t.Fatalf("unexpected %+v", list)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(bad, []byte(`[{"bogus":1}]`), 0o644)
	if _, err := newSeededStore(bad); err == nil {
		t.Fatalf("unknown fields should be rejected")
	}
}
