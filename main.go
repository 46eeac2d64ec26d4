package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/soocke/overlay-calibrator/app"
	"github.com/soocke/overlay-calibrator/cli"
	"github.com/soocke/overlay-calibrator/config"
)

func main() {
	if err := cli.Execute(runGUI); err != nil {
		os.Exit(1)
	}
}

// runGUI opens the calibration window and blocks until it is closed.
func runGUI(ctx context.Context, cfg *config.Config, cfgPath string) error {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)

	application := app.NewApp(ctx, "Overlay Calibrator", 1100, 760, cfg, cfgPath, logger)
	application.Start()
	return nil
}
