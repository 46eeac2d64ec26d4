package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

func newCalibrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "calibrate",
		Short: "Open the calibration window (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalibrate(cmd.Context(), opts)
		},
	}
}

func runCalibrate(ctx context.Context, opts *options) error {
	if opts.gui == nil {
		return errors.New("calibrate: no GUI available in this build")
	}
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.verbose {
		cfg.Debug = true
	}
	loggerFromContext(ctx).Debug("starting calibration window", "config", opts.configPath)
	return opts.gui(ctx, cfg, opts.configPath)
}
