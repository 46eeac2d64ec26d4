// Package cli implements the overlay-calibrator command-line interface.
//
// The default command opens the calibration window. The remaining commands work
// without a display: export prints the stored overlay geometry as config fields,
// and reports lists or serves report descriptors.
//
// All commands accept --verbose (-v) for debug-level logging and --config (-c)
// to select the JSON config file. Loggers travel through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/soocke/overlay-calibrator/config"
)

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "overlay-calibrator.json"

var version = "dev"

// SetVersion sets the version reported by --version.
func SetVersion(v string) { version = v }

// GUIFunc runs the interactive calibration window until it is closed. It builds
// its own logger; cfg.Debug is set when --verbose is given.
type GUIFunc func(ctx context.Context, cfg *config.Config, cfgPath string) error

// options are the persistent flags shared by every command.
type options struct {
	verbose    bool
	configPath string
	gui        GUIFunc
	out        io.Writer
}

// Execute runs the CLI with os.Args. gui backs the calibrate command.
func Execute(gui GUIFunc) error {
	return newRootCmd(gui, os.Stdout, os.Stderr).ExecuteContext(context.Background())
}

func newRootCmd(gui GUIFunc, out, errOut io.Writer) *cobra.Command {
	opts := &options{gui: gui, out: out}

	root := &cobra.Command{
		Use:          "overlay-calibrator",
		Short:        "Position an overlay over a host viewport and export its geometry",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := withLogger(cmd.Context(), newConsoleLogger(errOut, opts.verbose))
			cmd.SetContext(ctx)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalibrate(cmd.Context(), opts)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", DefaultConfigPath, "path to the JSON config file")

	root.AddCommand(newCalibrateCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newReportsCmd(opts))
	return root
}

// loadConfig reads the config file. A decode error is fatal so a broken file is
// never silently overwritten by a later save.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
