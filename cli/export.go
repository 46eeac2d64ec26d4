package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/soocke/overlay-calibrator/capture"
	"github.com/soocke/overlay-calibrator/config"
	"github.com/soocke/overlay-calibrator/domain/calibration"
	"github.com/soocke/overlay-calibrator/domain/compositor"
	"github.com/soocke/overlay-calibrator/domain/geometry"
	"github.com/soocke/overlay-calibrator/domain/host"
	"github.com/soocke/overlay-calibrator/ui/images"
)

// Swapped in tests.
var (
	writeClipboard = clipboard.WriteAll
	grabRect       = capture.GrabRect
	hostProvider   = func(cfg *config.Config) host.Provider {
		return host.NewProvider(cfg.HostWindow, image.Rect(cfg.HostX, cfg.HostY, cfg.HostX+cfg.HostW, cfg.HostY+cfg.HostH))
	}
)

const (
	formatLiteral = "literal"
	formatJSON    = "json"
	formatPixels  = "px"
)

type exportOptions struct {
	report string
	format string
	copy   bool
	png    string
}

func newExportCmd(opts *options) *cobra.Command {
	var eo exportOptions
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the stored overlay geometry as config fields",
		Long: `Export prints the overlay geometry stored in the config file, either the
defaults or the profile of one report, as copy-pasteable name={value} lines.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), cmd.OutOrStdout(), opts, eo)
		},
	}
	cmd.Flags().StringVarP(&eo.report, "report", "r", "", "report ID whose profile to export (default geometry when empty)")
	cmd.Flags().StringVarP(&eo.format, "format", "f", formatLiteral, "output format: literal, json or px")
	cmd.Flags().BoolVar(&eo.copy, "copy", false, "also copy the output to the clipboard")
	cmd.Flags().StringVar(&eo.png, "png", "", "write a snapshot of the overlay area to this PNG file")
	return cmd
}

func runExport(ctx context.Context, w io.Writer, opts *options, eo exportOptions) error {
	logger := loggerFromContext(ctx)
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if eo.report != "" {
		if _, ok := cfg.Profiles[eo.report]; !ok {
			logger.Warn("no profile for report, using defaults", "report", eo.report)
		}
	}
	rect := cfg.ProfileFor(eo.report).Rect()
	fields := calibration.LiteralFields(rect)

	var text string
	switch eo.format {
	case formatLiteral, "":
		text = calibration.FormatLiteral(fields)
	case formatJSON:
		obj := make(map[string]float64, len(fields))
		for _, f := range fields {
			obj[f.Name] = f.Value
		}
		b, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		text = string(b)
	case formatPixels:
		bounds, err := hostProvider(cfg).Bounds()
		if err != nil {
			return fmt.Errorf("host bounds: %w", err)
		}
		r := compositor.Layout(compositor.BoxFromRect(bounds), rect).Rect()
		text = fmt.Sprintf("x=%d y=%d w=%d h=%d", r.Min.X, r.Min.Y, r.Dx(), r.Dy())
	default:
		return fmt.Errorf("unknown format %q", eo.format)
	}

	if _, err := fmt.Fprintln(w, text); err != nil {
		return err
	}
	if eo.copy {
		if err := writeClipboard(text); err != nil {
			logger.Debug("clipboard write failed", "error", err)
		}
	}
	if eo.png != "" {
		if err := snapshotOverlay(cfg, rect, eo.png); err != nil {
			return err
		}
		logger.Info("overlay snapshot written", "path", eo.png)
	}
	return nil
}

// snapshotOverlay grabs the host viewport and writes the overlay area to path.
func snapshotOverlay(cfg *config.Config, rect geometry.Rect, path string) error {
	bounds, err := hostProvider(cfg).Bounds()
	if err != nil {
		return fmt.Errorf("host bounds: %w", err)
	}
	shot, err := grabRect(bounds)
	if err != nil {
		return fmt.Errorf("grab host: %w", err)
	}
	local := compositor.Layout(compositor.Box{W: float64(bounds.Dx()), H: float64(bounds.Dy())}, rect).Rect()
	out, err := images.Crop(shot, local)
	if err != nil {
		return fmt.Errorf("crop overlay: %w", err)
	}
	data := images.EncodePNG(out)
	if len(data) == 0 {
		return fmt.Errorf("encode %s: empty image", path)
	}
	return os.WriteFile(path, data, 0o644)
}
