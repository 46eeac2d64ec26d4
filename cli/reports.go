package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/soocke/overlay-calibrator/assets"
	"github.com/soocke/overlay-calibrator/domain/reports"
)

func newReportsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List or serve report descriptors",
	}
	cmd.AddCommand(newReportsListCmd(opts))
	cmd.AddCommand(newReportsServeCmd())
	return cmd
}

func newReportsListCmd(opts *options) *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch the report list from the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				cfg, err := loadConfig(opts.configPath)
				if err != nil {
					return err
				}
				url = cfg.ReportsURL
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			ds, err := reports.NewClient(url, loggerFromContext(ctx)).List(ctx)
			if err != nil {
				return err
			}
			writeReportTable(cmd.OutOrStdout(), ds)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "backend base URL (default from config)")
	return cmd
}

var headerStyle = lipgloss.NewStyle().Bold(true)

// writeReportTable prints one aligned row per descriptor.
func writeReportTable(w io.Writer, ds []reports.Descriptor) {
	if len(ds) == 0 {
		fmt.Fprintln(w, "no reports")
		return
	}
	header := []string{"ID", "NAME", "ROLE", "REPORT"}
	rows := make([][]string, 0, len(ds))
	for _, d := range ds {
		rows = append(rows, []string{d.ID, d.Label(), d.Role, d.ExternalReportID})
	}
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}
	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = c + strings.Repeat(" ", widths[i]-lipgloss.Width(c))
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}
	fmt.Fprintln(w, headerStyle.Render(line(header)))
	for _, r := range rows {
		fmt.Fprintln(w, line(r))
	}
}

func newReportsServeCmd() *cobra.Command {
	var (
		addr string
		seed string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a report listing backend for local calibration",
		Long: `Serve runs the report listing API (GET /reports, GET /reports/{id},
POST /reports/seed) from memory. It starts with the bundled demo reports, or with
the descriptors in --seed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSeededStore(seed)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			return serveReports(ctx, ln, store)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().StringVar(&seed, "seed", "", "JSON file with descriptors to serve instead of the demo set")
	return cmd
}

// newSeededStore loads descriptors from path, or the embedded demo set when path is empty.
func newSeededStore(path string) (*reports.MemoryStore, error) {
	var (
		ds  []reports.Descriptor
		err error
	)
	if path == "" {
		ds, err = assets.SeedReports()
	} else {
		ds, err = readDescriptors(path)
	}
	if err != nil {
		return nil, err
	}
	return reports.NewMemoryStore(ds...), nil
}

func readDescriptors(path string) ([]reports.Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ds, err := reports.DecodeDescriptors(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return reports.AssignIDs(ds), nil
}

// serveReports serves store on ln until ctx is done, then shuts down gracefully.
func serveReports(ctx context.Context, ln net.Listener, store reports.Store) error {
	logger := loggerFromContext(ctx)
	srv := &http.Server{
		Handler:           reports.NewHandler(store, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	logger.Info("serving reports", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("reports server stopped")
	return nil
}
