package view

import (
	"image"
	"log/slog"
	"strconv"
	"time"

	"github.com/soocke/overlay-calibrator/config"
	"github.com/soocke/overlay-calibrator/domain/gesture"
	"github.com/soocke/overlay-calibrator/ui/presenter"
	"github.com/soocke/overlay-calibrator/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Stage       OverlayStage
	Readout     ReadoutPanel
	ConfigPanel ConfigPanel

	// Widgets
	ReportSelect *TComboboxWidget
	ReportStatus *LabelWidget

	editable bool
	reports  int
}

// Handlers are invoked on user actions.
type Handlers struct {
	ToggleCalibration func()
	Copy              func()
	SaveProfile       func()
	RefreshReports    func()
	SelectReport      func(index int)
	ConfigApplied     func(*config.Config)
	Exit              func()
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger, editable: true}
}

// Build constructs the layout: the stage on the left, controls on the right.
// stageW/stageH is the initial stage size before the host bounds are known.
func (rv *RootView) Build(stageW, stageH int, h Handlers) {
	if rv == nil {
		return
	}
	rv.Stage = NewOverlayStage(0, 0, stageW, stageH, rv.logger)

	side := Frame()
	Grid(side, Row(0), Column(1), Sticky("nw"), Padx("0.3m"), Pady("0.3m"))

	btnFrame := side.Frame()
	Grid(btnFrame, Row(0), Column(0), Columnspan(2), Sticky("we"))
	buttons := []struct {
		label string
		style string
		fn    func()
	}{
		{"Toggle Calibration", theme.StylePrimaryButton, h.ToggleCalibration},
		{"Copy Config", "TButton", h.Copy},
		{"Save Profile", "TButton", h.SaveProfile},
		{"Refresh Reports", "TButton", h.RefreshReports},
		{"Exit", theme.StyleDangerButton, h.Exit},
	}
	// A nil handler hides its button; the calibration toggle is optional.
	i := 0
	for _, b := range buttons {
		if b.fn == nil {
			continue
		}
		btn := btnFrame.TButton(Txt(b.label), Style(b.style), Command(b.fn))
		Grid(btn, Row(i/3), Column(i%3), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
		i++
	}

	rv.ReportSelect = side.TCombobox(Values([]string{"<default>"}), Width(30))
	Grid(rv.ReportSelect, Row(1), Column(0), Columnspan(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.ReportSelect.Current(0)
	Bind(rv.ReportSelect, "<<ComboboxSelected>>", Command(func() {
		if rv.ReportSelect == nil || h.SelectReport == nil || rv.reports == 0 {
			return
		}
		idx, err := strconv.Atoi(rv.ReportSelect.Current(nil))
		if err != nil || idx < 0 || idx >= rv.reports {
			if rv.logger != nil {
				rv.logger.Error("report selection parse error", "error", err)
			}
			return
		}
		h.SelectReport(idx)
	}))
	rv.ReportStatus = side.Label(Txt("Reports: -"), Anchor("w"))
	Grid(rv.ReportStatus, Row(2), Column(0), Columnspan(2), Sticky("w"), Padx("0.2m"))

	rv.Readout = NewReadoutPanel(side, 3, 0)

	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, h.ConfigApplied)
	rv.ConfigPanel.Build(side, 5)
}

// SetHandlers routes stage pointer input.
func (rv *RootView) SetHandlers(h StageHandlers) {
	if rv != nil && rv.Stage != nil {
		rv.Stage.SetHandlers(h)
	}
}

// --- CalibrationView ---

// ConfigEditable toggles config panel editability.
func (rv *RootView) ConfigEditable(b bool) {
	if rv == nil || rv.ConfigPanel == nil {
		return
	}
	rv.editable = b
	rv.ConfigPanel.SetEditable(b)
}

func (rv *RootView) SetModeLabel(text string) {
	if rv != nil && rv.Readout != nil {
		rv.Readout.SetMode(text)
	}
}

// --- OverlayView / StageView ---

func (rv *RootView) RenderOverlay(f presenter.OverlayFrame) {
	if rv == nil || rv.Stage == nil {
		return
	}
	rv.Stage.RenderOverlay(f)
	if rv.Readout != nil {
		rv.Readout.SetLiteral(f.Literal)
	}
}

func (rv *RootView) ResizeStage(w, h int) {
	if rv != nil && rv.Stage != nil {
		rv.Stage.ResizeStage(w, h)
	}
}

func (rv *RootView) SetBackdrop(img image.Image) {
	if rv != nil && rv.Stage != nil {
		rv.Stage.SetBackdrop(img)
	}
}

// --- ActivityView ---

func (rv *RootView) SetActivity(current, total time.Duration, gestures int) {
	if rv != nil && rv.Readout != nil {
		rv.Readout.SetActivity(current, total, gestures)
	}
}

// --- ReportView ---

func (rv *RootView) SetReports(labels []string, selected int) {
	if rv == nil || rv.ReportSelect == nil {
		return
	}
	rv.reports = len(labels)
	if len(labels) == 0 {
		rv.ReportSelect.Configure(Values([]string{"<default>"}))
		rv.ReportSelect.Current(0)
		return
	}
	rv.ReportSelect.Configure(Values(labels))
	if selected >= 0 {
		rv.ReportSelect.Current(selected)
	}
}

func (rv *RootView) SetReportStatus(text string) {
	if rv != nil && rv.ReportStatus != nil {
		rv.ReportStatus.Configure(Txt(text))
	}
}

// --- calibration.Hints / calibration.PointerTracker ---

// SuppressSelection locks the form while a gesture runs so the drag cannot
// select or edit its text.
func (rv *RootView) SuppressSelection(on bool) {
	if rv == nil || rv.ConfigPanel == nil {
		return
	}
	rv.ConfigPanel.SetEditable(!on && rv.editable)
}

func (rv *RootView) SetCursor(kind gesture.Kind, on bool) {
	if rv != nil && rv.Stage != nil {
		rv.Stage.SetCursor(kind, on)
	}
}

func (rv *RootView) Acquire() func() {
	if rv == nil || rv.Stage == nil {
		return func() {}
	}
	return rv.Stage.Acquire()
}
