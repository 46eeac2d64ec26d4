package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/overlay-calibrator/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the configuration form widgets and apply logic.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
type ConfigPanel interface {
	Build(parent *FrameWidget, startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges() // parses widget text into underlying config and persists
	// Refresh rewrites the fields from the config.
	Refresh()
}

type configPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget // keyed by internal field id
	onApply  func(*config.Config)
}

// NewConfigPanel creates the view bound to cfg. onApply runs after a successful apply.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, onApply func(*config.Config)) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, widgets: make(map[string]*TextWidget), onApply: onApply}
}

// fieldValues renders the editable config fields in display order.
func fieldValues(c *config.Config) [][3]string {
	return [][3]string{
		{"top", "Top %", fmt.Sprintf("%.1f", c.TopPercent)},
		{"left", "Left %", fmt.Sprintf("%.1f", c.LeftPercent)},
		{"width", "Width %", fmt.Sprintf("%.1f", c.WidthPercent)},
		{"height", "Height %", fmt.Sprintf("%.1f", c.HeightPercent)},
		{"zIndex", "Overlay Z-Index", strconv.Itoa(c.ZIndex)},
		{"minExtent", "Min Extent %", fmt.Sprintf("%.1f", c.MinExtent)},
		{"handleSize", "Handle Size Px", strconv.Itoa(c.HandleSizePx)},
		{"reportsURL", "Reports URL", c.ReportsURL},
	}
}

func (v *configPanel) Build(parent *FrameWidget, startRow int) (row int) {
	row = startRow
	for _, f := range fieldValues(v.cfg) {
		lbl := parent.Label(Txt(f[1]), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := parent.Text(Height(1), Width(22))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", f[2])
		v.widgets[f[0]] = w
		row++
	}
	v.applyBtn = parent.Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) Refresh() {
	if v.cfg == nil {
		return
	}
	for _, f := range fieldValues(v.cfg) {
		if w := v.widgets[f[0]]; w != nil {
			w.Delete("1.0", END)
			w.Insert("1.0", f[2])
		}
	}
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	parts := w.Get("1.0", END)
	return strings.Join(parts, "")
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg // copy
	assignFloat := func(id string, dst *float64) {
		if f, ok := parseFloatField(v.text(v.widgets[id])); ok {
			*dst = f
		}
	}
	assignInt := func(id string, dst *int) {
		if i, ok := parseIntField(v.text(v.widgets[id])); ok {
			*dst = i
		}
	}
	assignFloat("top", &cfg.TopPercent)
	assignFloat("left", &cfg.LeftPercent)
	assignFloat("width", &cfg.WidthPercent)
	assignFloat("height", &cfg.HeightPercent)
	assignInt("zIndex", &cfg.ZIndex)
	assignFloat("minExtent", &cfg.MinExtent)
	assignInt("handleSize", &cfg.HandleSizePx)
	if val := strings.TrimSpace(v.text(v.widgets["reportsURL"])); val != "" {
		cfg.ReportsURL = val
	}
	if verr := cfg.Validate(); verr != nil {
		return
	}
	*v.cfg = cfg
	v.Refresh() // show clamped values
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
	if v.onApply != nil {
		v.onApply(v.cfg)
	}
}

// parsing helpers (unexported)
func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
