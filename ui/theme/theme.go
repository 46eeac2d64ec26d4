package theme

// Colors and ttk styles for the calibrator window. InitStyles must run on the
// Tk thread before any styled widget is created.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	ColorBg      = "#f7f9fb"
	ColorPrimary = "#2563eb"
	ColorDanger  = "#dc2626"
	ColorAccent  = "#10b981"

	// Stage layers.
	ColorStage       = "#334155" // shown until the first host snapshot arrives
	ColorOverlay     = "#0ea5e9"
	ColorOverlayEdit = "#f59e0b" // overlay while a gesture runs
	ColorHandle      = "#ffffff"
	ColorReadoutBg   = "#0f172a"
	ColorReadoutFg   = "#f8fafc"
)

// Style names for Style(...).
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleModeLabel     = "mode.TLabel"
	StyleReadoutLabel  = "readout.TLabel"
)

// CursorFor returns the Tk cursor name shown while a gesture of the given kind runs.
func CursorFor(kind string) string {
	switch kind {
	case "move":
		return "fleur"
	case "resize-nw":
		return "top_left_corner"
	case "resize-ne":
		return "top_right_corner"
	case "resize-sw":
		return "bottom_left_corner"
	case "resize-se":
		return "bottom_right_corner"
	default:
		return ""
	}
}

// InitStyles activates the base theme and configures the named styles.
func InitStyles() {
	_ = ActivateTheme("azure light")
	App.Configure(Background(ColorBg))

	StyleConfigure(StylePrimaryButton, Background(ColorPrimary), Foreground("white"), Padding("4p 3p"), Borderwidth(1), Relief("ridge"))
	StyleConfigure(StyleDangerButton, Background(ColorDanger), Foreground("white"), Padding("4p 3p"), Borderwidth(1), Relief("ridge"))
	StyleConfigure(StyleModeLabel, Foreground("white"), Background(ColorAccent), Padding("4p 2p"), Borderwidth(1), Relief("groove"))
	StyleConfigure(StyleReadoutLabel, Foreground(ColorReadoutFg), Background(ColorReadoutBg), Padding("3p 1p"))
}
