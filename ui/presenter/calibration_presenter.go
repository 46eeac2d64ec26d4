package presenter

import (
	"log/slog"

	"github.com/soocke/overlay-calibrator/domain/calibration"
	"github.com/soocke/overlay-calibrator/domain/geometry"
)

// CalibrationSession narrows the session operations the presenter drives.
type CalibrationSession interface {
	Active() bool
	SetActive(bool)
	Current() geometry.Rect
	ExportLiteral() []calibration.Field
}

// CalibrationView updates UI elements affected by toggling calibration mode.
type CalibrationView interface {
	ConfigEditable(bool)
	SetModeLabel(string)
}

// ProfileSaver persists overlay props for a report ("" is the default profile).
type ProfileSaver interface {
	SaveProfile(reportID string, p calibration.Props) error
}

// CalibrationPresenter owns presentation logic for calibration mode, exporting
// the current rectangle and saving it as a profile.
type CalibrationPresenter struct {
	session CalibrationSession
	view    CalibrationView
	saver   ProfileSaver
	logger  *slog.Logger

	// Clipboard receives exported text; nil disables copying.
	Clipboard func(string) error
	// Report returns the selected report ID; nil means the default profile.
	Report func() string
}

func NewCalibrationPresenter(session CalibrationSession, view CalibrationView, saver ProfileSaver, logger *slog.Logger) *CalibrationPresenter {
	return &CalibrationPresenter{session: session, view: view, saver: saver, logger: logger}
}

// Enable turns calibration mode on and locks the config form. Idempotent.
func (c *CalibrationPresenter) Enable() {
	if c == nil || c.session == nil || c.view == nil {
		return
	}
	if c.session.Active() {
		return
	}
	c.session.SetActive(true)
	c.view.ConfigEditable(false)
	c.view.SetModeLabel("Mode: calibrating")
}

// Disable turns calibration mode off, keeping the current rectangle. Idempotent.
func (c *CalibrationPresenter) Disable() {
	if c == nil || c.session == nil || c.view == nil {
		return
	}
	if !c.session.Active() {
		return
	}
	c.session.SetActive(false)
	c.view.ConfigEditable(true)
	c.view.SetModeLabel("Mode: view")
}

// Toggle flips calibration mode delegating to Enable/Disable.
func (c *CalibrationPresenter) Toggle() {
	if c == nil || c.session == nil || c.view == nil {
		return
	}
	if c.session.Active() {
		c.Disable()
		return
	}
	c.Enable()
}

// ExportText returns the current rectangle as name={value} lines.
func (c *CalibrationPresenter) ExportText() string {
	if c == nil || c.session == nil {
		return ""
	}
	return calibration.FormatLiteral(c.session.ExportLiteral())
}

// Copy puts ExportText on the clipboard. Clipboard failures are logged and ignored.
func (c *CalibrationPresenter) Copy() {
	if c == nil || c.Clipboard == nil {
		return
	}
	text := c.ExportText()
	if text == "" {
		return
	}
	if err := c.Clipboard(text); err != nil {
		if c.logger != nil {
			c.logger.Debug("clipboard write failed", "error", err)
		}
		return
	}
	if c.logger != nil {
		c.logger.Info("overlay config copied", "text", text)
	}
}

// SaveProfile stores the current rectangle, rounded to one decimal, for the selected report.
func (c *CalibrationPresenter) SaveProfile() error {
	if c == nil || c.session == nil || c.saver == nil {
		return nil
	}
	id := ""
	if c.Report != nil {
		id = c.Report()
	}
	p := calibration.PropsFromRect(c.session.Current().Rounded())
	if err := c.saver.SaveProfile(id, p); err != nil {
		if c.logger != nil {
			c.logger.Error("profile save failed", "report", id, "error", err)
		}
		return err
	}
	if c.logger != nil {
		c.logger.Info("profile saved", "report", id, "rect", p.Rect().String())
	}
	return nil
}
