package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"

	"github.com/soocke/overlay-calibrator/ui/theme"
)

// ReadoutPanel shows the calibration mode, time spent calibrating and the
// live export text.
type ReadoutPanel interface {
	SetMode(text string)
	SetActivity(current, total time.Duration, gestures int)
	SetLiteral(text string)
}

type readoutPanel struct {
	modeLbl     *TLabelWidget
	activityLbl *LabelWidget
	literal     *TextWidget
	lastLiteral string
}

// NewReadoutPanel creates the labels inside parent at (row, startCol) and the
// export text below them.
func NewReadoutPanel(parent *FrameWidget, row, startCol int) ReadoutPanel {
	p := &readoutPanel{
		modeLbl:     parent.TLabel(Width(18), Anchor("w"), Style(theme.StyleModeLabel)),
		activityLbl: parent.Label(Width(34), Anchor("w")),
		literal:     parent.Text(Height(4), Width(26)),
	}
	Grid(p.modeLbl, Row(row), Column(startCol), Sticky("w"), Padx("0.2m"))
	Grid(p.activityLbl, Row(row), Column(startCol+1), Sticky("w"), Padx("0.2m"))
	Grid(p.literal, Row(row+1), Column(startCol), Columnspan(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	p.modeLbl.Configure(Txt("Mode: view"))
	p.SetActivity(0, 0, 0)
	return p
}

func (p *readoutPanel) SetMode(text string) {
	if p == nil || p.modeLbl == nil {
		return
	}
	p.modeLbl.Configure(Txt(text))
}

func (p *readoutPanel) SetActivity(current, total time.Duration, gestures int) {
	if p == nil || p.activityLbl == nil {
		return
	}
	p.activityLbl.Configure(Txt(fmt.Sprintf("Calibrating: %s  Total: %s  Edits: %d", clock(current), clock(total), gestures)))
}

// SetLiteral replaces the export text; the widget stays selectable for manual copy.
func (p *readoutPanel) SetLiteral(text string) {
	if p == nil || p.literal == nil || text == p.lastLiteral {
		return
	}
	p.lastLiteral = text
	p.literal.Configure(State("normal"))
	p.literal.Delete("1.0", END)
	p.literal.Insert("1.0", text)
	p.literal.Configure(State("disabled"))
}

func clock(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
