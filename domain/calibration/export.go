package calibration

import (
	"strconv"
	"strings"

	"github.com/soocke/overlay-calibrator/domain/geometry"
)

// Field is one named configuration value produced by ExportLiteral.
type Field struct {
	Name  string
	Value float64
}

// Literal field names, matching the host page props.
const (
	FieldTop    = "topPercent"
	FieldLeft   = "leftPercent"
	FieldWidth  = "widthPercent"
	FieldHeight = "heightPercent"
)

// ExportLiteral returns the current rectangle as (name, value) pairs rounded to one
// decimal, always in the order top, left, width, height.
func (s *Session) ExportLiteral() []Field {
	return LiteralFields(s.Current())
}

// LiteralFields is ExportLiteral for an arbitrary rectangle.
func LiteralFields(r geometry.Rect) []Field {
	r = r.Rounded()
	return []Field{
		{Name: FieldTop, Value: r.Top},
		{Name: FieldLeft, Value: r.Left},
		{Name: FieldWidth, Value: r.Width},
		{Name: FieldHeight, Value: r.Height},
	}
}

// FormatLiteral renders fields as copy-pasteable `name={value}` lines.
func FormatLiteral(fields []Field) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(f.Name)
		b.WriteString("={")
		b.WriteString(strconv.FormatFloat(f.Value, 'f', 1, 64))
		b.WriteByte('}')
	}
	return b.String()
}

// ParseLiteral reads text produced by FormatLiteral back into props. Unknown names
// and malformed lines are skipped; ok is false when any of the four fields is missing.
func ParseLiteral(text string) (p Props, ok bool) {
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		name, raw, found := strings.Cut(strings.TrimSpace(line), "=")
		if !found {
			continue
		}
		raw = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(raw), "{"), "}")
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			continue
		}
		switch strings.TrimSpace(name) {
		case FieldTop:
			p.TopPercent = v
			seen |= 1
		case FieldLeft:
			p.LeftPercent = v
			seen |= 2
		case FieldWidth:
			p.WidthPercent = v
			seen |= 4
		case FieldHeight:
			p.HeightPercent = v
			seen |= 8
		}
	}
	return p, seen == 15
}
