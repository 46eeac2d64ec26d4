package host

import (
	"image"

	"github.com/soocke/overlay-calibrator/domain/geometry"
)

// CursorPos returns the mouse pointer in screen coordinates.
func CursorPos() (image.Point, error) { return cursorPos() }

// PointerMapper converts screen pointer positions into stage coordinates for one
// drag. Anchor fixes the stage's screen offset at press time; Map then ignores
// where the pressed widget currently sits, which may lag behind its placement.
// Without a cursor source Map returns the fallback point.
type PointerMapper struct {
	Cursor func() (image.Point, error)

	offset   image.Point
	anchored bool
}

// NewPointerMapper returns a mapper reading the system cursor.
func NewPointerMapper() *PointerMapper {
	return &PointerMapper{Cursor: CursorPos}
}

// Anchor records that the cursor currently sits at stage point p.
func (m *PointerMapper) Anchor(p geometry.Point) {
	if m == nil {
		return
	}
	m.anchored = false
	if m.Cursor == nil {
		return
	}
	c, err := m.Cursor()
	if err != nil {
		return
	}
	m.offset = image.Pt(c.X-int(p.X), c.Y-int(p.Y))
	m.anchored = true
}

// Map returns the stage point under the cursor, or fallback when unanchored or
// the cursor cannot be read.
func (m *PointerMapper) Map(fallback geometry.Point) geometry.Point {
	if m == nil || !m.anchored || m.Cursor == nil {
		return fallback
	}
	c, err := m.Cursor()
	if err != nil {
		return fallback
	}
	return geometry.Point{X: float64(c.X - m.offset.X), Y: float64(c.Y - m.offset.Y)}
}

// Release drops the anchor.
func (m *PointerMapper) Release() {
	if m != nil {
		m.anchored = false
	}
}
