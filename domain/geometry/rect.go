package geometry

import (
	"fmt"
	"math"
)

// DefaultMinExtent is the smallest width/height (in percent) a rectangle may shrink to.
const DefaultMinExtent = 5.0

// epsilon absorbs floating point noise in invariant checks.
const epsilon = 1e-9

// Rect is a rectangle expressed as percentages of a host container's bounding box.
// It is a value type; every operation returns a new Rect.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a pointer position in host container pixel space.
type Point struct{ X, Y float64 }

// Size is the pixel extent of a host container.
type Size struct{ W, H float64 }

// Empty reports whether either dimension is non-positive.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Bottom returns top+height.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Right returns left+width.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Rounded returns r with every field rounded to one decimal place.
func (r Rect) Rounded() Rect {
	return Rect{Top: Round1(r.Top), Left: Round1(r.Left), Width: Round1(r.Width), Height: Round1(r.Height)}
}

func (r Rect) String() string {
	return fmt.Sprintf("top=%.1f left=%.1f width=%.1f height=%.1f", r.Top, r.Left, r.Width, r.Height)
}

// Clamp restricts v to [lo, hi]. When lo > hi the lower bound wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// IsValid reports whether r lies fully inside the container and is at least minExtent wide and tall.
func IsValid(r Rect, minExtent float64) bool {
	if r.Top < -epsilon || r.Left < -epsilon {
		return false
	}
	if r.Bottom() > 100+epsilon || r.Right() > 100+epsilon {
		return false
	}
	return r.Width >= minExtent-epsilon && r.Height >= minExtent-epsilon
}

// Normalize forces r into the invariant: extents are clamped to [minExtent, 100]
// and offsets are pulled back so the rectangle stays inside the container.
func Normalize(r Rect, minExtent float64) Rect {
	minExtent = Clamp(minExtent, 0, 100)
	w := Clamp(r.Width, minExtent, 100)
	h := Clamp(r.Height, minExtent, 100)
	return Rect{
		Top:    Clamp(r.Top, 0, 100-h),
		Left:   Clamp(r.Left, 0, 100-w),
		Width:  w,
		Height: h,
	}
}

// Round1 rounds v to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
