package compositor

import (
	"image"
	"math"
	"sort"

	"github.com/soocke/overlay-calibrator/domain/geometry"
	"github.com/soocke/overlay-calibrator/domain/gesture"
)

// Box is a pixel bounding box with a floating point origin and extent.
type Box struct {
	X, Y, W, H float64
}

// BoxFromRect converts an integer rectangle into a Box.
func BoxFromRect(r image.Rectangle) Box {
	return Box{X: float64(r.Min.X), Y: float64(r.Min.Y), W: float64(r.Dx()), H: float64(r.Dy())}
}

// Rect rounds the box to integer pixel coordinates.
func (b Box) Rect() image.Rectangle {
	x0, y0 := int(math.Round(b.X)), int(math.Round(b.Y))
	x1, y1 := int(math.Round(b.X+b.W)), int(math.Round(b.Y+b.H))
	return image.Rect(x0, y0, x1, y1)
}

// Size returns the box extent.
func (b Box) Size() geometry.Size { return geometry.Size{W: b.W, H: b.H} }

// Local returns a point relative to the box origin.
func (b Box) Local(x, y float64) geometry.Point { return geometry.Point{X: x - b.X, Y: y - b.Y} }

// Layout scales the percentage rectangle r by the host box and offsets it by the
// host origin.
func Layout(host Box, r geometry.Rect) Box {
	return Box{
		X: host.X + r.Left*host.W/100,
		Y: host.Y + r.Top*host.H/100,
		W: r.Width * host.W / 100,
		H: r.Height * host.H / 100,
	}
}

// ToRect is the inverse of Layout: it expresses a pixel box as percentages of the
// host. An empty host yields the zero rectangle.
func ToRect(host Box, b Box) geometry.Rect {
	if host.W <= 0 || host.H <= 0 {
		return geometry.Rect{}
	}
	return geometry.Rect{
		Top:    (b.Y - host.Y) * 100 / host.H,
		Left:   (b.X - host.X) * 100 / host.W,
		Width:  b.W * 100 / host.W,
		Height: b.H * 100 / host.H,
	}
}

// Layer identifies one of the composited regions.
type Layer int

const (
	LayerHost Layer = iota
	LayerOverlay
	LayerAffordance
)

func (l Layer) String() string {
	switch l {
	case LayerHost:
		return "host"
	case LayerOverlay:
		return "overlay"
	case LayerAffordance:
		return "affordance"
	default:
		return "unknown"
	}
}

// Placement is a layer with its resolved stacking order.
type Placement struct {
	Layer Layer
	Z     int
}

// Stack returns the layers bottom to top. The host sits at the bottom, the overlay
// above it at zIndex (raised if needed), and calibration affordances above both
// while calibrating.
func Stack(zIndex int, calibrating bool) []Placement {
	hostZ := 0
	overlayZ := zIndex
	if overlayZ <= hostZ {
		overlayZ = hostZ + 1
	}
	out := []Placement{{Layer: LayerHost, Z: hostZ}, {Layer: LayerOverlay, Z: overlayZ}}
	if calibrating {
		out = append(out, Placement{Layer: LayerAffordance, Z: overlayZ + 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}

// HandleBoxes returns the hit boxes of the drag affordances for an overlay box:
// one square of side size centred on each corner, plus the whole box for move.
func HandleBoxes(overlay Box, size float64) map[gesture.Kind]Box {
	half := size / 2
	corner := func(x, y float64) Box { return Box{X: x - half, Y: y - half, W: size, H: size} }
	right, bottom := overlay.X+overlay.W, overlay.Y+overlay.H
	return map[gesture.Kind]Box{
		gesture.Move:     overlay,
		gesture.ResizeNW: corner(overlay.X, overlay.Y),
		gesture.ResizeNE: corner(right, overlay.Y),
		gesture.ResizeSW: corner(overlay.X, bottom),
		gesture.ResizeSE: corner(right, bottom),
	}
}

// Contains reports whether the point (x, y) lies in b, edges included.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.W && y >= b.Y && y <= b.Y+b.H
}

// HitTest resolves which gesture a pointer-down at (x, y) starts. Corner handles
// win over the move area; ok is false outside every affordance.
func HitTest(handles map[gesture.Kind]Box, x, y float64) (gesture.Kind, bool) {
	for _, k := range []gesture.Kind{gesture.ResizeNW, gesture.ResizeNE, gesture.ResizeSW, gesture.ResizeSE, gesture.Move} {
		if b, ok := handles[k]; ok && b.Contains(x, y) {
			return k, true
		}
	}
	return 0, false
}
