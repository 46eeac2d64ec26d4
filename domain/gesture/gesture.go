package gesture

import (
	"fmt"
	"strings"

	"github.com/soocke/overlay-calibrator/domain/geometry"
)

// Kind enumerates the pointer gestures that can edit the overlay rectangle.
type Kind int

const (
	Move Kind = iota
	ResizeNW
	ResizeNE
	ResizeSW
	ResizeSE
)

// Kinds lists every gesture kind in a stable order.
var Kinds = []Kind{Move, ResizeNW, ResizeNE, ResizeSW, ResizeSE}

func (k Kind) String() string {
	switch k {
	case Move:
		return "move"
	case ResizeNW:
		return "resize-nw"
	case ResizeNE:
		return "resize-ne"
	case ResizeSW:
		return "resize-sw"
	case ResizeSE:
		return "resize-se"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(strings.TrimSpace(s), k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown gesture kind %q", s)
}

// State is the transient record of one pointer-down to pointer-up interaction.
// AnchorRect is a copy taken at gesture start and never changes afterwards.
type State struct {
	Kind          Kind
	AnchorPointer geometry.Point
	AnchorRect    geometry.Rect
	AnchorSize    geometry.Size
}

// ApplyDelta computes the rectangle produced by moving the pointer (dx, dy) percent
// away from where the gesture started. It always works from the anchor snapshot, so
// the result depends only on its arguments. Out of range deltas are clamped.
func ApplyDelta(kind Kind, anchor geometry.Rect, dx, dy, minExtent float64) geometry.Rect {
	out := anchor
	switch kind {
	case Move:
		out.Top = geometry.Clamp(anchor.Top+dy, 0, 100-anchor.Height)
		out.Left = geometry.Clamp(anchor.Left+dx, 0, 100-anchor.Width)
	case ResizeSE:
		out.Width = growFar(anchor.Left, anchor.Width, dx, minExtent)
		out.Height = growFar(anchor.Top, anchor.Height, dy, minExtent)
	case ResizeSW:
		out.Left, out.Width = growNear(anchor.Left, anchor.Width, dx, minExtent)
		out.Height = growFar(anchor.Top, anchor.Height, dy, minExtent)
	case ResizeNE:
		out.Width = growFar(anchor.Left, anchor.Width, dx, minExtent)
		out.Top, out.Height = growNear(anchor.Top, anchor.Height, dy, minExtent)
	case ResizeNW:
		out.Left, out.Width = growNear(anchor.Left, anchor.Width, dx, minExtent)
		out.Top, out.Height = growNear(anchor.Top, anchor.Height, dy, minExtent)
	}
	return out
}

// growFar moves the far edge (right/bottom) of an axis; the near edge stays put.
func growFar(edge, extent, d, minExtent float64) float64 {
	return geometry.Clamp(extent+d, minExtent, 100-edge)
}

// growNear moves the near edge (left/top) of an axis; the far edge stays put.
func growNear(edge, extent, d, minExtent float64) (newEdge, newExtent float64) {
	newExtent = geometry.Clamp(extent-d, minExtent, edge+extent)
	return edge + (extent - newExtent), newExtent
}

// PercentDelta converts the pixel displacement between two pointer positions into
// percentages of the container size. An empty container yields no movement.
func PercentDelta(from, to geometry.Point, size geometry.Size) (dx, dy float64) {
	if size.Empty() {
		return 0, 0
	}
	return (to.X - from.X) * 100 / size.W, (to.Y - from.Y) * 100 / size.H
}
