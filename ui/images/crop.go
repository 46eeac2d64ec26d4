package images

import (
	"errors"
	"image"

	"golang.org/x/image/draw"
)

// Crop copies the part of frame covered by r (frame-relative) into a new image.
// r is clipped to the frame bounds; an empty intersection is an error.
func Crop(frame image.Image, r image.Rectangle) (*image.RGBA, error) {
	if frame == nil {
		return nil, errors.New("nil frame")
	}
	b := frame.Bounds()
	area := r.Add(b.Min).Intersect(b)
	if area.Empty() {
		return nil, errors.New("crop area outside frame")
	}
	out := image.NewRGBA(image.Rect(0, 0, area.Dx(), area.Dy()))
	draw.Draw(out, out.Bounds(), frame, area.Min, draw.Src)
	return out, nil
}
