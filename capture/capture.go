package capture

import (
	"errors"
	"image"

	"github.com/vova616/screenshot"
)

// Screen returns the bounds of the primary screen.
func Screen() (image.Rectangle, error) {
	return screenshot.ScreenRect()
}

// Grab returns a screen capture of the whole primary screen.
func Grab() (*image.RGBA, error) {
	return screenshot.CaptureScreen()
}

// GrabRect captures the given screen rectangle, clipped to the screen.
func GrabRect(area image.Rectangle) (*image.RGBA, error) {
	if screen, err := screenshot.ScreenRect(); err == nil {
		area = area.Intersect(screen)
	}
	if area.Empty() {
		return nil, errors.New("capture area is empty")
	}
	return screenshot.CaptureRect(area)
}
