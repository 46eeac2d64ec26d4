//go:build !windows

package host

import (
	"errors"
	"image"
)

var errUnsupported = errors.New("window lookup is only supported on windows")

func listWindows() ([]string, error) { return nil, errUnsupported }

func windowRect(string) (image.Rectangle, error) { return image.Rectangle{}, errUnsupported }

func cursorPos() (image.Point, error) { return image.Point{}, errUnsupported }
