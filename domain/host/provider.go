package host

import (
	"errors"
	"image"
	"strings"
)

// ErrWindowNotFound is returned when no visible window matches the configured title.
var ErrWindowNotFound = errors.New("host window not found")

// Provider reports where the host viewport currently sits on screen.
type Provider interface {
	Bounds() (image.Rectangle, error)
}

// StaticProvider is a fixed screen rectangle.
type StaticProvider struct {
	Rect image.Rectangle
}

// Bounds returns the configured rectangle, or an error if it is empty.
func (p StaticProvider) Bounds() (image.Rectangle, error) {
	if p.Rect.Empty() {
		return image.Rectangle{}, errors.New("host rectangle is empty")
	}
	return p.Rect, nil
}

// WindowProvider follows a top-level window by title (case-insensitive).
type WindowProvider struct {
	Title string
}

// Bounds returns the window's outer rectangle in screen coordinates.
func (p WindowProvider) Bounds() (image.Rectangle, error) {
	title := normalizeTitle(p.Title)
	if title == "" {
		return image.Rectangle{}, ErrWindowNotFound
	}
	return windowRect(title)
}

// ListWindows returns titles of top-level visible windows. Empty titles are skipped.
func ListWindows() ([]string, error) { return listWindows() }

// NewProvider picks a WindowProvider when a title is set, otherwise the fixed rectangle.
func NewProvider(title string, fallback image.Rectangle) Provider {
	if strings.TrimSpace(title) != "" {
		return WindowProvider{Title: title}
	}
	return StaticProvider{Rect: fallback}
}

func normalizeTitle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
