package model

import (
	"sync/atomic"

	"github.com/soocke/overlay-calibrator/domain/geometry"
)

type stageSize struct{ w, h int }

// StageModel tracks the pixel size of the stage the host backdrop is drawn into.
// The zero value has no size and is usable. Safe for concurrent use because the
// calibration session reads it while the host presenter updates it.
type StageModel struct {
	size atomic.Pointer[stageSize]
}

// SetSize stores w x h and reports whether it differs from the previous size.
// Non-positive dimensions clear the size.
func (m *StageModel) SetSize(w, h int) bool {
	if m == nil {
		return false
	}
	if w <= 0 || h <= 0 {
		w, h = 0, 0
	}
	prev := m.size.Load()
	if prev != nil && prev.w == w && prev.h == h {
		return false
	}
	if prev == nil && w == 0 && h == 0 {
		return false
	}
	m.size.Store(&stageSize{w: w, h: h})
	return true
}

// Pixels returns the current size in whole pixels.
func (m *StageModel) Pixels() (w, h int) {
	if m == nil {
		return 0, 0
	}
	s := m.size.Load()
	if s == nil {
		return 0, 0
	}
	return s.w, s.h
}

// Size returns the current size as a geometry.Size.
func (m *StageModel) Size() geometry.Size {
	w, h := m.Pixels()
	return geometry.Size{W: float64(w), H: float64(h)}
}
