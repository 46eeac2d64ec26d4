package model

import (
	"time"
)

// ActivityModel tracks how long calibration mode has been on, in the current
// stretch and in total, plus how many gestures were committed.
// Presenters poll Values() and update views. The zero value is ready to use.
type ActivityModel struct {
	active      bool
	since       time.Time
	current     time.Duration
	accumulated time.Duration
	gestures    int
}

// NewActivityModel returns a ready-to-use ActivityModel.
func NewActivityModel() *ActivityModel { return &ActivityModel{} }

// OnTick advances the clocks for the given calibration state at now.
func (m *ActivityModel) OnTick(calibrating bool, now time.Time) {
	if m == nil {
		return
	}
	switch {
	case calibrating && !m.active:
		m.active = true
		m.since = now
		m.current = 0
	case calibrating:
		m.current = now.Sub(m.since)
	case m.active:
		m.current = now.Sub(m.since)
		m.accumulated += m.current
		m.active = false
	}
}

// CountGesture records one finished gesture.
func (m *ActivityModel) CountGesture() {
	if m == nil {
		return
	}
	m.gestures++
}

// Values returns the current stretch, the total including it, and the gesture count.
func (m *ActivityModel) Values() (current, total time.Duration, gestures int) {
	if m == nil {
		return 0, 0, 0
	}
	current = m.current
	total = m.accumulated
	if m.active {
		total += current
	}
	return current, total, m.gestures
}
