package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates on the UI thread.
//
// It calls Tick on the sub-presenters and invokes a scheduler callback.
// The zero value is usable (methods are nil-safe).
type Loop struct {
	Host     *HostPresenter
	Overlay  *OverlayPresenter
	Activity *ActivityPresenter
	Reports  *ReportPresenter
	Schedule func()
}

func NewLoop(host *HostPresenter, overlay *OverlayPresenter, activity *ActivityPresenter, reports *ReportPresenter, schedule func()) *Loop {
	return &Loop{Host: host, Overlay: overlay, Activity: activity, Reports: reports, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	// Host first so the overlay lays out against the newest stage size.
	l.Host.Tick(now)
	l.Overlay.Tick(now)
	l.Activity.Tick(now)
	l.Reports.Tick(now)
	if l.Schedule != nil {
		l.Schedule()
	}
}
