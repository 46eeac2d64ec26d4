package presenter

import (
	"time"

	"github.com/soocke/overlay-calibrator/ui/model"
)

// ActiveSource reports whether calibration mode is on.
type ActiveSource interface{ Active() bool }

// ActivityView displays calibration time and gesture count.
type ActivityView interface {
	SetActivity(current, total time.Duration, gestures int)
}

// ActivityPresenter advances the activity clock and pushes it to the view.
type ActivityPresenter struct {
	model  *model.ActivityModel
	source ActiveSource
	view   ActivityView
}

// NewActivityPresenter returns a new ActivityPresenter.
func NewActivityPresenter(m *model.ActivityModel, source ActiveSource, view ActivityView) *ActivityPresenter {
	return &ActivityPresenter{model: m, source: source, view: view}
}

// Tick advances the model and pushes values to the view.
func (p *ActivityPresenter) Tick(now time.Time) {
	if p == nil || p.model == nil || p.source == nil || p.view == nil {
		return
	}
	p.model.OnTick(p.source.Active(), now)
	cur, total, n := p.model.Values()
	p.view.SetActivity(cur, total, n)
}
