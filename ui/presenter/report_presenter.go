package presenter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/overlay-calibrator/domain/calibration"
	"github.com/soocke/overlay-calibrator/domain/filtersync"
	"github.com/soocke/overlay-calibrator/domain/reports"
	"github.com/soocke/overlay-calibrator/ui/model"
)

// ReportLister fetches report descriptors.
type ReportLister interface {
	List(ctx context.Context) ([]reports.Descriptor, error)
}

// ProfileSource resolves the overlay props for a report.
type ProfileSource interface {
	ProfileFor(reportID string) calibration.Props
}

// Reseeder accepts new external overlay props.
type Reseeder interface {
	Reseed(calibration.Props)
}

// SelectionPublisher forwards a widget selection to the filter bridge.
type SelectionPublisher interface {
	Publish(filtersync.Selection) bool
}

// ReportView shows the report picker.
type ReportView interface {
	SetReports(labels []string, selected int)
	SetReportStatus(text string)
}

// ReportField is the selection field published when a report is picked.
const ReportField = "report"

// ReportPresenter loads the report list in the background and applies the
// selected report's overlay profile to the session.
type ReportPresenter struct {
	lister    ReportLister
	model     *model.ReportModel
	profiles  ProfileSource
	session   Reseeder
	view      ReportView
	publisher SelectionPublisher
	logger    *slog.Logger
	timeout   time.Duration

	fetching atomic.Bool
	wg       sync.WaitGroup
	seen     uint64
}

func NewReportPresenter(lister ReportLister, m *model.ReportModel, profiles ProfileSource, session Reseeder, view ReportView, publisher SelectionPublisher, logger *slog.Logger) *ReportPresenter {
	return &ReportPresenter{lister: lister, model: m, profiles: profiles, session: session, view: view, publisher: publisher, logger: logger, timeout: 30 * time.Second}
}

// Refresh starts a background fetch unless one is already running.
func (p *ReportPresenter) Refresh(ctx context.Context) {
	if p == nil || p.lister == nil || p.model == nil {
		return
	}
	if p.fetching.Swap(true) {
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.fetching.Store(false)
		defer recoverLog(p.logger, "report fetch panic")
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		ds, err := p.lister.List(ctx)
		if err != nil {
			if p.logger != nil {
				p.logger.Warn("report list failed", "error", err)
			}
			p.model.SetError(err)
			return
		}
		p.model.SetReports(ds)
	}()
}

// Wait blocks until a running fetch has finished.
func (p *ReportPresenter) Wait() {
	if p != nil {
		p.wg.Wait()
	}
}

// Tick pushes a changed report list to the view.
func (p *ReportPresenter) Tick(now time.Time) {
	if p == nil || p.model == nil || p.view == nil {
		return
	}
	list, version, err := p.model.Reports()
	if version == p.seen {
		return
	}
	p.seen = version
	if err != nil {
		p.view.SetReportStatus("Reports: " + err.Error())
		return
	}
	labels := make([]string, len(list))
	selected := -1
	sel := p.model.Selected()
	for i, d := range list {
		labels[i] = d.Label()
		if d.ID == sel {
			selected = i
		}
	}
	p.view.SetReports(labels, selected)
	p.view.SetReportStatus(fmt.Sprintf("Reports: %d", len(list)))
}

// Select applies the profile of the report at index i and publishes the selection.
func (p *ReportPresenter) Select(i int) {
	if p == nil || p.model == nil {
		return
	}
	d, ok := p.model.Select(i)
	if !ok {
		return
	}
	if p.session != nil && p.profiles != nil {
		p.session.Reseed(p.profiles.ProfileFor(d.ID))
	}
	if p.publisher != nil {
		p.publisher.Publish(filtersync.Selection{Source: filtersync.Report, Field: ReportField, Values: []string{d.ExternalReportID}})
	}
	if p.logger != nil {
		p.logger.Info("report selected", "id", d.ID, "report", d.ExternalReportID, "role", d.Role)
	}
}

// Selected returns the selected report ID ("" for none).
func (p *ReportPresenter) Selected() string {
	if p == nil || p.model == nil {
		return ""
	}
	return p.model.Selected()
}

func recoverLog(logger *slog.Logger, msg string) {
	if r := recover(); r != nil {
		if logger != nil {
			logger.Error(msg, "error", r)
		}
	}
}
