package model

import (
	"sync"

	"github.com/soocke/overlay-calibrator/domain/reports"
)

// ReportModel holds the fetched report list and the selected report.
// Fetches complete off the UI thread, so access is guarded by a mutex.
type ReportModel struct {
	mu       sync.Mutex
	reports  []reports.Descriptor
	selected string
	version  uint64
	err      error
}

func NewReportModel() *ReportModel { return &ReportModel{} }

// SetReports replaces the list. A selection that no longer exists is cleared.
func (m *ReportModel) SetReports(ds []reports.Descriptor) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append([]reports.Descriptor(nil), ds...)
	m.err = nil
	m.version++
	if m.selected != "" && m.indexLocked(m.selected) < 0 {
		m.selected = ""
	}
}

// SetError records a failed fetch; the previous list is kept.
func (m *ReportModel) SetError(err error) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	m.version++
}

// Reports returns a copy of the list, a version that increases on every update
// and the last fetch error.
func (m *ReportModel) Reports() ([]reports.Descriptor, uint64, error) {
	if m == nil {
		return nil, 0, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]reports.Descriptor(nil), m.reports...), m.version, m.err
}

// Select marks the report at index i as selected and returns it.
func (m *ReportModel) Select(i int) (reports.Descriptor, bool) {
	if m == nil {
		return reports.Descriptor{}, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.reports) {
		return reports.Descriptor{}, false
	}
	m.selected = m.reports[i].ID
	return m.reports[i], true
}

// Selected returns the selected report ID, or "" when none is selected.
func (m *ReportModel) Selected() string {
	if m == nil {
		return ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

func (m *ReportModel) indexLocked(id string) int {
	for i, d := range m.reports {
		if d.ID == id {
			return i
		}
	}
	return -1
}
