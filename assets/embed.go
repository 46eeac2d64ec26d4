package assets

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/soocke/overlay-calibrator/domain/reports"
)

// SeedReportsJSON holds the demo report descriptors served by `reports serve`.
//
//go:embed seed_reports.json
var SeedReportsJSON []byte

// SeedReports decodes the embedded descriptors. Entries without an ID get one.
func SeedReports() ([]reports.Descriptor, error) {
	if len(SeedReportsJSON) == 0 {
		return nil, fmt.Errorf("embedded seed_reports.json is empty")
	}
	ds, err := reports.DecodeDescriptors(bytes.NewReader(SeedReportsJSON))
	if err != nil {
		return nil, fmt.Errorf("decode seed reports: %w", err)
	}
	return reports.AssignIDs(ds), nil
}
