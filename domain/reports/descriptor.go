package reports

import (
	"encoding/json"
	"errors"
	"io"
	"sync"
)

// ErrNotFound is returned when a report ID is unknown.
var ErrNotFound = errors.New("report not found")

// Descriptor identifies one embeddable report. The external IDs are opaque to this
// program; they select which overlay profile to apply.
type Descriptor struct {
	ID                  string  `json:"id"`
	ExternalReportID    string  `json:"externalReportId"`
	ExternalWorkspaceID string  `json:"externalWorkspaceId"`
	DisplayName         *string `json:"displayName,omitempty"`
	Role                string  `json:"role"`
}

// Label is the human readable name, falling back to the external report ID.
func (d Descriptor) Label() string {
	if d.DisplayName != nil && *d.DisplayName != "" {
		return *d.DisplayName
	}
	return d.ExternalReportID
}

// DecodeDescriptors reads a JSON array of descriptors. Unknown fields are rejected.
func DecodeDescriptors(r io.Reader) ([]Descriptor, error) {
	var ds []Descriptor
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// Store is the listing backend used by the HTTP handler.
type Store interface {
	List() []Descriptor
	Get(id string) (Descriptor, error)
	Put(ds ...Descriptor)
}

// MemoryStore keeps descriptors in insertion order. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]Descriptor
}

// NewMemoryStore returns a store pre-filled with ds.
func NewMemoryStore(ds ...Descriptor) *MemoryStore {
	s := &MemoryStore{byID: make(map[string]Descriptor)}
	s.Put(ds...)
	return s
}

func (s *MemoryStore) List() []Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Descriptor, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

func (s *MemoryStore) Get(id string) (Descriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byID[id]
	if !ok {
		return Descriptor{}, ErrNotFound
	}
	return d, nil
}

// Put inserts or replaces descriptors; replaced entries keep their position.
func (s *MemoryStore) Put(ds ...Descriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range ds {
		if _, exists := s.byID[d.ID]; !exists {
			s.order = append(s.order, d.ID)
		}
		s.byID[d.ID] = d
	}
}
