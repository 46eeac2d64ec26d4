package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

var sample = []Descriptor{
	{ID: "a", ExternalReportID: "rep-1", ExternalWorkspaceID: "ws-1", DisplayName: strPtr("Sales"), Role: "viewer"},
	{ID: "b", ExternalReportID: "rep-2", ExternalWorkspaceID: "ws-1", Role: "editor"},
}

func TestDescriptor_Label(t *testing.T) {
	if sample[0].Label() != "Sales" || sample[1].Label() != "rep-2" {
		t.Fatalf("unexpected labels %q %q", sample[0].Label(), sample[1].Label())
	}
}

func TestHandler_ListAndGet(t *testing.T) {
	srv := httptest.NewServer(NewHandler(NewMemoryStore(sample...), nil))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	got, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("unexpected list %+v", got)
	}
	if got[1].DisplayName != nil {
		t.Fatalf("missing display name should stay nil")
	}

	resp, err := http.Get(srv.URL + "/reports/b")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var d Descriptor
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil || d.ExternalReportID != "rep-2" {
		t.Fatalf("unexpected descriptor %+v err=%v", d, err)
	}

	resp404, err := http.Get(srv.URL + "/reports/zzz")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	resp404.Body.Close()
	if resp404.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp404.StatusCode)
	}
}

func TestHandler_SeedAssignsIDs(t *testing.T) {
	store := NewMemoryStore()
	srv := httptest.NewServer(NewHandler(store, nil))
	defer srv.Close()

	body, _ := json.Marshal([]Descriptor{{ExternalReportID: "r", ExternalWorkspaceID: "w", Role: "viewer"}, {ID: "fixed", ExternalReportID: "s"}})
	resp, err := http.Post(srv.URL+"/reports/seed", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	list := store.List()
	if len(list) != 2 || list[0].ID == "" || list[1].ID != "fixed" {
		t.Fatalf("unexpected store content %+v", list)
	}

	bad, err := http.Post(srv.URL+"/reports/seed", "application/json", bytes.NewReader([]byte(`{"nope":1}`)))
	if err != nil {
		t.Fatalf("bad seed: %v", err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", bad.StatusCode)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(sample)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	c.Delay = time.Millisecond
	got, err := c.List(context.Background())
	if err != nil || len(got) != 2 {
		t.Fatalf("expected success after retries, got %v err=%v", got, err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	c.Delay = time.Millisecond
	if _, err := c.List(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("4xx must not be retried, got %d calls", calls.Load())
	}
}

func TestMemoryStore_ReplaceKeepsOrder(t *testing.T) {
	s := NewMemoryStore(sample...)
	s.Put(Descriptor{ID: "a", ExternalReportID: "rep-1b"})
	list := s.List()
	if list[0].ID != "a" || list[0].ExternalReportID != "rep-1b" || len(list) != 2 {
		t.Fatalf("unexpected %+v", list)
	}
	if _, err := s.Get("missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
