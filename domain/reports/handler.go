package reports

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// NewHandler serves the report listing API backed by store:
//
//	GET  /reports        ordered descriptor list
//	GET  /reports/{id}   one descriptor
//	POST /reports/seed   insert descriptors; entries without an id get a fresh UUID
func NewHandler(store Store, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	if logger != nil {
		r.Use(requestLogger(logger))
	}
	r.Route("/reports", func(r chi.Router) {
		r.Get("/", listReports(store))
		r.Post("/seed", seedReports(store))
		r.Get("/{id}", getReport(store))
	})
	return r
}

func listReports(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.List())
	}
}

func getReport(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := store.Get(chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, err)
			return
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func seedReports(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, err := DecodeDescriptors(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, err)
			return
		}
		ds = AssignIDs(ds)
		store.Put(ds...)
		writeJSON(w, http.StatusCreated, ds)
	}
}

// AssignIDs gives every descriptor without an ID a random UUID.
func AssignIDs(ds []Descriptor) []Descriptor {
	out := make([]Descriptor, len(ds))
	for i, d := range ds {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		out[i] = d
	}
	return out
}

// writeJSON writes v with the given status; errors are wrapped as {"error": "..."}.
func writeJSON(w http.ResponseWriter, code int, v any) {
	if err, ok := v.(error); ok {
		v = map[string]string{"error": err.Error()}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}
