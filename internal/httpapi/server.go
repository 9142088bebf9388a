package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/perfprobe/internal/httpapi/middleware"
	"github.com/hamed0406/perfprobe/internal/repo"
)

// Server exposes the run history read-only over HTTP.
type Server struct {
	Logger *zap.Logger
	Store  repo.ReportStore
}

func NewServer(l *zap.Logger, store repo.ReportStore) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Store: store}
}

// Options guard the /api routes. Zero values leave them open and unlimited.
type Options struct {
	APIKeys    []string
	RatePerMin int
	RateBurst  int
}

func (s *Server) Router(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/runs", func(r chi.Router) {
		r.Use(apimw.RateLimit(opts.RatePerMin, opts.RateBurst))
		r.Use(apimw.RequireKey(opts.APIKeys))

		r.Get("/", s.handleListRuns)
		r.Get("/latest", s.handleLatestRun)
		r.Get("/{id}", s.handleGetRun)
	})

	return r
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad limit")
		return
	}
	runs, err := s.Store.List(r.Context(), limit)
	if err != nil {
		s.Logger.Error("list_runs_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list error")
		return
	}
	writeJSON(w, runs)
}

func (s *Server) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	rep, err := s.Store.Latest(r.Context())
	s.writeReport(w, rep, err)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	rep, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	s.writeReport(w, rep, err)
}

func (s *Server) writeReport(w http.ResponseWriter, rep any, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		writeError(w, http.StatusNotFound, "run not found")
	case err != nil:
		s.Logger.Error("load_run_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "load error")
	default:
		writeJSON(w, rep)
	}
}

// parseLimit applies the list default and cap; anything but a positive
// integer is rejected.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return repo.DefaultListLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	return repo.ClampLimit(n), nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
