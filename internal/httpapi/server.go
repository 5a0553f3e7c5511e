package httpapi

import (
	"context"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/statuswatcher/internal/scheduler"
)

// StateSource is what the API reads from. *scheduler.Engine satisfies it.
type StateSource interface {
	Snapshot(ctx context.Context) ([]scheduler.TargetState, error)
}

type Server struct {
	Logger  *zap.Logger
	State   StateSource
	Sources []string
}

func NewServer(l *zap.Logger, st StateSource, sources []string) *Server {
	return &Server{Logger: l, State: st, Sources: sources}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/targets", s.handleListTargets)
	r.Get("/api/targets/{name}", s.handleGetTarget)
	r.Get("/api/sources", s.handleListSources)

	return r
}

func (s *Server) handleListTargets(w http.ResponseWriter, r *http.Request) {
	snap, err := s.State.Snapshot(r.Context())
	if err != nil {
		s.Logger.Warn("api_snapshot_error", zap.Error(err))
		http.Error(w, "snapshot error", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGetTarget(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	snap, err := s.State.Snapshot(r.Context())
	if err != nil {
		s.Logger.Warn("api_snapshot_error", zap.Error(err))
		http.Error(w, "snapshot error", http.StatusInternalServerError)
		return
	}
	for _, st := range snap {
		if st.Target.Name == name {
			s.writeJSON(w, http.StatusOK, st)
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"sources": s.Sources})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := sonic.Marshal(v)
	if err != nil {
		s.Logger.Error("api_encode_error", zap.Error(err))
		http.Error(w, "encode error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
