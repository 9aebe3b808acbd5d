package health

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hillkeeper/hillkeeper/pkg/logger/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes liveness and prometheus metrics over HTTP.
type Server struct {
	addr   string
	pinger Pinger
	logger *types.Logger
}

func New(addr string, pinger Pinger, logger *types.Logger) *Server {
	return &Server{
		addr:   addr,
		pinger: pinger,
		logger: logger,
	}
}

func (s *Server) Start() {
	router := chi.NewRouter()
	router.Get("/healthz", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	go func() {
		s.logger.Infof("health server listening on %s", s.addr)
		if err := http.ListenAndServe(s.addr, router); err != nil {
			s.logger.Errorf("health server stopped: %v", err)
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			http.Error(w, `{"status":"degraded","reason":"store unreachable"}`, http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
