package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"legislature/internal/config"
)

// Server ties together HTTP serving and WebSocket handling.
type Server struct {
	handlers *Handlers
	registry *prometheus.Registry
	cfg      config.Config
}

func New(cfg config.Config) *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	return &Server{
		handlers: NewHandlers(cfg, NewMetrics(reg)),
		registry: reg,
		cfg:      cfg,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/create", s.handlers.HandleCreateGame)
	mux.HandleFunc("/api/qr", s.handlers.HandleQR)
	mux.HandleFunc("/api/state", s.handlers.HandleState)
	mux.HandleFunc("/api/history", s.handlers.HandleHistory)
	mux.HandleFunc("/api/snapshot", s.handlers.HandleSnapshot)
	mux.HandleFunc("/api/game", s.handlers.HandleDeleteGame)
	mux.HandleFunc("/api/player-id", s.handlers.HandlePlayerID)
	mux.HandleFunc("/ws", s.handlers.HandleWS)
	if s.cfg.Metrics {
		mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return mux
}

func (s *Server) Start() error {
	defer s.handlers.Close()

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	log.Printf("legislature server starting on http://localhost%s", addr)
	log.Printf("POST http://localhost%s/api/create to create a new game", addr)
	return http.ListenAndServe(addr, s.Handler())
}
