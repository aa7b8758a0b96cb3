package server

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"legislature/internal/engine"
)

// Metrics contains Prometheus metrics for the game server.
type Metrics struct {
	transitions   *prometheus.CounterVec
	activeGames   prometheus.Gauge
	gamesFinished *prometheus.CounterVec
	connections   prometheus.Gauge
	reshuffles    prometheus.Counter
}

// NewMetrics registers the server collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		transitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "legislature_transitions_total",
				Help: "Transitions attempted, by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		activeGames: f.NewGauge(prometheus.GaugeOpts{
			Name: "legislature_active_games",
			Help: "Games started and not yet decided",
		}),
		gamesFinished: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "legislature_games_finished_total",
				Help: "Games decided, by winning party",
			},
			[]string{"winner"},
		),
		connections: f.NewGauge(prometheus.GaugeOpts{
			Name: "legislature_websocket_connections",
			Help: "Open websocket connections",
		}),
		reshuffles: f.NewCounter(prometheus.CounterOpts{
			Name: "legislature_deck_reshuffles_total",
			Help: "Times the discard pile was shuffled back into the deck",
		}),
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, engine.ErrGameConcluded):
		return "concluded"
	case engine.IsRejected(err):
		return "rejected"
	default:
		return "failed"
	}
}

func (m *Metrics) observe(action string, err error) {
	m.transitions.WithLabelValues(action, outcome(err)).Inc()
}
