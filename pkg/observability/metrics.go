package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blackjack"

// Metrics holds the collectors fed by lifecycle hooks.
type Metrics struct {
	registry     *prometheus.Registry
	transitions  *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	players      *prometheus.GaugeVec
	historyDepth prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg gets a fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: reg,
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_total",
				Help:      "Accepted lifecycle operations by operation and resulting progress.",
			},
			[]string{"operation", "to"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejections_total",
				Help:      "Rejected lifecycle operations by operation and the progress at the time.",
			},
			[]string{"operation", "progress"},
		),
		players: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "players",
				Help:      "Players seated at each table.",
			},
			[]string{"table"},
		),
		historyDepth: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "history_depth",
				Help:      "Length of the active history path after each accepted operation.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
	}
	reg.MustRegister(m.transitions, m.rejections, m.players, m.historyDepth)
	return m
}

// Hooks returns lifecycle hooks that record every operation.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.transitions.WithLabelValues(string(e.Op), string(e.To)).Inc()
			m.historyDepth.Observe(float64(e.Depth))
			if e.TableID != "" {
				m.players.WithLabelValues(e.TableID).Set(float64(e.Players))
			}
		},
		OnRejected: func(_ context.Context, e *domain.TransitionEvent) {
			m.rejections.WithLabelValues(string(e.Op), string(e.From)).Inc()
		},
	}
}

// Forget drops the per-table series of a deleted table.
func (m *Metrics) Forget(tableID string) {
	m.players.DeleteLabelValues(tableID)
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
