package main

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for one server. They are registered on the
// registerer passed to NewMetrics rather than the global default.
type Metrics struct {
	actions        *prometheus.CounterVec
	sessions       prometheus.Gauge
	journalWrites  *prometheus.CounterVec
	journalLatency prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		actions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tetrisstack_actions_total",
			Help: "Session commands by action and result",
		}, []string{"action", "result"}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "tetrisstack_sessions",
			Help: "Live sessions held in memory",
		}),
		journalWrites: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tetrisstack_journal_writes_total",
			Help: "Journal write attempts by result",
		}, []string{"result"}),
		journalLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tetrisstack_journal_write_seconds",
			Help:    "Latency of a single journal write",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}
}

// resultLabel maps a command error onto a small fixed label set.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrEmptyQueue):
		return "empty_queue"
	case errors.Is(err, ErrStackFull):
		return "stack_full"
	case errors.Is(err, ErrStackEmpty), errors.Is(err, ErrNothingToSwap):
		return "stack_empty"
	case errors.Is(err, ErrNoSnapshot), errors.Is(err, ErrSnapshotMismatch):
		return "no_snapshot"
	default:
		return "error"
	}
}

func (m *Metrics) observeAction(action string, err error) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(action, resultLabel(err)).Inc()
}

func (m *Metrics) setSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}

func (m *Metrics) observeJournal(seconds float64, err error) {
	if m == nil {
		return
	}
	res := "ok"
	if err != nil {
		res = "error"
	}
	m.journalWrites.WithLabelValues(res).Inc()
	m.journalLatency.Observe(seconds)
}
