// Package metrics holds the prometheus collectors of the ledger and preset
// services. Collectors are registered on a caller-supplied registerer so
// tests and the CLI can use private registries.
package metrics

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/hydrokeeper/internal/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hydrokeeper"

// Result labels.
const (
	ResultOK       = "ok"
	ResultInvalid  = "invalid"
	ResultNotFound = "not_found"
	ResultConflict = "duplicate"
	ResultStorage  = "storage_error"
)

type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	volume     *prometheus.CounterVec
	hydration  *prometheus.CounterVec
}

// New creates and registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Ledger, catalog and preset operations by result.",
		}, []string{"op", "result"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of ledger, catalog and preset operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		volume: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intake_volume_ounces_total",
			Help:      "Raw volume recorded, in canonical ounces.",
		}, []string{"drink"}),
		hydration: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intake_hydration_ounces_total",
			Help:      "Hydration amount recorded, in canonical ounces.",
		}, []string{"drink"}),
	}
}

// Observe records one finished operation. A nil *Metrics is a no-op.
func (m *Metrics) Observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, Result(err)).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// AddIntake accounts a recorded drink.
func (m *Metrics) AddIntake(drink string, amount, hydration float64) {
	if m == nil {
		return
	}
	m.volume.WithLabelValues(drink).Add(amount)
	m.hydration.WithLabelValues(drink).Add(hydration)
}

// Result maps an operation error to its result label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, common.ErrInvalidAmount),
		errors.Is(err, common.ErrInvalidUnit),
		errors.Is(err, common.ErrInvalidValue):
		return ResultInvalid
	case errors.Is(err, common.ErrNotFound):
		return ResultNotFound
	case errors.Is(err, common.ErrDuplicate):
		return ResultConflict
	default:
		return ResultStorage
	}
}
