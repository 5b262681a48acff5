package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	signerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "omni_transaction",
		Subsystem: "signer",
		Name:      "operations_total",
		Help:      "Count of signer operations.",
	}, []string{"operation", "backend", "status"})
	signerRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "omni_transaction",
		Subsystem: "signer",
		Name:      "operation_duration_seconds",
		Help:      "Duration of signer operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "backend", "status"})
)

// Signer tracks metrics for calls to a signing backend.
type Signer struct {
	backend string
}

// NewSigner constructs a metrics collector for the named signing backend.
func NewSigner(backend string) *Signer {
	if backend == "" {
		backend = "unknown"
	}
	return &Signer{backend: backend}
}

// Observe records a single signer call outcome and duration.
func (m Signer) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)
	signerRequestsTotal.WithLabelValues(operation, m.backend, status).Inc()
	signerRequestDuration.WithLabelValues(operation, m.backend, status).Observe(time.Since(started).Seconds())
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
