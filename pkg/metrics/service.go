package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	signTransactionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "omni_transaction",
		Subsystem: "service",
		Name:      "sign_transaction_total",
		Help:      "Count of transaction signing runs.",
	}, []string{"network", "status"})
	signTransactionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "omni_transaction",
		Subsystem: "service",
		Name:      "sign_transaction_duration_seconds",
		Help:      "Duration of transaction signing runs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})
	signedInputsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "omni_transaction",
		Subsystem: "service",
		Name:      "signed_inputs_total",
		Help:      "Count of inputs finalized with a signature.",
	}, []string{"network"})
)

// Service tracks metrics for the signing service.
type Service struct {
	network string
}

// NewService constructs a metrics collector for the signing service.
func NewService(network string) *Service {
	if network == "" {
		network = "unknown"
	}
	return &Service{network: network}
}

// ObserveSignTransaction records one SignTransaction run. inputs is only
// counted on success.
func (m Service) ObserveSignTransaction(err error, inputs int, started time.Time) {
	status := statusOf(err)
	signTransactionTotal.WithLabelValues(m.network, status).Inc()
	signTransactionDuration.WithLabelValues(m.network, status).Observe(time.Since(started).Seconds())
	if err == nil {
		signedInputsTotal.WithLabelValues(m.network).Add(float64(inputs))
	}
}
