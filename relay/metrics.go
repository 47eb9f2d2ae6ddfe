package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the relay's Prometheus collectors.
type Metrics struct {
	ChunksProcessed prometheus.Counter
	BlocksCompleted *prometheus.CounterVec
	DecodeFailures  *prometheus.CounterVec
	ActiveMessages  prometheus.Gauge
	ExtractSeconds  prometheus.Histogram
}

// NewMetrics registers the relay collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ChunksProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "coachstream",
			Subsystem: "relay",
			Name:      "chunks_processed_total",
			Help:      "Token chunks consumed from the chat stream.",
		}),
		BlocksCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coachstream",
			Subsystem: "relay",
			Name:      "blocks_completed_total",
			Help:      "Fenced blocks whose closing fence arrived, by kind.",
		}, []string{"kind"}),
		DecodeFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coachstream",
			Subsystem: "relay",
			Name:      "decode_failures_total",
			Help:      "Completed blocks whose payload failed to decode, by kind.",
		}, []string{"kind"}),
		ActiveMessages: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "coachstream",
			Subsystem: "relay",
			Name:      "active_messages",
			Help:      "Messages currently accumulating chunks.",
		}),
		ExtractSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "coachstream",
			Subsystem: "relay",
			Name:      "extract_seconds",
			Help:      "Duration of one full-text extraction pass.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
}
