package processing

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// composite results
const (
	resultOK      = "ok"
	resultEmpty   = "empty"
	resultError   = "error"
	resultSkipped = "skipped"
)

type Metrics struct {
	composites  *prometheus.CounterVec
	duration    prometheus.Histogram
	outputBytes prometheus.Histogram
}

// NewMetrics registers the composite metrics with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		composites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vtcomposite_composites_total",
				Help: "Number of composited tiles by result.",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vtcomposite_composite_duration_seconds",
			Help:    "Time spent compositing a tile.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		outputBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vtcomposite_output_bytes",
			Help:    "Size of composited tiles.",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		}),
	}
	reg.MustRegister(m.composites, m.duration, m.outputBytes)
	return m
}

func (m *Metrics) observe(result string, took time.Duration, size int) {
	if m == nil {
		return
	}
	m.composites.WithLabelValues(result).Inc()
	if result == resultOK || result == resultEmpty {
		m.duration.Observe(took.Seconds())
		m.outputBytes.Observe(float64(size))
	}
}
