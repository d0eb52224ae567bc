package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the assistant.
type Metrics struct {
	SessionActive    prometheus.Gauge
	WakeDetections   prometheus.Counter
	Turns            *prometheus.CounterVec
	CapabilityErrors *prometheus.CounterVec
	SpeakLatency     prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return newMetrics(namespace, promauto.With(prometheus.DefaultRegisterer))
}

// NewMetricsWith registers all instruments on the given registerer. Tests
// use it with a fresh registry so parallel packages never collide.
func NewMetricsWith(reg prometheus.Registerer, namespace string) *Metrics {
	return newMetrics(namespace, promauto.With(reg))
}

func newMetrics(namespace string, factory promauto.Factory) *Metrics {
	return &Metrics{
		SessionActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_active",
			Help:      "Whether the session is awake and routing commands (1) or idle (0).",
		}),
		WakeDetections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wake_detections_total",
			Help:      "Wake phrase detections.",
		}),
		Turns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Handled commands by routed intent.",
		}, []string{"intent"}),
		CapabilityErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capability_errors_total",
			Help:      "External capability failures by capability and kind.",
		}, []string{"capability", "kind"}),
		SpeakLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "speak_latency_ms",
			Help:      "Time from answer text to finished speech playback in milliseconds.",
			Buckets:   []float64{250, 500, 1000, 2000, 3000, 5000, 8000, 12000},
		}),
	}
}

func (m *Metrics) ObserveSpeakLatency(d time.Duration) {
	m.SpeakLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
