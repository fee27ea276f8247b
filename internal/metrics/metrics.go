// Package metrics expone métricas Prometheus del servicio.
// Ningún label lleva contenido de la request: sólo outcome, status y proveedor.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestLatencyBuckets cubre el ciclo completo de /api/analyze, dominado por el LLM.
	RequestLatencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60}

	// ModelCallLatencyBuckets cubre sólo la llamada al proveedor.
	ModelCallLatencyBuckets = []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60, 120}
)

type Metrics struct {
	// AnalyzeRequests cuenta requests por outcome y status.
	AnalyzeRequests *prometheus.CounterVec

	// AnalyzeDuration mide la request completa por outcome.
	AnalyzeDuration *prometheus.HistogramVec

	// ModelCallLatency mide la llamada al proveedor.
	ModelCallLatency *prometheus.HistogramVec

	// RateLimitKeys es la cantidad de claves vivas en el rate limiter.
	RateLimitKeys prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registra las métricas en reg. Con reg nil se usa un registry propio
// (evita colisiones de registro entre tests).
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		AnalyzeRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imperium_analyze_requests_total",
				Help: "Total /api/analyze requests by outcome",
			},
			[]string{"outcome", "status_code"},
		),
		AnalyzeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "imperium_analyze_duration_seconds",
				Help:    "Full /api/analyze request duration in seconds",
				Buckets: RequestLatencyBuckets,
			},
			[]string{"outcome"},
		),
		ModelCallLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "imperium_model_call_duration_seconds",
				Help:    "LLM provider call duration in seconds",
				Buckets: ModelCallLatencyBuckets,
			},
			[]string{"provider", "status"},
		),
		RateLimitKeys: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "imperium_ratelimit_keys",
				Help: "Live caller keys held by the rate limiter",
			},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		m.AnalyzeRequests,
		m.AnalyzeDuration,
		m.ModelCallLatency,
		m.RateLimitKeys,
	)

	// Expuesto desde el arranque aunque todavía no haya tráfico.
	m.RateLimitKeys.Set(0)

	return m
}

// ObserveAnalyze registra el resultado de una request. Nil-safe.
func (m *Metrics) ObserveAnalyze(outcome string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.AnalyzeRequests.WithLabelValues(outcome, strconv.Itoa(status)).Inc()
	m.AnalyzeDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// ObserveModelCall registra la latencia de la llamada al proveedor. Nil-safe.
func (m *Metrics) ObserveModelCall(provider string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ModelCallLatency.WithLabelValues(provider, status).Observe(d.Seconds())
}

func (m *Metrics) SetRateLimitKeys(n int) {
	if m == nil {
		return
	}
	m.RateLimitKeys.Set(float64(n))
}

// Handler sirve /metrics para este registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
