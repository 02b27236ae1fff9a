// Package metrics holds the Prometheus collectors shared by the external API clients.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	externalRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cozymind",
		Name:      "external_requests_total",
		Help:      "Calls to external APIs by service and outcome.",
	}, []string{"service", "outcome"})

	externalRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cozymind",
		Name:      "external_request_duration_seconds",
		Help:      "Latency of calls to external APIs.",
		Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"service"})

	generatedImages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cozymind",
		Name:      "generated_images_total",
		Help:      "After images generated and stored, by kind.",
	}, []string{"kind"})

	productFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cozymind",
		Name:      "product_fallbacks_total",
		Help:      "Product lists answered with the built-in fallback items.",
	})
)

func init() {
	prometheus.MustRegister(externalRequests, externalRequestDuration, generatedImages, productFallbacks)
}

// ObserveExternalCall records one call to service that started at start.
func ObserveExternalCall(service string, start time.Time, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	externalRequests.WithLabelValues(service, outcome).Inc()
	externalRequestDuration.WithLabelValues(service).Observe(time.Since(start).Seconds())
}

func IncGeneratedImage(kind string) {
	generatedImages.WithLabelValues(kind).Inc()
}

func IncProductFallback() {
	productFallbacks.Inc()
}
