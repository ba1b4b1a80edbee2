package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "btoolme"

// Recorder exports recommendation and delivery metrics. A nil Recorder is a no-op.
type Recorder struct {
	registry          *prometheus.Registry
	recommendations   *prometheus.CounterVec
	recommendedTools  prometheus.Histogram
	deliveries        *prometheus.CounterVec
	emailSends        *prometheus.CounterVec
	emailSendDuration *prometheus.HistogramVec
}

// NewRecorder registers the collectors on a fresh registry.
func NewRecorder() (*Recorder, error) {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Questionnaire submissions scored, by result.",
		}, []string{"result"}),
		recommendedTools: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommended_tools",
			Help:      "Number of tools returned per scored questionnaire.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Delivery requests, by outcome.",
		}, []string{"outcome"}),
		emailSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "email_sends_total",
			Help:      "Individual email sends, by recipient role and result.",
		}, []string{"recipient", "result"}),
		emailSendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "email_send_duration_seconds",
			Help:      "Latency of individual email sends.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"recipient"}),
	}
	cs := []prometheus.Collector{
		r.recommendations,
		r.recommendedTools,
		r.deliveries,
		r.emailSends,
		r.emailSendDuration,
		collectors.NewGoCollector(),
	}
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return r, nil
}

// ObserveRecommendations records a scored questionnaire.
func (r *Recorder) ObserveRecommendations(count int, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.recommendations.WithLabelValues(resultLabel(err)).Inc()
		return
	}
	r.recommendations.WithLabelValues("ok").Inc()
	r.recommendedTools.Observe(float64(count))
}

// ObserveDelivery records the collapsed outcome of one delivery request.
func (r *Recorder) ObserveDelivery(outcome string) {
	if r == nil {
		return
	}
	r.deliveries.WithLabelValues(outcome).Inc()
}

// ObserveEmailSend records one send to one recipient.
func (r *Recorder) ObserveEmailSend(recipient string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.emailSendDuration.WithLabelValues(recipient).Observe(duration.Seconds())
	r.emailSends.WithLabelValues(recipient, resultLabel(err)).Inc()
}

// Gatherer exposes the registry for tests and custom exporters.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.registry
}

// Handler exposes metrics in Prometheus text format.
func Handler(r *Recorder) gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(r.Gatherer(), promhttp.HandlerOpts{}))
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
