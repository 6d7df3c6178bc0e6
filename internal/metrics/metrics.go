// Package metrics holds the Prometheus collectors for study sessions and
// LLM traffic, and an optional HTTP endpoint that exposes them.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "scholarprep"

// Metrics groups every collector the application records to.
type Metrics struct {
	LLMRequests   *prometheus.CounterVec
	LLMLatency    *prometheus.HistogramVec
	LLMTokens     *prometheus.CounterVec
	LLMThrottled  prometheus.Histogram
	Transitions   *prometheus.CounterVec
	Answers       *prometheus.CounterVec
	ExamsFinished prometheus.Counter
	StaleResults  prometheus.Counter
	Mastery       prometheus.Gauge
	Completion    prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		LLMRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_requests_total",
				Help:      "LLM generation calls by purpose, model and outcome.",
			},
			[]string{"purpose", "model", "outcome"},
		),
		LLMLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_request_duration_seconds",
				Help:      "Duration of LLM generation calls.",
				Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"purpose"},
		),
		LLMTokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_tokens_total",
				Help:      "Tokens consumed by LLM calls.",
			},
			[]string{"purpose", "direction"},
		),
		LLMThrottled: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_rate_limit_wait_seconds",
				Help:      "Time spent waiting on the local LLM rate limiter.",
				Buckets:   []float64{0.01, 0.1, 0.5, 1, 5},
			},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "session_transitions_total",
				Help:      "Study session state transitions.",
			},
			[]string{"from", "to"},
		),
		Answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "answers_total",
				Help:      "Answered exam questions by correctness.",
			},
			[]string{"correct"},
		),
		ExamsFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exams_finished_total",
			Help:      "Completed practice exams.",
		}),
		StaleResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_results_total",
			Help:      "Generation results dropped because the learner had moved on.",
		}),
		Mastery: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mastery_score",
			Help:      "Current mastery score (0-100).",
		}),
		Completion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "completion_rate",
			Help:      "Current plan completion percentage (0-100).",
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.LLMRequests,
		m.LLMLatency,
		m.LLMTokens,
		m.LLMThrottled,
		m.Transitions,
		m.Answers,
		m.ExamsFinished,
		m.StaleResults,
		m.Mastery,
		m.Completion,
	)
	return m
}

// Gatherer exposes the registry, mostly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

// Handler returns the /metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("metrics endpoint listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
