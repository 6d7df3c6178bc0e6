package llm

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/scholarprep/internal/metrics"
)

// InstrumentedProvider is a decorator that records call counts, latency and
// token usage in Prometheus collectors.
type InstrumentedProvider struct {
	inner Provider
	m     *metrics.Metrics
}

// WithMetrics wraps p with instrumentation. A nil m returns p unchanged.
func WithMetrics(p Provider, m *metrics.Metrics) Provider {
	if m == nil {
		return p
	}
	return &InstrumentedProvider{inner: p, m: m}
}

func (i *InstrumentedProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	purpose := PurposeFrom(ctx)
	start := time.Now()

	resp, err := i.inner.Generate(ctx, req)

	i.m.LLMLatency.WithLabelValues(purpose).Observe(time.Since(start).Seconds())
	i.m.LLMRequests.WithLabelValues(purpose, i.inner.ModelID(), outcome(err)).Inc()
	if resp != nil {
		i.m.LLMTokens.WithLabelValues(purpose, "input").Add(float64(resp.Usage.InputTokens))
		i.m.LLMTokens.WithLabelValues(purpose, "output").Add(float64(resp.Usage.OutputTokens))
	}
	return resp, err
}

func (i *InstrumentedProvider) ModelID() string {
	return i.inner.ModelID()
}

// outcome labels an error by class.
func outcome(err error) string {
	var (
		rl  *ErrRateLimit
		inv *ErrInvalidResponse
		mt  *ErrMaxTokensExceeded
		rej *ErrRequestRejected
	)
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.As(err, &rl):
		return "rate_limited"
	case errors.As(err, &inv), errors.As(err, &mt):
		return "invalid"
	case errors.As(err, &rej):
		return "rejected"
	default:
		return "unavailable"
	}
}
