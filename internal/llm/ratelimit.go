package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedProvider is a decorator that paces outbound calls with a token
// bucket, so a burst of generation requests queues locally instead of
// tripping the provider's 429s.
type RateLimitedProvider struct {
	inner   Provider
	limiter *rate.Limiter
	onWait  func(time.Duration)
}

// WithRateLimit wraps p with a limiter built from cfg. A zero rate returns p
// unchanged. onWait, when non-nil, receives the time each call spent queued.
func WithRateLimit(p Provider, cfg RateLimitConfig, onWait func(time.Duration)) Provider {
	if cfg.RequestsPerMinute <= 0 {
		return p
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedProvider{
		inner:   p,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute/60), burst),
		onWait:  onWait,
	}
}

func (r *RateLimitedProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if r.onWait != nil {
		r.onWait(time.Since(start))
	}
	return r.inner.Generate(ctx, req)
}

func (r *RateLimitedProvider) ModelID() string {
	return r.inner.ModelID()
}
