package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/scholarprep/internal/metrics"
	"github.com/abhisek/scholarprep/internal/store"
)

// Deps are the optional collaborators the middleware chain reports to.
type Deps struct {
	Events  store.EventWriter
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// NewProvider creates a Provider from configuration, wrapped with the
// middleware chain:
//
//	caller → retry → rate limit → metrics → logging → base
//
// Every attempt is paced, counted and logged; the retry loop sees the final
// classified error of each attempt.
func NewProvider(ctx context.Context, cfg Config, deps Deps) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var onWait func(time.Duration)
	if deps.Metrics != nil {
		onWait = func(d time.Duration) { deps.Metrics.LLMThrottled.Observe(d.Seconds()) }
	}

	p := WithLogging(base, cfg.Provider, deps.Events, log)
	p = WithMetrics(p, deps.Metrics)
	p = WithRateLimit(p, cfg.RateLimit, onWait)
	p = WithRetry(p, cfg.Retry, WithRetryLogger(log))
	return p, nil
}
