package llm

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/wordiz/internal/store"
)

// Open builds the configured provider. Each attempt is recorded in events,
// which may be nil, and transient failures are retried under cfg.Retry.
func Open(ctx context.Context, cfg Config, events store.EventRepo, logger logrus.FieldLogger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = newAnthropic(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = newOpenAI(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = newOpenRouter(cfg.OpenRouter)
	case ProviderGemini:
		base, err = newGemini(ctx, cfg.Gemini)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return Retrying(Recording(base, cfg.Provider, events, logger), cfg.Retry, logger), nil
}
