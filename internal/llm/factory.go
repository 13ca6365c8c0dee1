package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abhisek/prepcoach/internal/store"
)

// NewProvider creates a Provider from configuration.
// The returned provider is wrapped with logging and timeout middleware.
// eventRepo may be nil, in which case requests are not persisted.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log zerolog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

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
	case "groq":
		base, err = NewGroqProvider(cfg.Groq)
	case "mock":
		return NewMockProvider(), nil
	case "offline":
		return OfflineProvider{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → timeout → logging → base
	logged := WithLogging(base, eventRepo, log)
	return WithTimeout(logged, cfg.Timeout), nil
}
