package llm

import (
	"context"
	"fmt"
)

// NewProvider creates a Provider from configuration. It returns
// ErrNoCredential when no API key is set so callers can fall back to demo
// content instead of calling out.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoCredential
	}

	pc := ProviderConfig{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Model: cfg.Model}

	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case "", "openai":
		p, err = NewOpenAIProvider(pc)
	case "anthropic":
		p, err = NewAnthropicProvider(pc)
	case "gemini":
		p, err = NewGeminiProvider(ctx, pc)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return p, nil
}
