package llm

import "os"

// Config selects and configures the text reframe provider.
type Config struct {
	// Provider is one of "openai" (any OpenAI-compatible API, DeepSeek by
	// default), "anthropic" or "gemini".
	Provider    string  `yaml:"provider"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Timeout     string  `yaml:"timeout"`
}

// ProviderConfig is the subset a single provider needs.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// WithDefaults fills unset generation parameters.
func (c Config) WithDefaults() Config {
	if c.Provider == "" {
		c.Provider = "openai"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.8
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 500
	}
	return c
}

// WithEnv overlays credentials from the environment. For the OpenAI-compatible
// provider DEEPSEEK_* variables win over OPENAI_* ones.
func (c Config) WithEnv() Config {
	switch c.Provider {
	case "", "openai":
		c.APIKey = firstNonEmpty(os.Getenv("DEEPSEEK_API_KEY"), os.Getenv("OPENAI_API_KEY"), c.APIKey)
		c.BaseURL = firstNonEmpty(os.Getenv("DEEPSEEK_BASE_URL"), os.Getenv("OPENAI_BASE_URL"), c.BaseURL)
		c.Model = firstNonEmpty(os.Getenv("DEEPSEEK_MODEL"), c.Model)
	case "anthropic":
		c.APIKey = firstNonEmpty(os.Getenv("ANTHROPIC_API_KEY"), c.APIKey)
	case "gemini":
		c.APIKey = firstNonEmpty(os.Getenv("GEMINI_API_KEY"), c.APIKey)
	}
	return c
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
