package llm

import "fmt"

const defaultGrokBaseURL = "https://api.x.ai/v1"

// grokModels maps friendly names to xAI model IDs.
var grokModels = map[string]string{
	"grok-4":      "grok-4-0709",
	"grok-4-fast": "grok-4-fast-non-reasoning",
}

// GrokProvider wraps OpenAIProvider with xAI-specific defaults.
// Grok exposes an OpenAI-compatible API, so the underlying SDK is reused.
type GrokProvider struct {
	*OpenAIProvider
}

// NewGrokProvider creates a provider targeting the xAI Grok API.
func NewGrokProvider(cfg GrokConfig) (*GrokProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("grok API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGrokBaseURL
	}

	oaiCfg := OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   resolveModel(cfg.Model, grokModels),
		BaseURL: baseURL,
	}

	inner, err := NewOpenAIProvider(oaiCfg)
	if err != nil {
		return nil, err
	}

	return &GrokProvider{OpenAIProvider: inner}, nil
}
