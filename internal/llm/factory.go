package llm

import (
	"context"
	"fmt"
	"strings"
)

const (
	ProviderCopilot  = "copilot"
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
)

// NewClient creates an LLM client based on provider configuration.
func NewClient(ctx context.Context, provider, model, baseURL string) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderCopilot:
		return NewCopilotClient(ctx, model)
	case ProviderOllama:
		return NewOllamaClient(model, baseURL)
	case ProviderLMStudio, "lm-studio", "llmstudio":
		return NewLMStudioClient(model, baseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// IsLocal reports whether the provider runs a local model. Local models get
// the compact prompt.
func IsLocal(provider string) bool {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderOllama, ProviderLMStudio, "lm-studio", "llmstudio":
		return true
	default:
		return false
	}
}
