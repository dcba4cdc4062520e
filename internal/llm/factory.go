package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/dailytoon/dailytoon/internal/config"
)

func NewClient(ctx context.Context, cfg config.LLMConfig) (TextClient, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "", "pollinations":
		return NewPollinationsClient(cfg.BaseURL, cfg.Timeout()), nil

	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)

	case "claude":
		return NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "ollama":
		// Ollama speaks the OpenAI-compatible API; route it through that client.
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama" // ignored by Ollama but required by the client config
		}
		return NewOpenAIClient(apiKey, cfg.Model, baseURL), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}
