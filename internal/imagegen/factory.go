package imagegen

import (
	"fmt"
	"strings"

	"github.com/dailytoon/dailytoon/internal/config"
)

func NewClient(cfg config.ImageConfig) (ImageClient, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "", "pollinations":
		return NewPollinationsClient(cfg.BaseURL, cfg.Timeout()), nil

	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	default:
		return nil, fmt.Errorf("unsupported image provider: %s", provider)
	}
}
