package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port string `toml:"port"`
}

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

func (c LLMConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type ImageConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Width          int    `toml:"width"`
	Height         int    `toml:"height"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout is per attempt. Image synthesis routinely takes tens of seconds,
// so the default is deliberately generous.
func (c ImageConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type RetryConfig struct {
	MaxAttempts      int `toml:"max_attempts"`
	BaseDelaySeconds int `toml:"base_delay_seconds"`
}

func (c RetryConfig) Attempts() int {
	if c.MaxAttempts <= 0 {
		return 3
	}
	return c.MaxAttempts
}

func (c RetryConfig) BaseDelay() time.Duration {
	if c.BaseDelaySeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.BaseDelaySeconds) * time.Second
}

type StoreConfig struct {
	Backend  string `toml:"backend"`
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type StoryboardConfig struct {
	// When true, a failed decomposition is swallowed into a single-panel
	// degraded storyboard instead of surfacing an error. Off by default:
	// the two policies are mutually exclusive per deployment.
	FallbackOnFailure bool `toml:"fallback_on_failure"`
}

type Config struct {
	Server     ServerConfig     `toml:"server"`
	LLM        LLMConfig        `toml:"llm"`
	Image      ImageConfig      `toml:"image"`
	Retry      RetryConfig      `toml:"retry"`
	Store      StoreConfig      `toml:"store"`
	Storyboard StoryboardConfig `toml:"storyboard"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return &cfg, nil
}
