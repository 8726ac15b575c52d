package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"posterforge/internal/cache"
	"posterforge/internal/prompt"
)

// Config holds every runtime option of the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Cache     CacheConfig     `koanf:"cache"`
	Text      TextConfig      `koanf:"text"`
	Image     ImageConfig     `koanf:"image"`
	Prompt    PromptConfig    `koanf:"prompt"`
	RateLimit RateLimitConfig `koanf:"rateLimit"`
}

type ServerConfig struct {
	Address        string        `koanf:"address"`
	Port           int           `koanf:"port"`
	Env            string        `koanf:"env"`
	Version        string        `koanf:"version"`
	StaticDir      string        `koanf:"staticDir"`
	RequestTimeout time.Duration `koanf:"requestTimeout"`
	MaxBodyBytes   int64         `koanf:"maxBodyBytes"`
	AllowedOrigins []string      `koanf:"allowedOrigins"`
}

type LoggingConfig struct {
	Level string `koanf:"level"`
}

type CacheConfig struct {
	Backend  string        `koanf:"backend"`
	TTL      time.Duration `koanf:"ttl"`
	Capacity int           `koanf:"capacity"`
	Prefix   string        `koanf:"prefix"`
	Redis    RedisConfig   `koanf:"redis"`
}

type RedisConfig struct {
	Address  string `koanf:"address"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type TextConfig struct {
	BaseURL     string        `koanf:"baseURL"`
	APIKey      string        `koanf:"apiKey"`
	Model       string        `koanf:"model"`
	MaxTokens   int           `koanf:"maxTokens"`
	Temperature float64       `koanf:"temperature"`
	Timeout     time.Duration `koanf:"timeout"`
}

type ImageConfig struct {
	BaseURL             string        `koanf:"baseURL"`
	APIKey              string        `koanf:"apiKey"`
	Model               string        `koanf:"model"`
	Size                string        `koanf:"size"`
	Quality             string        `koanf:"quality"`
	Style               string        `koanf:"style"`
	Timeout             time.Duration `koanf:"timeout"`
	AllowRemoteFallback bool          `koanf:"allowRemoteFallback"`
}

type PromptConfig struct {
	MaxBeats  int `koanf:"maxBeats"`
	MaxPrompt int `koanf:"maxPrompt"`
}

type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	limits := prompt.DefaultLimits()
	return Config{
		Server: ServerConfig{
			Port:           3000,
			Env:            "development",
			Version:        "2.0.0",
			StaticDir:      "public",
			RequestTimeout: 150 * time.Second,
			MaxBodyBytes:   10 << 20,
			AllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{Level: "info"},
		Cache: CacheConfig{
			Backend:  cache.BackendMemory,
			TTL:      cache.DefaultTTL,
			Capacity: cache.DefaultCapacity,
			Prefix:   "posterforge",
		},
		Text: TextConfig{
			BaseURL:     "https://api.anthropic.com",
			Model:       "claude-3-5-sonnet-20241022",
			MaxTokens:   1000,
			Temperature: 0.8,
			Timeout:     30 * time.Second,
		},
		Image: ImageConfig{
			BaseURL: "https://api.openai.com",
			Model:   "dall-e-3",
			Size:    "1024x1792",
			Quality: "hd",
			Style:   "vivid",
			Timeout: 60 * time.Second,
		},
		Prompt: PromptConfig{MaxBeats: limits.MaxBeats, MaxPrompt: limits.MaxPrompt},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 20,
			Window:   15 * time.Minute,
		},
	}
}

// Validate checks enumerations and bounds. Missing API keys are not an error:
// the service still serves health and static routes without them.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, errors.New("server.requestTimeout must be positive"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.maxBodyBytes must be positive"))
	}

	switch c.Cache.Backend {
	case cache.BackendMemory:
	case cache.BackendRedis, cache.BackendValkey:
		if strings.TrimSpace(c.Cache.Redis.Address) == "" {
			errs = append(errs, fmt.Errorf("cache.redis.address required for backend %q", c.Cache.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend %q must be memory, redis or valkey", c.Cache.Backend))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("cache.ttl must be positive"))
	}
	if c.Cache.Capacity <= 0 {
		errs = append(errs, errors.New("cache.capacity must be positive"))
	}

	if c.Text.Timeout <= 0 || c.Image.Timeout <= 0 {
		errs = append(errs, errors.New("text.timeout and image.timeout must be positive"))
	}
	// An image request may spend image.timeout on generation and again on the download.
	if budget := 2 * c.Image.Timeout; c.Server.RequestTimeout <= budget {
		errs = append(errs, fmt.Errorf("server.requestTimeout %s must exceed twice image.timeout (%s)",
			c.Server.RequestTimeout, budget))
	}
	if c.Text.Temperature < 0 || c.Text.Temperature > 1 {
		errs = append(errs, errors.New("text.temperature must be between 0 and 1"))
	}

	if c.Prompt.MaxBeats <= 0 || c.Prompt.MaxPrompt <= 0 {
		errs = append(errs, errors.New("prompt.maxBeats and prompt.maxPrompt must be positive"))
	}

	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		errs = append(errs, errors.New("rateLimit.requests and rateLimit.window must be positive when enabled"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Addr is the listen address for http.Server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Limits converts the prompt section.
func (c Config) Limits() prompt.Limits {
	return prompt.Limits{MaxBeats: c.Prompt.MaxBeats, MaxPrompt: c.Prompt.MaxPrompt}
}
