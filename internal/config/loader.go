// Package config loads the service configuration.
//
// Precedence, lowest first: built-in defaults, an optional YAML file, the
// well-known plain environment variables (PORT, ANTHROPIC_API_KEY, ...), and
// finally prefixed variables such as POSTERFORGE_CACHE__BACKEND where a double
// underscore nests a path. A .env file in the working directory is read into
// the process environment before any of that.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of nested environment overrides.
const EnvPrefix = "POSTERFORGE"

// plainEnv maps conventional variable names onto config keys.
var plainEnv = map[string]string{
	"PORT":              "server.port",
	"APP_ENV":           "server.env",
	"LOG_LEVEL":         "logging.level",
	"ANTHROPIC_API_KEY": "text.apiKey",
	"OPENAI_API_KEY":    "image.apiKey",
	"CACHE_BACKEND":     "cache.backend",
	"REDIS_ADDR":        "cache.redis.address",
}

// Loader hydrates the runtime configuration.
type Loader struct {
	envPrefix string
	files     []string
	dotenv    []string
}

// NewLoader prepares a loader. Empty file paths are skipped; a named file that
// does not exist is an error.
func NewLoader(envPrefix string, files ...string) *Loader {
	return &Loader{envPrefix: envPrefix, files: files}
}

// WithDotenv names the .env files to read first. Missing files are ignored.
func (l *Loader) WithDotenv(paths ...string) *Loader {
	l.dotenv = paths
	return l
}

// Load assembles and validates the effective configuration.
func (l *Loader) Load(ctx context.Context) (Config, error) {
	for _, p := range l.dotenv {
		// godotenv never overrides variables already set in the environment.
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", p, err)
		}
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(structToMap(DefaultConfig()), "."), nil); err != nil {
		return Config{}, fmt.Errorf("config: load defaults: %w", err)
	}

	canonical := make(map[string]string, len(k.Keys()))
	for _, key := range k.Keys() {
		canonical[strings.ToLower(key)] = key
	}

	for _, path := range l.files {
		if path == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Config{}, err
		}
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("config: file %s not found", path)
			}
			return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	plain := map[string]any{}
	for name, key := range plainEnv {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			plain[key] = v
		}
	}
	if err := k.Load(confmap.Provider(plain, "."), nil); err != nil {
		return Config{}, fmt.Errorf("config: load plain env: %w", err)
	}

	if l.envPrefix != "" {
		transform := func(s string) string {
			// Double underscores signal a nested path (CACHE__REDIS__ADDRESS -> cache.redis.address).
			key := strings.TrimPrefix(s, l.envPrefix+"_")
			key = strings.ReplaceAll(key, "__", ".")
			// Single underscores are dropped so RATE_LIMIT matches rateLimit.
			key = strings.ToLower(strings.ReplaceAll(key, "_", ""))
			if mapped, ok := canonical[key]; ok {
				return mapped
			}
			return key
		}
		if err := k.Load(env.Provider(l.envPrefix+"_", ".", transform), nil); err != nil {
			return Config{}, fmt.Errorf("config: load env: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// structToMap converts a Config into a map for the koanf confmap provider.
func structToMap(cfg Config) map[string]any {
	return map[string]any{
		"server": map[string]any{
			"address":        cfg.Server.Address,
			"port":           cfg.Server.Port,
			"env":            cfg.Server.Env,
			"version":        cfg.Server.Version,
			"staticDir":      cfg.Server.StaticDir,
			"requestTimeout": cfg.Server.RequestTimeout,
			"maxBodyBytes":   cfg.Server.MaxBodyBytes,
			"allowedOrigins": cfg.Server.AllowedOrigins,
		},
		"logging": map[string]any{
			"level": cfg.Logging.Level,
		},
		"cache": map[string]any{
			"backend":  cfg.Cache.Backend,
			"ttl":      cfg.Cache.TTL,
			"capacity": cfg.Cache.Capacity,
			"prefix":   cfg.Cache.Prefix,
			"redis": map[string]any{
				"address":  cfg.Cache.Redis.Address,
				"password": cfg.Cache.Redis.Password,
				"db":       cfg.Cache.Redis.DB,
			},
		},
		"text": map[string]any{
			"baseURL":     cfg.Text.BaseURL,
			"apiKey":      cfg.Text.APIKey,
			"model":       cfg.Text.Model,
			"maxTokens":   cfg.Text.MaxTokens,
			"temperature": cfg.Text.Temperature,
			"timeout":     cfg.Text.Timeout,
		},
		"image": map[string]any{
			"baseURL":             cfg.Image.BaseURL,
			"apiKey":              cfg.Image.APIKey,
			"model":               cfg.Image.Model,
			"size":                cfg.Image.Size,
			"quality":             cfg.Image.Quality,
			"style":               cfg.Image.Style,
			"timeout":             cfg.Image.Timeout,
			"allowRemoteFallback": cfg.Image.AllowRemoteFallback,
		},
		"prompt": map[string]any{
			"maxBeats":  cfg.Prompt.MaxBeats,
			"maxPrompt": cfg.Prompt.MaxPrompt,
		},
		"rateLimit": map[string]any{
			"enabled":  cfg.RateLimit.Enabled,
			"requests": cfg.RateLimit.Requests,
			"window":   cfg.RateLimit.Window,
		},
	}
}
