package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds the engine's runtime settings.
type Config struct {
	Redis struct {
		URL string `koanf:"url"`
	} `koanf:"redis"`
	API struct {
		BaseURL string `koanf:"base_url"`
		Token   string `koanf:"token"`
	} `koanf:"api"`
	Notify struct {
		EvictionTTL time.Duration `koanf:"eviction_ttl"`
	} `koanf:"notify"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

// Load builds the configuration from defaults overlaid with
// DWELLFIX_-prefixed environment variables (DWELLFIX_REDIS_URL,
// DWELLFIX_API_BASE_URL, ...).
func Load() (*Config, error) {
	var k = koanf.New(".")

	k.Load(confmap.Provider(map[string]interface{}{
		"redis.url":           "redis://localhost:6379/0",
		"api.base_url":        "http://localhost:8080/api/v1",
		"api.token":           "",
		"notify.eviction_ttl": "3s",
		"log.level":           "info",
	}, "."), nil)

	// DWELLFIX_API_BASE_URL -> api.base_url: the first underscore splits
	// the section, the rest stay part of the key.
	k.Load(env.Provider("DWELLFIX_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "DWELLFIX_"))
		if parts := strings.SplitN(key, "_", 2); len(parts) == 2 {
			return parts[0] + "." + parts[1]
		}
		return key
	}), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if cfg.Notify.EvictionTTL <= 0 {
		cfg.Notify.EvictionTTL = 3 * time.Second
	}
	return &cfg, nil
}
