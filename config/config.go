package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/carbonsaver/core/forecast"
	"github.com/kilianp07/carbonsaver/core/metrics"
	"github.com/kilianp07/carbonsaver/infra/elia"
	"github.com/kilianp07/carbonsaver/infra/entsoe"
	"github.com/kilianp07/carbonsaver/infra/mqtt"
)

type Config struct {
	API      APIConfig       `json:"api"`
	Elia     elia.Config     `json:"elia"`
	Entsoe   entsoe.Config   `json:"entsoe"`
	Forecast forecast.Config `json:"forecast"`
	Factors  FactorsConfig   `json:"factors"`
	Metrics  metrics.Config  `json:"metrics"`
	MQTT     mqtt.Config     `json:"mqtt"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides. The callback rewrites CS_A__B to a.b,
	// so the provider delimiter must be the dot the rewritten keys use.
	if err := k.Load(env.Provider("CS_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "cs_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.API.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Factors.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults section by section.
func (c *Config) SetDefaults() {
	c.API.SetDefaults()
	c.Elia.SetDefaults()
	c.Entsoe.SetDefaults()
	c.Forecast.SetDefaults()
	c.Metrics.SetDefaults()
	c.MQTT.SetDefaults()
}

// APIConfig defines the HTTP server settings.
type APIConfig struct {
	// Address is the listen address of the API server.
	Address string `json:"address"`
	// PrefetchEnabled keeps the next-day forecast warm in the background.
	PrefetchEnabled bool `json:"prefetch_enabled"`
	// PrefetchIntervalMinutes spaces the background refresh attempts.
	PrefetchIntervalMinutes int `json:"prefetch_interval_minutes"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8000"
	}
	if c.PrefetchIntervalMinutes <= 0 {
		c.PrefetchIntervalMinutes = 30
	}
}

// Validate checks mandatory fields.
func (c APIConfig) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("api address is required")
	}
	return nil
}
