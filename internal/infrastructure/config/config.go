package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config is the full application configuration, merged from defaults,
// an optional yaml file, and PVB_-prefixed environment variables.
type Config struct {
	Environment string `koanf:"environment" validate:"required"`
	LogLevel    string `koanf:"log_level" validate:"required,oneof=debug info warn error"`
	Region      string `koanf:"region"`

	Redis     RedisConfig     `koanf:"redis"`
	Memory    MemoryConfig    `koanf:"memory"`
	Registry  RegistryConfig  `koanf:"registry"`
	Licensing LicensingConfig `koanf:"licensing"`
}

// RedisConfig configures the durable external cache. Credentials are
// optional; their absence only matters once a connection is attempted.
type RedisConfig struct {
	URL              string        `koanf:"url"`
	Password         string        `koanf:"password"`
	DB               int           `koanf:"db" validate:"gte=0"`
	Enabled          bool          `koanf:"enabled"`
	FallbackToMemory bool          `koanf:"fallback_to_memory"`
	KeyPrefix        string        `koanf:"key_prefix" validate:"required"`
	MaxRetries       int           `koanf:"max_retries" validate:"gte=1"`
	RetryBackoff     time.Duration `koanf:"retry_backoff" validate:"gt=0"`
	DialTimeout      time.Duration `koanf:"dial_timeout" validate:"gt=0"`
	ReadTimeout      time.Duration `koanf:"read_timeout"`
	WriteTimeout     time.Duration `koanf:"write_timeout"`
	PoolSize         int           `koanf:"pool_size" validate:"gte=1"`
	MinIdleConns     int           `koanf:"min_idle_conns" validate:"gte=0"`
}

// MemoryConfig configures the bounded in-process cache used as the
// fallback and the test default.
type MemoryConfig struct {
	MaxEntries      int           `koanf:"max_entries" validate:"gte=1"`
	CleanupInterval time.Duration `koanf:"cleanup_interval" validate:"gt=0"`
}

// RegistryConfig configures the provider registry clients. API keys are
// optional: construction must never fail on a missing credential, only
// the calls that need one.
type RegistryConfig struct {
	NPIBaseURL   string        `koanf:"npi_base_url" validate:"required,url"`
	NPITimeout   time.Duration `koanf:"npi_timeout" validate:"gt=0"`
	NMCBaseURL   string        `koanf:"nmc_base_url" validate:"required,url"`
	NMCAPIKey    string        `koanf:"nmc_api_key"`
	NMCTimeout   time.Duration `koanf:"nmc_timeout" validate:"gt=0"`
	MaxRetries   int           `koanf:"max_retries" validate:"gte=1"`
	RateLimitRPS int           `koanf:"rate_limit_rps" validate:"gte=1"`
}

// LicensingConfig configures the license validator clients. The
// gateway is an aggregator that fronts the individual state board and
// council systems; without its URL, license lookups fail loudly.
type LicensingConfig struct {
	GatewayBaseURL string        `koanf:"gateway_base_url"`
	Timeout        time.Duration `koanf:"timeout" validate:"gt=0"`
	MaxRetries     int           `koanf:"max_retries" validate:"gte=1"`
	RateLimitRPS   int           `koanf:"rate_limit_rps" validate:"gte=1"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		Region:      "usa",
		Redis: RedisConfig{
			URL:              "localhost:6379",
			DB:               0,
			Enabled:          true,
			FallbackToMemory: true,
			KeyPrefix:        "pvb",
			MaxRetries:       3,
			RetryBackoff:     100 * time.Millisecond,
			DialTimeout:      5 * time.Second,
			ReadTimeout:      3 * time.Second,
			WriteTimeout:     3 * time.Second,
			PoolSize:         10,
			MinIdleConns:     2,
		},
		Memory: MemoryConfig{
			MaxEntries:      1000,
			CleanupInterval: 60 * time.Second,
		},
		Registry: RegistryConfig{
			NPIBaseURL:   "https://npiregistry.cms.hhs.gov/api",
			NPITimeout:   10 * time.Second,
			NMCBaseURL:   "https://api.surepass.io/nmc-verification",
			NMCTimeout:   10 * time.Second,
			MaxRetries:   3,
			RateLimitRPS: 10,
		},
		Licensing: LicensingConfig{
			Timeout:      15 * time.Second,
			MaxRetries:   3,
			RateLimitRPS: 10,
		},
	}
}

// Load merges defaults, the optional yaml file at configPath, and
// PVB_-prefixed environment variables, then validates the result.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	} else {
		// Default location is optional.
		_ = k.Load(file.Provider("configs/config.yaml"), yaml.Parser())
	}

	// Double underscore separates nesting levels so multi-word key
	// names keep their single underscores:
	// PVB_REDIS__FALLBACK_TO_MEMORY -> redis.fallback_to_memory.
	if err := k.Load(env.Provider("PVB_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "PVB_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks structural constraints on the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
