// Package config defines the engine's runtime configuration, loaded from a
// YAML file with env var overrides via viper.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level configuration. Maps directly to the YAML file
// structure.
type Config struct {
	Mailbox MailboxConfig `mapstructure:"mailbox"`
	Logging LoggingConfig `mapstructure:"logging"`
	Seed    SeedConfig    `mapstructure:"seed"`
}

// MailboxConfig tunes the engine's request queue.
type MailboxConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// LoggingConfig controls the zerolog writer.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Pretty bool   `mapstructure:"pretty"` // console-writer output instead of JSON
}

// SeedConfig controls whether the demo entrypoint bootstraps tokens,
// markets and market-maker balances on startup.
type SeedConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	MarketMakerID string `mapstructure:"market_maker_id"`
}

// Default returns the configuration used when no file is present: a modest
// mailbox, info-level pretty logging, and seeding enabled for local runs.
func Default() Config {
	return Config{
		Mailbox: MailboxConfig{Capacity: 4096},
		Logging: LoggingConfig{Level: "info", Pretty: true},
		Seed:    SeedConfig{Enabled: true, MarketMakerID: "market_maker_1"},
	}
}

// Load reads config from a YAML file at path, falling back to Default
// when path is empty or the file does not exist. CEX_* environment
// variables override any field (e.g. CEX_LOGGING_LEVEL, CEX_MAILBOX_CAPACITY).
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix("CEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetDefault("mailbox.capacity", cfg.Mailbox.Capacity)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.pretty", cfg.Logging.Pretty)
	v.SetDefault("seed.enabled", cfg.Seed.Enabled)
	v.SetDefault("seed.market_maker_id", cfg.Seed.MarketMakerID)

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Mailbox.Capacity <= 0 {
		return Config{}, fmt.Errorf("mailbox.capacity must be > 0")
	}
	return cfg, nil
}
