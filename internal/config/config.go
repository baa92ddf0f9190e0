// Package config loads tool settings from kraken.toml and KRAKEN_*
// environment variables.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/rbyshko/kraken-std/cargo"
)

// Config holds the tool-wide settings.
type Config struct {
	CargoBin string `mapstructure:"cargo_bin"`
	LogLevel string `mapstructure:"log_level"`
}

// Load reads kraken.toml from the working directory, if present, and
// applies environment overrides. Missing file means defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("cargo_bin", cargo.DefaultBin)
	v.SetDefault("log_level", "info")

	v.SetConfigName("kraken")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("kraken")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error, got: %s", cfg.LogLevel)
	}
}
