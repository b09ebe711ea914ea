// Package config loads the client configuration from defaults and
// COPILOT_-prefixed environment variables, with struct-tag driven
// validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "COPILOT_"

// Config is the full client configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	CLI    CLIConfig    `koanf:"cli"`
	Log    LogConfig    `koanf:"log"`
}

// ServerConfig describes the backend the client talks to.
type ServerConfig struct {
	BaseURL    string        `koanf:"base_url"    validate:"required,url"`
	Timeout    time.Duration `koanf:"timeout"     validate:"required"`
	RetryCount int           `koanf:"retry_count" validate:"gte=0,lte=10"`
}

// CLIConfig holds client-local settings.
type CLIConfig struct {
	StateDir    string `koanf:"state_dir" validate:"required"`
	SeedArchive bool   `koanf:"seed_archive"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

// Default returns the built-in configuration values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:    "http://localhost:8000",
			Timeout:    10 * time.Second,
			RetryCount: 2,
		},
		CLI: CLIConfig{
			StateDir:    defaultStateDir(),
			SeedArchive: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultStateDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".copilot"
	}
	return filepath.Join(base, "copilot")
}

// Load builds the configuration from defaults overlaid with
// environment variables (COPILOT_SERVER_BASE_URL and friends).
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return transformEnvKey(key), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// transformEnvKey converts COPILOT_SERVER_BASE_URL into
// server.base_url. The first underscore separates the section from
// the field; remaining underscores belong to the field name.
func transformEnvKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	parts := strings.SplitN(key, "_", 2)
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + "." + parts[1]
}
