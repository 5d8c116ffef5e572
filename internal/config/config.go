// Package config loads the console settings from configs/config.yml and
// HBC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"haber_bosch_console/internal/logger"
	"haber_bosch_console/internal/observability"

	"github.com/spf13/viper"
)

const envPrefix = "HBC"

type Config struct {
	Port string `mapstructure:"port"`
	Log  struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	DB struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"db"`
	UI struct {
		Sides            int    `mapstructure:"sides"`
		BaselineCatalyst string `mapstructure:"baseline_catalyst"`
		AltCatalyst      string `mapstructure:"alt_catalyst"`
	} `mapstructure:"ui"`
	Canvas struct {
		ID     string `mapstructure:"id"`
		Width  int    `mapstructure:"width"`
		Height int    `mapstructure:"height"`
	} `mapstructure:"canvas"`
	WS struct {
		Interval       time.Duration `mapstructure:"interval"`
		AllowedOrigins []string      `mapstructure:"allowed_origins"`
	} `mapstructure:"ws"`
	Trace observability.TracingConfig `mapstructure:"trace"`
	Auth  struct {
		Enabled    bool          `mapstructure:"enabled"`
		SigningKey string        `mapstructure:"signing_key"`
		TokenTTL   time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`
}

// minSigningKey is the shortest HMAC key accepted for operator tokens.
const minSigningKey = 16

// setDefaults mirrors configs/config.yml so the console starts without it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", logger.InfoLevel)
	v.SetDefault("log.format", logger.ConsoleFormat)
	v.SetDefault("db.path", "app.db")
	v.SetDefault("ui.sides", 2)
	v.SetDefault("ui.baseline_catalyst", "KMIR")
	v.SetDefault("ui.alt_catalyst", "FN")
	v.SetDefault("canvas.id", "canvas")
	v.SetDefault("canvas.width", 1200)
	v.SetDefault("canvas.height", 800)
	v.SetDefault("ws.interval", "1s")
	v.SetDefault("ws.allowed_origins", []string{})
	v.SetDefault("trace.enabled", false)
	v.SetDefault("trace.service_name", "hbconsole")
	v.SetDefault("trace.exporter", "stdout")
	v.SetDefault("trace.endpoint", "")
	v.SetDefault("trace.sample_ratio", 1.0)
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", "1h")
}

// Load reads the config file from dir (or the given file path) and applies
// environment overrides such as HBC_PORT or HBC_DB_PATH. A missing file is
// not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml") {
		v.SetConfigFile(path)
	} else {
		if path == "" {
			path = "configs"
		}
		v.AddConfigPath(path)
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the console cannot start with.
func (c Config) Validate() error {
	if !logger.ValidLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if !logger.ValidFormat(c.Log.Format) {
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	if c.UI.Sides != 1 && c.UI.Sides != 2 {
		return fmt.Errorf("ui.sides must be 1 or 2, got %d", c.UI.Sides)
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.WS.Interval <= 0 {
		return fmt.Errorf("ws.interval must be positive, got %s", c.WS.Interval)
	}
	if c.Trace.SampleRatio < 0 || c.Trace.SampleRatio > 1 {
		return fmt.Errorf("trace.sample_ratio must be within [0, 1], got %g", c.Trace.SampleRatio)
	}
	if c.Auth.Enabled {
		if len(c.Auth.SigningKey) < minSigningKey {
			return fmt.Errorf("auth.signing_key must be at least %d bytes when auth is enabled", minSigningKey)
		}
		if c.Auth.TokenTTL <= 0 {
			return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
		}
	}
	return nil
}
