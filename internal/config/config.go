package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
	"github.com/tatianab/life-narrator/internal/i18n"
	"golang.org/x/text/language"
)

const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey   string        `env:"GEMINI_API_KEY"`
	Model          string        `env:"NARRATOR_MODEL" envDefault:"gemini-2.0-flash"`
	Temperature    float32       `env:"NARRATOR_TEMPERATURE" envDefault:"0.95"`
	Language       string        `env:"NARRATOR_LANGUAGE" envDefault:"ar"`
	RequestTimeout time.Duration `env:"NARRATOR_REQUEST_TIMEOUT" envDefault:"90s"`
	Store          string        `env:"NARRATOR_STORE" envDefault:"file"`
	SaveDir        string        `env:"NARRATOR_SAVE_DIR" envDefault:".saves"`
	SQLitePath     string        `env:"NARRATOR_SQLITE_PATH" envDefault:".saves/narrator.db"`
	LogFile        string        `env:"NARRATOR_LOG_FILE" envDefault:"narrator.log"`
}

// LoadConfig reads the environment, then applies every key explicitly set in
// v (bound flags or a config file). v may be nil.
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if v != nil {
		overlay(cfg, v)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overlay(cfg *Config, v *viper.Viper) {
	if v.IsSet("gemini_api_key") {
		cfg.GeminiAPIKey = v.GetString("gemini_api_key")
	}
	if v.IsSet("model") {
		cfg.Model = v.GetString("model")
	}
	if v.IsSet("temperature") {
		cfg.Temperature = float32(v.GetFloat64("temperature"))
	}
	if v.IsSet("language") {
		cfg.Language = v.GetString("language")
	}
	if v.IsSet("request_timeout") {
		cfg.RequestTimeout = v.GetDuration("request_timeout")
	}
	if v.IsSet("store") {
		cfg.Store = v.GetString("store")
	}
	if v.IsSet("save_dir") {
		cfg.SaveDir = v.GetString("save_dir")
	}
	if v.IsSet("sqlite_path") {
		cfg.SQLitePath = v.GetString("sqlite_path")
	}
	if v.IsSet("log_file") {
		cfg.LogFile = v.GetString("log_file")
	}
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreFile, StoreSQLite)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %.2f outside [0,2]", c.Temperature)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	return nil
}

// RequireAPIKey reports a missing Gemini key; only playing needs one.
func (c *Config) RequireAPIKey() error {
	if c.GeminiAPIKey == "" {
		return errors.New("GEMINI_API_KEY environment variable is not set")
	}
	return nil
}

// LanguageTag is the supported narrator language closest to Language.
func (c *Config) LanguageTag() language.Tag {
	return i18n.Match(c.Language)
}
