// Package config loads settings from an optional YAML file, PEREKLADACH_*
// environment variables and built-in defaults, in that order of precedence
// (environment first).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/valpere/perekladach/internal/language"
	"github.com/valpere/perekladach/internal/translator"
)

const envPrefix = "PEREKLADACH"

type Config struct {
	Backend string        `mapstructure:"backend" validate:"oneof=mymemory google"`
	API     APIConfig     `mapstructure:"api"`
	Google  GoogleConfig  `mapstructure:"google"`
	Window  WindowConfig  `mapstructure:"window"`
	History HistoryConfig `mapstructure:"history"`
	Log     LogConfig     `mapstructure:"log"`
}

type APIConfig struct {
	Endpoint string        `mapstructure:"endpoint" validate:"required,url"`
	Email    string        `mapstructure:"email" validate:"omitempty,email"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"min=0"`
}

type GoogleConfig struct {
	Credentials string `mapstructure:"credentials"`
	ProjectID   string `mapstructure:"project_id"`
}

type WindowConfig struct {
	Source          string `mapstructure:"source" validate:"required"`
	Target          string `mapstructure:"target" validate:"required"`
	ErrorLabel      string `mapstructure:"error_label"`
	ReportMalformed bool   `mapstructure:"report_malformed"`
	UnavailableText string `mapstructure:"unavailable_text" validate:"required_if=ReportMalformed true"`
	ValidateOutput  bool   `mapstructure:"validate_output"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DB      string `mapstructure:"db" validate:"required_if=Enabled true"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Env   string `mapstructure:"env" validate:"oneof=development production"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", "mymemory")
	v.SetDefault("api.endpoint", translator.DefaultMyMemoryEndpoint)
	v.SetDefault("api.email", "")
	v.SetDefault("api.timeout", time.Duration(0))
	v.SetDefault("google.credentials", "")
	v.SetDefault("google.project_id", "")
	v.SetDefault("window.source", "Russian")
	v.SetDefault("window.target", "English")
	v.SetDefault("window.error_label", "Ошибка:")
	v.SetDefault("window.report_malformed", false)
	v.SetDefault("window.unavailable_text", "Translation unavailable")
	v.SetDefault("window.validate_output", false)
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.db", "./data/perekladach.db")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.env", "production")
}

// Load reads configuration. An empty path searches for perekladach.yaml in
// the working directory and $HOME/.config/perekladach; a missing file is
// not an error unless path was given explicitly.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("perekladach")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/perekladach")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the struct tags. Default languages missing from the
// table are not an error; the window falls back to its first entry.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validation failed: %w", err)
		}
		var msgs []string
		for _, e := range verrs {
			msgs = append(msgs, fmt.Sprintf("Field: %s, Tag: %s, Param: %s", e.Namespace(), e.Tag(), e.Param()))
		}
		return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	return nil
}

// DefaultNames returns the display names of the configured default
// selections, accepting either codes or names in the config.
func (c *Config) DefaultNames() (string, string) {
	return displayName(c.Window.Source), displayName(c.Window.Target)
}

func displayName(s string) string {
	if e, _, ok := language.Lookup(s); ok {
		return e.Name
	}
	return s
}

// ServiceConfig maps the backend settings onto the translator's config.
func (c *Config) ServiceConfig() translator.ServiceConfig {
	return translator.ServiceConfig{
		Backend:     c.Backend,
		Endpoint:    c.API.Endpoint,
		Email:       c.API.Email,
		Timeout:     c.API.Timeout,
		Credentials: c.Google.Credentials,
		ProjectID:   c.Google.ProjectID,
	}
}
