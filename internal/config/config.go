package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/viper"

	"storefront/internal/models"
)

const (
	EnvPrefix = "STOREFRONT"

	DefaultBaseURL        = "https://raw.githubusercontent.com/ArTurProgramming-official/market-place-data/main/"
	DefaultCurrentVersion = "1.1"
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultCurrency       = "₽"
	DefaultAboutURL       = "https://t.me/ArturProgrammer"
	DefaultLogLevel       = "info"
	DefaultRefreshRate    = 1.0
	DefaultRefreshBurst   = 2
)

// Config holds everything the application reads from the environment.
type Config struct {
	BaseURL        string
	CurrentVersion string
	HTTPTimeout    time.Duration
	Currency       string
	AboutURL       string
	DataPath       string
	LogLevel       string
	JSONLogs       bool
	RefreshRate    float64
	RefreshBurst   int
}

// Load reads defaults overridden by STOREFRONT_* environment variables.
func Load() (Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom reads configuration through an existing viper instance.
func LoadFrom(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("current_version", DefaultCurrentVersion)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("currency", DefaultCurrency)
	v.SetDefault("about_url", DefaultAboutURL)
	v.SetDefault("data_path", "")
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("json_logs", false)
	v.SetDefault("refresh_rate", DefaultRefreshRate)
	v.SetDefault("refresh_burst", DefaultRefreshBurst)

	cfg := Config{
		BaseURL:        v.GetString("base_url"),
		CurrentVersion: strings.TrimSpace(v.GetString("current_version")),
		HTTPTimeout:    v.GetDuration("http_timeout"),
		Currency:       v.GetString("currency"),
		AboutURL:       v.GetString("about_url"),
		DataPath:       v.GetString("data_path"),
		LogLevel:       v.GetString("log_level"),
		JSONLogs:       v.GetBool("json_logs"),
		RefreshRate:    v.GetFloat64("refresh_rate"),
		RefreshBurst:   v.GetInt("refresh_burst"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values the rest of the application relies on.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return errors.Wrap(err, "parse base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return errors.Errorf("base url %q must be an absolute http(s) url", c.BaseURL)
	}

	if _, err := models.ParseVersion(c.CurrentVersion); err != nil {
		return errors.Wrap(err, "current version")
	}

	if c.HTTPTimeout <= 0 {
		return errors.Errorf("http timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.RefreshRate <= 0 {
		return errors.Errorf("refresh rate must be positive, got %v", c.RefreshRate)
	}
	if c.RefreshBurst < 1 {
		return errors.Errorf("refresh burst must be at least 1, got %d", c.RefreshBurst)
	}
	return nil
}
