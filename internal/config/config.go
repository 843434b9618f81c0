// Package config loads the entityform configuration: defaults, then an
// optional YAML file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIURL    = "ENTITYFORM_API_URL"
	EnvAPIToken  = "ENTITYFORM_API_TOKEN"
	EnvLocale    = "ENTITYFORM_LOCALE"
	EnvOpenAIKey = "OPENAI_API_KEY"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the complete configuration.
type Config struct {
	API     API     `yaml:"api"`
	Locale  Locale  `yaml:"locale"`
	Shop    string  `yaml:"shop"`
	OpenAI  OpenAI  `yaml:"openai"`
	Metrics Metrics `yaml:"metrics"`
}

// API configures the admin API client.
type API struct {
	URL       string        `yaml:"url"`
	Token     string        `yaml:"token"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"`
	Burst     int           `yaml:"burst"`
}

// Locale is the default and active content language.
type Locale struct {
	Default string `yaml:"default"`
	Active  string `yaml:"active"`
}

// OpenAI configures the suggestion provider. Suggestions fall back to the
// built-in prompt catalog when APIKey is empty.
type OpenAI struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Metrics toggles Prometheus instrumentation. A non-empty Addr serves the
// registry on /metrics for the lifetime of the process.
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: API{
			URL:     "http://localhost:8080/api/",
			Timeout: 30 * time.Second,
			Burst:   1,
		},
		Locale: Locale{Default: "en", Active: "en"},
		OpenAI: OpenAI{Model: "gpt-4o-mini"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read is Load without validation.
func Read(path string) (Config, error) {
	cfg := Default()
	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := Parse(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// Parse decodes a YAML document into cfg. Keys absent from raw keep their
// current values.
func Parse(raw []byte, cfg *Config) error {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	decoder := yaml.NewDecoder(strings.NewReader(string(raw)))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		return
	}
	if v := strings.TrimSpace(getenv(EnvAPIURL)); v != "" {
		c.API.URL = v
	}
	if v := strings.TrimSpace(getenv(EnvAPIToken)); v != "" {
		c.API.Token = v
	}
	if v := strings.TrimSpace(getenv(EnvLocale)); v != "" {
		c.Locale.Active = v
	}
	if v := strings.TrimSpace(getenv(EnvOpenAIKey)); v != "" {
		c.OpenAI.APIKey = v
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var problems []string
	if u, err := url.Parse(c.API.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, "api.url must be an absolute http(s) URL")
	}
	if c.API.Timeout < 0 {
		problems = append(problems, "api.timeout must not be negative")
	}
	if c.API.RateLimit < 0 {
		problems = append(problems, "api.rate_limit must not be negative")
	}
	if c.API.RateLimit > 0 && c.API.Burst < 1 {
		problems = append(problems, "api.burst must be at least 1 when rate_limit is set")
	}
	if strings.TrimSpace(c.Locale.Default) == "" {
		problems = append(problems, "locale.default is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// ActiveLocale returns the active locale, or the default when unset.
func (c Config) ActiveLocale() string {
	if active := strings.TrimSpace(c.Locale.Active); active != "" {
		return active
	}
	return c.Locale.Default
}

// String renders the configuration with secrets masked.
func (c Config) String() string {
	masked := c
	masked.API.Token = mask(c.API.Token)
	masked.OpenAI.APIKey = mask(c.OpenAI.APIKey)
	out, err := yaml.Marshal(masked)
	if err != nil {
		return "config: " + err.Error()
	}
	return string(out)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
