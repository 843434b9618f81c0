package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadLayersFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entityform.yaml")
	doc := `
api:
  url: https://admin.example.com/api/
  token: file-token
  timeout: 5s
  rate_limit: 2
  burst: 4
locale:
  default: en
  active: de
shop: book-nook
metrics:
  enabled: true
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(EnvAPIToken, "env-token")
	t.Setenv(EnvOpenAIKey, "sk-test")

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		API: API{
			URL:       "https://admin.example.com/api/",
			Token:     "env-token",
			Timeout:   5 * time.Second,
			RateLimit: 2,
			Burst:     4,
		},
		Locale:  Locale{Default: "en", Active: "de"},
		Shop:    "book-nook",
		OpenAI:  OpenAI{APIKey: "sk-test", Model: "gpt-4o-mini"},
		Metrics: Metrics{Enabled: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	got, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.API.URL != Default().API.URL || got.ActiveLocale() != "en" {
		t.Fatalf("unexpected defaults: %+v", got)
	}
}

func TestReadSkipsValidation(t *testing.T) {
	t.Setenv(EnvAPIURL, "admin.example.com")

	got, err := Read("")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.API.URL != "admin.example.com" {
		t.Fatalf("env override not applied: %+v", got.API)
	}
	if _, err := Load(""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid from Load, got %v", err)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	cfg := Default()
	if err := Parse([]byte("api:\n  endpoint: x\n"), &cfg); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "relative url", mutate: func(c *Config) { c.API.URL = "/api" }, want: "api.url"},
		{name: "ftp url", mutate: func(c *Config) { c.API.URL = "ftp://host/" }, want: "api.url"},
		{name: "negative timeout", mutate: func(c *Config) { c.API.Timeout = -time.Second }, want: "api.timeout"},
		{name: "burst", mutate: func(c *Config) { c.API.RateLimit = 1; c.API.Burst = 0 }, want: "api.burst"},
		{name: "locale", mutate: func(c *Config) { c.Locale.Default = " " }, want: "locale.default"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %s failure, got %v", tc.want, err)
			}
		})
	}
}

func TestActiveLocaleFallsBackToDefault(t *testing.T) {
	cfg := Default()
	cfg.Locale.Active = ""
	cfg.ApplyEnv(func(string) string { return "" })
	if cfg.ActiveLocale() != "en" {
		t.Fatalf("expected default locale, got %q", cfg.ActiveLocale())
	}
}

func TestStringMasksSecrets(t *testing.T) {
	cfg := Default()
	cfg.API.Token = "secret-token-1234"
	cfg.OpenAI.APIKey = "sk"
	out := cfg.String()
	if strings.Contains(out, "secret-token") || !strings.Contains(out, "****1234") {
		t.Fatalf("token not masked:\n%s", out)
	}
}
