package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-entityform/internal/config"
	"github.com/goliatone/go-entityform/pkg/prompt"
)

type queuedDriver struct {
	mu      sync.Mutex
	answers []any
}

func (d *queuedDriver) pop() any {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.answers) == 0 {
		return nil
	}
	answer := d.answers[0]
	d.answers = d.answers[1:]
	return answer
}

func (d *queuedDriver) Input(context.Context, prompt.InputConfig) (string, error) {
	s, _ := d.pop().(string)
	return s, nil
}

func (d *queuedDriver) TextArea(context.Context, prompt.TextAreaConfig) (string, error) {
	s, _ := d.pop().(string)
	return s, nil
}

func (d *queuedDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	b, _ := d.pop().(bool)
	return b, nil
}

func (d *queuedDriver) Select(context.Context, prompt.SelectConfig) (int, error) {
	i, _ := d.pop().(int)
	return i, nil
}

func (d *queuedDriver) MultiSelect(context.Context, prompt.SelectConfig) ([]int, error) {
	i, _ := d.pop().([]int)
	return i, nil
}

func (d *queuedDriver) Info(context.Context, string) error { return nil }

func useDriver(t *testing.T, driver prompt.Driver) {
	t.Helper()
	previous := newDriver
	newDriver = func(io.Writer) prompt.Driver { return driver }
	t.Cleanup(func() { newDriver = previous })
}

func adminAPI(t *testing.T, rejectFirst bool) *httptest.Server {
	t.Helper()
	var mu sync.Mutex
	posts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/me":
			_, _ = io.WriteString(w, `{"id": 1, "permissions": ["store_owner"], "shop_id": 11}`)
		case "/api/settings":
			_, _ = io.WriteString(w, `{"options": {"useAi": false}}`)
		case "/api/attributes":
			mu.Lock()
			posts++
			n := posts
			mu.Unlock()
			if rejectFirst && n == 1 {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = io.WriteString(w, `{"validation": {"input.name": ["Name already taken"]}}`)
				return
			}
			_, _ = io.WriteString(w, `{"id": 5, "slug": "shoe-size", "language": "en", "name": "Shoe Size"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	t.Setenv(config.EnvAPIURL, server.URL+"/api/")
	t.Setenv(config.EnvLocale, "")
	return server
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCreateAttribute(t *testing.T) {
	adminAPI(t, false)
	useDriver(t, &queuedDriver{answers: []any{"Shoe Size", false}})

	out, err := run(t, "attribute", "create")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.Contains(out, `Saved attribute "shoe-size" (id 5)`) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestCreateRepromptsRejectedFields(t *testing.T) {
	adminAPI(t, true)
	driver := &queuedDriver{answers: []any{"Size", false, true, "Shoe Size"}}
	useDriver(t, driver)

	out, err := run(t, "attribute", "create")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.Contains(out, "Saved attribute") {
		t.Fatalf("unexpected output %q", out)
	}
	if len(driver.answers) != 0 {
		t.Fatalf("answers left: %v", driver.answers)
	}
}

func TestConfigMasksToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entityform.yaml")
	doc := "api:\n  url: https://admin.example.com/api/\n  token: abcdefgh1234\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvAPIToken, "")

	out, err := run(t, "--config", path, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if strings.Contains(out, "abcdefgh") || !strings.Contains(out, "****1234") {
		t.Fatalf("token not masked:\n%s", out)
	}
}

func TestConfigReportsInvalidConfiguration(t *testing.T) {
	t.Setenv(config.EnvAPIURL, "admin.example.com")
	t.Setenv(config.EnvAPIToken, "abcdefgh1234")

	out, err := run(t, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out, "admin.example.com") || !strings.Contains(out, "api.url must be an absolute http(s) URL") {
		t.Fatalf("expected the configuration and its problems:\n%s", out)
	}
	if _, err := run(t, "suggest", "author", "bio"); err == nil {
		t.Fatalf("expected commands that reach the API to reject the configuration")
	}
}

func TestEditRequiresSlug(t *testing.T) {
	if _, err := run(t, "author", "edit"); err == nil {
		t.Fatalf("expected an argument error")
	}
}
