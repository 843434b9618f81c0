// Package suggest provides candidate texts for AI-assisted fields. A Provider
// receives the entity kind, the target field and a seed (usually the name the
// operator typed) and returns an ordered list of candidates.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoSuggestions is returned when a provider has nothing for a request.
var ErrNoSuggestions = errors.New("suggest: no suggestions available")

// Request describes what to suggest.
type Request struct {
	Entity string
	Field  string
	Seed   string
	Locale string
	Limit  int
}

// Suggestion is one candidate text.
type Suggestion struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// Provider produces suggestions.
type Provider interface {
	Suggest(ctx context.Context, req Request) ([]Suggestion, error)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(ctx context.Context, req Request) ([]Suggestion, error)

// Suggest implements Provider.
func (fn ProviderFunc) Suggest(ctx context.Context, req Request) ([]Suggestion, error) {
	return fn(ctx, req)
}

// Catalog is a static provider built from prompt templates keyed by
// "entity.field". Each template receives the seed through a %s verb.
type Catalog struct {
	templates map[string][]string
}

// NewCatalog copies templates into a Catalog.
func NewCatalog(templates map[string][]string) *Catalog {
	c := &Catalog{templates: make(map[string][]string, len(templates))}
	for key, list := range templates {
		c.templates[catalogKey(key, "")] = append([]string(nil), list...)
	}
	return c
}

// Register adds or replaces the templates of one entity field.
func (c *Catalog) Register(entity, field string, templates ...string) {
	c.templates[catalogKey(entity, field)] = append([]string(nil), templates...)
}

// Suggest implements Provider.
func (c *Catalog) Suggest(ctx context.Context, req Request) ([]Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	templates, ok := c.templates[catalogKey(req.Entity, req.Field)]
	if !ok || len(templates) == 0 {
		return nil, fmt.Errorf("%w: %s.%s", ErrNoSuggestions, req.Entity, req.Field)
	}

	limit := len(templates)
	if req.Limit > 0 && req.Limit < limit {
		limit = req.Limit
	}
	seed := strings.TrimSpace(req.Seed)
	out := make([]Suggestion, 0, limit)
	for i := 0; i < limit; i++ {
		text := templates[i]
		if strings.Contains(text, "%s") {
			text = fmt.Sprintf(text, seed)
		}
		out = append(out, Suggestion{ID: i + 1, Title: collapseSpaces(text)})
	}
	return out, nil
}

func catalogKey(entity, field string) string {
	key := strings.ToLower(strings.TrimSpace(entity))
	if field = strings.ToLower(strings.TrimSpace(field)); field != "" {
		key += "." + field
	}
	return key
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
