// Package i18n resolves the namespaced message keys ("form:input-label-name")
// used by field layouts and schema messages against YAML catalogs.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-entityform/pkg/locale"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is the catalog fallback when none is configured.
const DefaultLocale = "en"

var (
	// ErrMissingTranslator is reported to MissingTranslationHandler when no
	// translator is configured.
	ErrMissingTranslator = errors.New("i18n: translator not configured")
	// ErrMissingTranslation is returned for unknown keys.
	ErrMissingTranslation = errors.New("i18n: missing translation")
)

//go:embed catalogs/*.yaml
var embedded embed.FS

// Translator resolves key for locale. args are interpolation pairs
// ("field", "name") or maps merged into the interpolation data.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to show when a key cannot be
// resolved.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// Catalog is an in-memory Translator. It is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	fallback string
	messages map[string]map[string]string
}

// NewCatalog returns an empty catalog falling back to fallback.
func NewCatalog(fallback string) *Catalog {
	fallback = locale.Normalize(fallback)
	if fallback == "" {
		fallback = DefaultLocale
	}
	return &Catalog{fallback: fallback, messages: make(map[string]map[string]string)}
}

// Default loads the embedded catalogs.
func Default() *Catalog {
	c, err := LoadFS(embedded, "catalogs", DefaultLocale)
	if err != nil {
		panic(fmt.Sprintf("i18n: embedded catalogs: %v", err))
	}
	return c
}

// LoadFS reads every <locale>.yaml (or .yml) file in dir.
func LoadFS(fsys fs.FS, dir, fallback string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("i18n: read %s: %w", dir, err)
	}
	c := NewCatalog(fallback)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := path.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", name, err)
		}
		if err := c.AddYAML(strings.TrimSuffix(name, ext), raw); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// AddYAML merges a YAML document into code's messages. Top-level keys are
// namespaces; nested maps are joined with dots.
func (c *Catalog) AddYAML(code string, raw []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("i18n: parse %s: %w", code, err)
	}
	flat := make(map[string]string)
	for namespace, value := range doc {
		flatten(flat, namespace+":", value)
	}
	c.Add(code, flat)
	return nil
}

// Add merges messages into code.
func (c *Catalog) Add(code string, messages map[string]string) {
	code = locale.Normalize(code)
	c.mu.Lock()
	defer c.mu.Unlock()
	bucket := c.messages[code]
	if bucket == nil {
		bucket = make(map[string]string, len(messages))
		c.messages[code] = bucket
	}
	for key, msg := range messages {
		bucket[key] = msg
	}
}

// Locales lists the loaded locales.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.messages))
	for code := range c.messages {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Translate implements Translator. Lookups try the exact locale, its base
// language and then the fallback locale.
func (c *Catalog) Translate(code, key string, args ...any) (string, error) {
	key = strings.TrimSpace(key)
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, candidate := range c.candidates(code) {
		if msg, ok := c.messages[candidate][key]; ok {
			return interpolate(msg, args), nil
		}
	}
	return "", fmt.Errorf("%w: %s %s", ErrMissingTranslation, code, key)
}

func (c *Catalog) candidates(code string) []string {
	out := make([]string, 0, 3)
	if normalized := locale.Normalize(code); normalized != "" {
		out = append(out, normalized)
		if base, conf := language.Make(normalized).Base(); conf != language.No {
			if b := base.String(); b != normalized {
				out = append(out, b)
			}
		}
	}
	return append(out, c.fallback)
}

func flatten(dest map[string]string, prefix string, value any) {
	switch typed := value.(type) {
	case map[string]any:
		for key, nested := range typed {
			next := prefix + key
			if !strings.HasSuffix(prefix, ":") {
				next = prefix + "." + key
			}
			flatten(dest, next, nested)
		}
	case nil:
	default:
		dest[prefix] = fmt.Sprint(typed)
	}
}

// interpolate replaces {{name}} placeholders from args.
func interpolate(msg string, args []any) string {
	if len(args) == 0 || !strings.Contains(msg, "{{") {
		return msg
	}
	data := make(map[string]string)
	for i := 0; i < len(args); i++ {
		switch typed := args[i].(type) {
		case map[string]any:
			for k, v := range typed {
				data[k] = fmt.Sprint(v)
			}
		case map[string]string:
			for k, v := range typed {
				data[k] = v
			}
		case string:
			if i+1 < len(args) {
				data[typed] = fmt.Sprint(args[i+1])
				i++
			}
		}
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
