// Package locale carries the active and default content locales explicitly so
// form controllers and dispatchers never read ambient router state.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Context pairs the locale the operator is editing in with the platform's
// default content locale.
type Context struct {
	Active  string
	Default string
}

// New normalises both codes and falls back to the default when the active
// locale is empty.
func New(active, def string) Context {
	def = Normalize(def)
	active = Normalize(active)
	if active == "" {
		active = def
	}
	return Context{Active: active, Default: def}
}

// IsDefault reports whether the active locale is the default content locale.
func (c Context) IsDefault() bool {
	return Equal(c.Active, c.Default)
}

// Translating reports whether the operator edits a non-default locale.
func (c Context) Translating() bool {
	return !c.IsDefault()
}

// Normalize canonicalises a locale code ("EN_us" -> "en-US"). Codes that fail
// to parse are lower-cased and trimmed so they still compare consistently.
func Normalize(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return ""
	}
	tag, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return strings.ToLower(trimmed)
	}
	return tag.String()
}

// Equal compares two locale codes after normalisation.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Contains reports whether the translated-locales list holds code.
func Contains(locales []string, code string) bool {
	target := Normalize(code)
	if target == "" {
		return false
	}
	for _, candidate := range locales {
		if Normalize(candidate) == target {
			return true
		}
	}
	return false
}
