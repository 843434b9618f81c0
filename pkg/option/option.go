// Package option models selectable choices at the presentation boundary.
// Entity data types use bare enum values; form state wraps them in a Ref so
// select inputs can display a label. Refs are unwrapped before transmission and
// rebuilt from bare values when a persisted record populates a form.
package option

import (
	"encoding/json"
	"strings"
)

// Ref is a single selectable choice.
type Ref struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// IsZero reports whether the ref carries no selection.
func (r Ref) IsZero() bool {
	return strings.TrimSpace(r.Value) == ""
}

// Set is an ordered list of choices for one field.
type Set []Ref

// Of builds a set from alternating label/value pairs.
func Of(pairs ...string) Set {
	out := make(Set, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Ref{Label: pairs[i], Value: pairs[i+1]})
	}
	return out
}

// Find resolves a bare value back to its Ref.
func (s Set) Find(value string) (Ref, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Ref{}, false
	}
	for _, ref := range s {
		if ref.Value == value {
			return ref, true
		}
	}
	return Ref{}, false
}

// FindLabel resolves a display label (case-insensitive) to its Ref.
func (s Set) FindLabel(label string) (Ref, bool) {
	label = strings.TrimSpace(label)
	for _, ref := range s {
		if strings.EqualFold(ref.Label, label) {
			return ref, true
		}
	}
	return Ref{}, false
}

// First returns the first choice or the zero Ref for empty sets.
func (s Set) First() Ref {
	if len(s) == 0 {
		return Ref{}
	}
	return s[0]
}

// Labels lists display labels in order.
func (s Set) Labels() []string {
	out := make([]string, len(s))
	for i, ref := range s {
		out[i] = ref.Label
	}
	return out
}

// Values lists bare values in order.
func (s Set) Values() []string {
	out := make([]string, len(s))
	for i, ref := range s {
		out[i] = ref.Value
	}
	return out
}

// Index returns the position of value in the set or -1.
func (s Set) Index(value string) int {
	for i, ref := range s {
		if ref.Value == value {
			return i
		}
	}
	return -1
}

// Unwrap extracts the bare value from a form-state entry. Form state may hold
// a Ref, a *Ref, a decoded JSON object, or an already bare string.
func Unwrap(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case Ref:
		return typed.Value
	case *Ref:
		if typed == nil {
			return ""
		}
		return typed.Value
	case string:
		return typed
	case map[string]any:
		if value, ok := typed["value"].(string); ok {
			return value
		}
		return ""
	default:
		return ""
	}
}

// AsRef coerces a form-state entry into a Ref. Bare strings are resolved
// against set when provided.
func AsRef(v any, set Set) (Ref, bool) {
	switch typed := v.(type) {
	case Ref:
		return typed, !typed.IsZero()
	case *Ref:
		if typed == nil {
			return Ref{}, false
		}
		return *typed, !typed.IsZero()
	case string:
		if ref, ok := set.Find(typed); ok {
			return ref, true
		}
		return Ref{Value: typed, Label: typed}, strings.TrimSpace(typed) != ""
	case map[string]any:
		raw, err := json.Marshal(typed)
		if err != nil {
			return Ref{}, false
		}
		var ref Ref
		if err := json.Unmarshal(raw, &ref); err != nil {
			return Ref{}, false
		}
		return ref, !ref.IsZero()
	default:
		return Ref{}, false
	}
}
