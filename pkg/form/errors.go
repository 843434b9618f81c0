package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-entityform/pkg/model"
)

var (
	// ErrInvalid is returned by Controller.Submit when local validation fails.
	ErrInvalid = errors.New("form: validation failed")
	// ErrSubmitPending is returned when a submission is already in flight.
	ErrSubmitPending = errors.New("form: submission already pending")
	// ErrFieldLocked is returned when writing a translation-immutable field.
	ErrFieldLocked = errors.New("form: field is locked")
	// ErrClosed is returned after the controller has been closed.
	ErrClosed = errors.New("form: controller closed")
	// ErrIndexOutOfRange is returned by Remove for an unknown entry.
	ErrIndexOutOfRange = errors.New("form: index out of range")
	// ErrNotRepeatable is returned when a group operation targets a scalar.
	ErrNotRepeatable = errors.New("form: path is not a repeatable group")
)

// ValidationError is the server-side rejection shape
// {"validation": {"input.notice": ["Notice is required"]}}.
type ValidationError struct {
	Validation map[string][]string `json:"validation"`
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Validation) == 0 {
		return "form: server rejected submission"
	}
	keys := make([]string, 0, len(e.Validation))
	for key := range e.Validation {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return fmt.Sprintf("form: server rejected %s", strings.Join(keys, ", "))
}

// UnmarshalJSON accepts either a list of messages or a single message per path.
func (e *ValidationError) UnmarshalJSON(data []byte) error {
	var raw struct {
		Validation map[string]json.RawMessage `json:"validation"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Validation = make(map[string][]string, len(raw.Validation))
	for path, value := range raw.Validation {
		var list []string
		if err := json.Unmarshal(value, &list); err == nil {
			e.Validation[path] = list
			continue
		}
		var single string
		if err := json.Unmarshal(value, &single); err != nil {
			return fmt.Errorf("form: validation entry %q: %w", path, err)
		}
		e.Validation[path] = []string{single}
	}
	return nil
}

// ErrorMapping splits a server payload into field-level and form-level
// messages keyed by the dotted paths used in State.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapValidation resolves the paths of a server payload against the form's
// fields. The leading segment (the mutation's input grouping) is stripped and
// the remainder is matched against the longest known field path. Indices of
// repeatable groups are preserved. Unknown paths become form-level messages.
func MapValidation(form model.Form, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		return mapping
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, rawPath := range keys {
		messages := normalizeMessages(payload[rawPath])
		if len(messages) == 0 {
			continue
		}
		mapped, formLevel := mapErrorPath(form, rawPath)
		if formLevel {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields[mapped] = append(mapping.Fields[mapped], messages...)
	}

	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(form model.Form, raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", true
	}
	segments := parsePathSegments(trimmed)
	if len(segments) == 0 {
		return "", true
	}

	variants := make([][]string, 0, 3)
	if len(segments) > 1 {
		variants = append(variants, segments[1:])
	}
	variants = append(variants, dropWrapperSegments(segments), segments)

	best := ""
	for _, variant := range variants {
		if path := longestMatchingPath(form, variant); len(path) > len(best) {
			best = path
		}
	}
	if best == "" {
		return "", true
	}
	return best, false
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimPrefix(clean, "#/")
	clean = strings.TrimPrefix(clean, "$.")
	clean = strings.TrimLeft(clean, "#/.$")

	replacer := strings.NewReplacer("[", ".", "]", "")
	clean = strings.Trim(replacer.Replace(clean), "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 1 {
		switch strings.ToLower(out[0]) {
		case "input", "body", "request", "payload", "data", "attributes":
			out = out[1:]
			continue
		}
		break
	}
	return out
}

// longestMatchingPath trims trailing segments until the remainder resolves to
// a field of form.
func longestMatchingPath(form model.Form, segments []string) string {
	for end := len(segments); end > 0; end-- {
		if isIndex(segments[end-1]) {
			continue
		}
		candidate := strings.Join(segments[:end], ".")
		if _, ok := form.Lookup(candidate); ok {
			return candidate
		}
	}
	return ""
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "input", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
