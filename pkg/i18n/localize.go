package i18n

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-entityform/pkg/model"
)

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*:[a-z0-9][a-z0-9_.-]*$`)

// IsKey reports whether s looks like a namespaced message key.
func IsKey(s string) bool {
	return keyPattern.MatchString(strings.TrimSpace(s))
}

// LocalizeForm returns a copy of form with labels, placeholders and
// descriptions resolved for code. Fields without a LabelKey keep their label,
// or get one derived from the field name.
func LocalizeForm(form model.Form, code string, t Translator, onMissing MissingTranslationHandler) model.Form {
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	form.Title = localizeText(code, form.Title, t, onMissing)
	form.Description = localizeText(code, form.Description, t, onMissing)
	form.Fields = localizeFields(form.Fields, code, t, onMissing)
	return form
}

func localizeFields(fields []model.Field, code string, t Translator, onMissing MissingTranslationHandler) []model.Field {
	if len(fields) == 0 {
		return fields
	}
	out := make([]model.Field, len(fields))
	for i, field := range fields {
		fallback := field.DisplayLabel()
		if key := strings.TrimSpace(field.LabelKey); key != "" {
			field.Label = translate(code, key, fallback, t, onMissing)
		} else {
			field.Label = fallback
		}
		field.Placeholder = localizeText(code, field.Placeholder, t, onMissing)
		field.Description = localizeText(code, field.Description, t, onMissing)
		field.Nested = localizeFields(field.Nested, code, t, onMissing)
		out[i] = field
	}
	return out
}

// LocalizeErrors resolves error keys. Messages that are not keys, such as
// server-side messages, pass through unchanged.
func LocalizeErrors(errs map[string][]string, code string, t Translator) map[string][]string {
	out := make(map[string][]string, len(errs))
	for path, messages := range errs {
		translated := make([]string, len(messages))
		for i, msg := range messages {
			translated[i] = Message(code, msg, t, "field", path)
		}
		out[path] = translated
	}
	return out
}

// Message resolves msg when it is a key and returns it unchanged otherwise.
func Message(code, msg string, t Translator, args ...any) string {
	if t == nil || !IsKey(msg) {
		return msg
	}
	if translated, err := t.Translate(code, msg, args...); err == nil && strings.TrimSpace(translated) != "" {
		return translated
	}
	return msg
}

func localizeText(code, text string, t Translator, onMissing MissingTranslationHandler) string {
	if !IsKey(text) {
		return text
	}
	return translate(code, text, "", t, onMissing)
}

func translate(code, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	if t == nil {
		return onMissing(code, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
	}
	result, err := t.Translate(code, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(code, key, []any{map[string]any{"default": fallback}}, err)
}

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		if data, ok := arg.(map[string]any); ok {
			if fallback, ok := data["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}
