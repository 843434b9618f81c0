package form

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-entityform/pkg/model"
	"github.com/goliatone/go-entityform/pkg/option"
)

// Date layouts accepted by Time, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// String reads key from values as a trimmed string. Option refs yield their
// bare value.
func String(values map[string]any, key string) string {
	switch typed := values[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(typed)
	case option.Ref, *option.Ref:
		return option.Unwrap(typed)
	case fmt.Stringer:
		return strings.TrimSpace(typed.String())
	case int, int64, float64, bool:
		return fmt.Sprint(typed)
	default:
		return ""
	}
}

// Time reads key as a time. Strings are parsed with the usual API layouts.
func Time(values map[string]any, key string) (time.Time, bool) {
	return AsTime(values[key])
}

// TimePtr reads key as an optional time.
func TimePtr(values map[string]any, key string) *time.Time {
	t, ok := AsTime(values[key])
	if !ok {
		return nil
	}
	return &t
}

// AsTime converts a stored value into a time.
func AsTime(v any) (time.Time, bool) {
	switch typed := v.(type) {
	case time.Time:
		return typed, !typed.IsZero()
	case *time.Time:
		if typed == nil {
			return time.Time{}, false
		}
		return *typed, !typed.IsZero()
	case string:
		return ParseDate(typed)
	default:
		return time.Time{}, false
	}
}

// ParseDate parses the date formats the admin API emits.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Float reads key as a float64.
func Float(values map[string]any, key string) (float64, bool) {
	return AsFloat(values[key])
}

// AsFloat converts a stored numeric value.
func AsFloat(v any) (float64, bool) {
	switch typed := v.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case json.Number:
		f, err := typed.Float64()
		return f, err == nil
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Int reads key as an int, truncating floats.
func Int(values map[string]any, key string) (int, bool) {
	f, ok := AsFloat(values[key])
	if !ok {
		return 0, false
	}
	return int(math.Trunc(f)), true
}

// Bool reads key as a bool.
func Bool(values map[string]any, key string) bool {
	switch typed := values[key].(type) {
	case bool:
		return typed
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(typed))
		return b
	default:
		return false
	}
}

// Slice reads key as a list.
func Slice(values map[string]any, key string) []any {
	switch typed := values[key].(type) {
	case []any:
		return typed
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out
	case []string:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out
	default:
		return nil
	}
}

// Map reads key as a nested object.
func Map(values map[string]any, key string) map[string]any {
	typed, _ := values[key].(map[string]any)
	return typed
}

// Strings reads key as a list of strings, unwrapping option refs.
func Strings(values map[string]any, key string) []string {
	items := Slice(values, key)
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if value := strings.TrimSpace(option.Unwrap(item)); value != "" {
			out = append(out, value)
		}
	}
	return out
}

// ZeroValue is the initial value of a field kind.
func ZeroValue(field model.Field) any {
	switch field.Type {
	case model.FieldTypeBoolean:
		return false
	case model.FieldTypeInteger, model.FieldTypeNumber, model.FieldTypeDate,
		model.FieldTypeOption, model.FieldTypeAttachment:
		return nil
	case model.FieldTypeGroup, model.FieldTypeMulti:
		return []any{}
	case model.FieldTypeObject:
		out := make(map[string]any, len(field.Nested))
		for _, nested := range field.Nested {
			out[nested.Name] = ZeroValue(nested)
		}
		return out
	default:
		return ""
	}
}

func isIndex(segment string) bool {
	_, err := strconv.Atoi(segment)
	return err == nil
}
