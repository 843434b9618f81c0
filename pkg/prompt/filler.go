// Package prompt fills entity forms interactively on a terminal. It is the
// presentation boundary: option refs are shown by label, locked fields are
// printed but skipped, and repeatable groups are edited entry by entry.
package prompt

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-entityform/pkg/form"
	"github.com/goliatone/go-entityform/pkg/i18n"
	"github.com/goliatone/go-entityform/pkg/model"
	"github.com/goliatone/go-entityform/pkg/option"
	"github.com/goliatone/go-entityform/pkg/suggest"
	"go.uber.org/zap"
)

const (
	dateLayout = "2006-01-02"
	noneOption = "(none)"
	skipOption = "(skip)"
	clearValue = "-"
)

// Form is the controller surface the filler drives. *form.Controller
// satisfies it for every entity.
type Form interface {
	Layout() model.Form
	Visible(path string) bool
	Disabled(path string) bool
	Value(path string) (any, bool)
	SetValue(path string, value any) error
	Append(path string, item any) (int, error)
	Remove(path string, index int) error
	Len(path string) int
	SlugEditable() bool
	UnlockSlug() error
	SuggestionsEnabled(field string) bool
	Suggestions(ctx context.Context, field string) ([]suggest.Suggestion, error)
	ApplySuggestion(field, text string) error
	Errors() map[string][]string
	FormErrors() []string
}

// Option configures a Filler.
type Option func(*Filler)

// WithTranslator localises labels and error messages for locale.
func WithTranslator(t i18n.Translator, locale string) Option {
	return func(f *Filler) {
		f.translator = t
		f.locale = locale
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Filler walks a form layout and prompts for each field.
type Filler struct {
	driver     Driver
	translator i18n.Translator
	locale     string
	logger     *zap.Logger
}

// New builds a filler on driver.
func New(driver Driver, opts ...Option) *Filler {
	f := &Filler{driver: driver, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Fill prompts for every visible top-level field in layout order. When only
// is given, the other fields are skipped. Visibility is re-evaluated per
// field so a choice can reveal the fields after it.
func (f *Filler) Fill(ctx context.Context, target Form, only ...string) error {
	layout := i18n.LocalizeForm(target.Layout(), f.locale, f.translator, nil)
	filter := make(map[string]struct{}, len(only))
	for _, name := range only {
		filter[name] = struct{}{}
	}
	for _, field := range layout.Fields {
		if len(filter) > 0 {
			if _, ok := filter[field.Name]; !ok {
				continue
			}
		}
		if !target.Visible(field.Name) {
			continue
		}
		if err := f.fillField(ctx, target, field, field.Name); err != nil {
			return err
		}
	}
	return nil
}

// Report prints the form-level and field errors of target.
func (f *Filler) Report(ctx context.Context, target Form) error {
	for _, msg := range target.FormErrors() {
		if err := f.driver.Info(ctx, "! "+i18n.Message(f.locale, msg, f.translator)); err != nil {
			return err
		}
	}
	errs := i18n.LocalizeErrors(target.Errors(), f.locale, f.translator)
	paths := make([]string, 0, len(errs))
	for path := range errs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		for _, msg := range errs[path] {
			if err := f.driver.Info(ctx, fmt.Sprintf("! %s: %s", path, msg)); err != nil {
				return err
			}
		}
	}
	return nil
}

// ErrorFields lists the top-level fields carrying errors, in layout order.
func ErrorFields(target Form) []string {
	errs := target.Errors()
	var out []string
	for _, field := range target.Layout().Fields {
		for path := range errs {
			if path == field.Name || strings.HasPrefix(path, field.Name+".") {
				out = append(out, field.Name)
				break
			}
		}
	}
	return out
}

func (f *Filler) fillField(ctx context.Context, target Form, field model.Field, path string) error {
	if target.Disabled(path) {
		if path != form.SlugField || !target.SlugEditable() {
			return f.showLocked(ctx, target, field, path)
		}
		edit, err := f.driver.Confirm(ctx, ConfirmConfig{Message: fmt.Sprintf("Edit %s?", field.Label)})
		if err != nil {
			return err
		}
		if !edit {
			return f.showLocked(ctx, target, field, path)
		}
		if err := target.UnlockSlug(); err != nil {
			return err
		}
	}

	if target.SuggestionsEnabled(path) {
		if err := f.offerSuggestions(ctx, target, field, path); err != nil {
			return err
		}
	}

	switch field.Type {
	case model.FieldTypeBoolean:
		return f.fillBool(ctx, target, field, path)
	case model.FieldTypeInteger, model.FieldTypeNumber:
		return f.fillNumber(ctx, target, field, path)
	case model.FieldTypeDate:
		return f.fillDate(ctx, target, field, path)
	case model.FieldTypeOption:
		return f.fillOption(ctx, target, field, path)
	case model.FieldTypeMulti:
		return f.fillMulti(ctx, target, field, path)
	case model.FieldTypeGroup:
		return f.fillGroup(ctx, target, field, path)
	case model.FieldTypeObject:
		return f.fillNested(ctx, target, field, path)
	case model.FieldTypeAttachment:
		return f.fillAttachment(ctx, target, field, path)
	case model.FieldTypeText, model.FieldTypeRichText:
		return f.fillText(ctx, target, field, path, true)
	default:
		return f.fillText(ctx, target, field, path, false)
	}
}

func (f *Filler) showLocked(ctx context.Context, target Form, field model.Field, path string) error {
	current, _ := target.Value(path)
	return f.driver.Info(ctx, fmt.Sprintf("%s (locked): %s", field.Label, display(current)))
}

func (f *Filler) offerSuggestions(ctx context.Context, target Form, field model.Field, path string) error {
	want, err := f.driver.Confirm(ctx, ConfirmConfig{Message: fmt.Sprintf("Generate %s with AI?", field.Label)})
	if err != nil || !want {
		return err
	}
	suggestions, err := target.Suggestions(ctx, path)
	if err != nil {
		f.logger.Warn("suggestions unavailable", zap.String("field", path), zap.Error(err))
		return f.driver.Info(ctx, fmt.Sprintf("No suggestions: %v", err))
	}
	titles := make([]string, 0, len(suggestions)+1)
	for _, s := range suggestions {
		titles = append(titles, s.Title)
	}
	titles = append(titles, skipOption)
	idx, err := f.driver.Select(ctx, SelectConfig{Message: field.Label, Options: titles, DefaultIndex: len(titles) - 1})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(suggestions) {
		return nil
	}
	return target.ApplySuggestion(path, suggestions[idx].Title)
}

func (f *Filler) fillText(ctx context.Context, target Form, field model.Field, path string, multiline bool) error {
	current, _ := target.Value(path)
	for {
		var (
			response string
			err      error
		)
		if multiline {
			response, err = f.driver.TextArea(ctx, TextAreaConfig{Message: field.Label, Default: display(current), Help: field.Description})
		} else {
			response, err = f.driver.Input(ctx, InputConfig{Message: field.Label, Default: display(current), Help: field.Placeholder})
		}
		if err != nil {
			return err
		}
		if field.Required && strings.TrimSpace(response) == "" {
			if err := f.driver.Info(ctx, fmt.Sprintf("%s is required", field.Label)); err != nil {
				return err
			}
			continue
		}
		return target.SetValue(path, response)
	}
}

func (f *Filler) fillBool(ctx context.Context, target Form, field model.Field, path string) error {
	current, _ := target.Value(path)
	def, _ := current.(bool)
	resp, err := f.driver.Confirm(ctx, ConfirmConfig{Message: field.Label, Default: def, Help: field.Description})
	if err != nil {
		return err
	}
	return target.SetValue(path, resp)
}

func (f *Filler) fillNumber(ctx context.Context, target Form, field model.Field, path string) error {
	current, _ := target.Value(path)
	for {
		input, err := f.driver.Input(ctx, InputConfig{Message: field.Label, Default: display(current), Help: field.Description})
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			if field.Required {
				if err := f.driver.Info(ctx, fmt.Sprintf("%s is required", field.Label)); err != nil {
					return err
				}
				continue
			}
			return target.SetValue(path, nil)
		}

		var parsed any
		if field.Type == model.FieldTypeInteger {
			parsed, err = strconv.Atoi(input)
		} else {
			parsed, err = strconv.ParseFloat(input, 64)
		}
		if err != nil {
			if err := f.driver.Info(ctx, fmt.Sprintf("Invalid %s: %q is not a number", field.Label, input)); err != nil {
				return err
			}
			continue
		}
		return target.SetValue(path, parsed)
	}
}

func (f *Filler) fillDate(ctx context.Context, target Form, field model.Field, path string) error {
	current, _ := target.Value(path)
	for {
		input, err := f.driver.Input(ctx, InputConfig{Message: field.Label, Default: display(current), Help: "YYYY-MM-DD"})
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" && !field.Required {
			return target.SetValue(path, nil)
		}
		parsed, ok := form.ParseDate(input)
		if !ok {
			if err := f.driver.Info(ctx, fmt.Sprintf("Invalid %s: use YYYY-MM-DD", field.Label)); err != nil {
				return err
			}
			continue
		}
		return target.SetValue(path, parsed)
	}
}

func (f *Filler) fillOption(ctx context.Context, target Form, field model.Field, path string) error {
	if len(field.Options) == 0 {
		return f.driver.Info(ctx, fmt.Sprintf("%s: no options available", field.Label))
	}
	labels := field.Options.Labels()
	if !field.Required {
		labels = append(labels, noneOption)
	}
	current, _ := target.Value(path)
	defaultIdx := field.Options.Index(option.Unwrap(current))
	if defaultIdx < 0 && !field.Required {
		defaultIdx = len(labels) - 1
	}

	idx, err := f.driver.Select(ctx, SelectConfig{Message: field.Label, Options: labels, DefaultIndex: defaultIdx, Help: field.Description})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(field.Options) {
		return target.SetValue(path, nil)
	}
	return target.SetValue(path, field.Options[idx])
}

func (f *Filler) fillMulti(ctx context.Context, target Form, field model.Field, path string) error {
	if len(field.Options) == 0 {
		return f.driver.Info(ctx, fmt.Sprintf("%s: no options available", field.Label))
	}
	current, _ := target.Value(path)
	var defaults []int
	for _, item := range asSlice(current) {
		if idx := field.Options.Index(option.Unwrap(item)); idx >= 0 {
			defaults = append(defaults, idx)
		}
	}

	indices, err := f.driver.MultiSelect(ctx, SelectConfig{Message: field.Label, Options: field.Options.Labels(), Defaults: defaults, Help: field.Description})
	if err != nil {
		return err
	}
	selected := make([]any, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(field.Options) {
			selected = append(selected, field.Options[idx])
		}
	}
	return target.SetValue(path, selected)
}

func (f *Filler) fillGroup(ctx context.Context, target Form, field model.Field, path string) error {
	for i := 0; i < target.Len(path); {
		entryPath := fmt.Sprintf("%s.%d", path, i)
		entry, _ := target.Value(entryPath)
		keep, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Keep %s #%d (%s)?", field.Label, i+1, display(entry)),
			Default: true,
		})
		if err != nil {
			return err
		}
		if !keep {
			if err := target.Remove(path, i); err != nil {
				return err
			}
			continue
		}
		if err := f.fillNested(ctx, target, field, entryPath); err != nil {
			return err
		}
		i++
	}

	for {
		add, err := f.driver.Confirm(ctx, ConfirmConfig{Message: fmt.Sprintf("Add %s entry?", field.Label)})
		if err != nil {
			return err
		}
		if !add {
			return nil
		}
		idx, err := target.Append(path, zeroEntry(field))
		if err != nil {
			return err
		}
		if err := f.fillNested(ctx, target, field, fmt.Sprintf("%s.%d", path, idx)); err != nil {
			return err
		}
	}
}

func (f *Filler) fillNested(ctx context.Context, target Form, field model.Field, path string) error {
	for _, nested := range field.Nested {
		if nested.Metadata["hidden"] == "true" {
			continue
		}
		if err := f.fillField(ctx, target, nested, path+"."+nested.Name); err != nil {
			return err
		}
	}
	return nil
}

func (f *Filler) fillAttachment(ctx context.Context, target Form, field model.Field, path string) error {
	current, _ := target.Value(path)
	input, err := f.driver.Input(ctx, InputConfig{
		Message: field.Label,
		Default: display(current),
		Help:    "File URL, empty keeps the current file, - removes it",
	})
	if err != nil {
		return err
	}
	input = strings.TrimSpace(input)
	switch {
	case input == clearValue:
		return target.SetValue(path, nil)
	case input == "" || input == display(current):
		return nil
	default:
		return target.SetValue(path, map[string]any{"thumbnail": input, "original": input})
	}
}

func zeroEntry(field model.Field) map[string]any {
	entry := make(map[string]any, len(field.Nested))
	for _, nested := range field.Nested {
		if nested.Metadata["hidden"] == "true" {
			continue
		}
		entry[nested.Name] = form.ZeroValue(nested)
	}
	return entry
}

// display renders a state value for prompt defaults and summaries.
func display(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case option.Ref:
		return typed.Label
	case *option.Ref:
		if typed == nil {
			return ""
		}
		return typed.Label
	case time.Time:
		if typed.IsZero() {
			return ""
		}
		return typed.Format(dateLayout)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case map[string]any:
		if original, ok := typed["original"].(string); ok {
			return original
		}
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			if s := display(typed[key]); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			if s := display(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(typed)
	}
}

func asSlice(v any) []any {
	switch typed := v.(type) {
	case []any:
		return typed
	default:
		return nil
	}
}
