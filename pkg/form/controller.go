package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-entityform/pkg/locale"
	"github.com/goliatone/go-entityform/pkg/model"
	"github.com/goliatone/go-entityform/pkg/schema"
	"github.com/goliatone/go-entityform/pkg/slug"
	"github.com/goliatone/go-entityform/pkg/suggest"
	"go.uber.org/zap"
)

// SlugField is the path the slug policy manages.
const SlugField = "slug"

// ErrSuggestionsDisabled is returned when no provider is configured or the
// field does not accept suggestions.
var ErrSuggestionsDisabled = errors.New("form: suggestions disabled")

// Translator resolves message keys. i18n catalogs satisfy it.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// WithSuggestions enables AI suggestions backed by provider.
func WithSuggestions(provider suggest.Provider) Option {
	return func(cfg *options) {
		cfg.suggester = provider
	}
}

// WithTranslator localises validation messages that are translation keys.
func WithTranslator(t Translator) Option {
	return func(cfg *options) {
		cfg.translator = t
	}
}

// Controller binds a Definition to one form mount: it owns the state, gates
// locked fields, validates, maps and dispatches.
type Controller[E Record, P any] struct {
	def        Definition[E, P]
	env        Env
	state      *State
	dispatcher *Dispatcher[E, P]
	cfg        options

	mu           sync.Mutex
	initial      *E
	slugUnlocked bool
	cancel       context.CancelFunc
	closed       bool
}

// NewController mounts def. A nil initial record opens a create form seeded
// from the definition defaults; otherwise the record is decoded into state.
func NewController[E Record, P any](def Definition[E, P], env Env, initial *E, mutations Mutations[E, P], opts ...Option) *Controller[E, P] {
	cfg := newOptions(opts)
	env.Locale = locale.New(env.Locale.Active, env.Locale.Default)

	var values map[string]any
	switch {
	case initial != nil && def.Decode != nil:
		values = def.Decode(*initial, env)
	case def.Defaults != nil:
		values = def.Defaults(env)
	}
	if values == nil {
		values = make(map[string]any)
	}
	for _, field := range def.Form.Fields {
		if _, ok := values[field.Name]; !ok {
			values[field.Name] = ZeroValue(field)
		}
	}

	c := &Controller[E, P]{
		def:        def,
		env:        env,
		state:      NewState(values),
		dispatcher: NewDispatcher(def.Form, mutations, opts...),
		cfg:        cfg,
	}
	if initial != nil {
		record := *initial
		c.initial = &record
	}
	c.refreshSlug()

	cfg.logger.Debug("form mounted",
		zap.String("entity", def.Name),
		zap.String("action", string(env.Action)),
		zap.String("locale", env.Locale.Active),
		zap.Bool("initial", initial != nil))
	return c
}

// Definition exposes the bound definition.
func (c *Controller[E, P]) Definition() Definition[E, P] { return c.def }

// Env exposes the explicit context of the mount.
func (c *Controller[E, P]) Env() Env { return c.env }

// Initial returns the record the form was opened with, or the record returned
// by the last successful submission.
func (c *Controller[E, P]) Initial() *E {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initial == nil {
		return nil
	}
	record := *c.initial
	return &record
}

// Plan reports the mutation the next submission takes.
func (c *Controller[E, P]) Plan() Plan {
	return PlanFor(c.Initial(), c.env.Locale)
}

// Pending reports whether a submission is in flight.
func (c *Controller[E, P]) Pending() bool { return c.dispatcher.Pending() }

// Values returns a copy of the current values.
func (c *Controller[E, P]) Values() map[string]any { return c.state.Values() }

// Value resolves a dotted path.
func (c *Controller[E, P]) Value(path string) (any, bool) { return c.state.Value(path) }

// SetValue writes path. Locked fields reject writes with ErrFieldLocked.
// Writing the slug source recomputes the suggested slug.
func (c *Controller[E, P]) SetValue(path string, value any) error {
	if c.Disabled(path) {
		return fmt.Errorf("%w: %s", ErrFieldLocked, path)
	}
	if err := c.state.Set(path, value); err != nil {
		return err
	}
	if c.def.SlugSource != "" && path == c.def.SlugSource {
		c.refreshSlug()
	}
	return nil
}

// Append adds an entry to a repeatable group.
func (c *Controller[E, P]) Append(path string, item any) (int, error) {
	if c.Disabled(path) {
		return -1, fmt.Errorf("%w: %s", ErrFieldLocked, path)
	}
	return c.state.Append(path, item)
}

// Remove deletes an entry of a repeatable group.
func (c *Controller[E, P]) Remove(path string, index int) error {
	if c.Disabled(path) {
		return fmt.Errorf("%w: %s", ErrFieldLocked, path)
	}
	return c.state.Remove(path, index)
}

// Len reports the size of a repeatable group.
func (c *Controller[E, P]) Len(path string) int { return c.state.Len(path) }

// ErrorsFor returns the messages of path.
func (c *Controller[E, P]) ErrorsFor(path string) []string { return c.state.ErrorsFor(path) }

// Error returns the first message of path.
func (c *Controller[E, P]) Error(path string) string {
	messages := c.state.ErrorsFor(path)
	if len(messages) == 0 {
		return ""
	}
	return messages[0]
}

// Errors returns every field error.
func (c *Controller[E, P]) Errors() map[string][]string { return c.state.Errors() }

// FormErrors returns messages not bound to a field.
func (c *Controller[E, P]) FormErrors() []string { return c.state.FormErrors() }

// SetError replaces the messages of path.
func (c *Controller[E, P]) SetError(path string, messages ...string) {
	c.state.SetErrors(path, messages...)
}

// ClearErrors drops errors of paths, or all errors without arguments.
func (c *Controller[E, P]) ClearErrors(paths ...string) { c.state.ClearErrors(paths...) }

// SlugEditable reports whether the operator may edit the slug at all: only
// when editing an existing record in the default locale.
func (c *Controller[E, P]) SlugEditable() bool {
	return c.def.SlugSource != "" && c.env.Action == ActionEdit && c.env.Locale.IsDefault()
}

// UnlockSlug enables manual slug editing. It fails when the slug is not
// editable in the current context.
func (c *Controller[E, P]) UnlockSlug() error {
	if !c.SlugEditable() {
		return fmt.Errorf("%w: %s", ErrFieldLocked, SlugField)
	}
	c.mu.Lock()
	c.slugUnlocked = true
	c.mu.Unlock()
	return nil
}

// Disabled reports whether path is read-only in this mount.
func (c *Controller[E, P]) Disabled(path string) bool {
	top := topSegment(path)
	if c.def.SlugSource != "" && top == SlugField {
		c.mu.Lock()
		unlocked := c.slugUnlocked
		c.mu.Unlock()
		return !(c.SlugEditable() && unlocked)
	}
	if !c.env.Locale.Translating() {
		return false
	}
	if c.def.Form.Translatable(top) {
		return false
	}
	if c.def.LockOnAnyTranslation {
		return true
	}
	initial := c.Initial()
	return initial != nil && locale.Contains((*initial).TranslatedLocales(), c.env.Locale.Active)
}

// Visible reports whether path is shown given the current values.
func (c *Controller[E, P]) Visible(path string) bool {
	predicate, ok := c.def.Visible[topSegment(path)]
	if !ok || predicate == nil {
		return true
	}
	return predicate(c.state.Values(), c.env)
}

// Layout returns every field of the bound form, hidden ones included.
func (c *Controller[E, P]) Layout() model.Form { return c.def.Form }

// Fields lists the visible top-level fields in layout order.
func (c *Controller[E, P]) Fields() []model.Field {
	out := make([]model.Field, 0, len(c.def.Form.Fields))
	for _, field := range c.def.Form.Fields {
		if c.Visible(field.Name) {
			out = append(out, field)
		}
	}
	return out
}

// SuggestionsEnabled reports whether field accepts AI suggestions.
func (c *Controller[E, P]) SuggestionsEnabled(field string) bool {
	return c.cfg.suggester != nil && c.def.Suggests(field)
}

// Suggestions asks the provider for candidates seeded with the current value
// of the definition's seed field.
func (c *Controller[E, P]) Suggestions(ctx context.Context, field string) ([]suggest.Suggestion, error) {
	if !c.SuggestionsEnabled(field) {
		return nil, fmt.Errorf("%w: %s", ErrSuggestionsDisabled, field)
	}
	return c.cfg.suggester.Suggest(ctx, suggest.Request{
		Entity: c.def.Name,
		Field:  field,
		Seed:   String(c.state.Values(), c.def.SuggestionSeed),
		Locale: c.env.Locale.Active,
	})
}

// ApplySuggestion writes a chosen candidate into field.
func (c *Controller[E, P]) ApplySuggestion(field, text string) error {
	if !c.def.Suggests(field) {
		return fmt.Errorf("%w: %s", ErrSuggestionsDisabled, field)
	}
	return c.SetValue(field, text)
}

// Validate runs the field schema on the visible values and replaces field
// errors with the issues found. It returns the number of invalid fields.
func (c *Controller[E, P]) Validate() (int, error) {
	c.state.ClearErrors()
	if c.def.Schema == nil {
		return 0, nil
	}
	issues, err := c.def.Schema.Validate(c.visibleValues())
	if err != nil {
		return 0, err
	}
	grouped := make(map[string][]string)
	order := make([]string, 0, len(issues))
	for _, issue := range issues {
		path := issue.Path
		if path == "" {
			c.state.AddFormErrors(c.translate(issue))
			continue
		}
		if _, seen := grouped[path]; !seen {
			order = append(order, path)
		}
		grouped[path] = append(grouped[path], c.translate(issue))
	}
	for _, path := range order {
		c.state.SetErrors(path, grouped[path]...)
	}
	return len(order), nil
}

// Submit validates the visible values, maps them and dispatches the
// mutation chosen by Plan. Local validation failures return ErrInvalid without
// calling the remote API. On success the returned record becomes the new
// initial record so a second submit updates it.
func (c *Controller[E, P]) Submit(ctx context.Context) (E, error) {
	var zero E

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return zero, ErrClosed
	}
	c.mu.Unlock()

	if c.dispatcher.Pending() {
		return zero, ErrSubmitPending
	}

	invalid, err := c.Validate()
	if err != nil {
		return zero, err
	}
	if invalid > 0 || len(c.state.FormErrors()) > 0 {
		return zero, fmt.Errorf("%w: %d field(s)", ErrInvalid, invalid)
	}

	plan := c.Plan()
	if c.def.Map == nil {
		return zero, fmt.Errorf("form: %s has no payload mapper", c.def.Name)
	}
	payload, err := c.def.Map(c.visibleValues(), plan, c.env)
	if err != nil {
		return zero, fmt.Errorf("form: map %s: %w", c.def.Name, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cancel()
		return zero, ErrClosed
	}
	c.cancel = cancel
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.cancel = nil
		c.mu.Unlock()
		cancel()
	}()

	record, err := c.dispatcher.Dispatch(ctx, plan, payload, c.state)
	if err != nil {
		return zero, err
	}

	c.mu.Lock()
	c.initial = &record
	c.mu.Unlock()
	return record, nil
}

// Close cancels an in-flight submission and rejects further ones.
func (c *Controller[E, P]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Controller[E, P]) refreshSlug() {
	if c.def.SlugSource == "" || c.SlugEditable() {
		return
	}
	name := String(c.state.Values(), c.def.SlugSource)
	_ = c.state.Set(SlugField, slug.Format(name))
}

// visibleValues drops the top-level fields hidden by a predicate.
func (c *Controller[E, P]) visibleValues() map[string]any {
	values := c.state.Values()
	for path, predicate := range c.def.Visible {
		if predicate != nil && !predicate(values, c.env) {
			delete(values, path)
		}
	}
	return values
}

func (c *Controller[E, P]) translate(issue schema.Issue) string {
	if c.cfg.translator == nil {
		return issue.Message
	}
	translated, err := c.cfg.translator.Translate(c.env.Locale.Active, issue.Message, "field", issue.Path)
	if err != nil || strings.TrimSpace(translated) == "" {
		return issue.Message
	}
	return translated
}

func topSegment(path string) string {
	path = strings.TrimSpace(path)
	if idx := strings.Index(path, "."); idx >= 0 {
		return path[:idx]
	}
	return path
}
