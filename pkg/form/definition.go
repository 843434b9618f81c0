package form

import (
	"strings"

	"github.com/goliatone/go-entityform/pkg/locale"
	"github.com/goliatone/go-entityform/pkg/model"
	"github.com/goliatone/go-entityform/pkg/schema"
)

// Action is the page action a form was opened for.
type Action string

const (
	ActionCreate    Action = "create"
	ActionEdit      Action = "edit"
	ActionTranslate Action = "translate"
)

// PermissionSuperAdmin grants platform-wide audiences on store notices.
const PermissionSuperAdmin = "super_admin"

// Env is the explicit context threaded into controllers and mappers instead of
// ambient router or auth state.
type Env struct {
	Locale      locale.Context
	Action      Action
	ShopID      string
	Permissions []string
}

// Has reports whether the caller holds permission.
func (e Env) Has(permission string) bool {
	for _, candidate := range e.Permissions {
		if strings.EqualFold(strings.TrimSpace(candidate), permission) {
			return true
		}
	}
	return false
}

// SuperAdmin reports whether the caller is a platform super admin.
func (e Env) SuperAdmin() bool { return e.Has(PermissionSuperAdmin) }

// Validator is the Field Schema contract. *schema.Schema satisfies it.
type Validator interface {
	Validate(values map[string]any) ([]schema.Issue, error)
}

// ValidatorFunc adapts a function into a Validator.
type ValidatorFunc func(values map[string]any) ([]schema.Issue, error)

// Validate implements Validator.
func (fn ValidatorFunc) Validate(values map[string]any) ([]schema.Issue, error) {
	return fn(values)
}

// Predicate decides whether a conditional field is shown.
type Predicate func(values map[string]any, env Env) bool

// Definition binds one entity's field layout, schema, state translation and
// payload mapper together. E is the persisted record, P the wire payload.
type Definition[E Record, P any] struct {
	// Name is the entity kind ("author", "storenotice").
	Name string
	Form model.Form
	// Schema validates the visible values before mapping. Optional.
	Schema Validator

	// SlugSource names the field the slug is derived from. Empty disables the
	// slug policy.
	SlugSource string
	// SuggestionSeed names the field whose value seeds AI suggestions.
	SuggestionSeed string
	// Suggestable lists the fields AI suggestions can be applied to.
	Suggestable []string

	// LockOnAnyTranslation locks translation-immutable fields on every
	// non-default locale, not only when a translation already exists.
	LockOnAnyTranslation bool

	// Defaults seeds a create form. Missing fields fall back to zero values.
	Defaults func(env Env) map[string]any
	// Decode translates a persisted record into form values.
	Decode func(record E, env Env) map[string]any
	// Map turns validated values into the wire payload.
	Map func(values map[string]any, plan Plan, env Env) (P, error)

	// Visible holds conditional visibility predicates keyed by field path.
	Visible map[string]Predicate
}

// Suggests reports whether field accepts AI suggestions.
func (d Definition[E, P]) Suggests(field string) bool {
	for _, candidate := range d.Suggestable {
		if candidate == field {
			return true
		}
	}
	return false
}
