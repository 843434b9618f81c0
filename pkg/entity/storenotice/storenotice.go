// Package storenotice is the store notice form. Notices are broadcast to
// shops (by their owners) or to vendors (by super admins).
package storenotice

import (
	_ "embed"
	"time"

	"github.com/goliatone/go-entityform/pkg/entity"
	"github.com/goliatone/go-entityform/pkg/form"
	"github.com/goliatone/go-entityform/pkg/model"
	"github.com/goliatone/go-entityform/pkg/option"
	"github.com/goliatone/go-entityform/pkg/schema"
)

// Entity is the kind name.
const Entity = "storenotice"

// isoLayout matches the millisecond UTC timestamps the admin API stores.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

//go:embed schema.json
var schemaDocument []byte

// Priority is the notice urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities is the selectable priority set, most urgent first.
var Priorities = option.Of(
	"High", string(PriorityHigh),
	"Medium", string(PriorityMedium),
	"Low", string(PriorityLow),
)

// Type is the notice audience.
type Type string

const (
	TypeAllVendor      Type = "all_vendor"
	TypeSpecificVendor Type = "specific_vendor"
	TypeAllShop        Type = "all_shop"
	TypeSpecificShop   Type = "specific_shop"
)

// Specific reports whether the audience is an explicit recipient list.
func (t Type) Specific() bool {
	return t == TypeSpecificVendor || t == TypeSpecificShop
}

// TypeOptions is the audience set offered to the caller. Super admins address
// vendors, shop owners address shops.
func TypeOptions(superAdmin bool) option.Set {
	if superAdmin {
		return option.Of(
			"All Vendor", string(TypeAllVendor),
			"Specific Vendor", string(TypeSpecificVendor),
		)
	}
	return option.Of(
		"All Shop", string(TypeAllShop),
		"Specific Shop", string(TypeSpecificShop),
	)
}

// Recipient is a user or shop a notice was addressed to.
type Recipient struct {
	ID    entity.ID `json:"id"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug,omitempty"`
	Email string    `json:"email,omitempty"`
}

// RecipientOptions turns the users-or-shops directory into select options.
func RecipientOptions(recipients []Recipient) option.Set {
	out := make(option.Set, 0, len(recipients))
	for _, r := range recipients {
		out = append(out, option.Ref{Label: r.Name, Value: string(r.ID)})
	}
	return out
}

// StoreNotice is the persisted record.
type StoreNotice struct {
	entity.Base
	Priority      Priority    `json:"priority"`
	Notice        string      `json:"notice"`
	Description   string      `json:"description,omitempty"`
	Type          Type        `json:"type,omitempty"`
	EffectiveFrom *time.Time  `json:"effective_from,omitempty"`
	ExpiredAt     *time.Time  `json:"expired_at,omitempty"`
	Users         []Recipient `json:"users,omitempty"`
	Shops         []Recipient `json:"shops,omitempty"`
}

// Input is the create/update payload.
type Input struct {
	ID            string   `json:"id,omitempty"`
	Priority      Priority `json:"priority"`
	Notice        string   `json:"notice"`
	Description   string   `json:"description"`
	Type          Type     `json:"type"`
	EffectiveFrom string   `json:"effective_from"`
	ExpiredAt     string   `json:"expired_at"`
	ReceivedBy    []string `json:"received_by"`
	Language      string   `json:"language"`
}

// Form is the field layout for env's caller.
func Form(env form.Env, recipients option.Set) model.Form {
	return model.Form{
		Entity: Entity,
		Title:  "Store notice",
		Fields: []model.Field{
			{Name: "priority", Type: model.FieldTypeOption, Required: true, Translatable: true, Options: Priorities, LabelKey: "form:input-label-priority"},
			{Name: "notice", Type: model.FieldTypeString, Required: true, LabelKey: "form:input-title", Placeholder: "form:enter-notice-heading"},
			{Name: "description", Type: model.FieldTypeText, Required: true, LabelKey: "form:input-label-description", Placeholder: "form:enter-notice-description"},
			{Name: "effective_from", Type: model.FieldTypeDate, Required: true, LabelKey: "form:store-notice-active-from"},
			{Name: "expired_at", Type: model.FieldTypeDate, Required: true, LabelKey: "form:store-notice-expire-at"},
			{Name: "type", Type: model.FieldTypeOption, Translatable: true, Options: TypeOptions(env.SuperAdmin()), LabelKey: "form:input-label-type"},
			{Name: "received_by", Type: model.FieldTypeMulti, Translatable: true, Options: recipients, LabelKey: "form:input-label-received-by"},
		},
	}
}

// Schema compiles the embedded schema and adds the date ordering rule.
func Schema() form.Validator {
	compiled := schema.MustCompile(Entity, schemaDocument, schema.WithMessages(map[string]string{
		"priority":       "form:error-priority-required",
		"notice":         "form:error-notice-title-required",
		"description":    "form:error-notice-description-required",
		"effective_from": "form:error-active-date-required",
		"expired_at":     "form:error-expire-date-required",
		"received_by":    "form:error-received-by-required",
	}))
	return form.ValidatorFunc(func(values map[string]any) ([]schema.Issue, error) {
		issues, err := compiled.Validate(values)
		if err != nil {
			return nil, err
		}
		from, okFrom := form.Time(values, "effective_from")
		until, okUntil := form.Time(values, "expired_at")
		if okFrom && okUntil && until.Before(from) {
			issues = append(issues, schema.Issue{
				Path:    "expired_at",
				Keyword: "order",
				Message: "form:error-expire-date-before-active",
			})
		}
		return issues, nil
	})
}

// Definition binds the store notice form for env's caller. recipients feeds
// the received_by select.
func Definition(env form.Env, recipients option.Set) form.Definition[StoreNotice, Input] {
	return form.Definition[StoreNotice, Input]{
		Name:                 Entity,
		Form:                 Form(env, recipients),
		Schema:               Schema(),
		SuggestionSeed:       "notice",
		Suggestable:          []string{"description"},
		LockOnAnyTranslation: true,
		Defaults:             Defaults,
		Decode:               Decode,
		Map:                  Map,
		Visible: map[string]form.Predicate{
			"type":        superAdminOnly,
			"received_by": specificAudience,
		},
	}
}

func superAdminOnly(_ map[string]any, env form.Env) bool { return env.SuperAdmin() }

func specificAudience(values map[string]any, env form.Env) bool {
	return env.SuperAdmin() && Type(form.String(values, "type")).Specific()
}

// Defaults seeds a new notice with high priority and the caller's first
// audience.
func Defaults(env form.Env) map[string]any {
	return map[string]any{
		"priority":    Priorities.First(),
		"type":        TypeOptions(env.SuperAdmin()).First(),
		"received_by": []any{},
	}
}

// Decode translates a persisted notice into form values. Recipients are the
// addressed shops followed by the addressed users.
func Decode(n StoreNotice, env form.Env) map[string]any {
	values := map[string]any{
		"priority":       nil,
		"notice":         n.Notice,
		"description":    n.Description,
		"effective_from": entity.DateValue(n.EffectiveFrom),
		"expired_at":     entity.DateValue(n.ExpiredAt),
		"type":           nil,
	}
	if ref, ok := Priorities.Find(string(n.Priority)); ok {
		values["priority"] = ref
	}
	if ref, ok := TypeOptions(env.SuperAdmin()).Find(string(n.Type)); ok {
		values["type"] = ref
	}
	received := make([]any, 0, len(n.Shops)+len(n.Users))
	for _, r := range append(append([]Recipient{}, n.Shops...), n.Users...) {
		received = append(received, option.Ref{Label: r.Name, Value: string(r.ID)})
	}
	values["received_by"] = received
	return values
}

// Map builds the payload. Shop owners always address their own shop.
func Map(values map[string]any, plan form.Plan, env form.Env) (Input, error) {
	in := Input{
		Priority:      Priority(form.String(values, "priority")),
		Notice:        form.String(values, "notice"),
		Description:   form.String(values, "description"),
		EffectiveFrom: isoDate(values, "effective_from"),
		ExpiredAt:     isoDate(values, "expired_at"),
		Language:      env.Locale.Active,
	}
	if env.SuperAdmin() {
		in.Type = Type(form.String(values, "type"))
		in.ReceivedBy = form.Strings(values, "received_by")
		if in.ReceivedBy == nil {
			in.ReceivedBy = []string{}
		}
	} else {
		in.Type = TypeSpecificShop
		in.ReceivedBy = []string{env.ShopID}
	}
	if plan.Mode == form.ModeUpdate {
		in.ID = plan.ID
	}
	return in, nil
}

func isoDate(values map[string]any, key string) string {
	t, ok := form.Time(values, key)
	if !ok {
		return ""
	}
	return t.UTC().Format(isoLayout)
}
