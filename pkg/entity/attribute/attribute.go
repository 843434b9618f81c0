// Package attribute is the product attribute form (Color, Size, ...) with its
// repeatable list of values.
package attribute

import (
	_ "embed"

	"github.com/goliatone/go-entityform/pkg/entity"
	"github.com/goliatone/go-entityform/pkg/form"
	"github.com/goliatone/go-entityform/pkg/model"
	"github.com/goliatone/go-entityform/pkg/schema"
)

// Entity is the kind name.
const Entity = "attribute"

// ValuesField is the repeatable value group.
const ValuesField = "values"

//go:embed schema.json
var schemaDocument []byte

// Value is one selectable attribute value. Meta carries presentation data
// such as a swatch color.
type Value struct {
	ID    entity.ID `json:"id,omitempty"`
	Value string    `json:"value"`
	Meta  string    `json:"meta"`
}

// Attribute is the persisted record.
type Attribute struct {
	entity.Base
	Name   string    `json:"name"`
	Values []Value   `json:"values,omitempty"`
	ShopID entity.ID `json:"shop_id,omitempty"`
}

// ValueInput is one transmitted value.
type ValueInput struct {
	ID    string `json:"id,omitempty"`
	Value string `json:"value"`
	Meta  string `json:"meta"`
}

// Input is the create/update payload.
type Input struct {
	ID       string       `json:"id,omitempty"`
	Name     string       `json:"name"`
	Slug     string       `json:"slug,omitempty"`
	Values   []ValueInput `json:"values"`
	ShopID   string       `json:"shop_id,omitempty"`
	Language string       `json:"language"`
}

// Form is the field layout.
func Form() model.Form {
	return model.Form{
		Entity: Entity,
		Title:  "Attribute",
		Fields: []model.Field{
			{Name: "name", Type: model.FieldTypeString, Required: true, Translatable: true, LabelKey: "form:input-label-name"},
			{Name: "slug", Type: model.FieldTypeString, Translatable: true, LabelKey: "form:input-label-slug"},
			{
				Name:         ValuesField,
				Type:         model.FieldTypeGroup,
				Translatable: true,
				LabelKey:     "form:input-label-values",
				Nested: []model.Field{
					{Name: "id", Type: model.FieldTypeString, Metadata: map[string]string{"hidden": "true"}},
					{Name: "value", Type: model.FieldTypeString, Required: true, LabelKey: "form:input-label-value"},
					{Name: "meta", Type: model.FieldTypeString, Required: true, LabelKey: "form:input-label-meta"},
				},
			},
		},
	}
}

// Schema compiles the embedded field schema.
func Schema() *schema.Schema {
	return schema.MustCompile(Entity, schemaDocument, schema.WithMessages(map[string]string{
		"name":         "form:error-name-required",
		"values.value": "form:error-value-required",
		"values.meta":  "form:error-meta-required",
	}))
}

// Definition binds the attribute form together.
func Definition() form.Definition[Attribute, Input] {
	return form.Definition[Attribute, Input]{
		Name:       Entity,
		Form:       Form(),
		Schema:     Schema(),
		SlugSource: "name",
		Decode:     Decode,
		Map:        Map,
	}
}

// NewValue builds a form-state entry for the values group.
func NewValue(value, meta string) map[string]any {
	return map[string]any{"value": value, "meta": meta}
}

// Decode translates a persisted attribute into form values.
func Decode(a Attribute, _ form.Env) map[string]any {
	values := make([]any, 0, len(a.Values))
	for _, v := range a.Values {
		entry := NewValue(v.Value, v.Meta)
		if v.ID != "" {
			entry["id"] = string(v.ID)
		}
		values = append(values, entry)
	}
	return map[string]any{
		"name":      a.Name,
		"slug":      a.Slug,
		ValuesField: values,
	}
}

// Map builds the payload. Persisted values keep their ids so the API updates
// them in place.
func Map(values map[string]any, plan form.Plan, env form.Env) (Input, error) {
	in := Input{
		Name:     form.String(values, "name"),
		Slug:     form.String(values, "slug"),
		Values:   []ValueInput{},
		ShopID:   env.ShopID,
		Language: env.Locale.Active,
	}
	for _, item := range form.Slice(values, ValuesField) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		in.Values = append(in.Values, ValueInput{
			ID:    form.String(entry, "id"),
			Value: form.String(entry, "value"),
			Meta:  form.String(entry, "meta"),
		})
	}
	switch {
	case plan.Mode == form.ModeUpdate:
		in.ID = plan.ID
	case plan.Slug != "":
		in.Slug = plan.Slug
	}
	return in, nil
}
