// Package manufacturer is the manufacturer (publisher) entity form.
package manufacturer

import (
	_ "embed"

	"github.com/goliatone/go-entityform/pkg/entity"
	"github.com/goliatone/go-entityform/pkg/entity/social"
	"github.com/goliatone/go-entityform/pkg/form"
	"github.com/goliatone/go-entityform/pkg/model"
	"github.com/goliatone/go-entityform/pkg/option"
	"github.com/goliatone/go-entityform/pkg/schema"
)

// Entity is the kind name.
const Entity = "manufacturer"

//go:embed schema.json
var schemaDocument []byte

// Group is the product group (type) a manufacturer belongs to.
type Group struct {
	ID   entity.ID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug,omitempty"`
}

// Manufacturer is the persisted record.
type Manufacturer struct {
	entity.Base
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Website     string             `json:"website,omitempty"`
	Socials     []social.Link      `json:"socials,omitempty"`
	Image       *entity.Attachment `json:"image,omitempty"`
	CoverImage  *entity.Attachment `json:"cover_image,omitempty"`
	IsApproved  bool               `json:"is_approved"`
	Type        *Group             `json:"type,omitempty"`
	ShopID      entity.ID          `json:"shop_id,omitempty"`
}

// Input is the create/update payload.
type Input struct {
	ID          string             `json:"id,omitempty"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug,omitempty"`
	Description string             `json:"description"`
	Website     string             `json:"website"`
	Socials     []social.Link      `json:"socials"`
	Image       *entity.Attachment `json:"image,omitempty"`
	CoverImage  *entity.Attachment `json:"cover_image,omitempty"`
	IsApproved  bool               `json:"is_approved"`
	TypeID      string             `json:"type_id,omitempty"`
	ShopID      string             `json:"shop_id,omitempty"`
	Language    string             `json:"language"`
}

// GroupOptions turns the product groups returned by the types query into
// select options.
func GroupOptions(groups []Group) option.Set {
	out := make(option.Set, 0, len(groups))
	for _, g := range groups {
		out = append(out, option.Ref{Label: g.Name, Value: string(g.ID)})
	}
	return out
}

// Form is the field layout. groups feeds the type select.
func Form(groups option.Set) model.Form {
	return model.Form{
		Entity: Entity,
		Title:  "Manufacturer",
		Fields: []model.Field{
			{Name: "image", Type: model.FieldTypeAttachment, LabelKey: "form:input-label-logo"},
			{Name: "cover_image", Type: model.FieldTypeAttachment, LabelKey: "form:input-label-cover-image"},
			{Name: "name", Type: model.FieldTypeString, Required: true, Translatable: true, LabelKey: "form:input-label-name"},
			{Name: "slug", Type: model.FieldTypeString, Translatable: true, LabelKey: "form:input-label-slug"},
			{Name: "website", Type: model.FieldTypeString, LabelKey: "form:input-label-website"},
			{Name: "description", Type: model.FieldTypeRichText, Translatable: true, LabelKey: "form:input-label-description"},
			{Name: "type", Type: model.FieldTypeOption, Options: groups, LabelKey: "form:input-label-group"},
			social.Field(),
			{Name: "is_approved", Type: model.FieldTypeBoolean, LabelKey: "form:input-label-approved"},
		},
	}
}

// Schema compiles the embedded field schema.
func Schema() *schema.Schema {
	return schema.MustCompile(Entity, schemaDocument, schema.WithMessages(map[string]string{
		"name":         "form:error-name-required",
		"socials.icon": "form:error-social-icon-required",
		"socials.url":  "form:error-social-url-required",
	}))
}

// Definition binds the manufacturer form together.
func Definition(groups option.Set) form.Definition[Manufacturer, Input] {
	return form.Definition[Manufacturer, Input]{
		Name:           Entity,
		Form:           Form(groups),
		Schema:         Schema(),
		SlugSource:     "name",
		SuggestionSeed: "name",
		Suggestable:    []string{"description"},
		Decode:         Decode,
		Map:            Map,
	}
}

// Decode translates a persisted manufacturer into form values. A new
// translation starts without a product group.
func Decode(m Manufacturer, env form.Env) map[string]any {
	values := map[string]any{
		"image":       entity.AttachmentValue(m.Image),
		"cover_image": entity.AttachmentValue(m.CoverImage),
		"name":        m.Name,
		"slug":        m.Slug,
		"website":     m.Website,
		"description": m.Description,
		"type":        nil,
		"socials":     social.Decode(m.Socials),
		"is_approved": m.IsApproved,
	}
	if m.Type != nil && env.Action != form.ActionTranslate {
		values["type"] = option.Ref{Label: m.Type.Name, Value: string(m.Type.ID)}
	}
	return values
}

// Map builds the payload.
func Map(values map[string]any, plan form.Plan, env form.Env) (Input, error) {
	in := Input{
		Name:        form.String(values, "name"),
		Slug:        form.String(values, "slug"),
		Description: entity.SanitizeRichText(form.String(values, "description")),
		Website:     form.String(values, "website"),
		Socials:     social.Map(values),
		Image:       entity.AttachmentFrom(values["image"]),
		CoverImage:  entity.AttachmentFrom(values["cover_image"]),
		IsApproved:  form.Bool(values, "is_approved"),
		TypeID:      option.Unwrap(values["type"]),
		ShopID:      env.ShopID,
		Language:    env.Locale.Active,
	}
	switch {
	case plan.Mode == form.ModeUpdate:
		in.ID = plan.ID
	case plan.Slug != "":
		in.Slug = plan.Slug
	}
	return in, nil
}
