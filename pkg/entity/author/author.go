// Package author is the author entity form: record and payload shapes, field
// layout, schema, state decoding and payload mapping.
package author

import (
	_ "embed"
	"time"

	"github.com/goliatone/go-entityform/pkg/entity"
	"github.com/goliatone/go-entityform/pkg/entity/social"
	"github.com/goliatone/go-entityform/pkg/form"
	"github.com/goliatone/go-entityform/pkg/model"
	"github.com/goliatone/go-entityform/pkg/schema"
)

// Entity is the kind name used in logs, metrics and suggestion catalogs.
const Entity = "author"

//go:embed schema.json
var schemaDocument []byte

// Author is the persisted record.
type Author struct {
	entity.Base
	Name       string             `json:"name"`
	Bio        string             `json:"bio,omitempty"`
	Quote      string             `json:"quote,omitempty"`
	Languages  string             `json:"languages,omitempty"`
	Born       *time.Time         `json:"born,omitempty"`
	Death      *time.Time         `json:"death,omitempty"`
	Socials    []social.Link      `json:"socials,omitempty"`
	Image      *entity.Attachment `json:"image,omitempty"`
	CoverImage *entity.Attachment `json:"cover_image,omitempty"`
	IsApproved bool               `json:"is_approved"`
	ShopID     entity.ID          `json:"shop_id,omitempty"`
}

// Input is the create/update payload.
type Input struct {
	ID         string             `json:"id,omitempty"`
	Name       string             `json:"name"`
	Slug       string             `json:"slug,omitempty"`
	Bio        string             `json:"bio"`
	Quote      string             `json:"quote"`
	Languages  string             `json:"languages"`
	Born       *time.Time         `json:"born,omitempty"`
	Death      *time.Time         `json:"death,omitempty"`
	Socials    []social.Link      `json:"socials"`
	Image      *entity.Attachment `json:"image,omitempty"`
	CoverImage *entity.Attachment `json:"cover_image,omitempty"`
	IsApproved bool               `json:"is_approved"`
	ShopID     string             `json:"shop_id,omitempty"`
	Language   string             `json:"language"`
}

// Form is the field layout.
func Form() model.Form {
	return model.Form{
		Entity: Entity,
		Title:  "Author",
		Fields: []model.Field{
			{Name: "image", Type: model.FieldTypeAttachment, LabelKey: "form:input-label-image"},
			{Name: "cover_image", Type: model.FieldTypeAttachment, LabelKey: "form:input-label-cover-image"},
			{Name: "name", Type: model.FieldTypeString, Required: true, Translatable: true, LabelKey: "form:input-label-name"},
			{Name: "slug", Type: model.FieldTypeString, Translatable: true, LabelKey: "form:input-label-slug"},
			{Name: "languages", Type: model.FieldTypeString, Translatable: true, LabelKey: "form:input-label-languages"},
			{Name: "bio", Type: model.FieldTypeRichText, Translatable: true, LabelKey: "form:input-label-bio"},
			{Name: "quote", Type: model.FieldTypeText, Translatable: true, LabelKey: "form:input-label-quote"},
			{Name: "born", Type: model.FieldTypeDate, LabelKey: "form:input-label-author-born"},
			{Name: "death", Type: model.FieldTypeDate, LabelKey: "form:input-label-author-death"},
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

// Definition binds the author form together.
func Definition() form.Definition[Author, Input] {
	return form.Definition[Author, Input]{
		Name:           Entity,
		Form:           Form(),
		Schema:         Schema(),
		SlugSource:     "name",
		SuggestionSeed: "name",
		Suggestable:    []string{"bio", "quote"},
		Decode:         Decode,
		Map:            Map,
	}
}

// Decode translates a persisted author into form values.
func Decode(a Author, _ form.Env) map[string]any {
	return map[string]any{
		"image":       entity.AttachmentValue(a.Image),
		"cover_image": entity.AttachmentValue(a.CoverImage),
		"name":        a.Name,
		"slug":        a.Slug,
		"languages":   a.Languages,
		"bio":         a.Bio,
		"quote":       a.Quote,
		"born":        entity.DateValue(a.Born),
		"death":       entity.DateValue(a.Death),
		"socials":     social.Decode(a.Socials),
		"is_approved": a.IsApproved,
	}
}

// Map builds the payload. Authors are shop-owned: the shop id is sent on both
// paths.
func Map(values map[string]any, plan form.Plan, env form.Env) (Input, error) {
	in := Input{
		Name:       form.String(values, "name"),
		Slug:       form.String(values, "slug"),
		Bio:        entity.SanitizeRichText(form.String(values, "bio")),
		Quote:      form.String(values, "quote"),
		Languages:  form.String(values, "languages"),
		Born:       form.TimePtr(values, "born"),
		Death:      form.TimePtr(values, "death"),
		Socials:    social.Map(values),
		Image:      entity.AttachmentFrom(values["image"]),
		CoverImage: entity.AttachmentFrom(values["cover_image"]),
		IsApproved: form.Bool(values, "is_approved"),
		ShopID:     env.ShopID,
		Language:   env.Locale.Active,
	}
	switch {
	case plan.Mode == form.ModeUpdate:
		in.ID = plan.ID
	case plan.Slug != "":
		in.Slug = plan.Slug
	}
	return in, nil
}
