// Package product is the simple product form: pricing, stock and shipping
// dimensions of a single-variant product.
package product

import (
	_ "embed"

	"github.com/goliatone/go-entityform/pkg/entity"
	"github.com/goliatone/go-entityform/pkg/form"
	"github.com/goliatone/go-entityform/pkg/model"
	"github.com/goliatone/go-entityform/pkg/schema"
)

// Entity is the kind name.
const Entity = "product"

//go:embed schema.json
var schemaDocument []byte

// Product is the persisted record.
type Product struct {
	entity.Base
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	SKU         string    `json:"sku,omitempty"`
	Price       float64   `json:"price"`
	SalePrice   *float64  `json:"sale_price,omitempty"`
	Quantity    int       `json:"quantity"`
	Width       string    `json:"width,omitempty"`
	Height      string    `json:"height,omitempty"`
	Length      string    `json:"length,omitempty"`
	ShopID      entity.ID `json:"shop_id,omitempty"`
}

// Input is the create/update payload.
type Input struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug,omitempty"`
	Description string   `json:"description"`
	SKU         string   `json:"sku,omitempty"`
	Price       float64  `json:"price"`
	SalePrice   *float64 `json:"sale_price"`
	Quantity    int      `json:"quantity"`
	Width       string   `json:"width,omitempty"`
	Height      string   `json:"height,omitempty"`
	Length      string   `json:"length,omitempty"`
	ShopID      string   `json:"shop_id,omitempty"`
	Language    string   `json:"language"`
}

// Form is the field layout. Stock is the only translation-immutable field.
func Form() model.Form {
	return model.Form{
		Entity: Entity,
		Title:  "Product",
		Fields: []model.Field{
			{Name: "name", Type: model.FieldTypeString, Required: true, Translatable: true, LabelKey: "form:input-label-name"},
			{Name: "slug", Type: model.FieldTypeString, Translatable: true, LabelKey: "form:input-label-slug"},
			{Name: "description", Type: model.FieldTypeRichText, Translatable: true, LabelKey: "form:input-label-description"},
			{Name: "sku", Type: model.FieldTypeString, Translatable: true, LabelKey: "form:input-label-sku"},
			{Name: "price", Type: model.FieldTypeNumber, Required: true, Translatable: true, LabelKey: "form:input-label-price"},
			{Name: "sale_price", Type: model.FieldTypeNumber, Translatable: true, LabelKey: "form:input-label-sale-price"},
			{Name: "quantity", Type: model.FieldTypeInteger, Required: true, LabelKey: "form:input-label-quantity"},
			{Name: "width", Type: model.FieldTypeString, Translatable: true, LabelKey: "form:input-label-width"},
			{Name: "height", Type: model.FieldTypeString, Translatable: true, LabelKey: "form:input-label-height"},
			{Name: "length", Type: model.FieldTypeString, Translatable: true, LabelKey: "form:input-label-length"},
		},
	}
}

// Schema compiles the embedded schema and adds the sale price rule.
func Schema() form.Validator {
	compiled := schema.MustCompile(Entity, schemaDocument, schema.WithMessages(map[string]string{
		"name":             "form:error-name-required",
		"price":            "form:error-price-required",
		"price#minimum":    "form:error-price-must-positive",
		"sale_price":       "form:error-sale-price-must-positive",
		"quantity":         "form:error-quantity-required",
		"quantity#minimum": "form:error-quantity-must-positive",
	}))
	return form.ValidatorFunc(func(values map[string]any) ([]schema.Issue, error) {
		issues, err := compiled.Validate(values)
		if err != nil {
			return nil, err
		}
		price, okPrice := form.Float(values, "price")
		sale, okSale := form.Float(values, "sale_price")
		if okPrice && okSale && sale >= price {
			issues = append(issues, schema.Issue{
				Path:    "sale_price",
				Keyword: "order",
				Message: "form:error-sale-price-less-than",
			})
		}
		return issues, nil
	})
}

// Definition binds the product form together.
func Definition() form.Definition[Product, Input] {
	return form.Definition[Product, Input]{
		Name:                 Entity,
		Form:                 Form(),
		Schema:               Schema(),
		SlugSource:           "name",
		SuggestionSeed:       "name",
		Suggestable:          []string{"description"},
		LockOnAnyTranslation: true,
		Decode:               Decode,
		Map:                  Map,
	}
}

// Decode translates a persisted product into form values.
func Decode(p Product, _ form.Env) map[string]any {
	values := map[string]any{
		"name":        p.Name,
		"slug":        p.Slug,
		"description": p.Description,
		"sku":         p.SKU,
		"price":       p.Price,
		"sale_price":  nil,
		"quantity":    p.Quantity,
		"width":       p.Width,
		"height":      p.Height,
		"length":      p.Length,
	}
	if p.SalePrice != nil {
		values["sale_price"] = *p.SalePrice
	}
	return values
}

// Map builds the payload. Products are shop-owned.
func Map(values map[string]any, plan form.Plan, env form.Env) (Input, error) {
	in := Input{
		Name:        form.String(values, "name"),
		Slug:        form.String(values, "slug"),
		Description: entity.SanitizeRichText(form.String(values, "description")),
		SKU:         form.String(values, "sku"),
		Width:       form.String(values, "width"),
		Height:      form.String(values, "height"),
		Length:      form.String(values, "length"),
		ShopID:      env.ShopID,
		Language:    env.Locale.Active,
	}
	in.Price, _ = form.Float(values, "price")
	in.Quantity, _ = form.Int(values, "quantity")
	if sale, ok := form.Float(values, "sale_price"); ok {
		in.SalePrice = &sale
	}
	switch {
	case plan.Mode == form.ModeUpdate:
		in.ID = plan.ID
	case plan.Slug != "":
		in.Slug = plan.Slug
	}
	return in, nil
}
