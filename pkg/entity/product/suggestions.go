package product

import "github.com/goliatone/go-entityform/pkg/suggest"

var descriptionPrompts = []string{
	"Write a product description for %s that highlights its main features.",
	"Describe who %s is for and the problem it solves.",
	"Write a short, persuasive product summary for %s.",
	"List the materials, size and care details of %s in a friendly paragraph.",
	"Write a gift-focused description for %s.",
}

// RegisterSuggestions adds the product prompt templates to catalog.
func RegisterSuggestions(catalog *suggest.Catalog) {
	catalog.Register(Entity, "description", descriptionPrompts...)
}
