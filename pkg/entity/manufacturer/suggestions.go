package manufacturer

import "github.com/goliatone/go-entityform/pkg/suggest"

var descriptionPrompts = []string{
	"Write a description highlighting the expertise and quality of %s.",
	"Write an overview of the innovation and industry standing of %s.",
	"Describe the range of products and publications from %s.",
	"Explain what sets %s apart for customers.",
	"Tell the history and achievements of %s in a short overview.",
}

// RegisterSuggestions adds the manufacturer prompt templates to catalog.
func RegisterSuggestions(catalog *suggest.Catalog) {
	catalog.Register(Entity, "description", descriptionPrompts...)
}
