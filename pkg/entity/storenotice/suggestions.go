package storenotice

import "github.com/goliatone/go-entityform/pkg/suggest"

var descriptionPrompts = []string{
	"Write a notice for store customers about %s and the changes to store hours over the holidays.",
	"Write a notice for store staff about %s and the rollout of a new inventory system.",
	"Write a notice for store customers announcing %s, a limited-time sale on selected items.",
	"Write a notice for store staff about %s and a required meeting on safety procedures.",
	"Write a notice for store vendors about %s and updates to how payments are processed.",
	"Write a notice for store customers about %s and a temporary closure for renovation.",
	"Write a notice for store staff about %s and the start of a new training program.",
	"Write a notice for store vendors about %s and the deadline for new product proposals.",
	"Write a notice for store customers about %s and the updated returns and exchanges policy.",
	"Write a notice for store staff about %s and changes in the management team.",
}

// RegisterSuggestions adds the store notice prompt templates to catalog.
func RegisterSuggestions(catalog *suggest.Catalog) {
	catalog.Register(Entity, "description", descriptionPrompts...)
}
