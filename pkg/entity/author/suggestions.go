package author

import "github.com/goliatone/go-entityform/pkg/suggest"

var bioPrompts = []string{
	"Introduce %s, a rising literary talent, to new readers.",
	"Describe the worlds %s builds and the themes that run through them.",
	"Summarise the storytelling style of %s in a short biography.",
	"Present the career of %s from the first book to the latest release.",
	"Write a warm author profile of %s for a bookstore page.",
}

var quotePrompts = []string{
	"Write a quote about the emotional depth of the writing of %s.",
	"Craft a quote that captures the imagination of %s.",
	"Write a quote celebrating the narrative voice of %s.",
	"Write a quote on the lasting influence of the work of %s.",
	"Write a short quote inviting readers into the books of %s.",
}

// RegisterSuggestions adds the author prompt templates to catalog.
func RegisterSuggestions(catalog *suggest.Catalog) {
	catalog.Register(Entity, "bio", bioPrompts...)
	catalog.Register(Entity, "quote", quotePrompts...)
}
