// Package social is the repeatable social-link group shared by authors and
// manufacturers.
package social

import (
	"strings"

	"github.com/goliatone/go-entityform/pkg/form"
	"github.com/goliatone/go-entityform/pkg/model"
	"github.com/goliatone/go-entityform/pkg/option"
)

// FieldName is the form path of the group.
const FieldName = "socials"

// Icon identifies a social platform.
type Icon string

const (
	Facebook  Icon = "FacebookIcon"
	Instagram Icon = "InstagramIcon"
	Twitter   Icon = "TwitterIcon"
	YouTube   Icon = "YouTubeIcon"
)

// Icons is the selectable icon set.
var Icons = option.Of(
	"Facebook", string(Facebook),
	"Instagram", string(Instagram),
	"Twitter", string(Twitter),
	"Youtube", string(YouTube),
)

// Valid reports whether i is a known platform.
func (i Icon) Valid() bool {
	return Icons.Index(string(i)) >= 0
}

// Link is one transmitted social entry.
type Link struct {
	Icon Icon   `json:"icon"`
	URL  string `json:"url"`
}

// Field describes the group for form models.
func Field() model.Field {
	return model.Field{
		Name:     FieldName,
		Type:     model.FieldTypeGroup,
		LabelKey: "form:input-label-socials",
		Nested: []model.Field{
			{Name: "icon", Type: model.FieldTypeOption, Required: true, Options: Icons, LabelKey: "form:input-label-select-platform"},
			{Name: "url", Type: model.FieldTypeString, Required: true, LabelKey: "form:input-label-social-url", Placeholder: "https://"},
		},
	}
}

// NewEntry builds a form-state entry.
func NewEntry(icon Icon, url string) map[string]any {
	entry := map[string]any{"icon": nil, "url": url}
	if ref, ok := Icons.Find(string(icon)); ok {
		entry["icon"] = ref
	} else if icon != "" {
		entry["icon"] = option.Ref{Label: string(icon), Value: string(icon)}
	}
	return entry
}

// Decode converts persisted links into form-state entries with icon refs.
func Decode(links []Link) []any {
	out := make([]any, 0, len(links))
	for _, link := range links {
		out = append(out, NewEntry(link.Icon, link.URL))
	}
	return out
}

// Map trims the group entries to the transmitted icon value and URL.
func Map(values map[string]any) []Link {
	items := form.Slice(values, FieldName)
	out := make([]Link, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Link{
			Icon: Icon(strings.TrimSpace(option.Unwrap(entry["icon"]))),
			URL:  form.String(entry, "url"),
		})
	}
	return out
}
