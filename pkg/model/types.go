package model

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/goliatone/go-entityform/pkg/option"
)

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString     FieldType = "string"
	FieldTypeText       FieldType = "text"
	FieldTypeRichText   FieldType = "richtext"
	FieldTypeInteger    FieldType = "integer"
	FieldTypeNumber     FieldType = "number"
	FieldTypeBoolean    FieldType = "boolean"
	FieldTypeDate       FieldType = "date"
	FieldTypeOption     FieldType = "option"
	FieldTypeMulti      FieldType = "multi"
	FieldTypeAttachment FieldType = "attachment"
	FieldTypeGroup      FieldType = "group"
	FieldTypeObject     FieldType = "object"
)

// Field describes one input of an entity form. Group fields are repeatable
// sub-records whose item shape lives in Nested; object fields nest a fixed
// shape.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	Required    bool              `json:"required"`
	Label       string            `json:"label,omitempty"`
	LabelKey    string            `json:"labelKey,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	Options     option.Set        `json:"options,omitempty"`
	Nested      []Field           `json:"nested,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`

	// Translatable fields stay editable while the operator edits a
	// translation; every other field is translation-immutable.
	Translatable bool `json:"translatable,omitempty"`
}

// DisplayLabel returns Label, or Name in sentence case when the layout
// carries none: effective_from reads "Effective from", coverImage2 reads
// "Cover image 2".
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	words := nameWords(f.Name)
	if len(words) == 0 {
		return ""
	}
	first := []rune(words[0])
	first[0] = unicode.ToUpper(first[0])
	words[0] = string(first)
	return strings.Join(words, " ")
}

// nameWords splits a field name on separators, case changes and digit runs.
func nameWords(name string) []string {
	var words []string
	var word []rune
	flush := func() {
		if len(word) > 0 {
			words = append(words, strings.ToLower(string(word)))
			word = word[:0]
		}
	}
	var prev rune
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == '.' || unicode.IsSpace(r):
			flush()
		case len(word) > 0 && wordBreak(prev, r):
			flush()
			word = append(word, r)
		default:
			word = append(word, r)
		}
		prev = r
	}
	flush()
	return words
}

func wordBreak(prev, r rune) bool {
	if unicode.IsLower(prev) && unicode.IsUpper(r) {
		return true
	}
	return unicode.IsDigit(prev) != unicode.IsDigit(r)
}

// Form is the field layout of a single entity form.
type Form struct {
	Entity      string            `json:"entity"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Fields      []Field           `json:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Lookup resolves a dotted path (socials.0.url) to its field descriptor.
// Numeric segments index into repeatable groups and are skipped.
func (f Form) Lookup(path string) (Field, bool) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return Field{}, false
	}
	fields := f.Fields
	var found Field
	for i := 0; i < len(segments); i++ {
		segment := segments[i]
		if isIndex(segment) {
			continue
		}
		match, ok := findField(fields, segment)
		if !ok {
			return Field{}, false
		}
		found = match
		fields = match.Nested
	}
	return found, true
}

// Paths lists every addressable field path. Group item fields are reported
// relative to the group (socials.icon) since indices vary per state.
func (f Form) Paths() []string {
	var out []string
	collectPaths(f.Fields, "", &out)
	return out
}

// Translatable reports whether the top-level field owning path remains
// editable during translation.
func (f Form) Translatable(path string) bool {
	segments := splitPath(path)
	if len(segments) == 0 {
		return false
	}
	field, ok := findField(f.Fields, segments[0])
	if !ok {
		return false
	}
	return field.Translatable
}

func collectPaths(fields []Field, prefix string, dest *[]string) {
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		path := JoinPath(prefix, name)
		*dest = append(*dest, path)
		if len(field.Nested) > 0 {
			collectPaths(field.Nested, path, dest)
		}
	}
}

func findField(fields []Field, name string) (Field, bool) {
	for _, field := range fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// JoinPath joins two dotted path fragments.
func JoinPath(parent, child string) string {
	parent = strings.TrimSpace(parent)
	child = strings.TrimSpace(child)
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}

func splitPath(path string) []string {
	path = strings.Trim(strings.TrimSpace(path), ".")
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func isIndex(segment string) bool {
	_, err := strconv.Atoi(segment)
	return err == nil
}
