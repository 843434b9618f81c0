// Package entity holds the pieces shared by the admin entities: identifiers,
// the translation bookkeeping every record carries, attachments and rich-text
// sanitising.
package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-entityform/pkg/locale"
)

// ID is a record identifier. The admin API emits numeric ids for some
// collections and string ids for others.
type ID string

// UnmarshalJSON accepts numbers and strings.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("entity: invalid id %s", data)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Base is embedded by every persisted record.
type Base struct {
	ID                  ID       `json:"id"`
	Slug                string   `json:"slug,omitempty"`
	Language            string   `json:"language,omitempty"`
	TranslatedLanguages []string `json:"translated_languages,omitempty"`
}

// EntityID implements form.Record.
func (b Base) EntityID() string { return string(b.ID) }

// EntitySlug implements form.Record.
func (b Base) EntitySlug() string { return b.Slug }

// TranslatedLocales implements form.Record. Records that do not report their
// translations are considered translated in their own language only.
func (b Base) TranslatedLocales() []string {
	if len(b.TranslatedLanguages) > 0 {
		return b.TranslatedLanguages
	}
	if lang := strings.TrimSpace(b.Language); lang != "" {
		return []string{lang}
	}
	return nil
}

// HasTranslation reports whether the record has content for code.
func (b Base) HasTranslation(code string) bool {
	return locale.Contains(b.TranslatedLocales(), code)
}

// DateValue converts an optional persisted time into its form-state shape.
func DateValue(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return *t
}
