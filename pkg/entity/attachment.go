package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Attachment is an uploaded file reference. Only these three attributes are
// transmitted; upload widgets may keep extra keys in form state.
type Attachment struct {
	ID        ID     `json:"id,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Original  string `json:"original,omitempty"`
}

// IsZero reports whether the attachment references nothing.
func (a Attachment) IsZero() bool {
	return a.ID == "" && strings.TrimSpace(a.Thumbnail) == "" && strings.TrimSpace(a.Original) == ""
}

// AttachmentValue converts an attachment into its form-state shape.
func AttachmentValue(a *Attachment) any {
	if a == nil || a.IsZero() {
		return nil
	}
	return map[string]any{
		"id":        string(a.ID),
		"thumbnail": a.Thumbnail,
		"original":  a.Original,
	}
}

// AttachmentFrom reads an attachment from form state, dropping any key other
// than id, thumbnail and original.
func AttachmentFrom(v any) *Attachment {
	var out Attachment
	switch typed := v.(type) {
	case nil:
		return nil
	case Attachment:
		out = typed
	case *Attachment:
		if typed == nil {
			return nil
		}
		out = *typed
	case map[string]any:
		out = Attachment{
			ID:        ID(stringOf(typed["id"])),
			Thumbnail: stringOf(typed["thumbnail"]),
			Original:  stringOf(typed["original"]),
		}
	default:
		return nil
	}
	if out.IsZero() {
		return nil
	}
	return &out
}

func stringOf(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(typed)
	case ID:
		return string(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(typed))
	}
}
