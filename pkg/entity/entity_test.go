package entity

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIDUnmarshal(t *testing.T) {
	var record struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a": 12, "b": "x-1", "c": null}`), &record); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if record.A != "12" || record.B != "x-1" || record.C != "" {
		t.Fatalf("unexpected ids %+v", record)
	}
	if err := json.Unmarshal([]byte(`{"a": true}`), &record); err == nil {
		t.Fatalf("expected invalid id error")
	}
}

func TestBaseTranslatedLocales(t *testing.T) {
	if diff := cmp.Diff([]string{"en", "de"}, Base{Language: "en", TranslatedLanguages: []string{"en", "de"}}.TranslatedLocales()); diff != "" {
		t.Fatalf("locales mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"fr"}, Base{Language: "fr"}.TranslatedLocales()); diff != "" {
		t.Fatalf("fallback mismatch (-want +got):\n%s", diff)
	}
	if (Base{}).HasTranslation("en") {
		t.Fatalf("empty record has no translations")
	}
}

func TestAttachmentFromDropsExtraKeys(t *testing.T) {
	got := AttachmentFrom(map[string]any{"id": float64(7), "thumbnail": "t.png", "original": "o.png", "file_name": "x"})
	want := &Attachment{ID: "7", Thumbnail: "t.png", Original: "o.png"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("attachment mismatch (-want +got):\n%s", diff)
	}
	if AttachmentFrom(map[string]any{}) != nil || AttachmentFrom(nil) != nil {
		t.Fatalf("empty attachments must map to nil")
	}
	if diff := cmp.Diff(want, AttachmentFrom(AttachmentValue(want))); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitizeRichText(t *testing.T) {
	if got := SanitizeRichText("  Jane's first novel  "); got != "Jane's first novel" {
		t.Fatalf("plain text must be kept verbatim, got %q", got)
	}
	got := SanitizeRichText(`<p onclick="x()">Hello <script>alert(1)</script><strong>world</strong></p>`)
	if strings.Contains(got, "script") || strings.Contains(got, "onclick") {
		t.Fatalf("unsafe markup kept: %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("safe markup dropped: %q", got)
	}
}
