package i18n

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-entityform/pkg/model"
	"github.com/google/go-cmp/cmp"
)

func TestCatalogFallbacks(t *testing.T) {
	catalog := Default()

	cases := []struct {
		locale string
		key    string
		want   string
	}{
		{locale: "en", key: "form:input-label-name", want: "Name"},
		{locale: "de", key: "form:input-label-price", want: "Preis"},
		{locale: "de-AT", key: "form:input-label-price", want: "Preis"},
		{locale: "de", key: "form:input-label-sku", want: "SKU"},
		{locale: "fr", key: "common:filter-by-group", want: "Filter by group"},
	}
	for _, tc := range cases {
		got, err := catalog.Translate(tc.locale, tc.key)
		if err != nil {
			t.Fatalf("%s %s: %v", tc.locale, tc.key, err)
		}
		if got != tc.want {
			t.Fatalf("%s %s: want %q, got %q", tc.locale, tc.key, tc.want, got)
		}
	}

	if _, err := catalog.Translate("en", "form:unknown"); !errors.Is(err, ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation, got %v", err)
	}
}

func TestInterpolation(t *testing.T) {
	catalog := Default()
	got, err := catalog.Translate("en", "form:error-social-icon-required", "field", "socials.1.icon")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "Select a platform for socials.1.icon" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestLoadFSNestedKeys(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/es.yml":    {Data: []byte("form:\n  button:\n    save: Guardar\n")},
		"locales/notes.txt": {Data: []byte("ignored")},
	}
	catalog, err := LoadFS(fsys, "locales", "es")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := catalog.Translate("es-MX", "form:button.save")
	if err != nil || got != "Guardar" {
		t.Fatalf("expected Guardar, got %q %v", got, err)
	}
	if diff := cmp.Diff([]string{"es"}, catalog.Locales()); diff != "" {
		t.Fatalf("locales mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalizeForm(t *testing.T) {
	form := model.Form{
		Entity: "notice",
		Fields: []model.Field{
			{Name: "notice", LabelKey: "form:input-title", Placeholder: "form:enter-notice-heading"},
			{Name: "effective_from"},
			{Name: "url", LabelKey: "form:missing-key", Label: "Link", Placeholder: "https://"},
		},
	}
	got := LocalizeForm(form, "en", Default(), nil)

	want := []string{"Title", "Effective from", "Link"}
	for i, field := range got.Fields {
		if field.Label != want[i] {
			t.Fatalf("field %d: want label %q, got %q", i, want[i], field.Label)
		}
	}
	if got.Fields[0].Placeholder != "Enter notice heading" || got.Fields[2].Placeholder != "https://" {
		t.Fatalf("unexpected placeholders %q %q", got.Fields[0].Placeholder, got.Fields[2].Placeholder)
	}
	if form.Fields[0].Label != "" {
		t.Fatalf("input form must not be mutated")
	}
}

func TestLocalizeErrors(t *testing.T) {
	got := LocalizeErrors(map[string][]string{
		"name":   {"form:error-name-required"},
		"notice": {"Notice is required"},
	}, "de", Default())
	want := map[string][]string{
		"name":   {"Name ist erforderlich"},
		"notice": {"Notice is required"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}
