package author

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-entityform/pkg/entity"
	"github.com/goliatone/go-entityform/pkg/entity/social"
	"github.com/goliatone/go-entityform/pkg/form"
	"github.com/goliatone/go-entityform/pkg/locale"
	"github.com/goliatone/go-entityform/pkg/option"
	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type capture struct {
	mode    form.Mode
	id      string
	payload Input
}

func capturing(result Author, dest *[]capture) form.MutationFuncs[Author, Input] {
	return form.MutationFuncs[Author, Input]{
		CreateFunc: func(_ context.Context, in Input) (Author, error) {
			*dest = append(*dest, capture{mode: form.ModeCreate, payload: in})
			return result, nil
		},
		UpdateFunc: func(_ context.Context, id string, in Input) (Author, error) {
			*dest = append(*dest, capture{mode: form.ModeUpdate, id: id, payload: in})
			return result, nil
		},
	}
}

func persisted() Author {
	born := time.Date(1775, time.December, 16, 0, 0, 0, 0, time.UTC)
	return Author{
		Base: entity.Base{
			ID:                  "17",
			Slug:                "jane-austen",
			Language:            "en",
			TranslatedLanguages: []string{"en", "de"},
		},
		Name:       "Jane Austen",
		Bio:        "English novelist known for her six major novels.",
		Quote:      "There is no charm equal to tenderness of heart.",
		Languages:  "English",
		Born:       &born,
		Socials:    []social.Link{{Icon: social.Twitter, URL: "https://x.com/austen"}},
		Image:      &entity.Attachment{ID: "3", Thumbnail: "t.jpg", Original: "o.jpg"},
		CoverImage: &entity.Attachment{ID: "4", Thumbnail: "ct.jpg", Original: "co.jpg"},
		IsApproved: true,
		ShopID:     "9",
	}
}

func TestRoundTrip(t *testing.T) {
	record := persisted()
	env := form.Env{Locale: locale.New("en", "en"), Action: form.ActionEdit, ShopID: "9"}

	var calls []capture
	ctrl := form.NewController(Definition(), env, &record, capturing(record, &calls))
	if _, err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(calls) != 1 || calls[0].mode != form.ModeUpdate || calls[0].id != "17" {
		t.Fatalf("expected one update of 17, got %+v", calls)
	}

	want := Input{
		ID:         "17",
		Name:       record.Name,
		Slug:       record.Slug,
		Bio:        record.Bio,
		Quote:      record.Quote,
		Languages:  record.Languages,
		Born:       record.Born,
		Socials:    record.Socials,
		Image:      record.Image,
		CoverImage: record.CoverImage,
		IsApproved: true,
		ShopID:     "9",
		Language:   "en",
	}
	if diff := cmp.Diff(want, calls[0].payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestNewTranslationCarriesSlug(t *testing.T) {
	record := persisted()
	env := form.Env{Locale: locale.New("fr", "en"), Action: form.ActionTranslate, ShopID: "9"}

	var calls []capture
	ctrl := form.NewController(Definition(), env, &record, capturing(record, &calls))
	if ctrl.Disabled("born") {
		t.Fatalf("a new translation keeps every field editable")
	}
	if err := ctrl.SetValue("name", "Jeanne Austen"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	if _, err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	got := calls[0]
	if got.mode != form.ModeCreate || got.payload.ID != "" {
		t.Fatalf("expected create without id, got %+v", got)
	}
	if got.payload.Slug != "jane-austen" || got.payload.Language != "fr" {
		t.Fatalf("expected original slug and fr language, got %q %q", got.payload.Slug, got.payload.Language)
	}
}

func TestExistingTranslationLocksImmutableFields(t *testing.T) {
	record := persisted()
	env := form.Env{Locale: locale.New("de", "en"), Action: form.ActionEdit}
	ctrl := form.NewController(Definition(), env, &record, form.MutationFuncs[Author, Input]{})

	for _, path := range []string{"born", "death", "image", "socials", "socials.0.url"} {
		if !ctrl.Disabled(path) {
			t.Fatalf("%s must be locked", path)
		}
	}
	for _, path := range []string{"name", "bio", "quote", "languages"} {
		if ctrl.Disabled(path) {
			t.Fatalf("%s must stay editable", path)
		}
	}
	if _, err := ctrl.Append("socials", social.NewEntry(social.Facebook, "https://fb.com/a")); !errors.Is(err, form.ErrFieldLocked) {
		t.Fatalf("expected locked group, got %v", err)
	}
}

func TestSchemaIssues(t *testing.T) {
	issues, err := Schema().Validate(map[string]any{
		"name": "",
		"socials": []any{
			map[string]any{"icon": nil, "url": "https://x.com/a"},
			map[string]any{"icon": option.Ref{Label: "Facebook", Value: "FacebookIcon"}},
		},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	got := make(map[string]string, len(issues))
	for _, issue := range issues {
		got[issue.Path] = issue.Message
	}
	want := map[string]string{
		"name":           "form:error-name-required",
		"socials.0.icon": "form:error-social-icon-required",
		"socials.1.url":  "form:error-social-url-required",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestMapEmitsBareValues(t *testing.T) {
	icons := gen.OneConstOf(social.Facebook, social.Instagram, social.Twitter, social.YouTube)

	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("payload carries only wire fields and bare icon values", prop.ForAll(
		func(name string, urls []string, icon social.Icon) bool {
			entries := make([]any, len(urls))
			for i, url := range urls {
				entries[i] = social.NewEntry(icon, url)
				entries[i].(map[string]any)["preview"] = "ui only"
			}
			values := map[string]any{"name": name, "socials": entries}
			env := form.Env{Locale: locale.New("en", "en")}
			in, err := Map(values, form.Plan{Mode: form.ModeCreate}, env)
			if err != nil {
				return false
			}

			raw, err := json.Marshal(in)
			if err != nil {
				return false
			}
			var decoded map[string]any
			if err := json.Unmarshal(raw, &decoded); err != nil {
				return false
			}
			if _, ok := decoded["id"]; ok {
				return false
			}
			socials, _ := decoded["socials"].([]any)
			if len(socials) != len(urls) {
				return false
			}
			for _, item := range socials {
				entry, _ := item.(map[string]any)
				if len(entry) != 2 {
					return false
				}
				if value, ok := entry["icon"].(string); !ok || value != string(icon) {
					return false
				}
			}
			return decoded["name"] == in.Name && decoded["language"] == "en"
		},
		gen.AlphaString(),
		gen.SliceOf(gen.AlphaString()),
		icons.Map(func(v social.Icon) social.Icon { return v }),
	))
	properties.TestingRun(t)
}
