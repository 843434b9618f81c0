package manufacturer

import (
	"context"
	"testing"

	"github.com/goliatone/go-entityform/pkg/entity"
	"github.com/goliatone/go-entityform/pkg/entity/social"
	"github.com/goliatone/go-entityform/pkg/form"
	"github.com/goliatone/go-entityform/pkg/locale"
	"github.com/goliatone/go-entityform/pkg/option"
	"github.com/google/go-cmp/cmp"
)

var groups = GroupOptions([]Group{{ID: "1", Name: "Books", Slug: "books"}, {ID: "2", Name: "Music", Slug: "music"}})

func persisted() Manufacturer {
	return Manufacturer{
		Base:        entity.Base{ID: "5", Slug: "penguin", Language: "en", TranslatedLanguages: []string{"en"}},
		Name:        "Penguin",
		Description: "<p>Publisher of <strong>classics</strong>.</p>",
		Website:     "https://penguin.example",
		Socials:     []social.Link{{Icon: social.Instagram, URL: "https://ig.com/penguin"}},
		Image:       &entity.Attachment{ID: "8", Thumbnail: "t.png", Original: "o.png"},
		Type:        &Group{ID: "1", Name: "Books", Slug: "books"},
		ShopID:      "3",
	}
}

func TestRoundTrip(t *testing.T) {
	record := persisted()
	env := form.Env{Locale: locale.New("en", "en"), Action: form.ActionEdit, ShopID: "3"}

	var got Input
	mutations := form.MutationFuncs[Manufacturer, Input]{
		UpdateFunc: func(_ context.Context, id string, in Input) (Manufacturer, error) {
			got = in
			return record, nil
		},
	}
	ctrl := form.NewController(Definition(groups), env, &record, mutations)
	if value, _ := ctrl.Value("type"); value != (option.Ref{Label: "Books", Value: "1"}) {
		t.Fatalf("expected type ref, got %#v", value)
	}
	if _, err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	want := Input{
		ID:          "5",
		Name:        "Penguin",
		Slug:        "penguin",
		Description: record.Description,
		Website:     record.Website,
		Socials:     record.Socials,
		Image:       record.Image,
		TypeID:      "1",
		ShopID:      "3",
		Language:    "en",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateStartsWithoutGroup(t *testing.T) {
	record := persisted()
	env := form.Env{Locale: locale.New("de", "en"), Action: form.ActionTranslate}
	values := Decode(record, env)
	if values["type"] != nil {
		t.Fatalf("expected type reset on translate, got %#v", values["type"])
	}

	in, err := Map(values, form.PlanFor(&record, env.Locale), env)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if in.TypeID != "" || in.ID != "" || in.Slug != "penguin" || in.Language != "de" {
		t.Fatalf("unexpected translation payload %+v", in)
	}
}

func TestMapSanitizesDescription(t *testing.T) {
	values := map[string]any{"name": "Acme", "description": `<p>Hi<script>x()</script></p>`}
	in, err := Map(values, form.Plan{Mode: form.ModeCreate}, form.Env{Locale: locale.New("en", "en")})
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if in.Description != "<p>Hi</p>" {
		t.Fatalf("unexpected description %q", in.Description)
	}
}
