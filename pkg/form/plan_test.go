package form

import (
	"testing"

	"github.com/goliatone/go-entityform/pkg/locale"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestPlanFor(t *testing.T) {
	existing := &notice{ID: "42", Slug: "summer-sale", Locales: []string{"en", "de"}}

	cases := []struct {
		name    string
		initial *notice
		active  string
		want    Plan
	}{
		{name: "no initial record", active: "en", want: Plan{Mode: ModeCreate}},
		{name: "translated locale", initial: existing, active: "de", want: Plan{Mode: ModeUpdate, ID: "42", Slug: "summer-sale"}},
		{name: "locale casing", initial: existing, active: "DE", want: Plan{Mode: ModeUpdate, ID: "42", Slug: "summer-sale"}},
		{name: "new translation", initial: existing, active: "fr", want: Plan{Mode: ModeCreate, Slug: "summer-sale"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PlanFor(tc.initial, locale.New(tc.active, "en"))
			if got != tc.want {
				t.Fatalf("PlanFor = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestPlanForProperties(t *testing.T) {
	codes := gen.OneConstOf("en", "de", "fr", "es", "ar", "he", "zh")

	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("missing translation always creates", prop.ForAll(
		func(translated []string, active string) bool {
			if locale.Contains(translated, active) {
				return true
			}
			plan := PlanFor(&notice{ID: "7", Locales: translated}, locale.New(active, "en"))
			return plan.Mode == ModeCreate && plan.ID == ""
		},
		gen.SliceOf(codes.Map(func(v string) string { return v })),
		codes.Map(func(v string) string { return v }),
	))
	properties.Property("existing translation always updates with the id", prop.ForAll(
		func(translated []string, active string) bool {
			translated = append(translated, active)
			plan := PlanFor(&notice{ID: "7", Locales: translated}, locale.New(active, "en"))
			return plan.Mode == ModeUpdate && plan.ID == "7"
		},
		gen.SliceOf(codes.Map(func(v string) string { return v })),
		codes.Map(func(v string) string { return v }),
	))
	properties.TestingRun(t)
}
