package option_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-entityform/pkg/option"
)

func TestSetFindAndUnwrap(t *testing.T) {
	set := option.Of("High", "high", "Low", "low")

	ref, ok := set.Find("low")
	if !ok {
		t.Fatalf("expected low to resolve")
	}
	if diff := cmp.Diff(option.Ref{Label: "Low", Value: "low"}, ref); diff != "" {
		t.Fatalf("ref mismatch (-want +got):\n%s", diff)
	}
	if _, ok := set.Find("medium"); ok {
		t.Fatalf("unexpected match for unknown value")
	}

	for _, input := range []any{ref, &ref, "low", map[string]any{"label": "Low", "value": "low"}} {
		if got := option.Unwrap(input); got != "low" {
			t.Fatalf("Unwrap(%#v) = %q", input, got)
		}
	}
	if got := option.Unwrap(nil); got != "" {
		t.Fatalf("Unwrap(nil) = %q", got)
	}
}

func TestAsRefResolvesBareValues(t *testing.T) {
	set := option.Of("Facebook", "FacebookIcon")

	ref, ok := option.AsRef("FacebookIcon", set)
	if !ok || ref.Label != "Facebook" {
		t.Fatalf("expected label lookup, got %#v (ok=%v)", ref, ok)
	}
	ref, ok = option.AsRef(map[string]any{"label": "X", "value": "x"}, nil)
	if !ok || ref.Value != "x" {
		t.Fatalf("expected map decode, got %#v", ref)
	}
	if _, ok := option.AsRef(option.Ref{}, set); ok {
		t.Fatalf("zero ref is not a selection")
	}
}

func TestSetListings(t *testing.T) {
	set := option.Of("All Shop", "all_shop", "Specific Shop", "specific_shop")
	if diff := cmp.Diff([]string{"All Shop", "Specific Shop"}, set.Labels()); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"all_shop", "specific_shop"}, set.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if set.Index("specific_shop") != 1 || set.Index("nope") != -1 {
		t.Fatalf("unexpected index results")
	}
	if ref, ok := set.FindLabel("specific shop"); !ok || ref.Value != "specific_shop" {
		t.Fatalf("FindLabel failed: %#v", ref)
	}
}
