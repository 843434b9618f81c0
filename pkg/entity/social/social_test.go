package social

import (
	"testing"

	"github.com/goliatone/go-entityform/pkg/option"
	"github.com/google/go-cmp/cmp"
)

func TestDecodeWrapsIcons(t *testing.T) {
	got := Decode([]Link{{Icon: Twitter, URL: "https://x.com/a"}, {Icon: "MastodonIcon", URL: "https://m.social/a"}})
	want := []any{
		map[string]any{"icon": option.Ref{Label: "Twitter", Value: "TwitterIcon"}, "url": "https://x.com/a"},
		map[string]any{"icon": option.Ref{Label: "MastodonIcon", Value: "MastodonIcon"}, "url": "https://m.social/a"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}
}

func TestMapDropsUIOnlyKeys(t *testing.T) {
	values := map[string]any{
		FieldName: []any{
			map[string]any{"icon": option.Ref{Label: "Facebook", Value: "FacebookIcon"}, "url": " https://fb.com/a ", "preview": "<svg/>"},
			map[string]any{"icon": map[string]any{"label": "Youtube", "value": "YouTubeIcon"}, "url": "https://yt.com/a"},
			"garbage",
		},
	}
	want := []Link{
		{Icon: Facebook, URL: "https://fb.com/a"},
		{Icon: YouTube, URL: "https://yt.com/a"},
	}
	if diff := cmp.Diff(want, Map(values)); diff != "" {
		t.Fatalf("map mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	links := []Link{{Icon: Facebook, URL: "https://fb.com/a"}, {Icon: Instagram, URL: "https://ig.com/a"}}
	got := Map(map[string]any{FieldName: Decode(links)})
	if diff := cmp.Diff(links, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	if !Facebook.Valid() || Icon("Nope").Valid() {
		t.Fatalf("unexpected icon validity")
	}
}
