package locale

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":       "",
		" en ":   "en",
		"EN_us":  "en-US",
		"de-de":  "de-DE",
		"zz@@zz": "zz@@zz",
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestContextTranslating(t *testing.T) {
	if New("", "en").Translating() {
		t.Fatalf("empty active locale should fall back to default")
	}
	if !New("de", "en").Translating() {
		t.Fatalf("expected de to be a translation of en")
	}
	if New("en_US", "en-us").Translating() {
		t.Fatalf("expected equivalent codes to compare equal")
	}
}

func TestContains(t *testing.T) {
	locales := []string{"en", "de-DE"}
	if !Contains(locales, "de_de") {
		t.Fatalf("expected de_de to match de-DE")
	}
	if Contains(locales, "fr") {
		t.Fatalf("did not expect fr to match")
	}
	if Contains(locales, " ") {
		t.Fatalf("blank code never matches")
	}
}
