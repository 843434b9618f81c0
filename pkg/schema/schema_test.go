package schema_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-entityform/pkg/schema"
)

const socialsDoc = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": { "type": "string", "minLength": 1 },
    "born": { "type": ["string", "null"] },
    "socials": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["icon", "url"],
        "properties": {
          "icon": { "type": "object", "required": ["value"], "properties": { "value": { "type": "string", "minLength": 1 } } },
          "url": { "type": "string", "minLength": 1 }
        }
      }
    }
  }
}`

func TestValidateAcceptsCompleteValues(t *testing.T) {
	s := schema.MustCompile("author", []byte(socialsDoc))
	issues, err := s.Validate(map[string]any{
		"name": "Jane",
		"born": time.Date(1775, 12, 16, 0, 0, 0, 0, time.UTC),
		"socials": []any{
			map[string]any{"icon": map[string]any{"label": "Facebook", "value": "FacebookIcon"}, "url": "https://fb.example"},
		},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %#v", issues)
	}
}

func TestValidateReportsNestedRequiredPaths(t *testing.T) {
	s := schema.MustCompile("author", []byte(socialsDoc), schema.WithMessages(map[string]string{
		"name":                  "form:error-name-required",
		"socials.url#minLength": "form:error-url-required",
	}))

	issues, err := s.Validate(map[string]any{
		"socials": []any{
			map[string]any{"url": ""},
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
		"socials.0.icon": "icon is required",
		"socials.0.url":  "form:error-url-required",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileRejectsEmptyInput(t *testing.T) {
	if _, err := schema.Compile("", []byte(`{}`)); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if _, err := schema.Compile("x", nil); err == nil {
		t.Fatalf("expected error for empty document")
	}
}

const openAPIDoc = `
openapi: 3.0.3
info:
  title: admin
  version: "1"
paths: {}
components:
  schemas:
    Attribute:
      type: object
      required: [name]
      properties:
        name:
          type: string
          minLength: 1
        values:
          type: array
          items:
            $ref: '#/components/schemas/AttributeValue'
    AttributeValue:
      type: object
      required: [value, meta]
      properties:
        value:
          type: string
        meta:
          type: string
`

func TestFromOpenAPIResolvesComponentRefs(t *testing.T) {
	s, err := schema.FromOpenAPI(context.Background(), []byte(openAPIDoc), "Attribute")
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}
	if s.Name() != "Attribute" {
		t.Fatalf("unexpected name %q", s.Name())
	}

	issues, err := s.Validate(map[string]any{
		"name":   "Color",
		"values": []any{map[string]any{"value": "red"}},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(issues) != 1 || issues[0].Path != "values.0.meta" {
		t.Fatalf("expected values.0.meta issue, got %#v", issues)
	}

	if _, err := schema.FromOpenAPI(context.Background(), []byte(openAPIDoc), "Missing"); err == nil {
		t.Fatalf("expected unknown component to fail")
	}
}
