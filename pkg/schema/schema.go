package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const resourceBase = "https://entityform.local/schemas/"

var quotedName = regexp.MustCompile(`'([^']+)'`)

// Issue is a single validation failure addressed by a dotted field path.
type Issue struct {
	Path    string `json:"path"`
	Keyword string `json:"keyword,omitempty"`
	Message string `json:"message"`
}

// Schema validates candidate form values for one entity.
type Schema struct {
	name     string
	compiled *jsonschema.Schema
	messages map[string]string
}

// Option customises a compiled schema.
type Option func(*Schema)

// WithMessages overrides library messages. Keys are either a field path with
// indices removed ("socials.url") or a path plus keyword ("socials.url#minLength").
// Values are usually translation keys resolved later by package i18n.
func WithMessages(messages map[string]string) Option {
	return func(s *Schema) {
		for key, value := range messages {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			s.messages[key] = value
		}
	}
}

// Compile builds a Schema from a Draft 2020-12 JSON document.
func Compile(name string, raw []byte, opts ...Option) (*Schema, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("schema: name is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("schema: %s document is empty", name)
	}

	url := resourceBase + name + ".schema.json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("schema: load %s: %w", name, err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema: compile %s: %w", name, err)
	}
	return newSchema(name, compiled, opts), nil
}

// MustCompile panics when the document cannot be compiled. Entity packages use
// it for their embedded documents.
func MustCompile(name string, raw []byte, opts ...Option) *Schema {
	s, err := Compile(name, raw, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// FromOpenAPI compiles the named component schema of an OpenAPI 3 document
// (JSON or YAML). References between components resolve inside the document.
func FromOpenAPI(ctx context.Context, raw []byte, component string, opts ...Option) (*Schema, error) {
	component = strings.TrimSpace(component)
	if component == "" {
		return nil, errors.New("schema: component name is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: load openapi document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("schema: invalid openapi document: %w", err)
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("schema: encode openapi document: %w", err)
	}

	url := resourceBase + "openapi.json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, bytes.NewReader(payload)); err != nil {
		return nil, fmt.Errorf("schema: load openapi document: %w", err)
	}
	compiled, err := compiler.Compile(url + "#/components/schemas/" + escapePointer(component))
	if err != nil {
		return nil, fmt.Errorf("schema: compile component %s: %w", component, err)
	}
	return newSchema(component, compiled, opts), nil
}

func newSchema(name string, compiled *jsonschema.Schema, opts []Option) *Schema {
	s := &Schema{name: name, compiled: compiled, messages: make(map[string]string)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Name reports the entity the schema belongs to.
func (s *Schema) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Validate checks values and returns the failures sorted by path. A nil
// result means the values are accepted.
func (s *Schema) Validate(values map[string]any) ([]Issue, error) {
	if s == nil || s.compiled == nil {
		return nil, nil
	}

	doc, err := normalize(values)
	if err != nil {
		return nil, err
	}

	err = s.compiled.Validate(doc)
	if err == nil {
		return nil, nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, fmt.Errorf("schema: validate %s: %w", s.name, err)
	}

	var issues []Issue
	collectIssues(verr, &issues)
	issues = s.applyMessages(dedupe(issues))
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Path < issues[j].Path
	})
	return issues, nil
}

func (s *Schema) applyMessages(issues []Issue) []Issue {
	if len(s.messages) == 0 {
		return issues
	}
	for i := range issues {
		generic := stripIndices(issues[i].Path)
		if msg, ok := s.messages[generic+"#"+issues[i].Keyword]; ok {
			issues[i].Message = msg
			continue
		}
		if msg, ok := s.messages[generic]; ok {
			issues[i].Message = msg
		}
	}
	return issues
}

// normalize converts controller values (time.Time, option.Ref, typed slices)
// into the plain JSON shape the validator understands.
func normalize(values map[string]any) (any, error) {
	if values == nil {
		values = map[string]any{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("schema: encode values: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, fmt.Errorf("schema: decode values: %w", err)
	}
	return out, nil
}

func collectIssues(err *jsonschema.ValidationError, dest *[]Issue) {
	if err == nil {
		return
	}
	if len(err.Causes) > 0 {
		for _, cause := range err.Causes {
			collectIssues(cause, dest)
		}
		return
	}

	keyword := lastSegment(err.KeywordLocation)
	path := pointerToPath(err.InstanceLocation)

	if keyword == "required" {
		names := quotedName.FindAllStringSubmatch(err.Message, -1)
		for _, match := range names {
			*dest = append(*dest, Issue{
				Path:    joinPath(path, match[1]),
				Keyword: keyword,
				Message: match[1] + " is required",
			})
		}
		if len(names) > 0 {
			return
		}
	}

	*dest = append(*dest, Issue{
		Path:    path,
		Keyword: keyword,
		Message: strings.TrimSpace(err.Message),
	})
}

func dedupe(issues []Issue) []Issue {
	seen := make(map[string]struct{}, len(issues))
	out := issues[:0]
	for _, issue := range issues {
		key := issue.Path + "\x00" + issue.Keyword + "\x00" + issue.Message
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, issue)
	}
	return out
}

func pointerToPath(pointer string) string {
	trimmed := strings.Trim(strings.TrimSpace(pointer), "/")
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trimmed, "/")
	for i, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		parts[i] = strings.ReplaceAll(part, "~0", "~")
	}
	return strings.Join(parts, ".")
}

func lastSegment(pointer string) string {
	pointer = strings.TrimRight(pointer, "/")
	if idx := strings.LastIndex(pointer, "/"); idx >= 0 {
		return pointer[idx+1:]
	}
	return pointer
}

func stripIndices(path string) string {
	if path == "" {
		return ""
	}
	parts := strings.Split(path, ".")
	out := parts[:0]
	for _, part := range parts {
		if _, err := strconv.Atoi(part); err == nil {
			continue
		}
		out = append(out, part)
	}
	return strings.Join(out, ".")
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}

func escapePointer(segment string) string {
	segment = strings.ReplaceAll(segment, "~", "~0")
	return strings.ReplaceAll(segment, "/", "~1")
}
