package form

import (
	"context"
	"sync"

	"github.com/goliatone/go-entityform/pkg/locale"
	"github.com/goliatone/go-entityform/pkg/model"
	"github.com/goliatone/go-entityform/pkg/option"
	"github.com/goliatone/go-entityform/pkg/schema"
)

type notice struct {
	ID        string
	Slug      string
	Name      string
	Notice    string
	Priority  string
	Locales   []string
	Audiences []string
}

func (n notice) EntityID() string            { return n.ID }
func (n notice) EntitySlug() string          { return n.Slug }
func (n notice) TranslatedLocales() []string { return n.Locales }

type noticePayload struct {
	ID        string
	Slug      string
	Name      string
	Notice    string
	Priority  string
	Language  string
	Socials   []map[string]string
	Audiences []string
}

var priorities = option.Of("High", "high", "Medium", "medium", "Low", "low")

var noticeForm = model.Form{
	Entity: "notice",
	Fields: []model.Field{
		{Name: "name", Type: model.FieldTypeString, Required: true, Translatable: true},
		{Name: "slug", Type: model.FieldTypeString, Translatable: true},
		{Name: "notice", Type: model.FieldTypeText, Translatable: true},
		{Name: "priority", Type: model.FieldTypeOption, Options: priorities},
		{Name: "socials", Type: model.FieldTypeGroup, Nested: []model.Field{
			{Name: "icon", Type: model.FieldTypeOption},
			{Name: "url", Type: model.FieldTypeString},
		}},
		{Name: "audiences", Type: model.FieldTypeMulti},
	},
}

const noticeSchema = `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "socials": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["url"],
        "properties": {"url": {"type": "string", "minLength": 1}}
      }
    }
  }
}`

func noticeDefinition() Definition[notice, noticePayload] {
	return Definition[notice, noticePayload]{
		Name:           "notice",
		Form:           noticeForm,
		Schema:         schema.MustCompile("notice", []byte(noticeSchema)),
		SlugSource:     "name",
		SuggestionSeed: "name",
		Suggestable:    []string{"notice"},
		Decode: func(n notice, _ Env) map[string]any {
			values := map[string]any{
				"name":      n.Name,
				"slug":      n.Slug,
				"notice":    n.Notice,
				"socials":   []any{},
				"audiences": []any{},
			}
			if ref, ok := priorities.Find(n.Priority); ok {
				values["priority"] = ref
			}
			for _, audience := range n.Audiences {
				values["audiences"] = append(values["audiences"].([]any), audience)
			}
			return values
		},
		Map: func(values map[string]any, plan Plan, env Env) (noticePayload, error) {
			payload := noticePayload{
				Name:      String(values, "name"),
				Slug:      String(values, "slug"),
				Notice:    String(values, "notice"),
				Priority:  String(values, "priority"),
				Language:  env.Locale.Active,
				Audiences: Strings(values, "audiences"),
			}
			if plan.Mode == ModeUpdate {
				payload.ID = plan.ID
			}
			if plan.IsCreate() && plan.Slug != "" {
				payload.Slug = plan.Slug
			}
			for _, item := range Slice(values, "socials") {
				entry, _ := item.(map[string]any)
				payload.Socials = append(payload.Socials, map[string]string{
					"icon": option.Unwrap(entry["icon"]),
					"url":  String(entry, "url"),
				})
			}
			return payload, nil
		},
		Visible: map[string]Predicate{
			"audiences": func(values map[string]any, env Env) bool {
				return env.SuperAdmin()
			},
		},
	}
}

func defaultEnv(action Action) Env {
	return Env{Locale: locale.New("en", "en"), Action: action}
}

type call struct {
	mode    Mode
	id      string
	payload noticePayload
}

// recorder is a scripted Mutations implementation.
type recorder struct {
	mu     sync.Mutex
	calls  []call
	err    error
	block  chan struct{}
	result notice
}

func (r *recorder) Create(ctx context.Context, payload noticePayload) (notice, error) {
	return r.do(ctx, call{mode: ModeCreate, payload: payload})
}

func (r *recorder) Update(ctx context.Context, id string, payload noticePayload) (notice, error) {
	return r.do(ctx, call{mode: ModeUpdate, id: id, payload: payload})
}

func (r *recorder) do(ctx context.Context, c call) (notice, error) {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	block := r.block
	err := r.err
	result := r.result
	r.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return notice{}, ctx.Err()
		}
	}
	if err != nil {
		return notice{}, err
	}
	return result, nil
}

func (r *recorder) Calls() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}
