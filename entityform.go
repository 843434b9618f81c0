// Package entityform wires the admin entity forms to a remote admin API: it
// builds the API client, the message catalogs, the suggestion providers and
// the submission metrics from one configuration, and mounts form controllers
// for the supported entities.
package entityform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-entityform/internal/config"
	"github.com/goliatone/go-entityform/pkg/client"
	"github.com/goliatone/go-entityform/pkg/entity/attribute"
	"github.com/goliatone/go-entityform/pkg/entity/author"
	"github.com/goliatone/go-entityform/pkg/entity/manufacturer"
	"github.com/goliatone/go-entityform/pkg/entity/product"
	"github.com/goliatone/go-entityform/pkg/entity/storenotice"
	"github.com/goliatone/go-entityform/pkg/form"
	"github.com/goliatone/go-entityform/pkg/i18n"
	"github.com/goliatone/go-entityform/pkg/locale"
	"github.com/goliatone/go-entityform/pkg/metrics"
	"github.com/goliatone/go-entityform/pkg/prompt"
	"github.com/goliatone/go-entityform/pkg/suggest"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ErrUnknownEntity is returned by Open for an unsupported kind.
var ErrUnknownEntity = errors.New("entityform: unknown entity")

// categoryPageSize matches the category filter of the admin UI.
const categoryPageSize = 999

// Config aliases the configuration so callers can build one without
// importing an internal package.
type Config = config.Config

// LoadConfig reads path (optional) over the defaults and applies environment
// overrides.
func LoadConfig(path string) (Config, error) { return config.Load(path) }

// ReadConfig is LoadConfig without validation, for tooling that reports on
// a broken configuration.
func ReadConfig(path string) (Config, error) { return config.Read(path) }

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config { return config.Default() }

// Entities lists the kinds Open accepts.
func Entities() []string {
	return []string{author.Entity, manufacturer.Entity, storenotice.Entity, product.Entity, attribute.Entity}
}

// Option customises an App.
type Option func(*App)

// WithLogger attaches a structured logger to every component.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithHTTPClient overrides the API transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *App) { a.httpClient = hc }
}

// WithTranslator replaces the embedded message catalogs.
func WithTranslator(t i18n.Translator) Option {
	return func(a *App) {
		if t != nil {
			a.translator = t
		}
	}
}

// App holds the shared collaborators of every mounted form.
type App struct {
	cfg        Config
	logger     *zap.Logger
	httpClient *http.Client
	client     *client.Client
	translator i18n.Translator
	catalog    *suggest.Catalog
	registry   *prometheus.Registry
	recorder   metrics.Recorder
}

// New validates cfg and builds the collaborators.
func New(cfg Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{
		cfg:        cfg,
		logger:     zap.NewNop(),
		translator: i18n.Default(),
		catalog:    SuggestionCatalog(),
		recorder:   metrics.Nop{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	clientOpts := []client.Option{client.WithLogger(a.logger.Named("client"))}
	if a.httpClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(a.httpClient))
	}
	c, err := client.New(client.Config{
		BaseURL:   cfg.API.URL,
		Token:     cfg.API.Token,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
	}, clientOpts...)
	if err != nil {
		return nil, err
	}
	a.client = c

	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		recorder, err := metrics.NewPrometheus(a.registry)
		if err != nil {
			return nil, fmt.Errorf("entityform: metrics: %w", err)
		}
		a.recorder = recorder
	}
	return a, nil
}

// Config returns the configuration the app was built from.
func (a *App) Config() Config { return a.cfg }

// Client exposes the API client.
func (a *App) Client() *client.Client { return a.client }

// Translator exposes the message catalogs.
func (a *App) Translator() i18n.Translator { return a.translator }

// Registry returns the metrics registry, nil when metrics are disabled.
func (a *App) Registry() *prometheus.Registry { return a.registry }

// SuggestionCatalog registers the prompt templates of every entity.
func SuggestionCatalog() *suggest.Catalog {
	catalog := suggest.NewCatalog(nil)
	author.RegisterSuggestions(catalog)
	manufacturer.RegisterSuggestions(catalog)
	storenotice.RegisterSuggestions(catalog)
	product.RegisterSuggestions(catalog)
	return catalog
}

// Provider returns the OpenAI provider backed by the prompt catalog when an
// API key is configured, and the catalog alone otherwise.
func (a *App) Provider() suggest.Provider {
	key := strings.TrimSpace(a.cfg.OpenAI.APIKey)
	if key == "" {
		return a.catalog
	}
	provider, err := suggest.NewOpenAI(key, a.cfg.OpenAI.BaseURL,
		suggest.WithModel(a.cfg.OpenAI.Model),
		suggest.WithLogger(a.logger.Named("suggest")),
		suggest.WithFallback(a.catalog))
	if err != nil {
		a.logger.Warn("openai provider unavailable", zap.Error(err))
		return a.catalog
	}
	return provider
}

// Suggestions returns the provider when the platform settings enable AI
// assistance for language, and nil otherwise.
func (a *App) Suggestions(ctx context.Context, language string) (suggest.Provider, error) {
	settings, err := a.client.Settings().Get(ctx, language)
	if err != nil {
		return nil, fmt.Errorf("entityform: load settings: %w", err)
	}
	if !settings.Options.UseAI {
		return nil, nil
	}
	return a.Provider(), nil
}

// Env resolves the mount context of the token owner. shopSlug overrides the
// configured shop; the operator's own shop applies when both are empty.
func (a *App) Env(ctx context.Context, action form.Action, shopSlug string) (form.Env, error) {
	me, err := a.client.Me(ctx)
	if err != nil {
		return form.Env{}, fmt.Errorf("entityform: load profile: %w", err)
	}
	env := form.Env{
		Locale:      locale.New(a.cfg.ActiveLocale(), a.cfg.Locale.Default),
		Action:      action,
		ShopID:      me.ShopID.String(),
		Permissions: me.Permissions,
	}

	if shopSlug = strings.TrimSpace(shopSlug); shopSlug == "" {
		shopSlug = strings.TrimSpace(a.cfg.Shop)
	}
	if shopSlug != "" {
		shop, err := a.client.Shops().BySlug(ctx, shopSlug)
		if err != nil {
			return form.Env{}, fmt.Errorf("entityform: load shop %q: %w", shopSlug, err)
		}
		env.ShopID = shop.ID.String()
	}
	return env, nil
}

// Session is one mounted form.
type Session struct {
	Entity string
	mounted
	submit func(context.Context) (form.Record, error)
}

type mounted interface {
	prompt.Form
	Plan() form.Plan
	Validate() (int, error)
	Close()
}

// Submit validates, maps and dispatches the form. The saved record is
// returned on success.
func (s *Session) Submit(ctx context.Context) (form.Record, error) {
	return s.submit(ctx)
}

// Open mounts the entity form for env. A non-empty slug loads the record to
// edit or translate; an empty slug opens a create form.
func (a *App) Open(ctx context.Context, entityName string, env form.Env, slug string) (*Session, error) {
	provider, err := a.Suggestions(ctx, env.Locale.Active)
	if err != nil {
		return nil, err
	}
	language := env.Locale.Active

	switch entityName {
	case author.Entity:
		return mount(ctx, a, author.Definition(), client.CollectionAuthors, env, slug, provider)
	case manufacturer.Entity:
		groups, err := a.client.Types().List(ctx, language)
		if err != nil {
			return nil, fmt.Errorf("entityform: load groups: %w", err)
		}
		def := manufacturer.Definition(manufacturer.GroupOptions(groups))
		return mount(ctx, a, def, client.CollectionManufacturers, env, slug, provider)
	case storenotice.Entity:
		recipients, err := a.client.Notices().UsersOrShops(ctx)
		if err != nil {
			return nil, fmt.Errorf("entityform: load recipients: %w", err)
		}
		def := storenotice.Definition(env, storenotice.RecipientOptions(recipients))
		return mount(ctx, a, def, client.CollectionStoreNotices, env, slug, provider)
	case product.Entity:
		return mount(ctx, a, product.Definition(), client.CollectionProducts, env, slug, provider)
	case attribute.Entity:
		return mount(ctx, a, attribute.Definition(), client.CollectionAttributes, env, slug, provider)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, entityName)
	}
}

func mount[E form.Record, P any](ctx context.Context, a *App, def form.Definition[E, P], collection string, env form.Env, slug string, provider suggest.Provider) (*Session, error) {
	resource := client.NewResource[E, P](a.client, collection)

	var initial *E
	if slug = strings.TrimSpace(slug); slug != "" {
		record, err := load(ctx, resource, slug, env)
		if err != nil {
			return nil, err
		}
		initial = &record
	}

	opts := []form.Option{
		form.WithLogger(a.logger.Named("form")),
		form.WithMetrics(a.recorder),
		form.WithTranslator(a.translator),
	}
	if provider != nil {
		opts = append(opts, form.WithSuggestions(provider))
	}
	ctrl := form.NewController(def, env, initial, resource, opts...)

	return &Session{
		Entity:  def.Name,
		mounted: ctrl,
		submit: func(ctx context.Context) (form.Record, error) {
			record, err := ctrl.Submit(ctx)
			if err != nil {
				return nil, err
			}
			return record, nil
		},
	}, nil
}

// load fetches the record in the active locale. A translation that does not
// exist yet starts from the default-locale record.
func load[E form.Record, P any](ctx context.Context, resource *client.Resource[E, P], slug string, env form.Env) (E, error) {
	record, err := resource.Get(ctx, slug, env.Locale.Active)
	if errors.Is(err, client.ErrNotFound) && env.Action == form.ActionTranslate && !env.Locale.IsDefault() {
		record, err = resource.Get(ctx, slug, env.Locale.Default)
	}
	if err != nil {
		return record, fmt.Errorf("entityform: load %s/%s: %w", resource.Collection(), slug, err)
	}
	return record, nil
}

// Filter lists the product groups and, for typeSlug, the categories of that
// group.
func (a *App) Filter(ctx context.Context, typeSlug string) ([]manufacturer.Group, []client.Category, error) {
	language := a.cfg.ActiveLocale()
	groups, err := a.client.Types().List(ctx, language)
	if err != nil {
		return nil, nil, fmt.Errorf("entityform: load groups: %w", err)
	}
	categories, err := a.client.Categories().List(ctx, client.CategoryFilter{
		Limit:    categoryPageSize,
		Language: language,
		Type:     typeSlug,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("entityform: load categories: %w", err)
	}
	return groups, categories, nil
}
