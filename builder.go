package builder

import (
	"net/http"

	"github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-builder/internal/catalog"
	"github.com/goliatone/go-builder/internal/editor"
	"github.com/goliatone/go-builder/internal/httpapi"
	"github.com/goliatone/go-builder/internal/logging"
	"github.com/goliatone/go-builder/internal/logging/gologger"
	"github.com/goliatone/go-builder/internal/markdown"
	"github.com/goliatone/go-builder/internal/posts"
	"github.com/goliatone/go-builder/internal/render"
	"github.com/goliatone/go-builder/internal/templates"
	"github.com/goliatone/go-builder/pkg/interfaces"
)

// PostService exports the post service contract for consumers of the builder package.
type PostService = posts.Service

// TemplateService exports the template service contract.
type TemplateService = templates.Service

// BlockDefinition exports the catalog entry type so callers can register
// custom block types.
type BlockDefinition = catalog.Definition

type dependencies struct {
	db             *bun.DB
	loggerProvider interfaces.LoggerProvider
	cacheService   cache.CacheService
	keySerializer  cache.KeySerializer
	definitions    []*catalog.Definition
}

// Option overrides a module dependency during assembly.
type Option func(*dependencies)

// WithBunDB wires a bun database; without it the module runs on in-memory
// repositories.
func WithBunDB(db *bun.DB) Option {
	return func(d *dependencies) {
		d.db = db
	}
}

// WithLoggerProvider overrides the default go-logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(d *dependencies) {
		d.loggerProvider = provider
	}
}

// WithRepositoryCache wires the cache layer around bun repositories. Only
// effective together with WithBunDB and Cache.Enabled.
func WithRepositoryCache(service cache.CacheService, serializer cache.KeySerializer) Option {
	return func(d *dependencies) {
		d.cacheService = service
		d.keySerializer = serializer
	}
}

// WithBlockDefinitions registers additional block types on top of the
// builtins before any service sees the catalog.
func WithBlockDefinitions(definitions ...*catalog.Definition) Option {
	return func(d *dependencies) {
		d.definitions = append(d.definitions, definitions...)
	}
}

// Module is the top level builder runtime facade.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider
	registry *catalog.Registry
	posts    posts.Service
	template templates.Service
	renderer *render.Renderer
	editors  *editor.Manager
	importer *markdown.Importer
	api      *httpapi.API
}

// New assembles a builder module from the configuration and optional
// dependency overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	deps := &dependencies{}
	for _, opt := range opts {
		opt(deps)
	}

	provider := deps.loggerProvider
	if provider == nil {
		var err error
		provider, err = gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    providerFormat(cfg.Logging.Format),
			AddSource: cfg.Logging.AddSource,
		})
		if err != nil {
			return nil, err
		}
	}

	registry := catalog.Default()
	for _, def := range deps.definitions {
		if err := registry.Register(def); err != nil {
			return nil, err
		}
	}

	var postRepo posts.Repository
	var versionRepo posts.VersionRepository
	var templateRepo templates.Repository
	if deps.db != nil {
		cacheService, keySerializer := deps.cacheService, deps.keySerializer
		if !cfg.Cache.Enabled {
			cacheService, keySerializer = nil, nil
		}
		postRepo = posts.NewBunPostRepositoryWithCache(deps.db, cacheService, keySerializer)
		versionRepo = posts.NewBunVersionRepositoryWithCache(deps.db, cacheService, keySerializer)
		templateRepo = templates.NewBunTemplateRepositoryWithCache(deps.db, cacheService, keySerializer)
	} else {
		postRepo = posts.NewMemoryRepository()
		versionRepo = posts.NewMemoryVersionRepository()
		templateRepo = templates.NewMemoryRepository()
	}

	postService := posts.NewService(postRepo, registry,
		posts.WithLogger(logging.PostsLogger(provider)),
		posts.WithVersionRepository(versionRepo),
		posts.WithVersioningEnabled(cfg.Features.Versioning),
		posts.WithVersionRetentionLimit(cfg.Retention.MaxVersionsPerPost),
	)
	templateService := templates.NewService(templateRepo, registry,
		templates.WithLogger(logging.TemplatesLogger(provider)),
	)
	renderer := render.New(registry, render.WithLogger(logging.RenderLogger(provider)))
	editors := editor.NewManager(registry, logging.EditorLogger(provider))

	m := &Module{
		cfg:      cfg,
		provider: provider,
		registry: registry,
		posts:    postService,
		template: templateService,
		renderer: renderer,
		editors:  editors,
	}

	if cfg.Features.Markdown {
		m.importer = markdown.NewImporter(postService, registry,
			markdown.WithImporterLogger(logging.ModuleLogger(provider, "builder.import")),
		)
	}

	m.api = httpapi.New(httpapi.Services{
		Posts:     postService,
		Templates: templateService,
		Registry:  registry,
		Renderer:  renderer,
	}, httpapi.WithLogger(logging.HTTPLogger(provider)))

	return m, nil
}

// Posts returns the configured post service.
func (m *Module) Posts() PostService {
	return m.posts
}

// Templates returns the configured template service.
func (m *Module) Templates() TemplateService {
	return m.template
}

// Catalog returns the block type registry.
func (m *Module) Catalog() *catalog.Registry {
	return m.registry
}

// Renderer returns the document renderer.
func (m *Module) Renderer() *render.Renderer {
	return m.renderer
}

// Editors returns the editing session manager.
func (m *Module) Editors() *editor.Manager {
	return m.editors
}

// Importer returns the markdown importer, or nil when the markdown feature is
// disabled.
func (m *Module) Importer() *markdown.Importer {
	return m.importer
}

// Handler returns the module's REST surface, ready to mount on a server.
func (m *Module) Handler() http.Handler {
	return m.api.Router()
}

// Logger returns a named logger from the module's provider.
func (m *Module) Logger(name string) interfaces.Logger {
	return m.provider.GetLogger(name)
}

// The public config names "text"; go-logger calls the same output "console".
func providerFormat(format string) string {
	if format == "text" || format == "" {
		return "console"
	}
	return format
}
