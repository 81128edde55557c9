package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-builder/internal/catalog"
	"github.com/goliatone/go-builder/internal/logging"
	"github.com/goliatone/go-builder/internal/posts"
	"github.com/goliatone/go-builder/internal/render"
	"github.com/goliatone/go-builder/internal/templates"
	"github.com/goliatone/go-builder/pkg/interfaces"
)

// Services bundles everything the HTTP surface needs.
type Services struct {
	Posts     posts.Service
	Templates templates.Service
	Registry  *catalog.Registry
	Renderer  *render.Renderer
}

// Option configures the API.
type Option func(*API)

// WithLogger injects the API logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(a *API) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// API is the builder's REST surface.
type API struct {
	services Services
	logger   interfaces.Logger
}

// New constructs the API over the given services.
func New(services Services, opts ...Option) *API {
	a := &API{
		services: services,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router mounts every builder route under /api and returns the handler.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", a.listPosts)
			r.Post("/", a.createPost)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", a.getPost)
				r.Put("/", a.updatePost)
				r.Delete("/", a.deletePost)
				r.Post("/publish", a.publishPost)
				r.Get("/render", a.renderPost)
				r.Get("/versions", a.listPostVersions)
			})
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", a.listTemplates)
			r.Post("/", a.createTemplate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", a.getTemplate)
				r.Put("/", a.updateTemplate)
				r.Delete("/", a.deleteTemplate)
			})
		})

		r.Get("/blocks/definitions", a.listDefinitions)
	})

	return r
}
