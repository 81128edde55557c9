package templates

import (
	"context"
	"errors"
	"strings"
	"time"

	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-builder/blocks"
	"github.com/goliatone/go-builder/internal/catalog"
	"github.com/goliatone/go-builder/internal/logging"
	"github.com/goliatone/go-builder/internal/validation"
	"github.com/goliatone/go-builder/pkg/interfaces"
)

// Service exposes template management for the builder.
type Service interface {
	Create(ctx context.Context, input CreateTemplateInput) (*Template, error)
	Get(ctx context.Context, id uuid.UUID) (*Template, error)
	GetBySlug(ctx context.Context, templateSlug string) (*Template, error)
	List(ctx context.Context) ([]*Template, error)
	Update(ctx context.Context, input UpdateTemplateInput) (*Template, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Instantiate clones a template's document with freshly minted block ids
	// so it can be dropped into a post without id collisions.
	Instantiate(ctx context.Context, id uuid.UUID) ([]*blocks.Block, error)
}

// CreateTemplateInput captures the payload required to create a template.
type CreateTemplateInput struct {
	Name        string
	Slug        string
	Description string
	Category    string
	Blocks      []*blocks.Block
	CreatedBy   uuid.UUID
}

// UpdateTemplateInput captures the mutable fields of a template. Nil pointers
// leave the current value untouched; Blocks replaces the whole document when
// set.
type UpdateTemplateInput struct {
	ID          uuid.UUID
	Name        *string
	Slug        *string
	Description *string
	Category    *string
	Blocks      []*blocks.Block
	UpdatedBy   uuid.UUID
}

var (
	ErrTemplateIDRequired = errors.New("templates: template id required")
	ErrNameRequired       = errors.New("templates: name required")
	ErrSlugInvalid        = errors.New("templates: slug invalid")
	ErrSlugTaken          = errors.New("templates: slug already in use")
)

// ServiceOption configures the template service.
type ServiceOption func(*service)

// WithClock overrides the service clock, mainly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides id generation, mainly for tests.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger injects the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	templates Repository
	registry  *catalog.Registry
	now       func() time.Time
	id        func() uuid.UUID
	logger    interfaces.Logger
}

// NewService constructs a template service over the given repository and
// block type catalog.
func NewService(repo Repository, registry *catalog.Registry, opts ...ServiceOption) Service {
	s := &service{
		templates: repo,
		registry:  registry,
		now:       time.Now,
		id:        uuid.New,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, input CreateTemplateInput) (*Template, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	templateSlug, err := s.resolveSlug(input.Slug, name)
	if err != nil {
		return nil, err
	}
	if _, err := s.templates.GetBySlug(ctx, templateSlug); err == nil {
		return nil, ErrSlugTaken
	}

	document, err := s.normalizeDocument(input.Blocks)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := &Template{
		ID:          s.id(),
		Name:        name,
		Slug:        templateSlug,
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		Blocks:      document,
		CreatedBy:   input.CreatedBy,
		UpdatedBy:   input.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.templates.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("templates.create", "template_id", created.ID, "slug", created.Slug)
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Template, error) {
	if id == uuid.Nil {
		return nil, ErrTemplateIDRequired
	}
	return s.templates.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, templateSlug string) (*Template, error) {
	return s.templates.GetBySlug(ctx, strings.TrimSpace(templateSlug))
}

func (s *service) List(ctx context.Context) ([]*Template, error) {
	return s.templates.List(ctx)
}

func (s *service) Update(ctx context.Context, input UpdateTemplateInput) (*Template, error) {
	if input.ID == uuid.Nil {
		return nil, ErrTemplateIDRequired
	}

	record, err := s.templates.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		record.Name = name
	}

	if input.Slug != nil {
		nextSlug := strings.TrimSpace(*input.Slug)
		if !slug.IsValid(nextSlug) {
			return nil, ErrSlugInvalid
		}
		if nextSlug != record.Slug {
			if _, err := s.templates.GetBySlug(ctx, nextSlug); err == nil {
				return nil, ErrSlugTaken
			}
			record.Slug = nextSlug
		}
	}

	if input.Description != nil {
		record.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		record.Category = strings.TrimSpace(*input.Category)
	}

	if input.Blocks != nil {
		document, err := s.normalizeDocument(input.Blocks)
		if err != nil {
			return nil, err
		}
		record.Blocks = document
	}

	record.UpdatedBy = input.UpdatedBy
	record.UpdatedAt = s.now()

	updated, err := s.templates.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("templates.update", "template_id", updated.ID, "blocks", blocks.Count(updated.Blocks))
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrTemplateIDRequired
	}
	if err := s.templates.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("templates.delete", "template_id", id)
	return nil
}

func (s *service) Instantiate(ctx context.Context, id uuid.UUID) ([]*blocks.Block, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	instantiated := make([]*blocks.Block, 0, len(record.Blocks))
	for _, root := range record.Blocks {
		instantiated = append(instantiated, blocks.Duplicate(root))
	}
	blocks.SetParentIDs(instantiated)
	return instantiated, nil
}

func (s *service) normalizeDocument(document []*blocks.Block) ([]*blocks.Block, error) {
	if document == nil {
		return nil, nil
	}
	s.registry.CanonicalizeTree(document)
	blocks.SetParentIDs(document)
	if err := validation.ValidateTree(s.registry, document); err != nil {
		return nil, err
	}
	return document, nil
}

func (s *service) resolveSlug(candidate, name string) (string, error) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		normalized, err := slug.Normalize(name)
		if err != nil {
			return "", ErrSlugInvalid
		}
		return normalized, nil
	}
	if !slug.IsValid(candidate) {
		return "", ErrSlugInvalid
	}
	return candidate, nil
}
