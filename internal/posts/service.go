package posts

import (
	"context"
	"errors"
	"strings"
	"time"

	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-builder/blocks"
	"github.com/goliatone/go-builder/internal/catalog"
	"github.com/goliatone/go-builder/internal/domain"
	"github.com/goliatone/go-builder/internal/logging"
	"github.com/goliatone/go-builder/internal/validation"
	"github.com/goliatone/go-builder/pkg/interfaces"
)

// Service exposes post management for the builder: CRUD over builder
// documents plus the draft/publish/restore workflow.
type Service interface {
	Create(ctx context.Context, input CreatePostInput) (*Post, error)
	Get(ctx context.Context, id uuid.UUID) (*Post, error)
	GetBySlug(ctx context.Context, postSlug string) (*Post, error)
	List(ctx context.Context) ([]*Post, error)
	Update(ctx context.Context, input UpdatePostInput) (*Post, error)
	Delete(ctx context.Context, req DeletePostRequest) error

	CreateDraft(ctx context.Context, req CreateDraftRequest) (*Version, error)
	PublishDraft(ctx context.Context, req PublishDraftRequest) (*Version, error)
	ListVersions(ctx context.Context, postID uuid.UUID) ([]*Version, error)
	RestoreVersion(ctx context.Context, req RestoreVersionRequest) (*Version, error)
}

// CreatePostInput captures the payload required to create a post.
type CreatePostInput struct {
	Title          string
	Slug           string
	Status         domain.Status
	BuilderData    []*blocks.Block
	UsePageBuilder bool
	CreatedBy      uuid.UUID
}

// UpdatePostInput captures the mutable fields of a post. Nil pointers leave
// the current value untouched; BuilderData replaces the whole document when
// set, matching the editor's save payload.
type UpdatePostInput struct {
	ID             uuid.UUID
	Title          *string
	Slug           *string
	Status         *domain.Status
	BuilderData    []*blocks.Block
	UsePageBuilder *bool
	UpdatedBy      uuid.UUID
}

// DeletePostRequest captures post deletion inputs.
type DeletePostRequest struct {
	ID        uuid.UUID
	DeletedBy uuid.UUID
}

// CreateDraftRequest snapshots the current builder document as a new draft
// version. BaseVersion, when set, enforces the snapshot was taken from the
// latest version.
type CreateDraftRequest struct {
	PostID      uuid.UUID
	Blocks      []*blocks.Block
	CreatedBy   uuid.UUID
	BaseVersion *int
}

// PublishDraftRequest publishes a specific draft version.
type PublishDraftRequest struct {
	PostID      uuid.UUID
	Version     int
	PublishedBy uuid.UUID
	PublishedAt *time.Time
}

// RestoreVersionRequest restores a previously recorded version as a new draft.
type RestoreVersionRequest struct {
	PostID     uuid.UUID
	Version    int
	RestoredBy uuid.UUID
}

var (
	ErrPostIDRequired     = errors.New("posts: post id required")
	ErrTitleRequired      = errors.New("posts: title required")
	ErrSlugInvalid        = errors.New("posts: slug invalid")
	ErrSlugTaken          = errors.New("posts: slug already in use")
	ErrStatusInvalid      = errors.New("posts: status invalid")
	ErrVersioningDisabled = errors.New("posts: versioning feature disabled")
	ErrVersionRequired    = errors.New("posts: version identifier required")
	ErrVersionConflict    = errors.New("posts: base version mismatch")
	ErrVersionPublished   = errors.New("posts: version already published")
	ErrVersionRetention   = errors.New("posts: version retention limit reached")
)

// IDGenerator mints post and version ids.
type IDGenerator func() uuid.UUID

// ServiceOption configures the post service.
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
func WithIDGenerator(generator IDGenerator) ServiceOption {
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

// WithVersionRepository wires the repository used for version persistence.
func WithVersionRepository(repo VersionRepository) ServiceOption {
	return func(s *service) {
		s.versions = repo
	}
}

// WithVersioningEnabled toggles the draft/publish workflow.
func WithVersioningEnabled(enabled bool) ServiceOption {
	return func(s *service) {
		s.versioningEnabled = enabled
	}
}

// WithVersionRetentionLimit constrains how many versions are retained per post.
func WithVersionRetentionLimit(limit int) ServiceOption {
	return func(s *service) {
		if limit < 0 {
			limit = 0
		}
		s.versionRetentionLimit = limit
	}
}

type service struct {
	posts                 Repository
	versions              VersionRepository
	registry              *catalog.Registry
	now                   func() time.Time
	id                    IDGenerator
	logger                interfaces.Logger
	versioningEnabled     bool
	versionRetentionLimit int
}

// NewService constructs a post service over the given repository and block
// type catalog.
func NewService(repo Repository, registry *catalog.Registry, opts ...ServiceOption) Service {
	s := &service{
		posts:    repo,
		registry: registry,
		now:      time.Now,
		id:       uuid.New,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, input CreatePostInput) (*Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	postSlug, err := s.resolveSlug(input.Slug, title)
	if err != nil {
		return nil, err
	}
	if _, err := s.posts.GetBySlug(ctx, postSlug); err == nil {
		return nil, ErrSlugTaken
	}

	status := input.Status
	if status == "" {
		status = domain.StatusDraft
	}
	if !status.IsValid() {
		return nil, ErrStatusInvalid
	}

	document, err := s.normalizeDocument(input.BuilderData)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := &Post{
		ID:             s.id(),
		Title:          title,
		Slug:           postSlug,
		Status:         status,
		BuilderData:    document,
		UsePageBuilder: input.UsePageBuilder,
		CurrentVersion: 1,
		CreatedBy:      input.CreatedBy,
		UpdatedBy:      input.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	s.logger.Info("posts.create", "post_id", created.ID, "slug", created.Slug)
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	if id == uuid.Nil {
		return nil, ErrPostIDRequired
	}
	return s.posts.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, postSlug string) (*Post, error) {
	return s.posts.GetBySlug(ctx, strings.TrimSpace(postSlug))
}

func (s *service) List(ctx context.Context) ([]*Post, error) {
	return s.posts.List(ctx)
}

func (s *service) Update(ctx context.Context, input UpdatePostInput) (*Post, error) {
	if input.ID == uuid.Nil {
		return nil, ErrPostIDRequired
	}

	post, err := s.posts.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		post.Title = title
	}

	if input.Slug != nil {
		nextSlug := strings.TrimSpace(*input.Slug)
		if !slug.IsValid(nextSlug) {
			return nil, ErrSlugInvalid
		}
		if nextSlug != post.Slug {
			if _, err := s.posts.GetBySlug(ctx, nextSlug); err == nil {
				return nil, ErrSlugTaken
			}
			post.Slug = nextSlug
		}
	}

	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, ErrStatusInvalid
		}
		post.Status = *input.Status
	}

	if input.BuilderData != nil {
		document, err := s.normalizeDocument(input.BuilderData)
		if err != nil {
			return nil, err
		}
		post.BuilderData = document
	}

	if input.UsePageBuilder != nil {
		post.UsePageBuilder = *input.UsePageBuilder
	}

	post.UpdatedBy = input.UpdatedBy
	post.UpdatedAt = s.now()

	updated, err := s.posts.Update(ctx, post)
	if err != nil {
		return nil, err
	}
	s.logger.Info("posts.update", "post_id", updated.ID, "blocks", blocks.Count(updated.BuilderData))
	return updated, nil
}

func (s *service) Delete(ctx context.Context, req DeletePostRequest) error {
	if req.ID == uuid.Nil {
		return ErrPostIDRequired
	}
	if err := s.posts.Delete(ctx, req.ID); err != nil {
		return err
	}
	s.logger.Info("posts.delete", "post_id", req.ID)
	return nil
}

func (s *service) CreateDraft(ctx context.Context, req CreateDraftRequest) (*Version, error) {
	if !s.versioningEnabled || s.versions == nil {
		return nil, ErrVersioningDisabled
	}
	if req.PostID == uuid.Nil {
		return nil, ErrPostIDRequired
	}

	post, err := s.posts.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	document, err := s.normalizeDocument(req.Blocks)
	if err != nil {
		return nil, err
	}

	existing, err := s.versions.ListByPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if s.versionRetentionLimit > 0 && len(existing) >= s.versionRetentionLimit {
		return nil, ErrVersionRetention
	}

	next := nextVersionNumber(existing)
	if req.BaseVersion != nil && *req.BaseVersion != next-1 {
		return nil, ErrVersionConflict
	}

	now := s.now()
	version := &Version{
		ID:        s.id(),
		PostID:    req.PostID,
		Version:   next,
		Status:    domain.StatusDraft,
		Blocks:    document,
		CreatedBy: req.CreatedBy,
		CreatedAt: now,
	}

	created, err := s.versions.Create(ctx, version)
	if err != nil {
		return nil, err
	}

	post.CurrentVersion = created.Version
	post.BuilderData = document
	post.UpdatedAt = now
	if req.CreatedBy != uuid.Nil {
		post.UpdatedBy = req.CreatedBy
	}
	if _, err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	return created, nil
}

func (s *service) PublishDraft(ctx context.Context, req PublishDraftRequest) (*Version, error) {
	if !s.versioningEnabled || s.versions == nil {
		return nil, ErrVersioningDisabled
	}
	if req.PostID == uuid.Nil {
		return nil, ErrPostIDRequired
	}
	if req.Version <= 0 {
		return nil, ErrVersionRequired
	}

	post, err := s.posts.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	version, err := s.versions.GetByPostAndVersion(ctx, req.PostID, req.Version)
	if err != nil {
		return nil, err
	}
	if version.Status == domain.StatusPublished {
		return nil, ErrVersionPublished
	}

	publishedAt := s.now()
	if req.PublishedAt != nil {
		publishedAt = *req.PublishedAt
	}

	version.Status = domain.StatusPublished
	version.PublishedAt = &publishedAt
	if req.PublishedBy != uuid.Nil {
		by := req.PublishedBy
		version.PublishedBy = &by
	}

	updated, err := s.versions.Update(ctx, version)
	if err != nil {
		return nil, err
	}

	post.Status = domain.StatusPublished
	post.PublishedAt = &publishedAt
	post.BuilderData = cloneTree(updated.Blocks)
	post.CurrentVersion = updated.Version
	post.UpdatedAt = publishedAt
	if req.PublishedBy != uuid.Nil {
		post.UpdatedBy = req.PublishedBy
	}
	if _, err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("posts.publish", "post_id", post.ID, "version", updated.Version)
	return updated, nil
}

func (s *service) ListVersions(ctx context.Context, postID uuid.UUID) ([]*Version, error) {
	if !s.versioningEnabled || s.versions == nil {
		return nil, ErrVersioningDisabled
	}
	if postID == uuid.Nil {
		return nil, ErrPostIDRequired
	}
	return s.versions.ListByPost(ctx, postID)
}

func (s *service) RestoreVersion(ctx context.Context, req RestoreVersionRequest) (*Version, error) {
	if !s.versioningEnabled || s.versions == nil {
		return nil, ErrVersioningDisabled
	}
	if req.PostID == uuid.Nil {
		return nil, ErrPostIDRequired
	}
	if req.Version <= 0 {
		return nil, ErrVersionRequired
	}

	source, err := s.versions.GetByPostAndVersion(ctx, req.PostID, req.Version)
	if err != nil {
		return nil, err
	}

	return s.CreateDraft(ctx, CreateDraftRequest{
		PostID:    req.PostID,
		Blocks:    cloneTree(source.Blocks),
		CreatedBy: req.RestoredBy,
	})
}

// normalizeDocument canonicalizes legacy type aliases, repairs parent ids,
// and validates each block's content against its type schema. Runs on every
// write so invalid documents never reach storage.
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

func (s *service) resolveSlug(candidate, title string) (string, error) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		normalized, err := slug.Normalize(title)
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

func nextVersionNumber(versions []*Version) int {
	next := 1
	for _, v := range versions {
		if v.Version >= next {
			next = v.Version + 1
		}
	}
	return next
}
