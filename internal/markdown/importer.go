package markdown

import (
	"context"
	"errors"
	"fmt"
	"strings"

	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-builder/internal/catalog"
	"github.com/goliatone/go-builder/internal/domain"
	"github.com/goliatone/go-builder/internal/logging"
	"github.com/goliatone/go-builder/internal/posts"
	"github.com/goliatone/go-builder/pkg/interfaces"
)

var ErrSourceEmpty = errors.New("markdown: source is empty")

// ImportRequest carries one markdown source into the importer.
type ImportRequest struct {
	Source    []byte
	Path      string
	CreatedBy uuid.UUID
	// Overwrite lets the importer replace the document of an existing post
	// with the same slug instead of failing on the slug collision.
	Overwrite bool
}

// ImportResult reports what the importer did with one source.
type ImportResult struct {
	Post    *posts.Post
	Created bool
}

// ImporterOption configures the importer.
type ImporterOption func(*Importer)

// WithImporterLogger injects the importer logger.
func WithImporterLogger(logger interfaces.Logger) ImporterOption {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// Importer converts markdown sources with frontmatter into builder posts.
type Importer struct {
	posts     posts.Service
	converter *Converter
	logger    interfaces.Logger
}

// NewImporter wires the importer against the post service and block catalog.
func NewImporter(service posts.Service, registry *catalog.Registry, opts ...ImporterOption) *Importer {
	imp := &Importer{
		posts:     service,
		converter: NewConverter(registry),
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Import parses one markdown source and creates (or, with Overwrite,
// updates) the post it describes. The frontmatter title is required; the
// slug derives from the title when absent.
func (i *Importer) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if len(req.Source) == 0 {
		return nil, ErrSourceEmpty
	}

	meta, body, err := ParseFrontMatter(req.Source)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = titleFromPath(req.Path)
	}
	if title == "" {
		return nil, fmt.Errorf("markdown: %w", posts.ErrTitleRequired)
	}

	document, err := i.converter.Convert(body)
	if err != nil {
		return nil, err
	}

	postSlug := strings.TrimSpace(meta.Slug)
	if postSlug == "" {
		if postSlug, err = slug.Normalize(title); err != nil {
			return nil, posts.ErrSlugInvalid
		}
	}

	status := domain.StatusDraft
	if meta.Status != "" && !meta.Draft {
		status = domain.Status(meta.Status)
	}

	if existing, err := i.posts.GetBySlug(ctx, postSlug); err == nil {
		if !req.Overwrite {
			return nil, posts.ErrSlugTaken
		}
		updated, err := i.posts.Update(ctx, posts.UpdatePostInput{
			ID:          existing.ID,
			Title:       &title,
			Status:      &status,
			BuilderData: document,
			UpdatedBy:   req.CreatedBy,
		})
		if err != nil {
			return nil, err
		}
		i.logger.Info("markdown.import.update", "slug", postSlug, "path", req.Path)
		return &ImportResult{Post: updated}, nil
	}

	created, err := i.posts.Create(ctx, posts.CreatePostInput{
		Title:          title,
		Slug:           postSlug,
		Status:         status,
		BuilderData:    document,
		UsePageBuilder: true,
		CreatedBy:      req.CreatedBy,
	})
	if err != nil {
		return nil, err
	}
	i.logger.Info("markdown.import.create", "slug", postSlug, "path", req.Path)
	return &ImportResult{Post: created, Created: true}, nil
}

func titleFromPath(path string) string {
	base := path
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	base = strings.TrimSuffix(base, ".md")
	base = strings.TrimSuffix(base, ".markdown")
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.ReplaceAll(base, "_", " ")
	return strings.TrimSpace(base)
}
