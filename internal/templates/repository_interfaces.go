package templates

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists builder templates.
type Repository interface {
	Create(ctx context.Context, record *Template) (*Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Template, error)
	GetBySlug(ctx context.Context, slug string) (*Template, error)
	List(ctx context.Context) ([]*Template, error)
	Update(ctx context.Context, record *Template) (*Template, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
