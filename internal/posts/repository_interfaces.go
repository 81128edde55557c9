package posts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Repository exposes persistence operations for posts.
type Repository interface {
	Create(ctx context.Context, post *Post) (*Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context) ([]*Post, error)
	Update(ctx context.Context, post *Post) (*Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// VersionRepository exposes persistence operations for post versions.
type VersionRepository interface {
	Create(ctx context.Context, version *Version) (*Version, error)
	GetByPostAndVersion(ctx context.Context, postID uuid.UUID, version int) (*Version, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*Version, error)
	Update(ctx context.Context, version *Version) (*Version, error)
}

// NotFoundError is returned when a post resource cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
