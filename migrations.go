package builder

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-builder/internal/posts"
	"github.com/goliatone/go-builder/internal/templates"
)

// Models lists every bun model the module persists, in creation order.
func Models() []any {
	return []any{
		(*posts.Post)(nil),
		(*posts.Version)(nil),
		(*templates.Template)(nil),
	}
}

// Migrate creates the builder tables when they do not exist yet. Embedders
// with their own migration tooling can use Models instead.
func Migrate(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
