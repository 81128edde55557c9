package templates

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-builder/blocks"
)

// Template is a reusable builder document: a named block tree that seeds new
// posts or gets stamped into an existing document.
type Template struct {
	bun.BaseModel `bun:"table:builder_templates,alias:bt"`

	ID          uuid.UUID       `bun:"id,pk,type:uuid" json:"id"`
	Name        string          `bun:"name,notnull" json:"name"`
	Slug        string          `bun:"slug,notnull,unique" json:"slug"`
	Description string          `bun:"description" json:"description,omitempty"`
	Category    string          `bun:"category" json:"category,omitempty"`
	Blocks      []*blocks.Block `bun:"blocks,type:jsonb" json:"blocks"`
	CreatedBy   uuid.UUID       `bun:"created_by,type:uuid" json:"createdBy,omitempty"`
	UpdatedBy   uuid.UUID       `bun:"updated_by,type:uuid" json:"updatedBy,omitempty"`
	CreatedAt   time.Time       `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt   time.Time       `bun:"updated_at,notnull" json:"updatedAt"`
	DeletedAt   *time.Time      `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// NotFoundError indicates a missing template.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

func cloneTemplate(t *Template) *Template {
	if t == nil {
		return nil
	}
	clone := *t
	clone.Blocks = cloneTree(t.Blocks)
	return &clone
}

func cloneTree(roots []*blocks.Block) []*blocks.Block {
	if roots == nil {
		return nil
	}
	cloned := make([]*blocks.Block, 0, len(roots))
	for _, b := range roots {
		cloned = append(cloned, b.Clone())
	}
	blocks.SetParentIDs(cloned)
	return cloned
}
