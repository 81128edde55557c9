package posts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-builder/blocks"
	"github.com/goliatone/go-builder/internal/domain"
)

// Post is one builder-managed document: a page or article whose body is the
// serialized block tree consumed by the public renderer.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID             uuid.UUID       `bun:",pk,type:uuid" json:"id"`
	Title          string          `bun:"title,notnull" json:"title"`
	Slug           string          `bun:"slug,notnull,unique" json:"slug"`
	Status         domain.Status   `bun:"status,notnull,default:'draft'" json:"status"`
	BuilderData    []*blocks.Block `bun:"builder_data,type:jsonb" json:"builderData,omitempty"`
	UsePageBuilder bool            `bun:"use_page_builder,notnull,default:false" json:"usePageBuilder"`
	CurrentVersion int             `bun:"current_version,notnull,default:1" json:"current_version"`
	PublishedAt    *time.Time      `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedBy      uuid.UUID       `bun:"created_by,type:uuid" json:"created_by,omitempty"`
	UpdatedBy      uuid.UUID       `bun:"updated_by,type:uuid" json:"updated_by,omitempty"`
	DeletedAt      *time.Time      `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt      time.Time       `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time       `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Versions []*Version `bun:"rel:has-many,join:id=post_id" json:"versions,omitempty"`
}

// Version captures a snapshot of a post's builder document for the
// draft/publish/restore workflow.
type Version struct {
	bun.BaseModel `bun:"table:post_versions,alias:pv"`

	ID          uuid.UUID       `bun:",pk,type:uuid" json:"id"`
	PostID      uuid.UUID       `bun:"post_id,notnull,type:uuid" json:"post_id"`
	Version     int             `bun:"version,notnull" json:"version"`
	Status      domain.Status   `bun:"status,notnull,default:'draft'" json:"status"`
	Blocks      []*blocks.Block `bun:"blocks,type:jsonb" json:"blocks,omitempty"`
	CreatedBy   uuid.UUID       `bun:"created_by,type:uuid" json:"created_by,omitempty"`
	CreatedAt   time.Time       `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	PublishedAt *time.Time      `bun:"published_at,nullzero" json:"published_at,omitempty"`
	PublishedBy *uuid.UUID      `bun:"published_by,type:uuid" json:"published_by,omitempty"`

	Post *Post `bun:"rel:belongs-to,join:post_id=id" json:"post,omitempty"`
}

func clonePost(p *Post) *Post {
	if p == nil {
		return nil
	}
	clone := *p
	clone.BuilderData = cloneTree(p.BuilderData)
	if p.PublishedAt != nil {
		at := *p.PublishedAt
		clone.PublishedAt = &at
	}
	if p.DeletedAt != nil {
		at := *p.DeletedAt
		clone.DeletedAt = &at
	}
	clone.Versions = nil
	return &clone
}

func cloneVersion(v *Version) *Version {
	if v == nil {
		return nil
	}
	clone := *v
	clone.Blocks = cloneTree(v.Blocks)
	if v.PublishedAt != nil {
		at := *v.PublishedAt
		clone.PublishedAt = &at
	}
	clone.Post = nil
	return &clone
}

func cloneTree(roots []*blocks.Block) []*blocks.Block {
	if roots == nil {
		return nil
	}
	out := make([]*blocks.Block, len(roots))
	for i, b := range roots {
		out[i] = b.Clone()
	}
	return out
}
