package posts

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewPostRepository(db *bun.DB) repository.Repository[*Post] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Post]{
		NewRecord: func() *Post { return &Post{} },
		GetID: func(p *Post) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Post, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Post) string {
			return p.Slug
		},
	})
}

func NewVersionRepository(db *bun.DB) repository.Repository[*Version] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Version]{
		NewRecord: func() *Version { return &Version{} },
		GetID: func(v *Version) uuid.UUID {
			return v.ID
		},
		SetID: func(v *Version, id uuid.UUID) {
			v.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(v *Version) string {
			if v == nil {
				return ""
			}
			return v.ID.String()
		},
	})
}
