package templates_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-builder/blocks"
	"github.com/goliatone/go-builder/internal/catalog"
	"github.com/goliatone/go-builder/internal/templates"
)

func newTestService(t *testing.T) templates.Service {
	t.Helper()
	return templates.NewService(templates.NewMemoryRepository(), catalog.Default(),
		templates.WithClock(func() time.Time {
			return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		}),
	)
}

func heroDocument() []*blocks.Block {
	return []*blocks.Block{
		{
			ID:      uuid.New(),
			Type:    catalog.TypeHeading,
			Content: map[string]any{"text": "Welcome", "level": 1},
		},
		{
			ID:       uuid.New(),
			Type:     catalog.TypeGroup,
			Children: []*blocks.Block{{
				ID:      uuid.New(),
				Type:    catalog.TypeParagraph,
				Content: map[string]any{"text": "intro"},
			}},
		},
	}
}

func TestCreateDerivesSlugAndNormalizes(t *testing.T) {
	svc := newTestService(t)

	record, err := svc.Create(context.Background(), templates.CreateTemplateInput{
		Name:   "Hero Section",
		Blocks: heroDocument(),
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	if record.Slug != "hero-section" {
		t.Fatalf("expected derived slug, got %q", record.Slug)
	}

	child := record.Blocks[1].Children[0]
	if child.ParentID == nil || *child.ParentID != record.Blocks[1].ID {
		t.Fatalf("expected parent ids repaired on save")
	}
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, templates.CreateTemplateInput{Name: "One", Slug: "shared"}); err != nil {
		t.Fatalf("create first: %v", err)
	}
	_, err := svc.Create(ctx, templates.CreateTemplateInput{Name: "Two", Slug: "shared"})
	if !errors.Is(err, templates.ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestUpdateReplacesDocument(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	record, err := svc.Create(ctx, templates.CreateTemplateInput{Name: "Hero"})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	updated, err := svc.Update(ctx, templates.UpdateTemplateInput{
		ID:     record.ID,
		Blocks: heroDocument(),
	})
	if err != nil {
		t.Fatalf("update template: %v", err)
	}
	if len(updated.Blocks) != 2 {
		t.Fatalf("expected 2 root blocks, got %d", len(updated.Blocks))
	}
}

func TestUpdateRejectsUnknownBlockType(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	record, err := svc.Create(ctx, templates.CreateTemplateInput{Name: "Hero"})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	_, err = svc.Update(ctx, templates.UpdateTemplateInput{
		ID: record.ID,
		Blocks: []*blocks.Block{{
			ID:   uuid.New(),
			Type: "acme/unregistered",
		}},
	})
	if err == nil {
		t.Fatal("expected validation failure for unknown block type")
	}
}

func TestInstantiateMintsFreshIDs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	record, err := svc.Create(ctx, templates.CreateTemplateInput{
		Name:   "Hero",
		Blocks: heroDocument(),
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	document, err := svc.Instantiate(ctx, record.ID)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if len(document) != len(record.Blocks) {
		t.Fatalf("expected %d roots, got %d", len(record.Blocks), len(document))
	}

	originalIDs := map[uuid.UUID]bool{}
	blocks.Walk(record.Blocks, func(b *blocks.Block) bool {
		originalIDs[b.ID] = true
		return true
	})
	blocks.Walk(document, func(b *blocks.Block) bool {
		if originalIDs[b.ID] {
			t.Fatalf("instantiated block reuses template id %s", b.ID)
		}
		return true
	})

	child := document[1].Children[0]
	if child.ParentID == nil || *child.ParentID != document[1].ID {
		t.Fatalf("expected parent ids rewritten to the new ids")
	}
}

func TestDeleteThenGetReturnsNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	record, err := svc.Create(ctx, templates.CreateTemplateInput{Name: "Hero"})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	if err := svc.Delete(ctx, record.ID); err != nil {
		t.Fatalf("delete template: %v", err)
	}

	_, err = svc.Get(ctx, record.ID)
	var nf *templates.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
