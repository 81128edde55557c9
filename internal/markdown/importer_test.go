package markdown_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-builder/internal/catalog"
	"github.com/goliatone/go-builder/internal/domain"
	"github.com/goliatone/go-builder/internal/markdown"
	"github.com/goliatone/go-builder/internal/posts"
)

const sampleSource = `---
title: Launch Announcement
slug: launch
tags:
  - news
---
# Big News

We are **live** today.

- fast
- simple

` + "```go\nfmt.Println(\"hi\")\n```" + `

---

<div class="callout">custom</div>
`

func newImporter(t *testing.T) (*markdown.Importer, posts.Service) {
	t.Helper()
	registry := catalog.Default()
	service := posts.NewService(posts.NewMemoryRepository(), registry)
	return markdown.NewImporter(service, registry), service
}

func TestImportCreatesPostFromSource(t *testing.T) {
	importer, service := newImporter(t)
	ctx := context.Background()

	result, err := importer.Import(ctx, markdown.ImportRequest{
		Source: []byte(sampleSource),
		Path:   "content/launch.md",
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !result.Created {
		t.Fatal("expected a created post")
	}
	if result.Post.Slug != "launch" {
		t.Fatalf("expected frontmatter slug, got %q", result.Post.Slug)
	}
	if result.Post.Status != domain.StatusDraft {
		t.Fatalf("expected draft status, got %q", result.Post.Status)
	}
	if !result.Post.UsePageBuilder {
		t.Fatal("expected imported posts to enable the builder")
	}

	stored, err := service.GetBySlug(ctx, "launch")
	if err != nil {
		t.Fatalf("get imported post: %v", err)
	}

	types := make([]string, 0, len(stored.BuilderData))
	for _, b := range stored.BuilderData {
		types = append(types, b.Type)
	}
	want := []string{
		catalog.TypeHeading,
		catalog.TypeParagraph,
		catalog.TypeList,
		catalog.TypeCode,
		catalog.TypeDivider,
		catalog.TypeHTML,
	}
	if len(types) != len(want) {
		t.Fatalf("expected %d blocks, got %d (%v)", len(want), len(types), types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("block %d: expected %s, got %s", i, want[i], types[i])
		}
	}

	heading := stored.BuilderData[0]
	if heading.Content["text"] != "Big News" {
		t.Fatalf("unexpected heading text %v", heading.Content["text"])
	}
	code := stored.BuilderData[3]
	if code.Content["language"] != "go" {
		t.Fatalf("expected fenced code language, got %v", code.Content["language"])
	}
}

func TestImportDerivesTitleAndSlugFromPath(t *testing.T) {
	importer, _ := newImporter(t)

	result, err := importer.Import(context.Background(), markdown.ImportRequest{
		Source: []byte("plain body without frontmatter\n"),
		Path:   "docs/getting-started.md",
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Post.Title != "getting started" {
		t.Fatalf("expected title from path, got %q", result.Post.Title)
	}
	if result.Post.Slug != "getting-started" {
		t.Fatalf("expected slug from title, got %q", result.Post.Slug)
	}
}

func TestImportSlugCollision(t *testing.T) {
	importer, service := newImporter(t)
	ctx := context.Background()

	if _, err := importer.Import(ctx, markdown.ImportRequest{
		Source: []byte(sampleSource),
	}); err != nil {
		t.Fatalf("first import: %v", err)
	}

	_, err := importer.Import(ctx, markdown.ImportRequest{Source: []byte(sampleSource)})
	if !errors.Is(err, posts.ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken without overwrite, got %v", err)
	}

	updated := `---
title: Launch Announcement
slug: launch
---
Updated body.
`
	result, err := importer.Import(ctx, markdown.ImportRequest{
		Source:    []byte(updated),
		Overwrite: true,
	})
	if err != nil {
		t.Fatalf("overwrite import: %v", err)
	}
	if result.Created {
		t.Fatal("expected overwrite to update, not create")
	}

	stored, err := service.GetBySlug(ctx, "launch")
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if len(stored.BuilderData) != 1 {
		t.Fatalf("expected replaced document, got %d blocks", len(stored.BuilderData))
	}
	if stored.BuilderData[0].Content["text"] != "Updated body." {
		t.Fatalf("unexpected paragraph text %v", stored.BuilderData[0].Content["text"])
	}
}

func TestImportRejectsEmptySource(t *testing.T) {
	importer, _ := newImporter(t)
	if _, err := importer.Import(context.Background(), markdown.ImportRequest{}); !errors.Is(err, markdown.ErrSourceEmpty) {
		t.Fatalf("expected ErrSourceEmpty, got %v", err)
	}
}
