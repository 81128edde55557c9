package blocks_test

import (
	"testing"

	"github.com/goliatone/go-builder/blocks"
	"github.com/google/uuid"
)

func newParagraph(text string) *blocks.Block {
	return &blocks.Block{
		ID:      uuid.New(),
		Type:    "core/paragraph",
		Content: map[string]any{"text": text},
		Styles:  map[string]any{"margin": "0"},
	}
}

func newColumns(columns int) *blocks.Block {
	blk := &blocks.Block{
		ID:   uuid.New(),
		Type: "core/columns",
	}
	for i := 0; i < columns; i++ {
		blk.Columns = append(blk.Columns, &blocks.Column{Width: "50%"})
	}
	return blk
}

func newGroup(children ...*blocks.Block) *blocks.Block {
	return &blocks.Block{
		ID:       uuid.New(),
		Type:     "core/group",
		Children: children,
	}
}

func collectIDs(roots []*blocks.Block) map[uuid.UUID]int {
	ids := map[uuid.UUID]int{}
	blocks.Walk(roots, func(b *blocks.Block) bool {
		ids[b.ID]++
		return true
	})
	return ids
}

func TestSetParentIDs(t *testing.T) {
	child := newParagraph("nested")
	group := newGroup(child)
	colChild := newParagraph("in column")
	cols := newColumns(2)
	cols.Columns[1].Blocks = []*blocks.Block{colChild}
	roots := []*blocks.Block{group, cols}

	// Seed wrong parents to prove they get repaired.
	bogus := uuid.New()
	child.ParentID = &bogus
	group.ParentID = &bogus

	blocks.SetParentIDs(roots)

	if group.ParentID != nil {
		t.Fatalf("expected root parent nil, got %v", group.ParentID)
	}
	if child.ParentID == nil || *child.ParentID != group.ID {
		t.Fatalf("expected child parent %s, got %v", group.ID, child.ParentID)
	}
	if colChild.ParentID == nil || *colChild.ParentID != cols.ID {
		t.Fatalf("expected column child parent %s, got %v", cols.ID, colChild.ParentID)
	}
}

func TestFindParent(t *testing.T) {
	child := newParagraph("nested")
	group := newGroup(child)
	colChild := newParagraph("in column")
	cols := newColumns(1)
	cols.Columns[0].Blocks = []*blocks.Block{colChild}
	roots := []*blocks.Block{group, cols}

	if parent := blocks.FindParent(roots, child.ID); parent != group {
		t.Fatalf("expected group as parent, got %v", parent)
	}
	if parent := blocks.FindParent(roots, colChild.ID); parent != cols {
		t.Fatalf("expected columns block as parent, got %v", parent)
	}
	if parent := blocks.FindParent(roots, group.ID); parent != nil {
		t.Fatalf("expected nil parent for root, got %v", parent)
	}
	if parent := blocks.FindParent(roots, uuid.New()); parent != nil {
		t.Fatalf("expected nil parent for unknown id, got %v", parent)
	}
}

func TestRemovePreservesSiblingIdentity(t *testing.T) {
	a := newParagraph("a")
	b := newParagraph("b")
	c := newParagraph("c")
	roots := []*blocks.Block{a, b, c}

	out, removed := blocks.Remove(roots, b.ID)
	if removed != b {
		t.Fatalf("expected removed block b, got %v", removed)
	}
	if len(out) != 2 || out[0] != a || out[1] != c {
		t.Fatalf("expected siblings preserved by identity")
	}
	if len(roots) != 3 {
		t.Fatalf("input slice must stay untouched")
	}
}

func TestRemoveNestedCopiesPath(t *testing.T) {
	inner := newParagraph("inner")
	cols := newColumns(2)
	cols.Columns[0].Blocks = []*blocks.Block{inner}
	sibling := newParagraph("sibling")
	roots := []*blocks.Block{cols, sibling}

	out, removed := blocks.Remove(roots, inner.ID)
	if removed != inner {
		t.Fatalf("expected inner removed, got %v", removed)
	}
	if out[1] != sibling {
		t.Fatalf("untouched root sibling must keep identity")
	}
	if out[0] == cols {
		t.Fatalf("ancestor on the removal path must be copied")
	}
	if len(out[0].Columns[0].Blocks) != 0 {
		t.Fatalf("expected emptied column, got %d blocks", len(out[0].Columns[0].Blocks))
	}
	if out[0].Columns[1] != cols.Columns[1] {
		t.Fatalf("untouched column must keep identity")
	}
	if len(cols.Columns[0].Blocks) != 1 {
		t.Fatalf("original tree must stay untouched")
	}
}

func TestRemoveUnknownIDIsNoOp(t *testing.T) {
	a := newParagraph("a")
	roots := []*blocks.Block{a}
	out, removed := blocks.Remove(roots, uuid.New())
	if removed != nil {
		t.Fatalf("expected nil removal, got %v", removed)
	}
	if len(out) != 1 || out[0] != a {
		t.Fatalf("expected unchanged list")
	}
}

func TestInsertIntoColumnErrors(t *testing.T) {
	cols := newColumns(1)
	roots := []*blocks.Block{cols}

	if _, err := blocks.InsertIntoColumn(roots, cols.ID, 3, 0, newParagraph("x")); err != blocks.ErrColumnOutOfRange {
		t.Fatalf("expected ErrColumnOutOfRange, got %v", err)
	}
	if _, err := blocks.InsertIntoColumn(roots, uuid.New(), 0, 0, newParagraph("x")); err != blocks.ErrBlockNotFound {
		t.Fatalf("expected ErrBlockNotFound, got %v", err)
	}
}

func TestInsertIndexClamps(t *testing.T) {
	a := newParagraph("a")
	roots := []*blocks.Block{a}

	out := blocks.InsertAtRoot(roots, newParagraph("tail"), 99)
	if len(out) != 2 || out[0] != a {
		t.Fatalf("expected append at clamped tail index")
	}
	out = blocks.InsertAtRoot(roots, newParagraph("head"), -5)
	if len(out) != 2 || out[1] != a {
		t.Fatalf("expected insert at clamped head index")
	}
}

func TestDuplicateIsIndependent(t *testing.T) {
	inner := newParagraph("inner")
	cols := newColumns(1)
	cols.Columns[0].Blocks = []*blocks.Block{inner}

	copy := blocks.Duplicate(cols)
	if copy.ID == cols.ID {
		t.Fatalf("duplicate must mint a fresh id")
	}
	if copy.Columns[0].Blocks[0].ID == inner.ID {
		t.Fatalf("nested blocks must mint fresh ids")
	}
	if got := copy.Columns[0].Blocks[0].Content["text"]; got != "inner" {
		t.Fatalf("expected content copied, got %v", got)
	}
	if parent := copy.Columns[0].Blocks[0].ParentID; parent == nil || *parent != copy.ID {
		t.Fatalf("duplicate must restore parent ids")
	}

	copy.Columns[0].Blocks[0].Content["text"] = "mutated"
	if inner.Content["text"] != "inner" {
		t.Fatalf("mutating the duplicate must not touch the original")
	}
}

func TestRewriteUpdatesNestedBlock(t *testing.T) {
	inner := newParagraph("before")
	group := newGroup(inner)
	roots := []*blocks.Block{group}

	out, found, err := blocks.Rewrite(roots, inner.ID, func(b *blocks.Block) (*blocks.Block, error) {
		clone := b.Clone()
		clone.Content["text"] = "after"
		return clone, nil
	})
	if err != nil || !found {
		t.Fatalf("rewrite failed: found=%v err=%v", found, err)
	}
	if got := out[0].Children[0].Content["text"]; got != "after" {
		t.Fatalf("expected rewritten content, got %v", got)
	}
	if inner.Content["text"] != "before" {
		t.Fatalf("original block must stay untouched")
	}
}

func TestBlockJSONLiftsLegacyColumns(t *testing.T) {
	payload := []byte(`{
		"id": "11111111-1111-1111-1111-111111111111",
		"type": "core/columns",
		"content": {
			"columns": [
				{"width": "50%", "blocks": [
					{"id": "22222222-2222-2222-2222-222222222222", "type": "core/paragraph", "content": {"text": "hi"}}
				]},
				{"width": "50%", "blocks": []}
			]
		}
	}`)

	var blk blocks.Block
	if err := blk.UnmarshalJSON(payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(blk.Columns) != 2 {
		t.Fatalf("expected 2 lifted columns, got %d", len(blk.Columns))
	}
	if len(blk.Columns[0].Blocks) != 1 || blk.Columns[0].Blocks[0].Type != "core/paragraph" {
		t.Fatalf("expected nested paragraph in first column")
	}
	if _, ok := blk.Content["columns"]; ok {
		t.Fatalf("legacy columns key must be removed from content")
	}
}
