package editor_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-builder/blocks"
	"github.com/goliatone/go-builder/internal/catalog"
	"github.com/goliatone/go-builder/internal/editor"
	"github.com/google/uuid"
)

func newSession(t *testing.T, roots ...*blocks.Block) *editor.Session {
	t.Helper()
	return editor.NewSession(catalog.Default(), roots)
}

func paragraph(text string) *blocks.Block {
	return &blocks.Block{
		ID:      uuid.New(),
		Type:    "core/paragraph",
		Content: map[string]any{"text": text},
	}
}

func TestNewSessionNormalizesDocument(t *testing.T) {
	child := paragraph("hi")
	cols := &blocks.Block{
		ID:      uuid.New(),
		Type:    "columns",
		Columns: []*blocks.Column{{Blocks: []*blocks.Block{child}}},
	}
	s := newSession(t, cols)
	defer s.Close()

	tree := s.Blocks()
	if tree[0].Type != catalog.TypeColumns {
		t.Fatalf("legacy alias must canonicalize at ingestion, got %s", tree[0].Type)
	}
	if child.ParentID == nil || *child.ParentID != cols.ID {
		t.Fatalf("parent ids must be repaired at ingestion")
	}
}

func TestApplyDragFromPalette(t *testing.T) {
	s := newSession(t, paragraph("existing"))
	defer s.Close()

	var events []editor.Event
	cancel, err := s.Subscribe(func(e editor.Event) { events = append(events, e) })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	err = s.ApplyDrag(
		&blocks.Location{Kind: blocks.LocationPalette, BlockType: "heading"},
		&blocks.Location{Kind: blocks.LocationCanvas, Index: 0},
	)
	if err != nil {
		t.Fatalf("drag: %v", err)
	}

	tree := s.Blocks()
	if len(tree) != 2 || tree[0].Type != catalog.TypeHeading {
		t.Fatalf("expected minted heading at canvas head")
	}
	if len(events) != 1 || events[0].Kind != editor.EventTree {
		t.Fatalf("expected one tree event, got %v", events)
	}
	if s.Revision() != 1 {
		t.Fatalf("expected revision 1, got %d", s.Revision())
	}
}

func TestStateForReadsAndWrites(t *testing.T) {
	blk := paragraph("before")
	s := newSession(t, blk)
	defer s.Close()

	if state := s.StateFor(uuid.New()); state != nil {
		t.Fatalf("unknown block id must resolve to nil accessor")
	}

	state := s.StateFor(blk.ID)
	if state == nil {
		t.Fatalf("expected accessor for known block")
	}

	var blockEvents int
	cancel, err := s.Subscribe(func(e editor.Event) {
		if e.Kind == editor.EventBlock && e.BlockID == blk.ID {
			blockEvents++
		}
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	if err := state.SetContent(map[string]any{"text": "after"}); err != nil {
		t.Fatalf("set content: %v", err)
	}
	if got := state.Content()["text"]; got != "after" {
		t.Fatalf("expected updated content, got %v", got)
	}
	if blockEvents != 1 {
		t.Fatalf("expected one block event, got %d", blockEvents)
	}

	// Copy-on-write: the block passed in at open time stays untouched.
	if blk.Content["text"] != "before" {
		t.Fatalf("original block must not be mutated")
	}
}

func TestStateSurvivesStructuralMove(t *testing.T) {
	blk := paragraph("payload")
	cols := &blocks.Block{
		ID:      uuid.New(),
		Type:    "core/columns",
		Columns: []*blocks.Column{{Width: "50%"}, {Width: "50%"}},
	}
	s := newSession(t, blk, cols)
	defer s.Close()

	state := s.StateFor(blk.ID)
	if state == nil {
		t.Fatalf("expected accessor")
	}

	err := s.ApplyDrag(
		&blocks.Location{Kind: blocks.LocationCanvas, BlockID: blk.ID, Index: 0},
		&blocks.Location{Kind: blocks.LocationColumn, ParentID: cols.ID, Column: 1, Index: 0},
	)
	if err != nil {
		t.Fatalf("drag: %v", err)
	}

	if err := state.SetStyles(map[string]any{"color": "red"}); err != nil {
		t.Fatalf("accessor must survive the move: %v", err)
	}
	moved := blocks.Find(s.Blocks(), blk.ID)
	if moved == nil || moved.Styles["color"] != "red" {
		t.Fatalf("style edit must land on the moved block")
	}
}

func TestDuplicateInsertsAfterOriginal(t *testing.T) {
	a := paragraph("a")
	b := paragraph("b")
	s := newSession(t, a, b)
	defer s.Close()

	copyID, err := s.Duplicate(a.ID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}

	tree := s.Blocks()
	if len(tree) != 3 {
		t.Fatalf("expected 3 roots, got %d", len(tree))
	}
	if tree[1].ID != copyID || tree[2].ID != b.ID {
		t.Fatalf("copy must sit right after the original")
	}
	if tree[1].Content["text"] != "a" {
		t.Fatalf("copy must carry the original content")
	}
}

func TestDuplicateInsideColumn(t *testing.T) {
	inner := paragraph("inner")
	cols := &blocks.Block{
		ID:      uuid.New(),
		Type:    "core/columns",
		Columns: []*blocks.Column{{Blocks: []*blocks.Block{inner}}},
	}
	s := newSession(t, cols)
	defer s.Close()

	copyID, err := s.Duplicate(inner.ID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}

	col := s.Blocks()[0].Columns[0]
	if len(col.Blocks) != 2 || col.Blocks[1].ID != copyID {
		t.Fatalf("copy must land in the same column after the original")
	}
	if parent := col.Blocks[1].ParentID; parent == nil || *parent != cols.ID {
		t.Fatalf("copy must re-parent to the column container")
	}
}

func TestDeleteClearsSelection(t *testing.T) {
	blk := paragraph("a")
	s := newSession(t, blk)
	defer s.Close()

	if err := s.Select(blk.ID); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Delete(blk.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if s.Selected() != uuid.Nil {
		t.Fatalf("selection must clear when the block goes away")
	}
	if err := s.Delete(blk.ID); !errors.Is(err, editor.ErrBlockNotFound) {
		t.Fatalf("expected ErrBlockNotFound, got %v", err)
	}
}

func TestSelectUnknownBlockFails(t *testing.T) {
	s := newSession(t, paragraph("a"))
	defer s.Close()

	if err := s.Select(uuid.New()); !errors.Is(err, editor.ErrBlockNotFound) {
		t.Fatalf("expected ErrBlockNotFound, got %v", err)
	}
}

func TestClosedSessionRejectsMutations(t *testing.T) {
	blk := paragraph("a")
	s := newSession(t, blk)
	state := s.StateFor(blk.ID)
	s.Close()

	if err := s.Delete(blk.ID); !errors.Is(err, editor.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
	if err := state.SetContent(map[string]any{}); !errors.Is(err, editor.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed from accessor, got %v", err)
	}
	if _, err := s.Subscribe(func(editor.Event) {}); !errors.Is(err, editor.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed from subscribe, got %v", err)
	}
}

func TestManagerIsolatesSessions(t *testing.T) {
	m := editor.NewManager(catalog.Default(), nil)

	shared := uuid.New()
	first := m.Open([]*blocks.Block{{ID: shared, Type: "core/paragraph", Content: map[string]any{"text": "one"}}})
	second := m.Open([]*blocks.Block{{ID: shared, Type: "core/paragraph", Content: map[string]any{"text": "two"}}})

	if m.Len() != 2 {
		t.Fatalf("expected two open sessions")
	}

	if err := first.StateFor(shared).SetContent(map[string]any{"text": "edited"}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got := second.StateFor(shared).Content()["text"]; got != "two" {
		t.Fatalf("sessions must not share block state, got %v", got)
	}

	first.Close()
	if m.Len() != 1 {
		t.Fatalf("closing a session must release it from the manager")
	}
	if _, ok := m.Get(first.ID()); ok {
		t.Fatalf("closed session must not resolve")
	}

	m.CloseAll()
	if m.Len() != 0 {
		t.Fatalf("CloseAll must drain the manager")
	}
}
