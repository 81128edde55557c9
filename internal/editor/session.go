package editor

import (
	"errors"
	"sync"

	"github.com/goliatone/go-builder/blocks"
	"github.com/goliatone/go-builder/internal/catalog"
	"github.com/goliatone/go-builder/internal/logging"
	"github.com/goliatone/go-builder/pkg/interfaces"
	"github.com/google/uuid"
)

var (
	ErrSessionClosed = errors.New("editor: session closed")
	ErrBlockNotFound = blocks.ErrBlockNotFound
)

// EventKind classifies a session change notification.
type EventKind string

const (
	// EventTree signals a structural change: drag, delete, duplicate.
	EventTree EventKind = "tree"
	// EventBlock signals a content, style, or settings edit on one block.
	EventBlock EventKind = "block"
	// EventSelection signals the selected block changed.
	EventSelection EventKind = "selection"
)

// Event describes one change to a session. BlockID is Nil for structural
// changes that touch more than one block.
type Event struct {
	Kind     EventKind
	BlockID  uuid.UUID
	Revision uint64
}

// Session owns the authoritative block tree for one open editor instance.
//
// It replaces the original editor's module-level accessor map: block state
// accessors are scoped to the session, torn down on Close, and panels that
// render elsewhere in the UI subscribe for change notifications instead of
// mutating a shared registry and bumping manual dirty counters. Two sessions
// in the same process never observe each other's state.
type Session struct {
	mu          sync.RWMutex
	id          uuid.UUID
	registry    *catalog.Registry
	roots       []*blocks.Block
	selected    uuid.UUID
	revision    uint64
	subscribers map[int]func(Event)
	nextSub     int
	closed      bool
	onClose     func(uuid.UUID)
	logger      interfaces.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger injects the session logger.
func WithLogger(logger interfaces.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func withOnClose(fn func(uuid.UUID)) SessionOption {
	return func(s *Session) {
		s.onClose = fn
	}
}

// NewSession opens a session over the given document. The tree is normalized
// on ingestion: legacy type aliases canonicalize and parent ids are repaired.
func NewSession(registry *catalog.Registry, roots []*blocks.Block, opts ...SessionOption) *Session {
	s := &Session{
		id:          uuid.New(),
		registry:    registry,
		roots:       roots,
		subscribers: make(map[int]func(Event)),
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}

	registry.CanonicalizeTree(s.roots)
	blocks.SetParentIDs(s.roots)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Blocks returns the current tree. The returned slice and its blocks are the
// session's copy-on-write state; callers must treat them as read-only and go
// through StateFor or the structural operations to mutate.
func (s *Session) Blocks() []*blocks.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roots
}

// Revision returns a counter that increments on every change.
func (s *Session) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Subscribe registers a change listener and returns its cancel function.
// Listeners run synchronously after the mutation commits, outside the
// session lock.
func (s *Session) Subscribe(fn func(Event)) (cancel func(), err error) {
	if fn == nil {
		return func() {}, nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}, nil
}

// ApplyDrag routes a drag operation through the tree reducer. Palette drops
// mint blocks from the session's catalog.
func (s *Session) ApplyDrag(src, dst *blocks.Location) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}

	next, err := blocks.ApplyDrag(s.roots, src, dst, s.registry.NewBlock)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.roots = next
	event := s.bump(EventTree, uuid.Nil)
	s.mu.Unlock()

	s.notify(event)
	return nil
}

// Delete removes a block and its subtree.
func (s *Session) Delete(id uuid.UUID) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}

	next, removed := blocks.Remove(s.roots, id)
	if removed == nil {
		s.mu.Unlock()
		return ErrBlockNotFound
	}
	blocks.SetParentIDs(next)
	s.roots = next
	if s.selected == id {
		s.selected = uuid.Nil
	}
	event := s.bump(EventTree, uuid.Nil)
	s.mu.Unlock()

	s.notify(event)
	return nil
}

// Duplicate deep-copies a block with fresh ids and inserts the copy right
// after the original in the same slot. Returns the copy's id.
func (s *Session) Duplicate(id uuid.UUID) (uuid.UUID, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return uuid.Nil, ErrSessionClosed
	}

	original := blocks.Find(s.roots, id)
	if original == nil {
		s.mu.Unlock()
		return uuid.Nil, ErrBlockNotFound
	}
	duplicate := blocks.Duplicate(original)

	next, err := s.insertAfter(original, duplicate)
	if err != nil {
		s.mu.Unlock()
		return uuid.Nil, err
	}
	blocks.SetParentIDs(next)
	s.roots = next
	event := s.bump(EventTree, uuid.Nil)
	s.mu.Unlock()

	s.notify(event)
	return duplicate.ID, nil
}

// insertAfter splices the copy next to the original, wherever it sits.
// Callers hold the write lock.
func (s *Session) insertAfter(original, copy *blocks.Block) ([]*blocks.Block, error) {
	for i, root := range s.roots {
		if root == original {
			return blocks.InsertAtRoot(s.roots, copy, i+1), nil
		}
	}

	parent := blocks.FindParent(s.roots, original.ID)
	if parent == nil {
		return nil, ErrBlockNotFound
	}
	for i, child := range parent.Children {
		if child == original {
			return blocks.InsertIntoChildren(s.roots, parent.ID, i+1, copy)
		}
	}
	for ci, col := range parent.Columns {
		for i, child := range col.Blocks {
			if child == original {
				return blocks.InsertIntoColumn(s.roots, parent.ID, ci, i+1, copy)
			}
		}
	}
	return nil, ErrBlockNotFound
}

// Select marks a block as selected; settings panels follow the selection.
func (s *Session) Select(id uuid.UUID) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if id != uuid.Nil && blocks.Find(s.roots, id) == nil {
		s.mu.Unlock()
		return ErrBlockNotFound
	}
	s.selected = id
	event := s.bump(EventSelection, id)
	s.mu.Unlock()

	s.notify(event)
	return nil
}

// Selected returns the currently selected block id, Nil when nothing is.
func (s *Session) Selected() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Close tears the session down. Further mutations fail with
// ErrSessionClosed; subscriptions are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.subscribers = map[int]func(Event){}
	onClose := s.onClose
	id := s.id
	s.mu.Unlock()

	if onClose != nil {
		onClose(id)
	}
}

// bump increments the revision and builds the event. Callers hold the lock.
func (s *Session) bump(kind EventKind, blockID uuid.UUID) Event {
	s.revision++
	return Event{Kind: kind, BlockID: blockID, Revision: s.revision}
}

func (s *Session) notify(event Event) {
	s.mu.RLock()
	listeners := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		listeners = append(listeners, fn)
	}
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(event)
	}
}
