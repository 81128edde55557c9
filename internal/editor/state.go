package editor

import (
	"github.com/goliatone/go-builder/blocks"
	"github.com/google/uuid"
)

// BlockState is the accessor a settings panel uses to read and write one
// block's content, styles, and settings without threading props through the
// canvas. It is the session-scoped replacement for the original register/
// unregister/get side table: lookups resolve against the live tree, so a
// state handle obtained before a structural move keeps working afterwards.
type BlockState struct {
	session *Session
	id      uuid.UUID
}

// StateFor returns the accessor for a block id, or nil when the id does not
// resolve in this session's tree (the original registry's get-on-missing
// contract).
func (s *Session) StateFor(id uuid.UUID) *BlockState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed || blocks.Find(s.roots, id) == nil {
		return nil
	}
	return &BlockState{session: s, id: id}
}

// BlockID returns the id this accessor is bound to.
func (st *BlockState) BlockID() uuid.UUID {
	return st.id
}

// Block returns a deep copy of the bound block, nil when it has since been
// deleted.
func (st *BlockState) Block() *blocks.Block {
	st.session.mu.RLock()
	defer st.session.mu.RUnlock()
	return blocks.Find(st.session.roots, st.id).Clone()
}

// Content returns a copy of the block's content bag.
func (st *BlockState) Content() map[string]any {
	if b := st.Block(); b != nil {
		return b.Content
	}
	return nil
}

// SetContent replaces the block's content. Copy-on-write like every other
// tree edit: untouched blocks keep their identity.
func (st *BlockState) SetContent(content map[string]any) error {
	return st.rewrite(func(clone *blocks.Block) {
		clone.Content = content
	})
}

// Styles returns a copy of the block's style bag.
func (st *BlockState) Styles() map[string]any {
	if b := st.Block(); b != nil {
		return b.Styles
	}
	return nil
}

// SetStyles replaces the block's styles.
func (st *BlockState) SetStyles(styles map[string]any) error {
	return st.rewrite(func(clone *blocks.Block) {
		clone.Styles = styles
	})
}

// Settings returns a copy of the block's advanced settings.
func (st *BlockState) Settings() map[string]any {
	if b := st.Block(); b != nil {
		return b.Settings
	}
	return nil
}

// SetSettings replaces the block's advanced settings.
func (st *BlockState) SetSettings(settings map[string]any) error {
	return st.rewrite(func(clone *blocks.Block) {
		clone.Settings = settings
	})
}

func (st *BlockState) rewrite(mutate func(*blocks.Block)) error {
	s := st.session

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}

	next, found, err := blocks.Rewrite(s.roots, st.id, func(b *blocks.Block) (*blocks.Block, error) {
		clone := *b
		mutate(&clone)
		return &clone, nil
	})
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !found {
		s.mu.Unlock()
		return ErrBlockNotFound
	}
	s.roots = next
	event := s.bump(EventBlock, st.id)
	s.mu.Unlock()

	s.notify(event)
	return nil
}
