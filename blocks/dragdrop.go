package blocks

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// LocationKind identifies where a drag started or where it is dropped.
type LocationKind string

const (
	// LocationPalette is the block library; dragging from it mints a new block.
	LocationPalette LocationKind = "palette"
	// LocationCanvas is the top-level ordered list of root blocks.
	LocationCanvas LocationKind = "canvas"
	// LocationColumn addresses one column of a columns container.
	LocationColumn LocationKind = "column"
)

// Location describes one end of a drag operation. Palette sources carry the
// block type to mint; canvas and column locations carry the dragged block id
// and, for columns, the container id plus the column index.
type Location struct {
	Kind      LocationKind `json:"kind"`
	BlockID   uuid.UUID    `json:"blockId,omitempty"`
	BlockType string       `json:"blockType,omitempty"`
	ParentID  uuid.UUID    `json:"parentId,omitempty"`
	Column    int          `json:"column,omitempty"`
	Index     int          `json:"index"`
}

// Factory mints a fresh block for a palette drop, typically backed by the
// block type catalog's defaults.
type Factory func(blockType string) (*Block, error)

// ParseColumnTarget parses the synthetic droppable id "<parent>:column:<n>"
// that editors use to address one column of a columns container.
func ParseColumnTarget(raw string) (uuid.UUID, int, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 3 || parts[1] != "column" {
		return uuid.Nil, 0, ErrLocationInvalid
	}
	parentID, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, 0, ErrLocationInvalid
	}
	column, err := strconv.Atoi(parts[2])
	if err != nil || column < 0 {
		return uuid.Nil, 0, ErrLocationInvalid
	}
	return parentID, column, nil
}

// ApplyDrag interprets a drag operation and returns the new root list. The
// dragged subtree is removed from its source and spliced into the destination
// at the given index; the destination index addresses the list as it stands
// after removal, which is what splice-based editors produce for same-slot
// reorders. A nil destination means the drag was cancelled and the input list
// is returned unchanged.
//
// Every source/destination combination of palette, canvas, and column routes
// through the same Remove and insert helpers, so sibling identity and subtree
// contents are preserved on every path. A container cannot be dropped into
// one of its own columns: once the subtree is detached the target id no
// longer resolves and the move fails with ErrBlockNotFound.
func ApplyDrag(roots []*Block, src, dst *Location, factory Factory) ([]*Block, error) {
	return applyDrag(roots, src, dst, factory)
}

// Move relocates an existing block to the destination. It is the canvas-source
// form of ApplyDrag and follows the same post-removal index semantics.
func Move(roots []*Block, blockID uuid.UUID, dst *Location) ([]*Block, error) {
	src := &Location{Kind: LocationCanvas, BlockID: blockID}
	return applyDrag(roots, src, dst, nil)
}

func applyDrag(roots []*Block, src, dst *Location, factory Factory) ([]*Block, error) {
	if dst == nil {
		return roots, nil
	}
	if dst.Kind != LocationCanvas && dst.Kind != LocationColumn {
		return nil, ErrLocationInvalid
	}
	if src == nil {
		return nil, ErrLocationInvalid
	}

	out := roots
	var moved *Block

	switch src.Kind {
	case LocationPalette:
		if factory == nil {
			return nil, ErrFactoryRequired
		}
		minted, err := factory(src.BlockType)
		if err != nil {
			return nil, err
		}
		moved = minted
	case LocationCanvas, LocationColumn:
		if src.BlockID == uuid.Nil {
			return nil, ErrLocationInvalid
		}
		var removed *Block
		out, removed = Remove(out, src.BlockID)
		if removed == nil {
			return nil, ErrBlockNotFound
		}
		moved = removed
	default:
		return nil, ErrLocationInvalid
	}

	switch dst.Kind {
	case LocationCanvas:
		out = InsertAtRoot(out, moved, dst.Index)
	case LocationColumn:
		inserted, err := InsertIntoColumn(out, dst.ParentID, dst.Column, dst.Index, moved)
		if err != nil {
			return nil, err
		}
		out = inserted
	}

	SetParentIDs(out)
	return out, nil
}
