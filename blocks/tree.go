package blocks

import "github.com/google/uuid"

// SetParentIDs restores the containment invariant across the whole tree:
// every nested block's ParentID equals its structural parent's id and every
// root block's ParentID is nil. Mutates in place.
func SetParentIDs(roots []*Block) {
	for _, root := range roots {
		if root == nil {
			continue
		}
		root.ParentID = nil
		setParentIDs(root)
	}
}

func setParentIDs(parent *Block) {
	for _, child := range parent.Children {
		if child == nil {
			continue
		}
		id := parent.ID
		child.ParentID = &id
		setParentIDs(child)
	}
	for _, col := range parent.Columns {
		if col == nil {
			continue
		}
		for _, child := range col.Blocks {
			if child == nil {
				continue
			}
			id := parent.ID
			child.ParentID = &id
			setParentIDs(child)
		}
	}
}

// Find returns the block with the given id, searching depth first, or nil.
func Find(roots []*Block, id uuid.UUID) *Block {
	var found *Block
	Walk(roots, func(b *Block) bool {
		if b.ID == id {
			found = b
			return false
		}
		return true
	})
	return found
}

// FindParent returns the structural parent of the block with the given id.
// Blocks at the root, and unknown ids, resolve to nil.
func FindParent(roots []*Block, id uuid.UUID) *Block {
	return findParent(roots, nil, id)
}

func findParent(list []*Block, parent *Block, id uuid.UUID) *Block {
	for _, b := range list {
		if b == nil {
			continue
		}
		if b.ID == id {
			return parent
		}
		if found := findParent(b.Children, b, id); found != nil {
			return found
		}
		for _, col := range b.Columns {
			if col == nil {
				continue
			}
			if found := findParent(col.Blocks, b, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// Walk visits every block depth first, children before the next sibling.
// Returning false from fn stops the walk.
func Walk(roots []*Block, fn func(*Block) bool) {
	walk(roots, fn)
}

func walk(list []*Block, fn func(*Block) bool) bool {
	for _, b := range list {
		if b == nil {
			continue
		}
		if !fn(b) {
			return false
		}
		if !walk(b.Children, fn) {
			return false
		}
		for _, col := range b.Columns {
			if col == nil {
				continue
			}
			if !walk(col.Blocks, fn) {
				return false
			}
		}
	}
	return true
}

// Count returns the number of blocks in the tree, containers included.
func Count(roots []*Block) int {
	total := 0
	Walk(roots, func(*Block) bool {
		total++
		return true
	})
	return total
}

// Duplicate deep-copies a block subtree and assigns fresh ids throughout.
// The copy shares no state with the original.
func Duplicate(b *Block) *Block {
	clone := b.Clone()
	if clone == nil {
		return nil
	}
	reassignIDs(clone)
	clone.ParentID = nil
	SetParentIDs([]*Block{clone})
	return clone
}

func reassignIDs(b *Block) {
	b.ID = uuid.New()
	for _, child := range b.Children {
		reassignIDs(child)
	}
	for _, col := range b.Columns {
		for _, child := range col.Blocks {
			reassignIDs(child)
		}
	}
}

// Remove detaches the block with the given id, wherever it sits, and returns
// the new root list together with the detached subtree. Ancestors on the path
// to the removed block are shallow-copied; untouched siblings keep their
// identity. Returns the input list and nil when the id is unknown.
func Remove(roots []*Block, id uuid.UUID) ([]*Block, *Block) {
	out, removed, ok := removeFromList(roots, id)
	if !ok {
		return roots, nil
	}
	return out, removed
}

func removeFromList(list []*Block, id uuid.UUID) ([]*Block, *Block, bool) {
	for i, b := range list {
		if b != nil && b.ID == id {
			out := make([]*Block, 0, len(list)-1)
			out = append(out, list[:i]...)
			out = append(out, list[i+1:]...)
			return out, b, true
		}
	}
	for i, b := range list {
		if b == nil {
			continue
		}
		updated, removed, ok := removeFromBlock(b, id)
		if !ok {
			continue
		}
		out := make([]*Block, len(list))
		copy(out, list)
		out[i] = updated
		return out, removed, true
	}
	return list, nil, false
}

func removeFromBlock(b *Block, id uuid.UUID) (*Block, *Block, bool) {
	if len(b.Children) > 0 {
		if children, removed, ok := removeFromList(b.Children, id); ok {
			clone := *b
			clone.Children = children
			return &clone, removed, true
		}
	}
	for ci, col := range b.Columns {
		if col == nil {
			continue
		}
		blocksList, removed, ok := removeFromList(col.Blocks, id)
		if !ok {
			continue
		}
		clone := *b
		clone.Columns = make([]*Column, len(b.Columns))
		copy(clone.Columns, b.Columns)
		colClone := *col
		colClone.Blocks = blocksList
		clone.Columns[ci] = &colClone
		return &clone, removed, true
	}
	return b, nil, false
}

// Rewrite locates the block with the given id and replaces it with the result
// of fn, rebuilding every ancestor on the path. This is the single tree-edit
// primitive the column and children insert paths share. The boolean reports
// whether the id was found.
func Rewrite(roots []*Block, id uuid.UUID, fn func(*Block) (*Block, error)) ([]*Block, bool, error) {
	for i, b := range roots {
		if b != nil && b.ID == id {
			updated, err := fn(b)
			if err != nil {
				return nil, false, err
			}
			out := make([]*Block, len(roots))
			copy(out, roots)
			out[i] = updated
			return out, true, nil
		}
	}
	for i, b := range roots {
		if b == nil {
			continue
		}
		if len(b.Children) > 0 {
			children, ok, err := Rewrite(b.Children, id, fn)
			if err != nil {
				return nil, false, err
			}
			if ok {
				clone := *b
				clone.Children = children
				out := make([]*Block, len(roots))
				copy(out, roots)
				out[i] = &clone
				return out, true, nil
			}
		}
		for ci, col := range b.Columns {
			if col == nil {
				continue
			}
			colBlocks, ok, err := Rewrite(col.Blocks, id, fn)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				continue
			}
			clone := *b
			clone.Columns = make([]*Column, len(b.Columns))
			copy(clone.Columns, b.Columns)
			colClone := *col
			colClone.Blocks = colBlocks
			clone.Columns[ci] = &colClone
			out := make([]*Block, len(roots))
			copy(out, roots)
			out[i] = &clone
			return out, true, nil
		}
	}
	return roots, false, nil
}

// InsertAtRoot splices a block into the canvas at the given index. Indexes
// outside the valid range clamp to the nearest end.
func InsertAtRoot(roots []*Block, blk *Block, index int) []*Block {
	return insertIntoSlice(roots, blk, index)
}

// InsertIntoColumn splices a block into one column of the addressed columns
// container at the given index.
func InsertIntoColumn(roots []*Block, parentID uuid.UUID, column, index int, blk *Block) ([]*Block, error) {
	out, found, err := Rewrite(roots, parentID, func(parent *Block) (*Block, error) {
		if column < 0 || column >= len(parent.Columns) {
			return nil, ErrColumnOutOfRange
		}
		clone := *parent
		clone.Columns = make([]*Column, len(parent.Columns))
		copy(clone.Columns, parent.Columns)
		colClone := *parent.Columns[column]
		colClone.Blocks = insertIntoSlice(colClone.Blocks, blk, index)
		clone.Columns[column] = &colClone
		return &clone, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrBlockNotFound
	}
	return out, nil
}

// InsertIntoChildren splices a block into a container's child list at the
// given index.
func InsertIntoChildren(roots []*Block, parentID uuid.UUID, index int, blk *Block) ([]*Block, error) {
	out, found, err := Rewrite(roots, parentID, func(parent *Block) (*Block, error) {
		if len(parent.Columns) > 0 {
			return nil, ErrNotAContainer
		}
		clone := *parent
		clone.Children = insertIntoSlice(parent.Children, blk, index)
		return &clone, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrBlockNotFound
	}
	return out, nil
}

func insertIntoSlice(list []*Block, blk *Block, index int) []*Block {
	if index < 0 {
		index = 0
	}
	if index > len(list) {
		index = len(list)
	}
	out := make([]*Block, 0, len(list)+1)
	out = append(out, list[:index]...)
	out = append(out, blk)
	out = append(out, list[index:]...)
	return out
}
