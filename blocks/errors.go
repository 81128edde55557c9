package blocks

import "errors"

var (
	// ErrBlockNotFound is returned when an id does not resolve to a block in
	// the tree.
	ErrBlockNotFound = errors.New("blocks: block not found")
	// ErrColumnOutOfRange is returned when a column index does not exist on
	// the addressed container.
	ErrColumnOutOfRange = errors.New("blocks: column index out of range")
	// ErrNotAContainer is returned when a child insert targets a block that
	// cannot nest children.
	ErrNotAContainer = errors.New("blocks: target block is not a container")
	// ErrLocationInvalid is returned when a drag location cannot be resolved.
	ErrLocationInvalid = errors.New("blocks: drag location invalid")
	// ErrFactoryRequired is returned when a palette drop has no block factory
	// to mint the new block.
	ErrFactoryRequired = errors.New("blocks: palette drop requires a block factory")
)
