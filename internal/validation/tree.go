package validation

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-builder/blocks"
	"github.com/goliatone/go-builder/internal/catalog"
)

// ErrUnknownBlockType mirrors the catalog sentinel so callers can test with
// a single errors.Is regardless of which layer rejected the type.
var ErrUnknownBlockType = catalog.ErrUnknownBlockType

// TreeIssue ties a validation failure to the block that produced it.
type TreeIssue struct {
	BlockID   string
	BlockType string
	Issues    []ValidationIssue
	Err       error
}

// TreeValidationError aggregates per-block failures for one document.
type TreeValidationError struct {
	Blocks []TreeIssue
}

func (e *TreeValidationError) Error() string {
	if len(e.Blocks) == 0 {
		return ErrSchemaValidation.Error()
	}
	first := e.Blocks[0]
	suffix := ""
	if len(e.Blocks) > 1 {
		suffix = fmt.Sprintf(" (and %d more blocks)", len(e.Blocks)-1)
	}
	return fmt.Sprintf("block %s (%s): %v%s", first.BlockID, first.BlockType, first.Err, suffix)
}

func (e *TreeValidationError) Unwrap() []error {
	unwrapped := []error{ErrSchemaValidation}
	for _, issue := range e.Blocks {
		if issue.Err != nil {
			unwrapped = append(unwrapped, issue.Err)
		}
	}
	return unwrapped
}

// ValidateTree checks every block's content against its type's schema and
// rejects types the registry does not know. Unknown types are reported with
// the other failures rather than aborting the walk so the editor can surface
// every problem at once.
func ValidateTree(registry *catalog.Registry, roots []*blocks.Block) error {
	var failed []TreeIssue

	blocks.Walk(roots, func(b *blocks.Block) bool {
		def, ok := registry.Get(b.Type)
		if !ok {
			failed = append(failed, TreeIssue{
				BlockID:   b.ID.String(),
				BlockType: b.Type,
				Err:       fmt.Errorf("%w: %s", ErrUnknownBlockType, b.Type),
			})
			return true
		}
		if err := ValidatePayload(def.Schema, b.Content); err != nil {
			failed = append(failed, TreeIssue{
				BlockID:   b.ID.String(),
				BlockType: b.Type,
				Issues:    Issues(err),
				Err:       err,
			})
		}
		return true
	})

	if len(failed) == 0 {
		return nil
	}
	return &TreeValidationError{Blocks: failed}
}

// IsValidation reports whether the error is a schema or tree validation
// failure, as opposed to an infrastructure failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrSchemaValidation) || errors.Is(err, ErrUnknownBlockType)
}
