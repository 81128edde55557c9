package catalog

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-builder/blocks"
	"github.com/goliatone/go-builder/internal/identity"
	"github.com/google/uuid"
)

var (
	ErrDefinitionTypeRequired = errors.New("catalog: definition type required")
	ErrDefinitionExists       = errors.New("catalog: definition already registered")
	ErrUnknownBlockType       = errors.New("catalog: unknown block type")
	ErrAliasCollision         = errors.New("catalog: alias collides with a registered type")
)

// RenderFunc renders a leaf block to HTML. Children of container blocks are
// rendered by the renderer itself; the pre-rendered inner HTML is passed in.
type RenderFunc func(b *blocks.Block, inner string) (string, error)

// Definition is one catalog entry: the immutable description of a block type,
// its defaults, its content schema, and an optional renderer override.
type Definition struct {
	ID             uuid.UUID      `json:"id"`
	Type           string         `json:"type"`
	Name           string         `json:"name"`
	Category       string         `json:"category,omitempty"`
	Icon           string         `json:"icon,omitempty"`
	DefaultContent map[string]any `json:"defaultContent,omitempty"`
	DefaultStyles  map[string]any `json:"defaultStyles,omitempty"`
	Schema         map[string]any `json:"schema,omitempty"`
	Renderer       RenderFunc     `json:"-"`
}

// Registry maps canonical block type ids to definitions. Legacy aliases
// ("heading" for "core/heading") resolve through the registry so callers
// never have to deduplicate at lookup sites.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Definition
	aliases map[string]string
}

// NewRegistry constructs an empty block type registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Definition),
		aliases: make(map[string]string),
	}
}

// Register records a definition under its canonical type id. Definitions are
// assigned a deterministic id derived from the type when none is provided.
func (r *Registry) Register(def *Definition) error {
	if def == nil {
		return ErrDefinitionTypeRequired
	}
	typeID := strings.TrimSpace(def.Type)
	if typeID == "" {
		return ErrDefinitionTypeRequired
	}
	def.Type = typeID
	if def.ID == uuid.Nil {
		def.ID = identity.BlockDefinitionUUID(typeID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[typeID]; ok {
		return ErrDefinitionExists
	}
	r.entries[typeID] = def
	return nil
}

// RegisterAlias maps a legacy type id onto a canonical one. The canonical id
// must already be registered.
func (r *Registry) RegisterAlias(alias, canonical string) error {
	alias = strings.TrimSpace(alias)
	canonical = strings.TrimSpace(canonical)
	if alias == "" || canonical == "" {
		return ErrDefinitionTypeRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[alias]; ok {
		return ErrAliasCollision
	}
	if _, ok := r.entries[canonical]; !ok {
		return ErrUnknownBlockType
	}
	r.aliases[alias] = canonical
	return nil
}

// Canonical resolves a type id through the alias table. Unknown ids come back
// unchanged so callers can surface ErrUnknownBlockType at lookup time.
func (r *Registry) Canonical(typeID string) string {
	typeID = strings.TrimSpace(typeID)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if canonical, ok := r.aliases[typeID]; ok {
		return canonical
	}
	return typeID
}

// Get returns the definition for a type id, resolving aliases.
func (r *Registry) Get(typeID string) (*Definition, bool) {
	canonical := r.Canonical(typeID)

	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.entries[canonical]
	return def, ok
}

// List returns every registered definition sorted by canonical type id.
// Aliases never appear, so listings are free of legacy duplicates.
func (r *Registry) List() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Definition, 0, len(r.entries))
	for _, def := range r.entries {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// NewBlock mints a block of the given type seeded with the definition's
// default content and styles. Satisfies blocks.Factory.
func (r *Registry) NewBlock(typeID string) (*blocks.Block, error) {
	def, ok := r.Get(typeID)
	if !ok {
		return nil, ErrUnknownBlockType
	}

	blk := &blocks.Block{
		ID:      uuid.New(),
		Type:    def.Type,
		Content: cloneMap(def.DefaultContent),
		Styles:  cloneMap(def.DefaultStyles),
	}
	if blk.Content == nil {
		blk.Content = map[string]any{}
	}
	if def.Type == TypeColumns {
		blk.Columns = []*blocks.Column{
			{Width: "50%"},
			{Width: "50%"},
		}
	}
	return blk, nil
}

// CanonicalizeTree rewrites every block's type to its canonical id, in place.
// Runs at ingestion so legacy aliases never reach storage or render paths.
func (r *Registry) CanonicalizeTree(roots []*blocks.Block) {
	blocks.Walk(roots, func(b *blocks.Block) bool {
		b.Type = r.Canonical(b.Type)
		return true
	})
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return nil
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		switch typed := value.(type) {
		case map[string]any:
			out[key] = cloneMap(typed)
		case []any:
			cloned := make([]any, len(typed))
			copy(cloned, typed)
			out[key] = cloned
		default:
			out[key] = value
		}
	}
	return out
}
