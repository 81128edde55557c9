package blocks

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Block is one content unit in a builder document: a paragraph, an image, a
// columns container, and so on. Container types carry nested blocks either in
// Children (groups) or in per-column lists (columns blocks); both are edited
// through the same slot helpers in this package.
type Block struct {
	ID       uuid.UUID      `json:"id"`
	Type     string         `json:"type"`
	ParentID *uuid.UUID     `json:"parentId,omitempty"`
	Content  map[string]any `json:"content,omitempty"`
	Styles   map[string]any `json:"styles,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
	Children []*Block       `json:"children,omitempty"`
	Columns  []*Column      `json:"columns,omitempty"`
}

// Column holds one ordered list of blocks inside a columns container.
type Column struct {
	Width  string   `json:"width,omitempty"`
	Blocks []*Block `json:"blocks"`
}

// blockEnvelope mirrors Block for decoding. Legacy payloads nest the column
// lists under content.columns; UnmarshalJSON lifts them into Columns so the
// rest of the module only ever sees one shape.
type blockEnvelope struct {
	ID       uuid.UUID      `json:"id"`
	Type     string         `json:"type"`
	ParentID *uuid.UUID     `json:"parentId"`
	Content  map[string]any `json:"content"`
	Styles   map[string]any `json:"styles"`
	Settings map[string]any `json:"settings"`
	Children []*Block       `json:"children"`
	Columns  []*Column      `json:"columns"`
}

// UnmarshalJSON decodes a block and normalizes legacy column payloads that
// embed columns inside the content bag.
func (b *Block) UnmarshalJSON(data []byte) error {
	var env blockEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	b.ID = env.ID
	b.Type = env.Type
	b.ParentID = env.ParentID
	b.Content = env.Content
	b.Styles = env.Styles
	b.Settings = env.Settings
	b.Children = env.Children
	b.Columns = env.Columns

	if len(b.Columns) == 0 && b.Content != nil {
		if raw, ok := b.Content["columns"]; ok {
			if cols, err := decodeLegacyColumns(raw); err == nil && len(cols) > 0 {
				b.Columns = cols
				delete(b.Content, "columns")
			}
		}
	}

	return nil
}

func decodeLegacyColumns(raw any) ([]*Column, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var cols []*Column
	if err := json.Unmarshal(encoded, &cols); err != nil {
		return nil, err
	}
	return cols, nil
}

// Clone produces a deep copy of the block preserving every id. Content,
// styles, and settings maps are copied so mutating the clone never mutates
// the source.
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}

	out := &Block{
		ID:       b.ID,
		Type:     b.Type,
		Content:  cloneValueMap(b.Content),
		Styles:   cloneValueMap(b.Styles),
		Settings: cloneValueMap(b.Settings),
	}
	if b.ParentID != nil {
		parent := *b.ParentID
		out.ParentID = &parent
	}
	if len(b.Children) > 0 {
		out.Children = make([]*Block, len(b.Children))
		for i, child := range b.Children {
			out.Children[i] = child.Clone()
		}
	}
	if len(b.Columns) > 0 {
		out.Columns = make([]*Column, len(b.Columns))
		for i, col := range b.Columns {
			out.Columns[i] = col.Clone()
		}
	}
	return out
}

// Clone deep-copies the column and its block list.
func (c *Column) Clone() *Column {
	if c == nil {
		return nil
	}
	out := &Column{Width: c.Width}
	if c.Blocks != nil {
		out.Blocks = make([]*Block, len(c.Blocks))
		for i, blk := range c.Blocks {
			out.Blocks[i] = blk.Clone()
		}
	}
	return out
}

// IsContainer reports whether the block nests other blocks.
func (b *Block) IsContainer() bool {
	return len(b.Children) > 0 || len(b.Columns) > 0
}

func cloneValueMap(input map[string]any) map[string]any {
	if input == nil {
		return nil
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		switch typed := value.(type) {
		case map[string]any:
			out[key] = cloneValueMap(typed)
		case []any:
			out[key] = cloneValueSlice(typed)
		default:
			out[key] = value
		}
	}
	return out
}

func cloneValueSlice(input []any) []any {
	if input == nil {
		return nil
	}
	out := make([]any, len(input))
	for i, value := range input {
		switch typed := value.(type) {
		case map[string]any:
			out[i] = cloneValueMap(typed)
		case []any:
			out[i] = cloneValueSlice(typed)
		default:
			out[i] = value
		}
	}
	return out
}
