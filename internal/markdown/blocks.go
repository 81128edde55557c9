package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-builder/blocks"
	"github.com/goliatone/go-builder/internal/catalog"
)

// Converter turns a markdown body into a builder block tree. The registry
// mints the blocks so they carry the catalog's default content and styles.
type Converter struct {
	registry *catalog.Registry
	engine   goldmark.Markdown
}

// NewConverter builds a converter over the given block type catalog.
func NewConverter(registry *catalog.Registry) *Converter {
	return &Converter{
		registry: registry,
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Convert parses the markdown body and maps each top-level element to a
// block. Elements without a dedicated block type fall back to a markdown
// block carrying the raw source, so nothing is silently dropped.
func (c *Converter) Convert(source []byte) ([]*blocks.Block, error) {
	doc := c.engine.Parser().Parse(text.NewReader(source))

	var roots []*blocks.Block
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		block, err := c.convertNode(node, source)
		if err != nil {
			return nil, err
		}
		if block != nil {
			roots = append(roots, block)
		}
	}

	blocks.SetParentIDs(roots)
	return roots, nil
}

func (c *Converter) convertNode(node ast.Node, source []byte) (*blocks.Block, error) {
	switch n := node.(type) {
	case *ast.Heading:
		return c.mint(catalog.TypeHeading, map[string]any{
			"text":  string(n.Text(source)),
			"level": n.Level,
		})
	case *ast.Paragraph:
		return c.mint(catalog.TypeParagraph, map[string]any{
			"text": string(n.Text(source)),
		})
	case *ast.FencedCodeBlock:
		return c.mint(catalog.TypeCode, map[string]any{
			"code":     nodeLines(n, source),
			"language": string(n.Language(source)),
		})
	case *ast.CodeBlock:
		return c.mint(catalog.TypeCode, map[string]any{
			"code":     nodeLines(n, source),
			"language": "",
		})
	case *ast.Blockquote:
		return c.mint(catalog.TypeQuote, map[string]any{
			"text": string(n.Text(source)),
		})
	case *ast.List:
		return c.mint(catalog.TypeList, map[string]any{
			"items":   listItems(n, source),
			"ordered": n.IsOrdered(),
		})
	case *ast.ThematicBreak:
		return c.mint(catalog.TypeDivider, nil)
	case *ast.HTMLBlock:
		return c.mint(catalog.TypeHTML, map[string]any{
			"html": nodeLines(n, source),
		})
	default:
		raw := nodeLines(node, source)
		if strings.TrimSpace(raw) == "" {
			return nil, nil
		}
		return c.mint(catalog.TypeMarkdown, map[string]any{
			"markdown": raw,
		})
	}
}

func (c *Converter) mint(blockType string, content map[string]any) (*blocks.Block, error) {
	block, err := c.registry.NewBlock(blockType)
	if err != nil {
		return nil, err
	}
	for key, value := range content {
		block.Content[key] = value
	}
	return block, nil
}

func nodeLines(node ast.Node, source []byte) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		sb.Write(segment.Value(source))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func listItems(list *ast.List, source []byte) []any {
	var items []any
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		items = append(items, string(item.Text(source)))
	}
	if items == nil {
		items = []any{}
	}
	return items
}
