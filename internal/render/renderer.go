package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/goliatone/go-builder/blocks"
	"github.com/goliatone/go-builder/internal/catalog"
	"github.com/goliatone/go-builder/internal/logging"
	"github.com/goliatone/go-builder/pkg/interfaces"
)

// Renderer walks a builder document through the block type catalog and emits
// the static HTML the public site serves. It is stateless per render, so one
// instance can be shared across requests.
type Renderer struct {
	registry *catalog.Registry
	markdown goldmark.Markdown
	logger   interfaces.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger injects the logger used for render diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New constructs a renderer over the given catalog. Markdown blocks render
// through goldmark with GFM extensions enabled.
func New(registry *catalog.Registry, opts ...Option) *Renderer {
	r := &Renderer{
		registry: registry,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderDocument renders the whole block tree in order.
func (r *Renderer) RenderDocument(roots []*blocks.Block) (string, error) {
	var sb strings.Builder
	for _, blk := range roots {
		if blk == nil {
			continue
		}
		html, err := r.RenderBlock(blk)
		if err != nil {
			return "", err
		}
		sb.WriteString(html)
	}
	return sb.String(), nil
}

// RenderBlock renders one block and its nested blocks.
func (r *Renderer) RenderBlock(b *blocks.Block) (string, error) {
	def, ok := r.registry.Get(b.Type)
	if !ok {
		return "", fmt.Errorf("render %s: %w", b.Type, catalog.ErrUnknownBlockType)
	}

	inner, err := r.renderInner(b)
	if err != nil {
		return "", err
	}

	if def.Renderer != nil {
		return def.Renderer(b, inner)
	}
	return r.renderBuiltin(def.Type, b, inner)
}

func (r *Renderer) renderInner(b *blocks.Block) (string, error) {
	if len(b.Children) == 0 {
		return "", nil
	}
	var sb strings.Builder
	for _, child := range b.Children {
		html, err := r.RenderBlock(child)
		if err != nil {
			return "", err
		}
		sb.WriteString(html)
	}
	return sb.String(), nil
}

func (r *Renderer) renderBuiltin(typeID string, b *blocks.Block, inner string) (string, error) {
	switch typeID {
	case catalog.TypeParagraph:
		return element("p", b.Styles, escape(contentString(b, "text"))), nil
	case catalog.TypeHeading:
		level := contentInt(b, "level", 2)
		if level < 1 || level > 6 {
			level = 2
		}
		return element(fmt.Sprintf("h%d", level), b.Styles, escape(contentString(b, "text"))), nil
	case catalog.TypeImage:
		return r.renderImage(b), nil
	case catalog.TypeButton:
		return fmt.Sprintf(`<a class="builder-button" href="%s"%s>%s</a>`,
			escape(contentString(b, "url")), styleAttr(b.Styles), escape(contentString(b, "text"))), nil
	case catalog.TypeColumns:
		return r.renderColumns(b)
	case catalog.TypeGroup:
		return element("div", b.Styles, inner), nil
	case catalog.TypeTable:
		return r.renderTable(b), nil
	case catalog.TypeMarkdown:
		var buf bytes.Buffer
		if err := r.markdown.Convert([]byte(contentString(b, "markdown")), &buf); err != nil {
			return "", fmt.Errorf("render markdown block %s: %w", b.ID, err)
		}
		return element("div", b.Styles, buf.String()), nil
	case catalog.TypeList:
		return r.renderList(b), nil
	case catalog.TypeQuote:
		cite := ""
		if v := contentString(b, "cite"); v != "" {
			cite = "<cite>" + escape(v) + "</cite>"
		}
		return element("blockquote", b.Styles, escape(contentString(b, "text"))+cite), nil
	case catalog.TypeCode:
		lang := strings.TrimSpace(contentString(b, "language"))
		class := ""
		if lang != "" {
			class = fmt.Sprintf(` class="language-%s"`, escape(lang))
		}
		return fmt.Sprintf("<pre%s><code%s>%s</code></pre>", styleAttr(b.Styles), class, escape(contentString(b, "code"))), nil
	case catalog.TypeHTML:
		// Custom HTML blocks are authored by trusted editors; emitted verbatim.
		return contentString(b, "html"), nil
	case catalog.TypeDivider:
		return "<hr" + styleAttr(b.Styles) + "/>", nil
	case catalog.TypeSpacer:
		height := contentString(b, "height")
		if height == "" {
			height = "24px"
		}
		return fmt.Sprintf(`<div class="builder-spacer" style="height:%s"></div>`, escape(height)), nil
	case catalog.TypeAudio:
		return fmt.Sprintf(`<audio controls src="%s"%s></audio>`, escape(contentString(b, "url")), styleAttr(b.Styles)), nil
	case catalog.TypeVideo:
		return fmt.Sprintf(`<video controls src="%s"%s></video>`, escape(contentString(b, "url")), styleAttr(b.Styles)), nil
	case catalog.TypeFile:
		name := contentString(b, "name")
		if name == "" {
			name = contentString(b, "url")
		}
		return fmt.Sprintf(`<a class="builder-file" href="%s" download>%s</a>`, escape(contentString(b, "url")), escape(name)), nil
	default:
		r.logger.Warn("render.block.unhandled_type", "type", typeID, "block_id", b.ID)
		return inner, nil
	}
}

func (r *Renderer) renderColumns(b *blocks.Block) (string, error) {
	var sb strings.Builder
	sb.WriteString(`<div class="builder-columns"` + styleAttr(b.Styles) + ">")
	for _, col := range b.Columns {
		if col == nil {
			continue
		}
		width := col.Width
		if width == "" {
			width = "auto"
		}
		sb.WriteString(fmt.Sprintf(`<div class="builder-column" style="flex-basis:%s">`, escape(width)))
		for _, child := range col.Blocks {
			html, err := r.RenderBlock(child)
			if err != nil {
				return "", err
			}
			sb.WriteString(html)
		}
		sb.WriteString("</div>")
	}
	sb.WriteString("</div>")
	return sb.String(), nil
}

func (r *Renderer) renderImage(b *blocks.Block) string {
	img := fmt.Sprintf(`<img src="%s" alt="%s"%s/>`,
		escape(contentString(b, "url")), escape(contentString(b, "alt")), styleAttr(b.Styles))
	caption := contentString(b, "caption")
	if caption == "" {
		return img
	}
	return "<figure>" + img + "<figcaption>" + escape(caption) + "</figcaption></figure>"
}

func (r *Renderer) renderTable(b *blocks.Block) string {
	var sb strings.Builder
	sb.WriteString("<table" + styleAttr(b.Styles) + ">")
	if rows, ok := b.Content["rows"].([]any); ok {
		for _, rawRow := range rows {
			cells, ok := rawRow.([]any)
			if !ok {
				continue
			}
			sb.WriteString("<tr>")
			for _, cell := range cells {
				sb.WriteString("<td>" + escape(fmt.Sprint(cell)) + "</td>")
			}
			sb.WriteString("</tr>")
		}
	}
	sb.WriteString("</table>")
	return sb.String()
}

func (r *Renderer) renderList(b *blocks.Block) string {
	tag := "ul"
	if ordered, ok := b.Content["ordered"].(bool); ok && ordered {
		tag = "ol"
	}
	var sb strings.Builder
	sb.WriteString("<" + tag + styleAttr(b.Styles) + ">")
	if items, ok := b.Content["items"].([]any); ok {
		for _, item := range items {
			sb.WriteString("<li>" + escape(fmt.Sprint(item)) + "</li>")
		}
	}
	sb.WriteString("</" + tag + ">")
	return sb.String()
}
