package catalog

// Canonical ids for the builtin block types.
const (
	TypeParagraph = "core/paragraph"
	TypeHeading   = "core/heading"
	TypeImage     = "core/image"
	TypeButton    = "core/button"
	TypeColumns   = "core/columns"
	TypeGroup     = "core/group"
	TypeTable     = "core/table"
	TypeMarkdown  = "core/markdown"
	TypeList      = "core/list"
	TypeQuote     = "core/quote"
	TypeCode      = "core/code"
	TypeHTML      = "core/html"
	TypeDivider   = "core/divider"
	TypeSpacer    = "core/spacer"
	TypeAudio     = "core/audio"
	TypeVideo     = "core/video"
	TypeFile      = "core/file"
)

// Default returns a registry seeded with the builtin block types and the
// legacy unprefixed aliases older documents still carry.
func Default() *Registry {
	r := NewRegistry()
	for _, def := range builtinDefinitions() {
		// Builtins are constructed in-package; registration cannot collide.
		_ = r.Register(def)
	}
	for alias, canonical := range legacyAliases() {
		_ = r.RegisterAlias(alias, canonical)
	}
	return r
}

func legacyAliases() map[string]string {
	return map[string]string{
		"paragraph": TypeParagraph,
		"heading":   TypeHeading,
		"image":     TypeImage,
		"button":    TypeButton,
		"columns":   TypeColumns,
		"group":     TypeGroup,
		"table":     TypeTable,
		"markdown":  TypeMarkdown,
		"list":      TypeList,
		"quote":     TypeQuote,
		"code":      TypeCode,
		"html":      TypeHTML,
		"divider":   TypeDivider,
		"spacer":    TypeSpacer,
		"audio":     TypeAudio,
		"video":     TypeVideo,
		"file":      TypeFile,
	}
}

func builtinDefinitions() []*Definition {
	return []*Definition{
		{
			Type:           TypeParagraph,
			Name:           "Paragraph",
			Category:       "text",
			DefaultContent: map[string]any{"text": ""},
			Schema: contentSchema(map[string]any{
				"text": map[string]any{"type": "string"},
			}),
		},
		{
			Type:           TypeHeading,
			Name:           "Heading",
			Category:       "text",
			DefaultContent: map[string]any{"text": "", "level": float64(2)},
			Schema: contentSchema(map[string]any{
				"text":  map[string]any{"type": "string"},
				"level": map[string]any{"type": "integer", "minimum": float64(1), "maximum": float64(6)},
			}),
		},
		{
			Type:           TypeImage,
			Name:           "Image",
			Category:       "media",
			DefaultContent: map[string]any{"url": "", "alt": ""},
			Schema: contentSchema(map[string]any{
				"url":     map[string]any{"type": "string"},
				"alt":     map[string]any{"type": "string"},
				"caption": map[string]any{"type": "string"},
			}),
		},
		{
			Type:           TypeButton,
			Name:           "Button",
			Category:       "interactive",
			DefaultContent: map[string]any{"text": "Click me", "url": "#"},
			Schema: contentSchema(map[string]any{
				"text": map[string]any{"type": "string"},
				"url":  map[string]any{"type": "string"},
			}),
		},
		{
			Type:     TypeColumns,
			Name:     "Columns",
			Category: "layout",
			Schema:   contentSchema(map[string]any{}),
		},
		{
			Type:     TypeGroup,
			Name:     "Group",
			Category: "layout",
			Schema:   contentSchema(map[string]any{}),
		},
		{
			Type:           TypeTable,
			Name:           "Table",
			Category:       "text",
			DefaultContent: map[string]any{"rows": []any{}},
			Schema: contentSchema(map[string]any{
				"rows": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
			}),
		},
		{
			Type:           TypeMarkdown,
			Name:           "Markdown",
			Category:       "text",
			DefaultContent: map[string]any{"markdown": ""},
			Schema: contentSchema(map[string]any{
				"markdown": map[string]any{"type": "string"},
			}),
		},
		{
			Type:           TypeList,
			Name:           "List",
			Category:       "text",
			DefaultContent: map[string]any{"items": []any{}, "ordered": false},
			Schema: contentSchema(map[string]any{
				"items":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"ordered": map[string]any{"type": "boolean"},
			}),
		},
		{
			Type:           TypeQuote,
			Name:           "Quote",
			Category:       "text",
			DefaultContent: map[string]any{"text": ""},
			Schema: contentSchema(map[string]any{
				"text": map[string]any{"type": "string"},
				"cite": map[string]any{"type": "string"},
			}),
		},
		{
			Type:           TypeCode,
			Name:           "Code",
			Category:       "text",
			DefaultContent: map[string]any{"code": "", "language": ""},
			Schema: contentSchema(map[string]any{
				"code":     map[string]any{"type": "string"},
				"language": map[string]any{"type": "string"},
			}),
		},
		{
			Type:           TypeHTML,
			Name:           "Custom HTML",
			Category:       "text",
			DefaultContent: map[string]any{"html": ""},
			Schema: contentSchema(map[string]any{
				"html": map[string]any{"type": "string"},
			}),
		},
		{
			Type:     TypeDivider,
			Name:     "Divider",
			Category: "layout",
			Schema:   contentSchema(map[string]any{}),
		},
		{
			Type:           TypeSpacer,
			Name:           "Spacer",
			Category:       "layout",
			DefaultContent: map[string]any{"height": "24px"},
			Schema: contentSchema(map[string]any{
				"height": map[string]any{"type": "string"},
			}),
		},
		{
			Type:           TypeAudio,
			Name:           "Audio",
			Category:       "media",
			DefaultContent: map[string]any{"url": ""},
			Schema: contentSchema(map[string]any{
				"url":     map[string]any{"type": "string"},
				"caption": map[string]any{"type": "string"},
			}),
		},
		{
			Type:           TypeVideo,
			Name:           "Video",
			Category:       "media",
			DefaultContent: map[string]any{"url": ""},
			Schema: contentSchema(map[string]any{
				"url":     map[string]any{"type": "string"},
				"caption": map[string]any{"type": "string"},
			}),
		},
		{
			Type:           TypeFile,
			Name:           "File",
			Category:       "media",
			DefaultContent: map[string]any{"url": "", "name": ""},
			Schema: contentSchema(map[string]any{
				"url":  map[string]any{"type": "string"},
				"name": map[string]any{"type": "string"},
			}),
		},
	}
}

func contentSchema(properties map[string]any) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": true,
	}
}
