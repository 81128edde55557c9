package render

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/goliatone/go-builder/blocks"
)

func escape(value string) string {
	return html.EscapeString(value)
}

func element(tag string, styles map[string]any, inner string) string {
	return "<" + tag + styleAttr(styles) + ">" + inner + "</" + tag + ">"
}

// styleAttr flattens the block's style bag into an inline style attribute.
// Keys are emitted in sorted order so output is deterministic.
func styleAttr(styles map[string]any) string {
	if len(styles) == 0 {
		return ""
	}
	keys := make([]string, 0, len(styles))
	for key := range styles {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		value := strings.TrimSpace(fmt.Sprint(styles[key]))
		if value == "" {
			continue
		}
		parts = append(parts, escape(key)+":"+escape(value))
	}
	if len(parts) == 0 {
		return ""
	}
	return ` style="` + strings.Join(parts, ";") + `"`
}

func contentString(b *blocks.Block, key string) string {
	if b.Content == nil {
		return ""
	}
	if value, ok := b.Content[key].(string); ok {
		return value
	}
	return ""
}

func contentInt(b *blocks.Block, key string, fallback int) int {
	if b.Content == nil {
		return fallback
	}
	switch value := b.Content[key].(type) {
	case int:
		return value
	case float64:
		return int(value)
	default:
		return fallback
	}
}
