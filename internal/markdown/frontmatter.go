package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
)

// FrontMatter carries the document metadata parsed from a markdown source.
// Unrecognized keys are preserved in Custom.
type FrontMatter struct {
	Title  string
	Slug   string
	Status string
	Tags   []string
	Author string
	Date   time.Time
	Draft  bool
	Custom map[string]any
}

// ParseFrontMatter extracts metadata and the markdown body from the provided
// source bytes. Sources without a frontmatter fence parse cleanly with empty
// metadata.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

type frontMatterEnvelope struct {
	Title  string         `yaml:"title"`
	Slug   string         `yaml:"slug"`
	Status string         `yaml:"status"`
	Tags   []string       `yaml:"tags"`
	Author string         `yaml:"author"`
	Date   time.Time      `yaml:"date"`
	Draft  bool           `yaml:"draft"`
	Custom map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) FrontMatter {
	custom := make(map[string]any, len(env.Custom))
	for key, value := range env.Custom {
		custom[key] = value
	}

	return FrontMatter{
		Title:  env.Title,
		Slug:   env.Slug,
		Status: env.Status,
		Tags:   append([]string(nil), env.Tags...),
		Author: env.Author,
		Date:   env.Date,
		Draft:  env.Draft,
		Custom: custom,
	}
}
