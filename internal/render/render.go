// Package render turns markdown article source into the blog's decorated
// HTML. Parsing is delegated entirely to goldmark; this package only
// customizes how the resulting tree is rendered: every top-level block is
// wrapped in a classed <div>, and fenced code is syntax highlighted.
package render

import (
	"bytes"
	"math/rand/v2"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Renderer converts markdown source to HTML. It is stateless across calls
// and safe for concurrent use; construct one with New and share it.
type Renderer struct {
	md goldmark.Markdown
}

type config struct {
	pool []string
	pick func(n int) int
}

// Option configures a Renderer.
type Option func(*config)

// WithDecorativeClasses replaces the default decorative class pool.
func WithDecorativeClasses(classes ...string) Option {
	return func(c *config) {
		if len(classes) > 0 {
			c.pool = classes
		}
	}
}

// WithPick replaces the random source used to choose a decorative class.
// pick is called with the pool size and must return an index in [0, n).
// Tests use this to make output deterministic.
func WithPick(pick func(n int) int) Option {
	return func(c *config) {
		if pick != nil {
			c.pick = pick
		}
	}
}

// New builds a Renderer. The fixed rendering preferences are always applied:
// class-based highlight CSS with no line numbers, no hard line breaks, raw
// HTML pass-through, and the four smart-quote glyphs.
func New(opts ...Option) *Renderer {
	cfg := config{
		pool: append([]string(nil), DefaultDecorativeClasses...),
		pick: rand.IntN,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			meta.Meta,
			extension.GFM,
			extension.NewTypographer(
				extension.WithTypographicSubstitutions(map[extension.TypographicPunctuation][]byte{
					extension.LeftSingleQuote:  []byte("&lsquo;"),
					extension.RightSingleQuote: []byte("&rsquo;"),
					extension.LeftDoubleQuote:  []byte("&ldquo;"),
					extension.RightDoubleQuote: []byte("&rdquo;"),
				}),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(&blockWrapper{pool: cfg.pool, pick: cfg.pick}, 900),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(&decoratedBlockRenderer{}, 500),
				util.Prioritized(&codeBlockRenderer{}, 200),
			),
		),
	)

	return &Renderer{md: md}
}

// Render converts markdown source to HTML.
func (r *Renderer) Render(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderArticle converts markdown source to HTML and returns the decoded
// YAML frontmatter alongside it. The frontmatter block is consumed during
// parsing and never appears in the output.
func (r *Renderer) RenderArticle(source []byte) ([]byte, map[string]any, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext()
	if err := r.md.Convert(source, &buf, parser.WithContext(ctx)); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), meta.Get(ctx), nil
}
