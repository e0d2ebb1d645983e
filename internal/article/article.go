// Package article loads markdown articles: frontmatter, rendered HTML, and
// the heading outline used for the table of contents.
package article

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/mwhite4/inkpress/internal/outline"
	"github.com/mwhite4/inkpress/internal/render"
)

// Article is one blog post, loaded and rendered.
type Article struct {
	Slug       string
	Title      string
	Date       time.Time
	Tags       []string
	Draft      bool
	HTML       template.HTML
	Excerpt    string
	Outline    *outline.Doc
	SourcePath string
}

// Summary is the metadata subset exposed by the articles API and the index
// page.
type Summary struct {
	Slug  string    `json:"slug"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
	Tags  []string  `json:"tags,omitempty"`
	Draft bool      `json:"draft,omitempty"`
}

// Summary returns the article's metadata subset.
func (a *Article) Summary() Summary {
	return Summary{
		Slug:  a.Slug,
		Title: a.Title,
		Date:  a.Date,
		Tags:  a.Tags,
		Draft: a.Draft,
	}
}

// Load reads and renders the article at path. fallbackDate is used when the
// frontmatter has no date (the builder passes the file mtime).
func Load(r *render.Renderer, path string, fallbackDate time.Time) (*Article, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read article: %w", err)
	}

	htmlBytes, metaData, err := r.RenderArticle(src)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}

	stem := strings.TrimSuffix(strings.TrimSuffix(filepath.Base(path), ".md"), ".markdown")

	a := &Article{
		Slug:       Slugify(stem),
		Date:       fallbackDate,
		HTML:       template.HTML(htmlBytes),
		Outline:    outline.FromMarkdown(src, stem),
		SourcePath: path,
	}
	applyMeta(a, metaData)

	if a.Title == "" {
		a.Title = stem
	}
	if a.Slug == "" {
		a.Slug = "untitled"
	}
	return a, nil
}

func applyMeta(a *Article, metaData map[string]any) {
	if t, ok := metaData["title"].(string); ok && t != "" {
		a.Title = t
	}
	if d, ok := metaData["date"].(string); ok {
		if parsed, err := ParseDate(d); err == nil {
			a.Date = parsed
		}
	}
	if draft, ok := metaData["draft"].(bool); ok {
		a.Draft = draft
	}
	switch tags := metaData["tags"].(type) {
	case []any:
		for _, t := range tags {
			if s, ok := t.(string); ok && s != "" {
				a.Tags = append(a.Tags, s)
			}
		}
	case string:
		for _, s := range strings.Split(tags, ",") {
			if s = strings.TrimSpace(s); s != "" {
				a.Tags = append(a.Tags, s)
			}
		}
	}
}

// ParseDate accepts RFC 3339 or a bare YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9-]`)
	slugCollapse = regexp.MustCompile(`-+`)
)

// Slugify converts a string to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = slugStrip.ReplaceAllString(s, "-")
	s = slugCollapse.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 80 {
		s = strings.Trim(s[:80], "-")
	}
	return s
}
