// Package site builds the static blog: it scans the content directory,
// renders each article through the markdown renderer, and writes article
// pages, the index, the Atom feed, and the stylesheet to the output
// directory.
package site

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mwhite4/inkpress/internal/article"
	"github.com/mwhite4/inkpress/internal/highlight"
	"github.com/mwhite4/inkpress/internal/outline"
	"github.com/mwhite4/inkpress/internal/render"
)

// Config controls a Builder.
type Config struct {
	ContentDir    string
	OutputDir     string
	SiteTitle     string
	BaseURL       string
	IncludeDrafts bool
	ExcerptWords  int
	HighlightCSS  string // chroma style name for the generated stylesheet
}

// Builder turns the content directory into a static site. One Builder is
// shared between the pipeline workers and the API; the summary of the last
// completed build is kept for the articles endpoint.
type Builder struct {
	renderer *render.Renderer
	cfg      Config
	log      *slog.Logger
	stats    *RenderStats

	mu        sync.Mutex
	summaries []article.Summary
}

func NewBuilder(renderer *render.Renderer, cfg Config, log *slog.Logger, stats *RenderStats) *Builder {
	if cfg.ExcerptWords <= 0 {
		cfg.ExcerptWords = 50
	}
	if cfg.SiteTitle == "" {
		cfg.SiteTitle = "inkpress"
	}
	if cfg.HighlightCSS == "" {
		cfg.HighlightCSS = "github"
	}
	if stats == nil {
		stats = NewRenderStats(time.Hour)
	}
	return &Builder{
		renderer: renderer,
		cfg:      cfg,
		log:      log,
		stats:    stats,
	}
}

// Result reports the outcome of one build.
type Result struct {
	Articles     int      `json:"articles"`
	Skipped      int      `json:"skipped"`
	Failed       int      `json:"failed"`
	BytesWritten int64    `json:"bytes_written"`
	DurationMs   int64    `json:"duration_ms"`
	Errors       []string `json:"errors,omitempty"`
}

// Stats returns the render latency collector.
func (b *Builder) Stats() *RenderStats {
	return b.stats
}

// Summaries returns article metadata from the last completed build,
// newest first.
func (b *Builder) Summaries() []article.Summary {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]article.Summary, len(b.summaries))
	copy(out, b.summaries)
	return out
}

// Build renders every article and writes the site. A failed article fails
// that page only; the build completes and reports it in Result.Errors. The
// returned error is reserved for failures that sink the whole build, such as
// an unwritable output directory.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{}

	paths, err := b.contentPaths()
	if err != nil {
		return nil, err
	}

	var articles []*article.Article
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		a, err := b.loadArticle(path)
		if err != nil {
			b.log.Error("article failed", "path", path, "error", err)
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %s", filepath.Base(path), err))
			continue
		}
		if a.Draft && !b.cfg.IncludeDrafts {
			res.Skipped++
			continue
		}
		a.Excerpt = Excerpt([]byte(a.HTML), b.cfg.ExcerptWords)
		articles = append(articles, a)
	}

	sort.Slice(articles, func(i, j int) bool {
		if !articles[i].Date.Equal(articles[j].Date) {
			return articles[i].Date.After(articles[j].Date)
		}
		return articles[i].Title < articles[j].Title
	})

	if err := os.MkdirAll(b.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	for _, a := range articles {
		n, err := b.writeArticlePage(a)
		if err != nil {
			b.log.Error("write page failed", "slug", a.Slug, "error", err)
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %s", a.Slug, err))
			continue
		}
		res.BytesWritten += n
		res.Articles++
	}

	n, err := b.writeIndex(articles)
	if err != nil {
		return nil, fmt.Errorf("write index: %w", err)
	}
	res.BytesWritten += n

	n, err = b.writeFeedFile(articles)
	if err != nil {
		return nil, fmt.Errorf("write feed: %w", err)
	}
	res.BytesWritten += n

	n, err = b.writeStylesheet()
	if err != nil {
		return nil, fmt.Errorf("write stylesheet: %w", err)
	}
	res.BytesWritten += n

	summaries := make([]article.Summary, 0, len(articles))
	for _, a := range articles {
		summaries = append(summaries, a.Summary())
	}
	b.mu.Lock()
	b.summaries = summaries
	b.mu.Unlock()

	res.DurationMs = time.Since(start).Milliseconds()
	b.log.Info("build complete",
		"articles", res.Articles,
		"skipped", res.Skipped,
		"failed", res.Failed,
		"bytes", res.BytesWritten,
		"duration_ms", res.DurationMs,
	)
	return res, nil
}

// contentPaths lists markdown sources: the content dir itself plus the
// drafts subdirectory.
func (b *Builder) contentPaths() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(b.cfg.ContentDir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("scan content dir: %w", err)
	}
	drafts, err := filepath.Glob(filepath.Join(b.cfg.ContentDir, "drafts", "*.md"))
	if err != nil {
		return nil, fmt.Errorf("scan drafts dir: %w", err)
	}
	paths = append(paths, drafts...)
	sort.Strings(paths)
	return paths, nil
}

func (b *Builder) loadArticle(path string) (*article.Article, error) {
	fallback := time.Now()
	if info, err := os.Stat(path); err == nil {
		fallback = info.ModTime()
	}

	renderStart := time.Now()
	a, err := article.Load(b.renderer, path, fallback)
	b.stats.Record(time.Since(renderStart).Milliseconds())
	if err != nil {
		return nil, err
	}

	// Drafts from the importer live under drafts/ and are drafts even
	// without the frontmatter flag.
	if strings.HasPrefix(filepath.Base(filepath.Dir(path)), "drafts") {
		a.Draft = true
	}
	return a, nil
}

type articlePage struct {
	SiteTitle string
	Article   *article.Article
	TOC       []outline.HeadingEntry
}

func (b *Builder) writeArticlePage(a *article.Article) (int64, error) {
	var toc []outline.HeadingEntry
	if entries := a.Outline.Headings(); len(entries) > 2 {
		toc = entries
	}

	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "article.tmpl", articlePage{
		SiteTitle: b.cfg.SiteTitle,
		Article:   a,
		TOC:       toc,
	})
	if err != nil {
		return 0, fmt.Errorf("execute template: %w", err)
	}

	dir := filepath.Join(b.cfg.OutputDir, a.Slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create page dir: %w", err)
	}
	return writeFile(filepath.Join(dir, "index.html"), buf.Bytes())
}

type indexPage struct {
	SiteTitle string
	Articles  []*article.Article
}

func (b *Builder) writeIndex(articles []*article.Article) (int64, error) {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "index.tmpl", indexPage{
		SiteTitle: b.cfg.SiteTitle,
		Articles:  articles,
	})
	if err != nil {
		return 0, fmt.Errorf("execute template: %w", err)
	}
	return writeFile(filepath.Join(b.cfg.OutputDir, "index.html"), buf.Bytes())
}

func (b *Builder) writeFeedFile(articles []*article.Article) (int64, error) {
	var buf bytes.Buffer
	if err := writeFeed(&buf, b.cfg, articles); err != nil {
		return 0, err
	}
	return writeFile(filepath.Join(b.cfg.OutputDir, "feed.xml"), buf.Bytes())
}

func (b *Builder) writeStylesheet() (int64, error) {
	var buf bytes.Buffer
	buf.WriteString(baseCSS)
	if err := highlight.WriteCSS(&buf, b.cfg.HighlightCSS); err != nil {
		return 0, fmt.Errorf("highlight css: %w", err)
	}

	dir := filepath.Join(b.cfg.OutputDir, "assets")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create assets dir: %w", err)
	}
	return writeFile(filepath.Join(dir, "site.css"), buf.Bytes())
}

func writeFile(path string, data []byte) (int64, error) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}
