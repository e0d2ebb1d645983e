package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mwhite4/inkpress/internal/article"
	"github.com/mwhite4/inkpress/internal/config"
	"github.com/mwhite4/inkpress/internal/draftimport"
	"github.com/mwhite4/inkpress/internal/publish"
	"github.com/mwhite4/inkpress/internal/site"
)

// Worker processes a single job.
type Worker struct {
	builder   *site.Builder
	publisher *publish.Client
	log       *slog.Logger
	cfg       config.Config
}

func NewWorker(builder *site.Builder, publisher *publish.Client, log *slog.Logger, cfg config.Config) *Worker {
	return &Worker{
		builder:   builder,
		publisher: publisher,
		log:       log,
		cfg:       cfg,
	}
}

// Process runs a job to completion.
func (w *Worker) Process(ctx context.Context, job *Job) {
	switch job.Kind {
	case KindImport:
		w.processImport(ctx, job)
	default:
		w.processBuild(ctx, job)
	}
}

// processBuild renders the site and optionally pushes the output tree to
// the publish target.
func (w *Worker) processBuild(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "kind", job.Kind)

	job.SetStatus(StatusRendering, "rendering")
	res, err := w.builder.Build(ctx)
	if err != nil {
		log.Error("build failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "rendering")
		return
	}
	for _, e := range res.Errors {
		job.AddError(e)
	}
	// Article pages plus index, feed, and stylesheet.
	job.SetRendered(res.Articles, res.Articles+3, res.BytesWritten)
	hadErrors := res.Failed > 0

	if job.Publish && w.publisher != nil {
		job.SetStatus(StatusPublishing, "publishing")
		published, pubErrors := w.publishTree(ctx, job, log)
		log.Info("publish complete", "published", published, "errors", pubErrors)
		hadErrors = hadErrors || pubErrors > 0
		if published == 0 && pubErrors > 0 {
			job.SetStatus(StatusFailed, "publishing")
			return
		}
	}

	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

// publishTree uploads every file under the output directory with bounded
// concurrency, retrying transient failures per file.
func (w *Worker) publishTree(ctx context.Context, job *Job, log *slog.Logger) (published, failed int) {
	var files []string
	walkErr := filepath.WalkDir(w.cfg.OutputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		job.AddError(fmt.Sprintf("walk output: %s", walkErr))
		return 0, 1
	}

	type pubResult struct {
		path string
		err  error
	}
	results := make(chan pubResult, len(files))
	sem := make(chan struct{}, w.cfg.MaxConcurrentPublish)

	for _, path := range files {
		sem <- struct{}{}
		go func(path string) {
			defer func() { <-sem }()
			rel, err := filepath.Rel(w.cfg.OutputDir, path)
			if err != nil {
				results <- pubResult{path: path, err: err}
				return
			}
			rel = filepath.ToSlash(rel)

			data, err := os.ReadFile(path)
			if err != nil {
				results <- pubResult{path: rel, err: err}
				return
			}

			var lastErr error
			for attempt := range MaxRetries {
				lastErr = w.publisher.PutFile(ctx, rel, data)
				if lastErr == nil || !IsRetryable(lastErr) {
					break
				}
				log.Warn("retryable publish error", "path", rel, "attempt", attempt, "error", lastErr)
				select {
				case <-time.After(Backoff(attempt)):
				case <-ctx.Done():
					results <- pubResult{path: rel, err: ctx.Err()}
					return
				}
			}
			results <- pubResult{path: rel, err: lastErr}
		}(path)
	}

	for range files {
		r := <-results
		if r.err != nil {
			log.Error("publish failed", "path", r.path, "error", r.err)
			job.AddError(fmt.Sprintf("publish %s: %s", r.path, r.err))
			failed++
			continue
		}
		job.IncrPublished()
		published++
	}
	return published, failed
}

// processImport converts an uploaded document to a markdown draft under
// the drafts directory.
func (w *Worker) processImport(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "kind", job.Kind, "filename", job.Filename)

	job.SetStatus(StatusImporting, "importing")
	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "importing")
		return
	}

	imp, err := draftimport.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "importing")
		return
	}
	if p, ok := imp.(*draftimport.PDFImporter); ok {
		p.FallbackPdftotext = w.cfg.PDFFallbackPdftotext
	}

	data := job.FileData()
	job.ContentHash = ContentHashHex(data)

	doc, err := imp.Import(bytes.NewReader(data), job.Filename)
	if err != nil {
		log.Error("import failed", "error", err)
		job.AddError(fmt.Sprintf("import: %s", err))
		job.SetStatus(StatusFailed, "importing")
		return
	}

	job.SetStatus(StatusWriting, "writing")
	draft := draftimport.WriteDraft(doc)

	slug := article.Slugify(doc.Title)
	if slug == "" {
		slug = "draft-" + job.ID
	}

	dir := filepath.Join(w.cfg.ContentDir, "drafts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Error("create drafts dir failed", "error", err)
		job.AddError(fmt.Sprintf("drafts dir: %s", err))
		job.SetStatus(StatusFailed, "writing")
		return
	}

	path := filepath.Join(dir, slug+".md")
	if err := os.WriteFile(path, draft, 0o644); err != nil {
		log.Error("write draft failed", "path", path, "error", err)
		job.AddError(fmt.Sprintf("write draft: %s", err))
		job.SetStatus(StatusFailed, "writing")
		return
	}

	job.SetRendered(0, 1, int64(len(draft)))
	log.Info("draft imported", "path", path, "bytes", len(draft))
	job.SetStatus(StatusCompleted, "done")
}
