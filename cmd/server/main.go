package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mwhite4/inkpress/internal/api"
	"github.com/mwhite4/inkpress/internal/config"
	"github.com/mwhite4/inkpress/internal/pipeline"
	"github.com/mwhite4/inkpress/internal/publish"
	"github.com/mwhite4/inkpress/internal/render"
	"github.com/mwhite4/inkpress/internal/site"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	renderer := render.New()
	builder := site.NewBuilder(renderer, site.Config{
		ContentDir:    cfg.ContentDir,
		OutputDir:     cfg.OutputDir,
		SiteTitle:     cfg.SiteTitle,
		BaseURL:       cfg.BaseURL,
		IncludeDrafts: cfg.IncludeDrafts,
	}, log, nil)

	var publisher *publish.Client
	if cfg.PublishURL != "" {
		publisher = publish.NewClient(cfg.PublishURL, cfg.PublishAPIKey, cfg.PublishSite)
	}

	orch := pipeline.NewOrchestrator(cfg, builder, publisher, log)
	orch.Start(ctx)

	// Build once at startup so the preview server has something to serve.
	if err := orch.Submit(pipeline.NewJob(pipeline.KindBuild)); err != nil {
		log.Warn("initial build not queued", "error", err)
	}

	srv := api.NewServer(orch, builder, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if publisher != nil {
			publisher.Close()
		}
	}()

	log.Info("starting inkpress", "port", cfg.Port, "content_dir", cfg.ContentDir, "output_dir", cfg.OutputDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
