package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/humantools/internal/api"
	"github.com/dgallion1/humantools/internal/config"
	"github.com/dgallion1/humantools/internal/pipeline"
	"github.com/dgallion1/humantools/internal/slideshow"
	"github.com/dgallion1/humantools/internal/tools"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.APIKey == "" {
		log.Warn("API_KEY is empty, authentication disabled")
	}
	if ff := (&slideshow.FFmpeg{Path: cfg.FFmpegPath}); !ff.Available() {
		log.Warn("ffmpeg not found, mp4 slideshows will fail", "path", cfg.FFmpegPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kit := tools.FromConfig(cfg, log)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(pipeline.Options{
		WorkerCount:  cfg.WorkerCount,
		MaxQueueSize: cfg.MaxQueueSize,
		JobTTL:       cfg.JobTTL,
	}, kit.JobHandlers(), log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, kit, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
	}()

	log.Info("starting humantools", "port", cfg.Port, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
