package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "github.com/ordinalfs/ordinalfs/app/jobs"
	"github.com/ordinalfs/ordinalfs/app/services"
	"github.com/ordinalfs/ordinalfs/config"
	"github.com/ordinalfs/ordinalfs/internal/vfs"
	"github.com/ordinalfs/ordinalfs/pkg/cache"
	"github.com/ordinalfs/ordinalfs/pkg/collection"
	"github.com/ordinalfs/ordinalfs/pkg/database"
	"github.com/ordinalfs/ordinalfs/pkg/event"
	"github.com/ordinalfs/ordinalfs/pkg/logger"
	"github.com/ordinalfs/ordinalfs/pkg/queue"
	"github.com/ordinalfs/ordinalfs/pkg/schedule"
)

// Start boots the HTTP server, runs until SIGINT/SIGTERM, then shuts
// down gracefully.
//
// handler is the application's root http.Handler (built by pkg/app.buildHandler).
// Passing nil uses a minimal default handler (useful for quick smoke tests).
func Start(handler http.Handler) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Log runtime concurrency level.
	procs := runtime.GOMAXPROCS(0)
	logger.Info("runtime", "GOMAXPROCS", procs, "NumCPU", runtime.NumCPU())

	// Guard: refuse to start in production with the default JWT secret.
	if (config.AppEnv() == "production" || config.AppEnv() == "prod") &&
		config.JWTSecret() == "change-me-in-production" {
		return fmt.Errorf("refusing to start: JWT_SECRET must be changed in production")
	}

	if err := database.Connect(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	// Redis is non-fatal — app degrades gracefully without it.
	if err := cache.Connect(); err != nil {
		logger.Warn("cache: Redis unavailable, continuing without cache", "error", err)
	}

	// Wire DB into queue for persistent failed jobs.
	queue.UseDB(database.DB)

	registerEventListeners()

	// Background lifecycle: tag-rebuild queue workers and the daily
	// consistency sweep run for as long as the process does, cancelled on
	// the same shutdown path as the HTTP server below.
	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()
	queue.StartWorkers(bgCtx, 4)
	registerTagSweep()
	schedule.Start(bgCtx)

	// ── HTTP server ─────────────────────────────────────────────────────────

	if handler == nil {
		handler = http.NotFoundHandler()
	}

	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		// Tuned for high-throughput (100k req/min target).
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 2)

	go func() {
		fmt.Printf("🚀 ordinalfs HTTP  on %s  [env: %s]  [workers: %d]\n",
			addr, config.AppEnv(), runtime.GOMAXPROCS(0))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// ── Wait for shutdown signal ─────────────────────────────────────────────

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		fmt.Printf("\n⚡ Signal %s received — shutting down gracefully…\n", sig)
	}

	// Graceful HTTP shutdown (10 s deadline).
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	httpErr := srv.Shutdown(ctx)

	// Flush MongoDB log handler.
	logger.CloseMongoHandler()

	return httpErr
}

// registerEventListeners wires the process-wide event bus. Nothing in
// internal/vfs or internal/docservice depends on these listeners — they're
// purely observational, so a missing or slow listener can never affect a
// request's outcome.
func registerEventListeners() {
	event.Listen("tags.rebuilt", func(payload interface{}) {
		stats, ok := payload.(event.TagsRebuiltPayload)
		if !ok {
			return
		}
		logger.Info("event: tags rebuilt", "doc_root", stats.DocRootKey, "new_tags", len(stats.NewTags))
	})
}

// registerTagSweep schedules a scanAndUpdateTags pass every 24 hours (the
// first when the scheduler starts, at no fixed time of day) over every
// configured "vfs"-typed doc root, as a defensive rebuild independent of the
// per-request async job (§4.10).
func registerTagSweep() {
	schedule.Daily().Name("vfs-tag-sweep").WithoutOverlapping().Run(func() {
		svc := services.NewVFSService()
		vfsRoots := collection.Filter(config.DocRoots(), func(root config.DocRoot) bool {
			return root.Type == "vfs"
		})
		for _, root := range vfsRoots {
			res, err := svc.For(root.Key).ScanAndUpdateTags(context.Background(), vfs.AdminOwnerID)
			if err != nil {
				logger.Error("schedule: daily tag sweep failed", "doc_root", root.Key, "error", err)
				continue
			}
			event.FireAsync("tags.rebuilt", event.TagsRebuiltPayload{DocRootKey: root.Key, NewTags: res.NewTags})
		}
	})
}
