package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/geocoder89/pcblog/internal/auth"
	"github.com/geocoder89/pcblog/internal/config"
	"github.com/geocoder89/pcblog/internal/db"
	httpx "github.com/geocoder89/pcblog/internal/http"
	"github.com/geocoder89/pcblog/internal/observability"
	"github.com/geocoder89/pcblog/internal/repo/memory"
	"github.com/geocoder89/pcblog/internal/repo/postgres"
	"github.com/geocoder89/pcblog/internal/security"
	"github.com/geocoder89/pcblog/internal/storage"
)

func main() {
	// Load the config set up
	cfg, err := config.Load()

	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.OTelEnabled, cfg.OTelEndpoint)

	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}

	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(sctx)
	}()

	prom := observability.NewProm()

	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	if err != nil {
		return err
	}

	hasher := security.NewHasher(cfg.BcryptCost)

	var draining atomic.Bool

	deps := httpx.Deps{
		Log:          log,
		Config:       cfg,
		Tokens:       tokens,
		Hasher:       hasher,
		Prom:         prom,
		ShuttingDown: draining.Load,
	}

	// wire up repositories
	switch cfg.Store {
	case config.StoreMemory:
		users := memory.NewUsersRepo()
		deps.Users = users
		deps.Posts = memory.NewPostsRepo(users)

		log.Warn("using in-memory store, data is lost on restart")

	default:
		pool, err := db.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)

		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}

		defer pool.Close()

		if err := db.Migrate(ctx, pool); err != nil {
			return err
		}

		deps.Users = postgres.NewUsersRepo(pool, prom)
		deps.Posts = postgres.NewPostsRepo(pool, prom)
		deps.Ping = pool.Ping
	}

	images, imageDir, err := newImageStore(ctx, cfg)

	if err != nil {
		return err
	}

	deps.Images = storage.NewInstrumented(images, prom.ImageUploadsTotal)
	deps.ImageDir = imageDir

	seedCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = db.EnsureSeedUser(seedCtx, deps.Users, hasher, cfg.SeedUser)
	cancel()

	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	router := httpx.NewRouter(deps)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.Store, "storage", deps.Images.Driver())

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("server shutting down")
	draining.Store(true)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("shutdown complete")

	return nil
}

// newImageStore also returns the directory to serve at /images, empty for remote storage.
func newImageStore(ctx context.Context, cfg config.Config) (storage.ImageStore, string, error) {
	if cfg.StorageDriver == config.StorageS3 {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:        cfg.S3.Bucket,
			Region:        cfg.S3.Region,
			Endpoint:      cfg.S3.Endpoint,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			PublicBaseURL: cfg.S3.PublicBaseURL,
			UsePathStyle:  cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, "", fmt.Errorf("s3 storage: %w", err)
		}
		return s3Store, "", nil
	}

	local, err := storage.NewLocalStore(cfg.UploadDir)

	if err != nil {
		return nil, "", fmt.Errorf("local storage: %w", err)
	}

	return local, local.Dir(), nil
}
