// Package server boots the catalog API: config, database, cache, media
// drivers, queue workers, scheduler, and finally the HTTP listener with
// graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianmacetas/admin-api/app/routes"
	"github.com/brianmacetas/admin-api/app/services"
	"github.com/brianmacetas/admin-api/config"
	"github.com/brianmacetas/admin-api/pkg/cache"
	"github.com/brianmacetas/admin-api/pkg/database"
	"github.com/brianmacetas/admin-api/pkg/logger"
	"github.com/brianmacetas/admin-api/pkg/media"
	"github.com/brianmacetas/admin-api/pkg/metrics"
	"github.com/brianmacetas/admin-api/pkg/middleware"
	"github.com/brianmacetas/admin-api/pkg/queue"
	"github.com/brianmacetas/admin-api/pkg/reqid"
	"github.com/brianmacetas/admin-api/pkg/router"
	"github.com/brianmacetas/admin-api/pkg/schedule"
)

// Start boots every subsystem and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	setupMongoLogging()

	if err := database.Connect(); err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		// The snapshot cache and the redis queue driver stay off.
		logger.Warn("server: redis unavailable, caching disabled", "error", err)
	}

	if err := registerMediaDrivers(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startQueue(ctx)

	api := routes.NewAPI()
	services.RegisterSchedules(api.Promotions())
	schedule.Start(ctx)

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)
	api.Register(r)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "port", config.AppPort(), "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// setupMongoLogging fans log records out to Mongo when LOG_MONGO_URI is set.
func setupMongoLogging() {
	uri := config.LogMongoURI()
	if uri == "" {
		return
	}

	mh, err := logger.NewMongoHandler(uri, config.LogMongoDatabase(), config.LogMongoCollection())
	if err != nil {
		logger.Warn("server: mongo log handler unavailable", "error", err)
		return
	}

	logger.L = slog.New(logger.NewMultiHandler(logger.L.Handler(), mh))
	slog.SetDefault(logger.L)
}

// registerMediaDrivers wires every configured media backend and checks that
// MEDIA_DRIVER resolves to one of them.
func registerMediaDrivers() error {
	media.Register("cloudinary", media.NewCloudinary())

	if config.MediaS3Bucket() != "" {
		s3, err := media.NewS3(context.Background())
		if err != nil {
			return fmt.Errorf("server: s3 driver: %w", err)
		}
		media.Register("s3", s3)
	}

	if _, err := media.Default(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// startQueue picks the queue driver, registers job types, and launches the
// workers that retry failed asset reclaims.
func startQueue(ctx context.Context) {
	if config.QueueDriver() == "redis" && cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseDB(database.DB)
	services.RegisterJobs()
	queue.StartWorkers(ctx, config.QueueWorkers())
}
