package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/therealutkarshpriyadarshi/videolib/internal/cache"
	"github.com/therealutkarshpriyadarshi/videolib/internal/config"
	"github.com/therealutkarshpriyadarshi/videolib/internal/events"
	"github.com/therealutkarshpriyadarshi/videolib/internal/logging"
	"github.com/therealutkarshpriyadarshi/videolib/internal/metrics"
	"github.com/therealutkarshpriyadarshi/videolib/internal/middleware"
	"github.com/therealutkarshpriyadarshi/videolib/internal/store"
	"github.com/therealutkarshpriyadarshi/videolib/internal/tracing"
	"github.com/therealutkarshpriyadarshi/videolib/internal/video"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterMaxIdle         = 10 * time.Minute
)

func main() {
	// Load configuration; without CONFIG_PATH only defaults and env apply
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	gin.SetMode(cfg.Server.Mode)

	// Initialize tracing
	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRate)
		if err != nil {
			logger.Fatalf("Failed to initialize tracer: %v", err)
		}
		defer closer.Close()
		logger.Infof("Tracing enabled, reporting to %s", cfg.Tracing.Endpoint)
	}

	// Initialize store
	fileStore := store.NewFileStore(cfg.Store.Path, store.WithLogger(logger))
	logger.Infof("Using collection file %s", fileStore.Path())

	serviceOpts := []video.Option{video.WithLogger(logger)}

	// Initialize event publisher
	if cfg.Events.Enabled {
		publisher, err := events.New(cfg.Events)
		if err != nil {
			logger.ErrorWithErr("Event publishing disabled", err)
		} else {
			defer publisher.Close()
			serviceOpts = append(serviceOpts, video.WithPublisher(publisher))
			logger.Infof("Publishing events to exchange %s", cfg.Events.Exchange)
		}
	}

	api := &API{
		videos:       video.NewService(fileStore, serviceOpts...),
		store:        fileStore,
		logger:       logger,
		mountMetrics: cfg.Metrics.Enabled && cfg.Metrics.Port == 0,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize rate limiting
	if !cfg.RateLimit.Enabled {
		logger.Warn("Rate limiting disabled")
	} else {
		switch cfg.RateLimit.Backend {
		case "redis":
			c, err := cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				logger.Fatalf("Failed to connect to Redis: %v", err)
			}
			defer c.Close()
			api.cache = c
			api.rateLimit = middleware.SharedRateLimit(c, windowLimit(cfg.RateLimit), cfg.RateLimit.Window, logger)
		default:
			rl := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
			go rl.Cleanup(ctx, limiterCleanupInterval, limiterMaxIdle)
			api.rateLimit = middleware.RateLimit(rl)
		}
	}

	// Start dedicated metrics server
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled && cfg.Metrics.Port > 0 {
		metricsServer = metrics.NewServer(cfg.Metrics.Port, logger)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.ErrorWithErr("Metrics server failed", err)
			}
		}()
	}

	router := api.setupRouter()

	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.ErrorWithErr("Metrics server forced to shutdown", err)
		}
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server stopped")
}

// windowLimit converts the per-second rate into a count for one shared window
func windowLimit(cfg config.RateLimitConfig) int64 {
	limit := int64(float64(cfg.RequestsPerSecond) * cfg.Window.Seconds())
	if limit < 1 {
		limit = 1
	}
	return limit
}
