// Command api runs the address capture HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zavoia-Booking/admin-dashboard-sub005/internal/capture"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/internal/geocode"
	apphttp "github.com/Zavoia-Booking/admin-dashboard-sub005/internal/http"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/internal/http/router"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/internal/suggest"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/config"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/logger"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()
	val := validator.New()

	cache := buildCache(ctx, cfg, clock, log)
	client := geocode.NewClient(cfg, cache, log)

	captureModule := capture.NewModule(client, cfg, val, log, clock)
	defer captureModule.Stop()

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Modules: []apphttp.Module{
			suggest.NewModule(client),
			captureModule,
		},
	}

	server := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", cfg.GetHTTPAddr())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	log.Info("server stopped")
}

// buildCache prefers a shared Redis cache when REDIS_URL is set, falling back
// to the in-process cache if Redis is unreachable at startup. A cold cache is
// a latency problem, not an availability problem.
func buildCache(ctx context.Context, cfg *config.Config, clock clockwork.Clock, log *logger.Logger) geocode.Cache {
	if cfg.GetRedisURL() == "" {
		return geocode.NewMemoryCache(cfg.GetGeocodeCacheTTL(), clock)
	}

	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Warn("invalid REDIS_URL, using in-process cache", "error", err)
		return geocode.NewMemoryCache(cfg.GetGeocodeCacheTTL(), clock)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, using in-process cache", "error", err)
		return geocode.NewMemoryCache(cfg.GetGeocodeCacheTTL(), clock)
	}

	log.Info("using redis response cache")
	return geocode.NewRedisCache(client, cfg.GetGeocodeCacheTTL(), log)
}
