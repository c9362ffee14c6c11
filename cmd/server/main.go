// Command server runs the breach-check HTTP API.
//
// Startup order: load .env (best effort), parse and validate configuration,
// configure logging, set up optional OTel tracing, dial the optional Redis
// cache tier, then wire the cache, token broker, range-query client, worker
// pool, and check service into the Gin router. Shutdown drains in-flight
// HTTP requests first, then the worker pool, then the tracer.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-pwdcheck-backend/internal/cache"
	"github.com/tbourn/go-pwdcheck-backend/internal/config"
	"github.com/tbourn/go-pwdcheck-backend/internal/hibp"
	httpapi "github.com/tbourn/go-pwdcheck-backend/internal/http"
	"github.com/tbourn/go-pwdcheck-backend/internal/observability"
	"github.com/tbourn/go-pwdcheck-backend/internal/services"
	"github.com/tbourn/go-pwdcheck-backend/internal/sysutil"
	"github.com/tbourn/go-pwdcheck-backend/internal/token"
	"github.com/tbourn/go-pwdcheck-backend/internal/worker"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	// Cache tiers: Redis when configured and reachable, always backed by
	// the in-process store so a cache outage never fails a check.
	var primary cache.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		rs := cache.NewRedisStore(rdb)
		pingCtx, cancel := context.WithTimeout(ctx, cfg.Redis.DialTimeout)
		if err := rs.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable at startup, continuing with fallback tier")
		} else {
			log.Info().Str("addr", cfg.Redis.Addr).Msg("redis cache tier connected")
		}
		cancel()
		primary = rs
	} else {
		log.Info().Msg("no REDIS_ADDR configured, using in-process cache only")
	}
	store := cache.NewTieredStore(primary, cache.NewMemoryStore(), log.Logger)

	client := hibp.NewClient(hibp.Options{
		BaseURL:     cfg.HIBP.BaseURL,
		UserAgent:   cfg.HIBP.UserAgent,
		Timeout:     cfg.HIBP.Timeout,
		MaxAttempts: cfg.HIBP.MaxAttempts,
		BackoffBase: cfg.HIBP.BackoffBase,
		BackoffMax:  cfg.HIBP.BackoffMax,
	})

	broker := token.NewBroker(store, cfg.TokenTTL)
	pool := worker.NewPool(cfg.Workers, cfg.WorkerQueue)
	if pool == nil {
		log.Info().Msg("worker pool disabled, lookups run inline")
	} else {
		log.Info().Int("workers", cfg.Workers).Int("queue", cfg.WorkerQueue).Msg("worker pool started")
	}

	svc := services.NewCheckService(store, client, broker, pool, log.Logger)
	svc.CacheTTL = cfg.CacheTTL
	svc.PendingTTL = cfg.PendingTTL
	svc.MaxPasswordRunes = cfg.MaxPasswordRunes

	engine := gin.New()
	httpapi.RegisterRoutes(engine, svc, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := pool.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("worker pool shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	log.Info().Msg("bye")
}
