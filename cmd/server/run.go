package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tawargy/sqliteserver/internal/api"
	"github.com/tawargy/sqliteserver/internal/core/ports"
	"github.com/tawargy/sqliteserver/internal/core/service"
	"github.com/tawargy/sqliteserver/internal/infrastructure/db/redis"
	"github.com/tawargy/sqliteserver/internal/infrastructure/db/sqldb"
	"github.com/tawargy/sqliteserver/internal/infrastructure/executor"
	"github.com/tawargy/sqliteserver/internal/infrastructure/queue"
	"github.com/tawargy/sqliteserver/internal/pkg/config"
)

// run wires the store, worker pool, executor, cache and router and serves
// until ctx is cancelled. Shutdown order: HTTP server, worker pool, store.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := sqldb.Open(ctx, sqldb.Config{
		Driver:       cfg.DB.Driver,
		DSN:          cfg.DB.URL,
		MaxOpenConns: cfg.DB.MaxOpenConns,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()
	log.Info().Str("driver", store.Driver()).Msg("store ready")

	overflow, err := queue.ParseOverflowPolicy(cfg.Worker.Overflow)
	if err != nil {
		return err
	}
	pool := queue.NewPool(queue.Options{
		Workers:   cfg.Worker.Count,
		QueueSize: cfg.Worker.QueueSize,
		Overflow:  overflow,
	}, log)
	pool.Start()

	exec := executor.New(store, pool, executor.Options{Timeout: cfg.DB.QueryTimeout}, log)

	deps := api.Dependencies{
		Registration: service.NewRegistrationService(exec, log),
		DB:           store,
		Pool:         pool,
		Registry:     prometheus.NewRegistry(),
		Log:          log,
	}
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var cache ports.ResourceCache
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() { _ = rdb.Close() }()

		rc := redis.NewResourceCache(rdb, cfg.Redis.CacheTTL)
		cache = rc
		deps.Cache = rc
		log.Info().Str("addr", cfg.Redis.Addr).Msg("resource cache enabled")
	}
	deps.Resources = service.NewResourceService(exec, cache, log)

	router, err := api.NewRouter(deps)
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(sctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		if err := pool.Shutdown(sctx); err != nil {
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
