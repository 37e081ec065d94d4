package main

import (
	"context"
	"database/sql"
	"net/http"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/cockroachdb/errors"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/oklog/run"
	"github.com/rs/zerolog/log"

	server "lite_pages/internal/adapters/http_server"
	"lite_pages/internal/adapters/observability"
	redisad "lite_pages/internal/adapters/redis"
	"lite_pages/internal/app"
	"lite_pages/internal/render"
	"lite_pages/internal/shared"
	mysqlrepo "lite_pages/internal/storage/mysql"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real env vars win
	_ = godotenv.Load()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// cache is optional: pages still render from the store when Redis is down
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	pingCtx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
	if err := cache.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, content reads go to the store until it recovers")
	}
	cancel()

	// deps
	repo := mysqlrepo.New(db)
	clock := shared.RealClock{}
	registry := app.NewRegistry(repo)
	content := app.NewAggregator(repo, cache, cfg.CacheTTL, clock, cfg.Location())
	pages := app.NewPageService(registry, content, app.NewOfferResolver(repo, clock))

	renderer, err := render.New()
	if err != nil {
		log.Fatal().Err(err).Msg("templates")
	}

	// http
	srv := server.New(server.Options{
		RequestTimeout: cfg.RequestTimeout,
		CORSOrigins:    cfg.CORSAllowOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		TrustProxy:     cfg.TrustProxy,
	})
	reg := observability.InitRegistry()
	if cfg.MetricsAddr == "" {
		srv.Mount("/metrics", observability.MetricsHandler(reg))
	}
	srv.MountHandlers(&server.Handlers{
		Pages:      pages,
		Registry:   registry,
		Content:    content,
		Renderer:   renderer,
		PublicHost: cfg.PublicHost,
		BookingURL: cfg.BookingURL,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var g run.Group
	g.Add(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	}, func(error) {
		shutdown(httpSrv)
	})

	if cfg.MetricsAddr != "" {
		metricsSrv := observability.NewMetricsServer(cfg.MetricsAddr, reg)
		g.Add(func() error {
			log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics listening")
			if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "metrics server")
			}
			return nil
		}, func(error) {
			shutdown(metricsSrv)
		})
	}

	g.Add(run.SignalHandler(context.Background(), syscall.SIGINT, syscall.SIGTERM))

	if err := g.Run(); err != nil {
		var sig run.SignalError
		if !errors.As(err, &sig) {
			log.Error().Err(err).Msg("exiting")
		} else {
			log.Info().Str("signal", sig.Signal.String()).Msg("shutting down")
		}
	}

	// let background view increments land before the pool closes
	pages.Wait()
	log.Info().Msg("bye")
}

func shutdown(s *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Str("addr", s.Addr).Msg("shutdown")
	}
}
