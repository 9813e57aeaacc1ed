package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	zlog "github.com/rs/zerolog/log"

	"github.com/carhive/interaction-service/internal/application/persist"
	"github.com/carhive/interaction-service/internal/application/tracking"
	"github.com/carhive/interaction-service/internal/config"
	"github.com/carhive/interaction-service/internal/consumer"
	"github.com/carhive/interaction-service/internal/domain"
	"github.com/carhive/interaction-service/internal/infrastructure/caching/redis"
	"github.com/carhive/interaction-service/internal/infrastructure/db/postgres"
	"github.com/carhive/interaction-service/internal/infrastructure/db/sqlite"
	"github.com/carhive/interaction-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/carhive/interaction-service/internal/logger"
	"github.com/carhive/interaction-service/internal/queue"
	"github.com/carhive/interaction-service/internal/transport/http/handlers"
	"github.com/carhive/interaction-service/internal/transport/http/router"
)

type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

// eventStore is what both storage backends provide.
type eventStore interface {
	EnsureSchema(ctx context.Context) error
	persist.EventWriter
	tracking.EventReader
}

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, store, err := openStore(cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("db open failed")
	}
	defer db.Close()

	{
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			zlog.Fatal().Err(err).Msg("db ping failed")
		}
		if err := store.EnsureSchema(pingCtx); err != nil {
			zlog.Fatal().Err(err).Msg("schema setup failed")
		}
	}

	// Publisher selection by configuration presence: broker when RABBIT_URL
	// is set, otherwise the in-memory queue plus the in-process consumer.
	var pub tracking.Publisher
	if cfg.UseBroker() {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			zlog.Fatal().Err(err).Msg("rabbit publisher init failed")
		}
		defer p.Close()
		pub = p
		zlog.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit publisher ready")
	} else {
		mem := queue.NewMemory()
		pub = mem

		runner := consumer.NewRunner(mem, persist.New(store), cfg.ConsumerMaxAttempts, cfg.ConsumerBackoffBase)
		go runner.Run(ctx)
		zlog.Info().Msg("in-memory queue ready")
	}

	svc := tracking.New(store, pub, domain.DefaultCarCatalog(), sysClock{})

	if cfg.RedisURL != "" {
		cache, err := redis.New(cfg.RedisURL)
		if err != nil {
			zlog.Fatal().Err(err).Msg("redis init failed")
		}
		defer cache.Close()
		svc.WithCache(cache)
		zlog.Info().Msg("query cache ready")
	}

	h := handlers.NewEventsHandler(svc)
	z := handlers.NewHealthHandler()

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router.New(h, z, cfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		zlog.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal().Err(err).Msg("server crashed")
		}
	}()

	<-ctx.Done()
	zlog.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("shutdown failed")
	}
}

func openStore(cfg *config.Config) (*sql.DB, eventStore, error) {
	if cfg.UsePostgres() {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db, postgres.New(db), nil
	}
	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	return db, sqlite.New(db), nil
}
