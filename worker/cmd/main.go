package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	zlog "github.com/rs/zerolog/log"

	"github.com/carhive/interaction-service/internal/application/persist"
	"github.com/carhive/interaction-service/internal/config"
	"github.com/carhive/interaction-service/internal/infrastructure/db/postgres"
	"github.com/carhive/interaction-service/internal/infrastructure/db/sqlite"
	"github.com/carhive/interaction-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/carhive/interaction-service/internal/logger"
)

// The worker is the broker-side consumer: it drains the interaction queue
// and persists events, leaving redelivery and dead-lettering to RabbitMQ.
func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if !cfg.UseBroker() {
		zlog.Fatal().Msg("RABBIT_URL is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	var store persist.EventWriter
	if cfg.UsePostgres() {
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			zlog.Fatal().Err(err).Msg("db open failed")
		}
		pg := postgres.New(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			zlog.Fatal().Err(err).Msg("schema setup failed")
		}
		store = pg
	} else {
		db, err = sqlite.Open(cfg.SQLitePath)
		if err != nil {
			zlog.Fatal().Err(err).Msg("db open failed")
		}
		lite := sqlite.New(db)
		if err := lite.EnsureSchema(ctx); err != nil {
			zlog.Fatal().Err(err).Msg("schema setup failed")
		}
		store = lite
	}
	defer db.Close()

	{
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			zlog.Fatal().Err(err).Msg("db ping failed")
		}
	}

	c, err := rabbitmq.NewConsumer(
		cfg.RabbitURL,
		cfg.RabbitExchange,
		persist.New(store),
		cfg.ConsumerMaxAttempts,
		cfg.ConsumerBackoffBase,
	)
	if err != nil {
		zlog.Fatal().Err(err).Msg("consumer init failed")
	}
	defer c.Close()

	c.Start(ctx)

	<-ctx.Done()
	zlog.Info().Msg("worker shutting down")
}
