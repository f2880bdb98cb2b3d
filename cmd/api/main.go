package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vestuario/commerce-api/internal/api"
	"github.com/vestuario/commerce-api/internal/infrastructure/config"
	mongodb "github.com/vestuario/commerce-api/internal/infrastructure/db/mongo"
	redisdb "github.com/vestuario/commerce-api/internal/infrastructure/db/redis"
	"github.com/vestuario/commerce-api/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to connect mongodb")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := ensureIndexes(ctx, db); err != nil {
		logg.Fatal().Err(err).Msg("failed to create indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer rdb.Close()

	e := api.NewRouter(db, rdb, cfg, logg)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			logg.Info().Err(err).Msg("http server stopped")
		}
	}()

	waitForShutdown(logg)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logg.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewRoleRequestRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongodb.NewProductRepository(db).EnsureIndexes(ctx)
}

func waitForShutdown(logg zerolog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logg.Info().Str("signal", sig.String()).Msg("shutting down")
}
