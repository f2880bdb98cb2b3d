package main

import (
	"context"
	"log"

	"github.com/vestuario/commerce-api/internal/infrastructure/config"
	mongodb "github.com/vestuario/commerce-api/internal/infrastructure/db/mongo"
	"github.com/vestuario/commerce-api/internal/infrastructure/seed"
	"github.com/vestuario/commerce-api/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

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

	userRepo := mongodb.NewUserRepository(db)
	productRepo := mongodb.NewProductRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		logg.Fatal().Err(err).Msg("failed to create user indexes")
	}
	if err := productRepo.EnsureIndexes(ctx); err != nil {
		logg.Fatal().Err(err).Msg("failed to create product indexes")
	}

	if err := seed.Run(ctx, userRepo, productRepo, cfg.BcryptCost, logg); err != nil {
		logg.Fatal().Err(err).Msg("seeding failed")
	}

	logg.Info().Msg("seeding complete")
}
