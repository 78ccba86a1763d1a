package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cvmotors/dealership-system/internal/api"
	"github.com/cvmotors/dealership-system/internal/infrastructure/config"
	mongodb "github.com/cvmotors/dealership-system/internal/infrastructure/db/mongo"
	redisdb "github.com/cvmotors/dealership-system/internal/infrastructure/db/redis"
	"github.com/cvmotors/dealership-system/internal/infrastructure/queue"
	"github.com/cvmotors/dealership-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Options{})
		l := logger.Get()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Development(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create mongodb indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	audit := queue.NewAuditDispatcher(cfg.AuditWorkers, mongodb.NewAuditRepository(db), log)
	audit.Start(ctx)

	e := api.NewRouter(db, rdb, api.Options{
		JWTSecret:      cfg.JWTSecret,
		SessionTTL:     cfg.SessionTTL,
		TokenTTL:       cfg.TokenTTL,
		SessionSliding: cfg.SessionSliding,
		BcryptCost:     cfg.BcryptCost,
		Secure:         !cfg.Development(),
		Audit:          audit,
		Logger:         log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
