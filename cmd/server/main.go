package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fleetms/fleet-auth/internal/api"
	"github.com/fleetms/fleet-auth/internal/core/hash"
	"github.com/fleetms/fleet-auth/internal/core/service"
	"github.com/fleetms/fleet-auth/internal/core/token"
	"github.com/fleetms/fleet-auth/internal/infrastructure/config"
	mongodb "github.com/fleetms/fleet-auth/internal/infrastructure/db/mongo"
	redisdb "github.com/fleetms/fleet-auth/internal/infrastructure/db/redis"
	"github.com/fleetms/fleet-auth/pkg/logger"
)

const startupTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}

	accounts := mongodb.NewAccountRepository(db)
	roles := mongodb.NewRoleRepository(db)

	// Indexes and the role catalogue must exist before the first
	// registration; a missing catalogue is a deployment fault.
	if err := accounts.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes failed")
	}
	if err := roles.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("role catalogue seed failed")
	}

	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	hasher := hash.NewBcryptHasher(cfg.BcryptCost)
	authService := service.NewAuthService(accounts, roles, hasher, codec, cfg.DefaultRole, log)
	cache := redisdb.NewPrincipalCache(rdb, cfg.Redis.CacheTTL)

	e := api.NewRouter(api.Deps{
		AuthService: authService,
		Accounts:    accounts,
		Codec:       codec,
		Cache:       cache,
		Mongo:       db,
		Redis:       rdb,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("fleet-auth listening")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
}
