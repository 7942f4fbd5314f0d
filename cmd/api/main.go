// Command api serves the cafe shop HTTP API.
//
// @title                       Cafe Shop API
// @version                     1.0
// @description                 Accounts, role-based access and the menu catalog of the cafe shop.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cafeice/shop-api/internal/api"
	mongorepo "github.com/cafeice/shop-api/internal/infrastructure/db/mongo"
	rediscache "github.com/cafeice/shop-api/internal/infrastructure/db/redis"
	"github.com/cafeice/shop-api/internal/pkg/config"
	"github.com/cafeice/shop-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty || !cfg.IsProduction(),
		Service: "shop-api",
		Env:     cfg.Env,
	})
	if cfg.WeakSecret() {
		log.Warn().Msg("JWT_SECRET is not set; tokens are signed with the built-in default secret")
	}

	client, db, err := mongorepo.Connect(ctx, mongorepo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "shop-api",
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, dcancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer dcancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	if err := mongorepo.EnsureIndexes(ctx,
		mongorepo.NewUserRepository(db),
		mongorepo.NewCategoryRepository(db),
		mongorepo.NewProductRepository(db),
		mongorepo.NewAnnouncementRepository(db),
		mongorepo.NewMemoryRepository(db),
	); err != nil {
		return err
	}

	rdb, err := rediscache.Connect(ctx, rediscache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	e := api.NewRouter(cfg, db, rdb, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer scancel()
	return e.Shutdown(sctx)
}
