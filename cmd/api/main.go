package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"yoolivery/internal/app"
	"yoolivery/internal/catalog"
	"yoolivery/internal/config"
	"yoolivery/internal/infra/db"
	"yoolivery/internal/infra/kvstore"
	infraRepo "yoolivery/internal/infra/repository"
	"yoolivery/internal/logging"
	"yoolivery/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	//設定（.envがあれば読む）
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//Repository生成
	repos, closeStore, err := openRepos(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	//Usecase → Handler
	ucs := app.NewUsecases(repos, app.Options{
		JWTSecret:      cfg.JWTSecret,
		AccessTokenTTL: cfg.AccessTokenTTL,
		BcryptCost:     cfg.BcryptCost,
	})
	e := server.New(cfg, log, repos.Users, app.NewHandlers(ucs))

	//Server起動
	return server.Start(ctx, e, cfg.Addr(), log)
}

// STORE_DRIVERでPostgreSQLかSQLiteを選ぶ
func openRepos(ctx context.Context, cfg config.Config, log *slog.Logger) (app.Repos, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		store, err := kvstore.Open(cfg.SQLitePath)
		if err != nil {
			return app.Repos{}, nil, fmt.Errorf("open sqlite: %w", err)
		}
		log.Info("store opened", "driver", cfg.StoreDriver, "path", cfg.SQLitePath)
		products := catalog.NewStaticRepository(catalog.Default())
		return app.NewKVRepos(store, products), func() { _ = store.Close() }, nil

	default:
		gormDB, err := db.Connect(cfg.PostgresDSN())
		if err != nil {
			return app.Repos{}, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := db.Migrate(gormDB); err != nil {
			return app.Repos{}, nil, fmt.Errorf("migrate: %w", err)
		}
		if cfg.SeedCatalog {
			if err := infraRepo.NewProductGormRepository(gormDB).EnsureSeeded(ctx, catalog.Default()); err != nil {
				return app.Repos{}, nil, fmt.Errorf("seed catalog: %w", err)
			}
		}
		log.Info("store opened", "driver", cfg.StoreDriver)

		closeDB := func() {
			if sqlDB, err := gormDB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return app.NewGormRepos(gormDB), closeDB, nil
	}
}
