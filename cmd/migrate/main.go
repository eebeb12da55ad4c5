package main

import (
	"context"
	"flag"
	"fmt"

	"bookmosh/internal/config"
	"bookmosh/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger.Configure(cfg.LogLevel)

	if err := run(context.Background(), cfg.DBDSN, *command, *name, migrationsDir()); err != nil {
		logrus.WithError(err).WithField("command", *command).Fatal("migration failed")
	}
}

func run(ctx context.Context, dsn, command, name, dir string) error {
	if command == "create" {
		if name == "" {
			return fmt.Errorf("name is required for 'create' command")
		}
		if err := goose.Create(nil, dir, name, "sql"); err != nil {
			return err
		}
		logrus.WithField("name", name).Info("migration created")
		return nil
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect %s: %w", config.RedactDSN(dsn), err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		if err := goose.UpContext(ctx, db, dir); err != nil {
			return err
		}
		logrus.Info("migrations applied")
	case "down":
		if err := goose.DownContext(ctx, db, dir); err != nil {
			return err
		}
		logrus.Info("migration rolled back")
	case "status":
		return goose.StatusContext(ctx, db, dir)
	default:
		return fmt.Errorf("unknown command %q, use: up, down, status, create", command)
	}
	return nil
}
