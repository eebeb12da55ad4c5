package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookmosh/internal/badge"
	"bookmosh/internal/config"
	"bookmosh/internal/discovery"
	"bookmosh/internal/httpx"
	"bookmosh/internal/library"
	"bookmosh/internal/logger"
	"bookmosh/internal/pit"
	"bookmosh/internal/platform/isbndb"
	"bookmosh/internal/platform/openlibrary"
	"bookmosh/internal/realtime"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger.Configure(cfg.LogLevel)
	if cfg.Auth.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool := mustOpenDB(ctx, cfg.DBDSN)
	defer dbPool.Close()

	ol := openlibrary.NewClient(cfg.Lookup.OpenLibraryURL, cfg.Lookup.UserAgent, cfg.Lookup.RPS, cfg.Lookup.MaxRetries)
	ranker := discovery.NewRanker(newSource(cfg.Lookup, ol), discovery.Options{PageSize: cfg.Search.PageSize})

	hub := realtime.NewHub()
	librarySvc := library.NewService(library.NewPostgresRepo(dbPool, cfg.DBTimeout), ol)
	pitSvc := pit.NewService(pit.NewPostgresRepo(dbPool, cfg.DBTimeout), hub)
	badgeSvc := badge.NewService(badge.NewPostgresRepo(dbPool, cfg.DBTimeout), cfg.Badges.PollInterval)

	router := newRouter(routes{
		discover: discovery.NewHTTPHandler(ranker, librarySvc),
		library:  library.NewHTTPHandler(librarySvc),
		pits:     pit.NewHTTPHandler(pitSvc),
		badges:   badge.NewHTTPHandler(badgeSvc),
		ready:    dbPool.Ping,
	})
	limiter := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	httpServer := &http.Server{
		Addr:        cfg.Addr,
		Handler:     withMiddleware(router, limiter, cfg.CORSOrigins, cfg.Auth.JWTSecret),
		ReadTimeout: 5 * time.Second,
		// no WriteTimeout: event streams stay open for the life of the client
		IdleTimeout: 60 * time.Second,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("graceful shutdown failed")
		}
	}()

	logrus.WithFields(logrus.Fields{
		"addr":     cfg.Addr,
		"provider": cfg.Lookup.Provider,
	}).Info("starting server")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Fatal("server error")
	}
	logrus.Info("server stopped")
}

func newSource(cfg config.LookupConfig, ol *openlibrary.Client) discovery.Source {
	if cfg.Provider == config.ProviderOpenLibrary {
		return discovery.OpenLibrarySource{Client: ol}
	}
	return discovery.ISBNdbSource{Client: isbndb.NewClient(isbndb.Options{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		UserAgent:  cfg.UserAgent,
		RPS:        cfg.RPS,
		MaxRetries: cfg.MaxRetries,
	})}
}

func mustOpenDB(ctx context.Context, dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logrus.WithError(err).Fatal("cannot create db pool")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logrus.WithError(err).WithField("dsn", config.RedactDSN(dsn)).Fatal("cannot ping database")
	}
	logrus.Info("database connection OK")
	return pool
}
