package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"bookmosh/internal/cli"
	"bookmosh/internal/config"
	"bookmosh/internal/discovery"
	"bookmosh/internal/logger"
	"bookmosh/internal/platform/isbndb"
	"bookmosh/internal/platform/openlibrary"
	"bookmosh/internal/session"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Error("invalid configuration")
		os.Exit(cli.ExitCommandError)
	}
	logger.Configure(cfg.LogLevel)
	// keep log lines off stdout so --format json stays parseable
	logrus.SetOutput(os.Stderr)

	if dir := filepath.Dir(cfg.SessionDB); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			logrus.WithError(err).Error("cannot create session directory")
			os.Exit(cli.ExitFailure)
		}
	}
	sessions, err := session.OpenSQLite(cfg.SessionDB)
	if err != nil {
		logrus.WithError(err).WithField("path", cfg.SessionDB).Error("cannot open session store")
		os.Exit(cli.ExitFailure)
	}
	defer sessions.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ranker := discovery.NewRanker(newSource(cfg.Lookup), discovery.Options{PageSize: cfg.Search.PageSize})
	root := cli.NewRootCommand(&cli.App{
		Searcher:    ranker,
		Sessions:    sessions,
		Interactive: term.IsTerminal(int(os.Stdout.Fd())),
		Debounce:    cfg.Search.Debounce,
	})

	code := cli.GetExitCode(root.ExecuteContext(ctx))
	if code != cli.ExitSuccess {
		stop()
		sessions.Close()
		os.Exit(code)
	}
}

func newSource(cfg config.LookupConfig) discovery.Source {
	if cfg.Provider == config.ProviderOpenLibrary {
		return discovery.OpenLibrarySource{
			Client: openlibrary.NewClient(cfg.OpenLibraryURL, cfg.UserAgent, cfg.RPS, cfg.MaxRetries),
		}
	}
	return discovery.ISBNdbSource{Client: isbndb.NewClient(isbndb.Options{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		UserAgent:  cfg.UserAgent,
		RPS:        cfg.RPS,
		MaxRetries: cfg.MaxRetries,
	})}
}
