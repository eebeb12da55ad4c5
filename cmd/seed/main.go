package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"time"

	"bookmosh/internal/config"
	"bookmosh/internal/library"
	"bookmosh/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type seedBook struct {
	Title  string
	Author string
	ISBN   string
	Year   int
}

var books = []seedBook{
	{"Dune", "Frank Herbert", "9780441013593", 1965},
	{"The Left Hand of Darkness", "Ursula K. Le Guin", "9780441478125", 1969},
	{"Piranesi", "Susanna Clarke", "9781635575637", 2020},
	{"The Name of the Rose", "Umberto Eco", "9780156001311", 1980},
	{"Beloved", "Toni Morrison", "9781400033416", 1987},
	{"Never Let Me Go", "Kazuo Ishiguro", "9781400078776", 2005},
	{"Ender's Game", "Orson Scott Card", "9780812550702", 1985},
	{"A Wizard of Earthsea", "Ursula K. Le Guin", "9780547773742", 1968},
}

// key matches discovery.Candidate.Key for the same book.
func (b seedBook) key() string {
	var isbn *string
	if b.ISBN != "" {
		isbn = &b.ISBN
	}
	return library.BookKey(b.Title, b.Author, isbn)
}

var lines = []string{
	"Just finished part one, no spoilers please",
	"The appendix is worth reading",
	"Who else thinks the ending was rushed?",
	"Chapter 12 wrecked me",
	"Halfway through and hooked",
}

func main() {
	users := flag.Int("users", 5, "number of demo users")
	messages := flag.Int("messages", 20, "messages per pit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger.Configure(cfg.LogLevel)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer pool.Close()

	if err := seed(ctx, pool, *users, *messages); err != nil {
		logrus.WithError(err).Fatal("seed failed")
	}
}

func userID(i int) string {
	return fmt.Sprintf("demo-user-%02d", i+1)
}

var libraryColumns = []string{"user_id", "book_key", "title", "author", "isbn", "publication_year", "status", "created_at", "updated_at"}

// libraryRows shelves roughly half of the books for every user. intN picks
// which ones and with what status.
func libraryRows(users int, now time.Time, intN func(int) int) [][]any {
	statuses := []string{library.StatusWantToRead, library.StatusReading, library.StatusRead}
	var rows [][]any
	for u := range users {
		for _, b := range books {
			if intN(2) == 0 {
				continue
			}
			var isbn *string
			if b.ISBN != "" {
				isbn = &b.ISBN
			}
			rows = append(rows, []any{userID(u), b.key(), b.Title, b.Author, isbn, b.Year, statuses[intN(len(statuses))], now, now})
		}
	}
	return rows
}

func seed(ctx context.Context, pool *pgxpool.Pool, users, perPit int) error {
	if users < 2 {
		return fmt.Errorf("need at least 2 users, got %d", users)
	}
	now := time.Now().UTC()
	items := libraryRows(users, now, rand.IntN)
	n, err := pool.CopyFrom(ctx,
		pgx.Identifier{"library_items"},
		libraryColumns,
		pgx.CopyFromRows(items),
	)
	if err != nil {
		return fmt.Errorf("insert library items: %w", err)
	}
	logrus.WithField("count", n).Info("library items inserted")

	for i, b := range books[:3] {
		var pitID string
		creator := userID(i % users)
		err := pool.QueryRow(ctx,
			`INSERT INTO pits (book_key, name, created_by) VALUES ($1, $2, $3) RETURNING id`,
			b.key(), b.Title+" readers", creator,
		).Scan(&pitID)
		if err != nil {
			return fmt.Errorf("insert pit: %w", err)
		}

		batch := &pgx.Batch{}
		for u := range users {
			batch.Queue(`INSERT INTO pit_members (pit_id, user_id, joined_at) VALUES ($1, $2, $3)`,
				pitID, userID(u), now.Add(-48*time.Hour))
		}
		if err := pool.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert pit members: %w", err)
		}

		msgs := make([][]any, 0, perPit)
		for m := range perPit {
			at := now.Add(-time.Duration(perPit-m) * time.Minute)
			msgs = append(msgs, []any{pitID, userID(rand.IntN(users)), lines[rand.IntN(len(lines))], at})
		}
		if _, err := pool.CopyFrom(ctx,
			pgx.Identifier{"pit_messages"},
			[]string{"pit_id", "user_id", "body", "created_at"},
			pgx.CopyFromRows(msgs),
		); err != nil {
			return fmt.Errorf("insert pit messages: %w", err)
		}
		logrus.WithFields(logrus.Fields{"pit_id": pitID, "messages": perPit}).Info("pit seeded")
	}

	batch := &pgx.Batch{}
	for u := 1; u < users; u++ {
		batch.Queue(`INSERT INTO friend_requests (requester_id, addressee_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID(u), userID(0))
		b := books[rand.IntN(len(books))]
		batch.Queue(`INSERT INTO recommendations (sender_id, recipient_id, book_key) VALUES ($1, $2, $3)`,
			userID(u), userID(0), b.key())
	}
	if err := pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert social rows: %w", err)
	}

	var total int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM library_items").Scan(&total); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"library_items": total, "inbox_user": userID(0)}).Info("seed complete")
	return nil
}
