package library

import (
	"context"

	"bookmosh/internal/platform/openlibrary"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=library

// Repository defines the contract for library storage.
type Repository interface {
	Upsert(ctx context.Context, item *Item) error
	List(ctx context.Context, userID, status string, limit, offset int) ([]Item, int, error)
	Delete(ctx context.Context, userID, bookKey string) error
	Keys(ctx context.Context, userID string) ([]string, error)
}

// CoverLookup hydrates book details by ISBN.
type CoverLookup interface {
	GetBooksByISBN(ctx context.Context, isbns []string) (map[string]openlibrary.BookDetails, error)
}
