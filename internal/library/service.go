package library

import (
	"context"
	"strings"

	"bookmosh/internal/discovery"
	"bookmosh/internal/logger"
)

type Service struct {
	repo   Repository
	covers CoverLookup
}

// NewService creates a library service. covers may be nil.
func NewService(repo Repository, covers CoverLookup) *Service {
	return &Service{repo: repo, covers: covers}
}

// Add saves a candidate, updating status and metadata if the user already
// has it.
func (s *Service) Add(ctx context.Context, userID string, req AddRequest) (Item, error) {
	status := normalizeStatus(req.Status)
	if err := ValidateStatus(status); err != nil {
		return Item{}, err
	}

	author := strings.TrimSpace(req.Author)
	if author == "" {
		author = discovery.UnknownAuthor
	}
	item := Item{
		UserID:          userID,
		Title:           strings.TrimSpace(req.Title),
		Author:          author,
		Cover:           req.Cover,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		Status:          status,
	}
	item.BookKey = BookKey(item.Title, item.Author, item.ISBN)

	if item.Cover == nil && item.ISBN != nil && s.covers != nil {
		s.enrichCover(ctx, &item)
	}

	if err := s.repo.Upsert(ctx, &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// enrichCover is best effort; a failed lookup leaves the item untouched.
func (s *Service) enrichCover(ctx context.Context, item *Item) {
	details, err := s.covers.GetBooksByISBN(ctx, []string{*item.ISBN})
	if err != nil {
		logger.For(ctx).WithError(err).WithField("isbn", *item.ISBN).Debug("cover lookup failed")
		return
	}
	d, ok := details["ISBN:"+*item.ISBN]
	if !ok {
		return
	}
	for _, u := range []string{d.Cover.Medium, d.Cover.Large, d.Cover.Small} {
		if u != "" {
			item.Cover = &u
			return
		}
	}
}

// List returns a page of items. An empty status lists every shelf.
func (s *Service) List(ctx context.Context, userID, status string, limit, offset int) ([]Item, int, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != "" {
		if err := ValidateStatus(status); err != nil {
			return nil, 0, err
		}
	}
	return s.repo.List(ctx, userID, status, limit, offset)
}

func (s *Service) Remove(ctx context.Context, userID, bookKey string) error {
	return s.repo.Delete(ctx, userID, bookKey)
}

// Keys returns the set of book keys the user has saved.
func (s *Service) Keys(ctx context.Context, userID string) (map[string]bool, error) {
	keys, err := s.repo.Keys(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set, nil
}
