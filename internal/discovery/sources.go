package discovery

import (
	"context"
	"strconv"
	"time"

	"bookmosh/internal/metrics"
	"bookmosh/internal/platform/isbndb"
	"bookmosh/internal/platform/openlibrary"
)

type ISBNdbClient interface {
	SearchBooks(ctx context.Context, query string, pageSize int) (*isbndb.SearchResponse, error)
}

// ISBNdbSource adapts the ISBNdb client to Source.
type ISBNdbSource struct {
	Client ISBNdbClient
}

func (s ISBNdbSource) Lookup(ctx context.Context, query string, limit int) ([]Record, error) {
	start := time.Now()
	res, err := s.Client.SearchBooks(ctx, query, limit)
	metrics.LookupDuration.WithLabelValues("isbndb").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	metrics.DiscoveryDroppedRecordsTotal.Add(float64(res.Dropped))

	out := make([]Record, 0, len(res.Books))
	for _, b := range res.Books {
		out = append(out, Record{
			Title:     b.Title,
			TitleLong: b.TitleLong,
			Authors:   b.Authors,
			Image:     b.Image,
			ISBN13:    b.ISBN13,
			ISBN:      b.ISBN,
			ISBN10:    b.ISBN10,
			Date:      string(b.DatePublished),
		})
	}
	return out, nil
}

type OpenLibraryClient interface {
	SearchBooks(ctx context.Context, query string, limit int) (*openlibrary.SearchResponse, error)
}

// OpenLibrarySource adapts the Open Library client to Source.
type OpenLibrarySource struct {
	Client OpenLibraryClient
}

func (s OpenLibrarySource) Lookup(ctx context.Context, query string, limit int) ([]Record, error) {
	start := time.Now()
	res, err := s.Client.SearchBooks(ctx, query, limit)
	metrics.LookupDuration.WithLabelValues("openlibrary").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	metrics.DiscoveryDroppedRecordsTotal.Add(float64(res.Dropped))

	out := make([]Record, 0, len(res.Docs))
	for _, d := range res.Docs {
		r := Record{
			Title:   d.Title,
			Authors: d.AuthorNames,
			Image:   d.CoverURL(),
		}
		// Open Library can return 10 or 13 digit ISBNs. We prefer 13.
		for _, isbn := range d.ISBN {
			if len(isbn) == 13 && r.ISBN13 == "" {
				r.ISBN13 = isbn
			}
			if len(isbn) == 10 && r.ISBN10 == "" {
				r.ISBN10 = isbn
			}
		}
		if d.FirstPublishYear > 0 {
			r.Date = strconv.Itoa(d.FirstPublishYear)
		}
		out = append(out, r)
	}
	return out, nil
}
