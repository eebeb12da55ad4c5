// Package discovery turns a free-text query into a ranked list of book
// candidates fetched from an external metadata source.
package discovery

import (
	"context"
	"fmt"
)

// UnknownAuthor is used when a record lists no author.
const UnknownAuthor = "Unknown author"

const (
	// MinQueryLength is the shortest trimmed query, in runes, that is searched.
	MinQueryLength  = 2
	DefaultPageSize = 50
)

// Candidate is a single search result before it is added to a library.
type Candidate struct {
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Cover           *string `json:"cover"`
	ISBN            *string `json:"isbn"`
	PublicationYear *int    `json:"publication_year"`
	RelevanceScore  int     `json:"relevance_score"`
}

// Key identifies the candidate for deduplication against a collection: the
// ISBN when known, otherwise title and author concatenated.
func (c Candidate) Key() string {
	if c.ISBN != nil && *c.ISBN != "" {
		return *c.ISBN
	}
	return c.Title + c.Author
}

// Record is a raw book record as returned by a Source.
type Record struct {
	Title     string
	TitleLong string
	Authors   []string
	Image     string
	ISBN13    string
	ISBN      string
	ISBN10    string
	Date      string
}

// Source is the external metadata lookup.
type Source interface {
	Lookup(ctx context.Context, query string, limit int) ([]Record, error)
}

// Searcher is implemented by Ranker.
type Searcher interface {
	Search(ctx context.Context, query string) Result
}

type Status int

const (
	// StatusIdle means the query was too short and no search was performed.
	StatusIdle Status = iota
	// StatusOK means the search ran; Candidates may be empty.
	StatusOK
	// StatusUnavailable means the metadata source could not be used.
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusOK:
		return "ok"
	case StatusUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of one search.
type Result struct {
	Query      string      `json:"query"`
	Status     Status      `json:"status"`
	Candidates []Candidate `json:"results"`
}

// Searched reports whether a lookup actually completed.
func (r Result) Searched() bool { return r.Status == StatusOK }
