// Package library stores the books a user has saved, keyed by the same
// identity discovery uses for its candidates.
package library

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bookmosh/internal/discovery"
)

const (
	StatusWantToRead = "WANT_TO_READ"
	StatusReading    = "READING"
	StatusRead       = "READ"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidStatus = errors.New("invalid status")
)

func ValidateStatus(status string) error {
	switch status {
	case StatusWantToRead, StatusReading, StatusRead:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
}

type Item struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	BookKey         string    `json:"book_key"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Cover           *string   `json:"cover"`
	ISBN            *string   `json:"isbn"`
	PublicationYear *int      `json:"publication_year"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AddRequest carries a discovery candidate being saved.
type AddRequest struct {
	Title           string  `json:"title" validate:"required,notblank,max=500"`
	Author          string  `json:"author" validate:"max=300"`
	Cover           *string `json:"cover" validate:"omitempty,url"`
	ISBN            *string `json:"isbn" validate:"omitempty,isbn"`
	PublicationYear *int    `json:"publication_year" validate:"omitempty,min=0,max=9999"`
	Status          string  `json:"status"`
}

// BookKey is the identity discovery assigns to a candidate, so saved items
// can be matched against fresh search results.
func BookKey(title, author string, isbn *string) string {
	return discovery.Candidate{Title: title, Author: author, ISBN: isbn}.Key()
}

func normalizeStatus(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return StatusWantToRead
	}
	return s
}
