// Package pit implements book-anchored group chats.
package pit

import (
	"errors"
	"time"
)

const (
	MaxBodyLength = 2000
	// TopicPrefix namespaces realtime topics; a pit's topic is TopicPrefix+id.
	TopicPrefix = "pit:"

	EventMessageCreated = "message.created"
)

var (
	ErrNotFound       = errors.New("pit not found")
	ErrNotMember      = errors.New("not a member of this pit")
	ErrInvalidMessage = errors.New("message must be between 1 and 2000 characters")
)

type Pit struct {
	ID        string    `json:"id"`
	BookKey   string    `json:"book_key"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID        string    `json:"id"`
	PitID     string    `json:"pit_id"`
	UserID    string    `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func Topic(pitID string) string {
	return TopicPrefix + pitID
}

type CreateRequest struct {
	BookKey string `json:"book_key" validate:"required,notblank,max=300"`
	Name    string `json:"name" validate:"required,notblank,max=120"`
}

type PostRequest struct {
	Body string `json:"body" validate:"required"`
}
