package pit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"malformed uuid", &pgconn.PgError{Code: "22P02"}, true},
		{"missing pit foreign key", &pgconn.PgError{Code: "23503"}, true},
		{"wrapped", fmt.Errorf("query: %w", &pgconn.PgError{Code: "22P02"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"other error", errors.New("connection reset"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, notFound(tt.err))
		})
	}
}
