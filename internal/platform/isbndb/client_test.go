package isbndb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(Options{
		APIKey:     "key-123",
		BaseURL:    url + "/",
		RPS:        1000,
		MaxRetries: 0,
		Backoff:    time.Millisecond,
	})
}

func TestSearchBooks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-123", r.Header.Get("Authorization"))
		assert.Equal(t, "/books/Howl's Moving Castle", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("pageSize"))
		_, _ = w.Write([]byte(`{
			"total": 3,
			"books": [
				{"title": "Howl's Moving Castle", "authors": ["Diana Wynne Jones"], "isbn13": "9780064410342",
				 "image": "http://images.isbndb.com/covers/03/42/9780064410342.jpg", "date_published": "2001-04-03"},
				{"title": "Castle in the Air", "authors": "not-a-list"},
				{"title_long": "House of Many Ways", "date_published": 2008}
			]
		}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).SearchBooks(context.Background(), "Howl's Moving Castle", 50)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Dropped)
	require.Len(t, res.Books, 2)

	assert.Equal(t, "Howl's Moving Castle", res.Books[0].Title)
	assert.Equal(t, []string{"Diana Wynne Jones"}, res.Books[0].Authors)
	assert.Equal(t, DateString("2001-04-03"), res.Books[0].DatePublished)
	assert.Equal(t, "House of Many Ways", res.Books[1].TitleLong)
	assert.Equal(t, DateString("2008"), res.Books[1].DatePublished)
}

func TestSearchBooks_NotFoundIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessage":"Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).SearchBooks(context.Background(), "xyzzyunknownbook123", 50)
	require.NoError(t, err)
	assert.Empty(t, res.Books)
}

func TestSearchBooks_Failures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).SearchBooks(context.Background(), "dune", 50)
		assert.Error(t, err)
	})

	t.Run("malformed envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>maintenance</html>`))
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).SearchBooks(context.Background(), "dune", 50)
		assert.Error(t, err)
	})
}
