// Package isbndb is a client for the ISBNdb v2 book search API.
package isbndb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bookmosh/internal/platform/httpclient"
)

const DefaultBaseURL = "https://api2.isbndb.com"

type Options struct {
	APIKey     string
	BaseURL    string
	UserAgent  string
	RPS        int
	MaxRetries int
	Backoff    time.Duration
}

type Client struct {
	http    *httpclient.Client
	baseURL string
}

func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	header := http.Header{}
	if opts.APIKey != "" {
		header.Set("Authorization", opts.APIKey)
	}
	return &Client{
		http: httpclient.New(httpclient.Options{
			UserAgent:  opts.UserAgent,
			RPS:        opts.RPS,
			MaxRetries: opts.MaxRetries,
			Backoff:    opts.Backoff,
			Header:     header,
		}),
		baseURL: baseURL,
	}
}

// Book is one entry of the books array in a search reply.
type Book struct {
	Title         string     `json:"title"`
	TitleLong     string     `json:"title_long"`
	Authors       []string   `json:"authors"`
	Image         string     `json:"image"`
	ISBN          string     `json:"isbn"`
	ISBN13        string     `json:"isbn13"`
	ISBN10        string     `json:"isbn10"`
	DatePublished DateString `json:"date_published"`
}

// SearchResponse holds the decoded books. Dropped counts entries that did not
// match the Book shape and were skipped.
type SearchResponse struct {
	Total   int
	Books   []Book
	Dropped int
}

type searchEnvelope struct {
	Total int               `json:"total"`
	Books []json.RawMessage `json:"books"`
}

// SearchBooks queries /books/{query}. ISBNdb answers 404 when nothing
// matches; that is reported as an empty response, not an error.
func (c *Client) SearchBooks(ctx context.Context, query string, pageSize int) (*SearchResponse, error) {
	u := fmt.Sprintf("%s/books/%s?page=1&pageSize=%d", c.baseURL, url.PathEscape(query), pageSize)

	body, err := c.http.Get(ctx, u)
	if err != nil {
		if httpclient.IsStatus(err, http.StatusNotFound) {
			return &SearchResponse{}, nil
		}
		return nil, err
	}

	var env searchEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode isbndb search: %w", err)
	}

	res := &SearchResponse{Total: env.Total, Books: make([]Book, 0, len(env.Books))}
	for _, raw := range env.Books {
		var b Book
		if err := json.Unmarshal(raw, &b); err != nil {
			res.Dropped++
			continue
		}
		res.Books = append(res.Books, b)
	}
	return res, nil
}

// DateString accepts the date_published field as a string or a bare number.
type DateString string

func (d *DateString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = DateString(s)
		return nil
	}
	n, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("date_published: %w", err)
	}
	*d = DateString(strconv.FormatInt(int64(n), 10))
	return nil
}
