package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"bookmosh/internal/platform/httpclient"
)

const DefaultBaseURL = "https://openlibrary.org"

type Client struct {
	http    *httpclient.Client
	baseURL string
}

func NewClient(baseURL, userAgent string, rps int, maxRetries int) *Client {
	return NewClientWithBackoff(baseURL, userAgent, rps, maxRetries, time.Second)
}

func NewClientWithBackoff(baseURL, userAgent string, rps, maxRetries int, backoff time.Duration) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http: httpclient.New(httpclient.Options{
			UserAgent:  userAgent,
			RPS:        rps,
			MaxRetries: maxRetries,
			Backoff:    backoff,
		}),
		baseURL: baseURL,
	}
}

type Doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	ISBN             []string `json:"isbn"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverID          int      `json:"cover_i"`
}

// SearchResponse matches search.json. Dropped counts docs that did not match
// the Doc shape.
type SearchResponse struct {
	NumFound int
	Docs     []Doc
	Dropped  int
}

type searchEnvelope struct {
	NumFound int               `json:"numFound"`
	Docs     []json.RawMessage `json:"docs"`
}

type Publisher struct {
	Name string `json:"name"`
}

// BookDetails matches api/books?jscmd=data
type BookDetails struct {
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	Publishers  []Publisher `json:"publishers"`
	PublishDate string      `json:"publish_date"`
	Cover       struct {
		Small  string `json:"small"`
		Medium string `json:"medium"`
		Large  string `json:"large"`
	} `json:"cover"`
	Authors []struct {
		URL  string `json:"url"`
		Name string `json:"name"`
	} `json:"authors"`
	NumberOfPages int `json:"number_of_pages"`
}

// CoverURL returns the medium cover image for a search doc, or "".
func (d Doc) CoverURL() string {
	if d.CoverID <= 0 {
		return ""
	}
	return fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", d.CoverID)
}

// SearchBooks runs a free-text search.json query.
func (c *Client) SearchBooks(ctx context.Context, query string, limit int) (*SearchResponse, error) {
	u := fmt.Sprintf("%s/search.json?q=%s&fields=key,title,author_name,isbn,first_publish_year,cover_i&limit=%d",
		c.baseURL, url.QueryEscape(query), limit)

	body, err := c.http.Get(ctx, u)
	if err != nil {
		return nil, err
	}

	var env searchEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode openlibrary search: %w", err)
	}

	res := &SearchResponse{NumFound: env.NumFound, Docs: make([]Doc, 0, len(env.Docs))}
	for _, raw := range env.Docs {
		var d Doc
		if err := json.Unmarshal(raw, &d); err != nil {
			res.Dropped++
			continue
		}
		res.Docs = append(res.Docs, d)
	}
	return res, nil
}

// GetBooksByISBN hydrates details keyed by "ISBN:<isbn>".
func (c *Client) GetBooksByISBN(ctx context.Context, isbns []string) (map[string]BookDetails, error) {
	if len(isbns) == 0 {
		return nil, nil
	}

	bibkeys := make([]string, len(isbns))
	for i, isbn := range isbns {
		bibkeys[i] = "ISBN:" + isbn
	}

	u := fmt.Sprintf("%s/api/books?bibkeys=%s&jscmd=data&format=json",
		c.baseURL, url.QueryEscape(strings.Join(bibkeys, ",")))

	body, err := c.http.Get(ctx, u)
	if err != nil {
		return nil, err
	}

	var res map[string]BookDetails
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode openlibrary books: %w", err)
	}
	return res, nil
}
