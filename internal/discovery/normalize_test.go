package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/cases"
)

func TestStripApostrophes(t *testing.T) {
	assert.True(t, hasApostrophe("Howl's"))
	assert.True(t, hasApostrophe("Howl’s"))
	assert.True(t, hasApostrophe("‘Salem’s Lot"))
	assert.False(t, hasApostrophe("Howls `Moving` Castle"))
	assert.Equal(t, "Salems Lot", stripApostrophes("‘Salem’s Lot"))
	assert.Equal(t, "", stripApostrophes("'’‘"))
}

func TestTokenize(t *testing.T) {
	toks := tokenize("  The\tHOBBIT  the\n hobbit ", cases.Fold())
	assert.Len(t, toks, 2)
	assert.Equal(t, "The", toks[0].display)
	assert.Equal(t, "the", toks[0].folded)
	assert.Equal(t, "hobbit", toks[1].folded)

	assert.Empty(t, tokenize("   ", cases.Fold()))
}

func TestScore(t *testing.T) {
	fold := cases.Fold()
	toks := tokenize("dune herbert", fold)

	assert.Equal(t, 2, score("Dune", "Someone", toks, fold))
	assert.Equal(t, 1, score("Messiah", "Frank Herbert", toks, fold))
	assert.Equal(t, 3, score("Dune", "Frank Herbert", toks, fold))
	assert.Equal(t, 0, score("Foundation", "Isaac Asimov", toks, fold))
	// substring match, not whole word
	assert.Equal(t, 2, score("Dunes of Arrakis", "", toks, fold))
}

func TestSecureCover(t *testing.T) {
	assert.Nil(t, secureCover(""))
	assert.Nil(t, secureCover("   "))
	assert.Equal(t, "https://example.com/cover.jpg", *secureCover("http://example.com/cover.jpg"))
	assert.Equal(t, "https://example.com/a.jpg", *secureCover("HTTP://example.com/a.jpg"))
	assert.Equal(t, "https://example.com/a.jpg", *secureCover("https://example.com/a.jpg"))
	assert.Equal(t, "//cdn.example.com/a.jpg", *secureCover("//cdn.example.com/a.jpg"))
}

func TestPreferredISBN(t *testing.T) {
	assert.Nil(t, preferredISBN(Record{}))
	assert.Equal(t, "10", *preferredISBN(Record{ISBN10: "10"}))
	assert.Equal(t, "g", *preferredISBN(Record{ISBN: "g", ISBN10: "10"}))
	assert.Equal(t, "13", *preferredISBN(Record{ISBN13: "13", ISBN: "g", ISBN10: "10"}))
	assert.Equal(t, "10", *preferredISBN(Record{ISBN13: " ", ISBN10: "10"}))
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"1965", ptr(1965)},
		{"1965-08-01", ptr(1965)},
		{"2001-uk", ptr(2001)},
		{"", nil},
		{"196", nil},
		{"c1965", nil},
		{"unknown", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseYear(tt.in))
		})
	}
}

func TestToCandidate(t *testing.T) {
	_, ok := toCandidate(Record{Authors: []string{"A"}})
	assert.False(t, ok)

	c, ok := toCandidate(Record{TitleLong: "Long Title", Authors: []string{" ", ""}})
	assert.True(t, ok)
	assert.Equal(t, "Long Title", c.Title)
	assert.Equal(t, UnknownAuthor, c.Author)
	assert.Zero(t, c.RelevanceScore)
}

func ptr[T any](v T) *T { return &v }
