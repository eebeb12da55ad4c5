package discovery

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// apostrophes the metadata index is known to trip over: straight, right and
// left single quotation marks.
const apostrophes = "'’‘"

var apostropheStripper = strings.NewReplacer("'", "", "’", "", "‘", "")

func hasApostrophe(s string) bool {
	return strings.ContainsAny(s, apostrophes)
}

func stripApostrophes(s string) string {
	return apostropheStripper.Replace(s)
}

type token struct {
	display string
	folded  string
}

// tokenize splits on whitespace runs, keeping one token per folded form.
func tokenize(query string, fold cases.Caser) []token {
	fields := strings.Fields(query)
	seen := make(map[string]bool, len(fields))
	tokens := make([]token, 0, len(fields))
	for _, f := range fields {
		folded := fold.String(f)
		if seen[folded] {
			continue
		}
		seen[folded] = true
		tokens = append(tokens, token{display: f, folded: folded})
	}
	return tokens
}

// score gives 2 points per token found in the title and 1 per token found in
// the author.
func score(title, author string, tokens []token, fold cases.Caser) int {
	t := fold.String(title)
	a := fold.String(author)
	total := 0
	for _, tok := range tokens {
		if strings.Contains(t, tok.folded) {
			total += 2
		}
		if strings.Contains(a, tok.folded) {
			total++
		}
	}
	return total
}

// toCandidate maps a raw record. ok is false when no title can be derived.
func toCandidate(r Record) (c Candidate, ok bool) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = strings.TrimSpace(r.TitleLong)
	}
	if title == "" {
		return Candidate{}, false
	}

	c = Candidate{
		Title:           title,
		Author:          firstAuthor(r.Authors),
		Cover:           secureCover(r.Image),
		ISBN:            preferredISBN(r),
		PublicationYear: parseYear(r.Date),
	}
	return c, true
}

func firstAuthor(authors []string) string {
	for _, a := range authors {
		if a = strings.TrimSpace(a); a != "" {
			return a
		}
	}
	return UnknownAuthor
}

func secureCover(image string) *string {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil
	}
	if len(image) >= 7 && strings.EqualFold(image[:7], "http://") {
		image = "https://" + image[7:]
	}
	return &image
}

func preferredISBN(r Record) *string {
	for _, v := range []string{r.ISBN13, r.ISBN, r.ISBN10} {
		if v = strings.TrimSpace(v); v != "" {
			return &v
		}
	}
	return nil
}

// parseYear reads the leading four digits of a date-like string.
func parseYear(date string) *int {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return nil
	}
	for i := 0; i < 4; i++ {
		if date[i] < '0' || date[i] > '9' {
			return nil
		}
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return nil
	}
	return &y
}
