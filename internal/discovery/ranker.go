package discovery

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"bookmosh/internal/logger"
	"bookmosh/internal/metrics"

	"golang.org/x/text/cases"
)

type Options struct {
	PageSize int
}

// Ranker is stateless and safe for concurrent use.
type Ranker struct {
	source   Source
	pageSize int
}

func NewRanker(source Source, opts Options) *Ranker {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	return &Ranker{source: source, pageSize: opts.PageSize}
}

// Search never returns an error: an unusable source is reported as
// StatusUnavailable and a too-short query as StatusIdle.
func (rk *Ranker) Search(ctx context.Context, query string) Result {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < MinQueryLength {
		metrics.DiscoverySearchesTotal.WithLabelValues(StatusIdle.String()).Inc()
		return Result{Query: q, Status: StatusIdle, Candidates: []Candidate{}}
	}

	log := logger.For(ctx).WithField("query", q)
	defer logger.Track(ctx, "discovery search")()

	records, err := rk.source.Lookup(ctx, q, rk.pageSize)
	if err != nil {
		log.WithError(err).Warn("metadata lookup failed")
		metrics.DiscoverySearchesTotal.WithLabelValues(StatusUnavailable.String()).Inc()
		return Result{Query: q, Status: StatusUnavailable, Candidates: []Candidate{}}
	}

	if hasApostrophe(q) {
		if stripped := strings.TrimSpace(stripApostrophes(q)); stripped != "" {
			more, err := rk.source.Lookup(ctx, stripped, rk.pageSize)
			switch {
			case err != nil:
				log.WithError(err).Info("apostrophe fallback lookup failed, keeping primary results")
			case len(more) > 0:
				records = append(records, more...)
			}
		}
	}

	fold := cases.Fold()
	tokens := tokenize(q, fold)

	candidates := make([]Candidate, 0, len(records))
	dropped := 0
	for _, r := range records {
		c, ok := toCandidate(r)
		if !ok {
			dropped++
			continue
		}
		c.RelevanceScore = score(c.Title, c.Author, tokens, fold)
		candidates = append(candidates, c)
	}
	if dropped > 0 {
		metrics.DiscoveryDroppedRecordsTotal.Add(float64(dropped))
		log.WithField("dropped", dropped).Debug("dropped records without a title")
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(b.RelevanceScore, a.RelevanceScore)
	})

	metrics.DiscoverySearchesTotal.WithLabelValues(StatusOK.String()).Inc()
	return Result{Query: q, Status: StatusOK, Candidates: candidates}
}
