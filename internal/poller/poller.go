// Package poller periodically runs a fixed set of named queries and reduces
// their latest values into one snapshot.
package poller

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"
	"time"

	"bookmosh/internal/logger"
	"bookmosh/internal/metrics"
)

// Query fetches one input of the snapshot.
type Query func(ctx context.Context) (int, error)

// Reducer folds the latest value of every query into a snapshot. Queries
// that have never succeeded are absent from values.
type Reducer[T any] func(values map[string]int) T

type Options[T any] struct {
	Interval time.Duration
	Queries  map[string]Query
	Reduce   Reducer[T]
	// OnUpdate is called with each snapshot that differs from the previous
	// one, including the first.
	OnUpdate func(T)
}

type Poller[T any] struct {
	interval time.Duration
	names    []string
	queries  map[string]Query
	reduce   Reducer[T]
	onUpdate func(T)

	mu      sync.Mutex
	last    map[string]int
	current T
	primed  bool
}

func New[T any](opts Options[T]) (*Poller[T], error) {
	if opts.Interval <= 0 {
		return nil, errors.New("poller: interval must be positive")
	}
	if len(opts.Queries) == 0 {
		return nil, errors.New("poller: at least one query is required")
	}
	if opts.Reduce == nil {
		return nil, errors.New("poller: reducer is required")
	}
	names := make([]string, 0, len(opts.Queries))
	for name := range opts.Queries {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Poller[T]{
		interval: opts.Interval,
		names:    names,
		queries:  opts.Queries,
		reduce:   opts.Reduce,
		onUpdate: opts.OnUpdate,
		last:     make(map[string]int, len(names)),
	}, nil
}

// Run polls immediately and then every interval until ctx is done.
func (p *Poller[T]) Run(ctx context.Context) error {
	p.Tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick runs every query once and reports whether the snapshot changed.
func (p *Poller[T]) Tick(ctx context.Context) bool {
	fresh := make(map[string]int, len(p.names))
	for _, name := range p.names {
		v, err := p.queries[name](ctx)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			metrics.PollerQueryErrorsTotal.WithLabelValues(name).Inc()
			logger.For(ctx).WithError(err).WithField("query", name).Warn("poll query failed, keeping last value")
			continue
		}
		fresh[name] = v
	}

	p.mu.Lock()
	for name, v := range fresh {
		p.last[name] = v
	}
	values := make(map[string]int, len(p.last))
	for name, v := range p.last {
		values[name] = v
	}
	next := p.reduce(values)
	changed := !p.primed || !reflect.DeepEqual(next, p.current)
	p.current = next
	p.primed = true
	p.mu.Unlock()

	if changed && p.onUpdate != nil {
		p.onUpdate(next)
	}
	return changed
}

// Current returns the latest snapshot and whether one has been computed.
func (p *Poller[T]) Current() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.primed
}
