package discovery

import (
	"context"
	"sync"
	"time"
)

const DefaultDebounce = 300 * time.Millisecond

// Debouncer runs a search once input has been quiet for the window and only
// delivers the result of the most recently submitted query. Submitting a new
// query cancels the context of a search still in flight.
type Debouncer struct {
	searcher Searcher
	window   time.Duration
	deliver  func(Result)

	mu      sync.Mutex
	seq     uint64
	query   string
	pending bool
	timer   *time.Timer
	cancel  context.CancelFunc
	stopped bool
	running sync.WaitGroup

	deliverMu sync.Mutex
}

func NewDebouncer(s Searcher, window time.Duration, deliver func(Result)) *Debouncer {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &Debouncer{searcher: s, window: window, deliver: deliver}
}

// Submit records the latest input. It is cheap and safe to call on every
// keystroke.
func (d *Debouncer) Submit(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.seq++
	seq := d.seq
	d.query = query
	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.timer = time.AfterFunc(d.window, func() { d.fire(seq) })
}

func (d *Debouncer) current(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.stopped && seq == d.seq
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if d.stopped || seq != d.seq || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	query := d.query
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	defer cancel()

	res := d.searcher.Search(ctx, query)

	d.deliverMu.Lock()
	defer d.deliverMu.Unlock()
	if d.current(seq) {
		d.deliver(res)
	}
}

// Flush runs the pending query now instead of waiting for the window, then
// waits for any running search to be delivered.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		d.running.Wait()
		return
	}
	d.timer.Stop()
	seq := d.seq
	d.mu.Unlock()

	d.fire(seq)
	d.running.Wait()
}

// Stop discards pending input, cancels a running search and waits for it to
// return. No result is delivered after Stop returns.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.running.Wait()
}
