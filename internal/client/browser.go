package client

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultDebounce is the delay between the last keystroke and the
// catalog request it triggers.
const DefaultDebounce = 300 * time.Millisecond

// Browser drives interactive catalog search over a Client.
//
// Each call to Search resets a debounce timer; when the timer fires the
// current term is fetched with a monotonically increasing sequence
// number. A response is committed (delivered to OnResults) only if its
// sequence is still the newest one issued, so a slow response for an
// old term never overwrites the results of a newer one. In-flight
// requests are not aborted, just discarded on arrival.
//
// Callbacks are invoked from the fetching goroutine; they must be safe
// for concurrent use if the caller shares state with them.
type Browser struct {
	client   *Client
	debounce time.Duration
	pageSize int

	// OnResults receives the committed page for a search term.
	OnResults func(term string, page *Page)
	// OnError receives network and API errors for the latest request.
	// Stale errors are discarded like stale results.
	OnError func(term string, err error)

	seq     atomic.Uint64
	loading atomic.Bool

	mu    sync.Mutex
	timer *time.Timer
}

// NewBrowser returns a Browser over c. A non-positive debounce falls
// back to DefaultDebounce; a non-positive pageSize leaves the server
// default in charge.
func NewBrowser(c *Client, debounce time.Duration, pageSize int) *Browser {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Browser{client: c, debounce: debounce, pageSize: pageSize}
}

// Search schedules a fetch for term after the debounce delay, replacing
// any previously scheduled fetch. Rapid successive calls therefore
// collapse into a single request for the final term.
func (b *Browser) Search(term string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.debounce, func() {
		b.SearchNow(context.Background(), term)
	})
}

// SearchNow fetches term immediately, bypassing the debounce but still
// participating in stale-response sequencing. The terminal UI uses it
// for explicit submissions; tests use it for determinism.
func (b *Browser) SearchNow(ctx context.Context, term string) {
	seq := b.seq.Add(1)
	b.loading.Store(true)

	page, err := b.client.List(ctx, ListParams{Search: term, Limit: b.pageSize})

	// Commit only when no newer request has been issued meanwhile.
	if b.seq.Load() != seq {
		return
	}
	b.loading.Store(false)

	if err != nil {
		if b.OnError != nil {
			b.OnError(term, err)
		}
		return
	}
	if b.OnResults != nil {
		b.OnResults(term, page)
	}
}

// Loading reports whether the newest request is still in flight.
func (b *Browser) Loading() bool {
	return b.loading.Load()
}

// Stop cancels any pending debounced fetch.
func (b *Browser) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
