package catalog

import (
	"context"
	"errors"
	"sync"

	"alcyxob/trainer-link/internal/domain"
)

// ErrSuperseded is returned by a Loader call whose response arrived after a
// newer request was dispatched. Its result was discarded.
var ErrSuperseded = errors.New("catalog: response superseded by a newer request")

// Loader holds the incremental "load more" state of one catalog browser.
// It is owned by its caller; nothing is shared between Loaders.
//
// Every dispatch gets a generation number. A response is applied only if
// no newer dispatch happened in the meantime, so a slow page for old
// filters can never overwrite the list for the current ones.
type Loader struct {
	fetcher  PageFetcher
	pageSize int

	mu      sync.Mutex
	query   Query
	items   []domain.ExerciseCardData
	next    *int
	loading bool
	gen     uint64
}

// NewLoader returns a Loader that has not loaded anything yet.
func NewLoader(fetcher PageFetcher, pageSize int) *Loader {
	if pageSize <= 0 {
		pageSize = DefaultLimit
	}
	start := 0
	return &Loader{fetcher: fetcher, pageSize: pageSize, next: &start}
}

// SetQuery replaces the filters and reloads from the start.
func (l *Loader) SetQuery(ctx context.Context, q Query) error {
	l.mu.Lock()
	l.query = q
	l.mu.Unlock()
	return l.Reload(ctx)
}

// Reload fetches the first page for the current filters and replaces the
// item list. It always dispatches, superseding anything in flight.
func (l *Loader) Reload(ctx context.Context) error {
	l.mu.Lock()
	q := l.query
	q.Offset = 0
	q.Limit = l.pageSize
	gen := l.dispatch()
	l.mu.Unlock()

	page, err := l.fetcher.FetchExercisePage(ctx, q)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return ErrSuperseded
	}
	l.loading = false
	if err != nil {
		return err
	}
	l.items = Dedup(page.Items)
	l.next = page.NextOffset
	return nil
}

// LoadMore appends the next page. It does nothing while a request is in
// flight or once the catalog is exhausted.
func (l *Loader) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if l.loading || l.next == nil {
		l.mu.Unlock()
		return nil
	}
	q := l.query
	q.Offset = *l.next
	q.Limit = l.pageSize
	gen := l.dispatch()
	l.mu.Unlock()

	page, err := l.fetcher.FetchExercisePage(ctx, q)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return ErrSuperseded
	}
	l.loading = false
	if err != nil {
		return err
	}
	l.items = Dedup(append(l.items, page.Items...))
	l.next = page.NextOffset
	return nil
}

// dispatch must be called with mu held.
func (l *Loader) dispatch() uint64 {
	l.gen++
	l.loading = true
	return l.gen
}

// Items returns the deduplicated items loaded so far.
func (l *Loader) Items() []domain.ExerciseCardData {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.ExerciseCardData(nil), l.items...)
}

// NextOffset is the cursor LoadMore will use; nil once exhausted.
func (l *Loader) NextOffset() *int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.next == nil {
		return nil
	}
	n := *l.next
	return &n
}

func (l *Loader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

func (l *Loader) Query() Query {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}
