// package pager reassembles offset-paginated remote collections.
//
// Remote endpoints hand back bounded pages addressed by offset. FetchAll
// retrieves page zero synchronously to learn the collection size, fans the
// remaining page requests out across a bounded worker pool, then concatenates
// the results in offset order regardless of network completion order.
package pager

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/time/rate"
)

// DefaultWorkers is the fan-out ceiling applied when Options.Workers is unset.
// Unbounded fan-out risks remote rate-limit errors on large collections.
const DefaultWorkers = 8

// Page is one chunk of a paginated collection.
type Page[T any] struct {
	Items   []T
	Offset  int
	Total   int
	HasMore bool
}

// Source fetches pages of a remote collection.
//
// FirstPage returns the page at offset zero; Page returns the page starting
// at an arbitrary offset. Implementations live in the services package and in
// test doubles.
type Source[T any] interface {
	FirstPage(ctx context.Context) (Page[T], error)
	Page(ctx context.Context, offset int) (Page[T], error)
}

// Options configures a FetchAll run.
type Options struct {
	Workers   int           // Concurrent page fetches (default: DefaultWorkers)
	RateLimit float64       // Requests per second across all workers (0 = unlimited)
	limiter   *rate.Limiter // Set lazily from RateLimit
}

func (o *Options) normalize() {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.RateLimit > 0 && o.limiter == nil {
		o.limiter = rate.NewLimiter(rate.Limit(o.RateLimit), 1)
	}
}

type pageResult[T any] struct {
	page Page[T]
	err  error
}

// FetchAll retrieves the complete ordered item sequence behind a Source.
//
// The aggregate fails fast: the first page-fetch error cancels outstanding
// requests and is returned as the operation's error, with no partial results.
// FetchAll holds no state between calls; each call reflects the then-current
// remote collection.
func FetchAll[T any](ctx context.Context, src Source[T], opts Options) ([]T, error) {
	opts.normalize()

	first, err := src.FirstPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch first page: %w", err)
	}

	pageSize := len(first.Items)
	if pageSize == 0 || first.Total <= pageSize || !first.HasMore {
		return first.Items, nil
	}

	var offsets []int
	for offset := pageSize; offset < first.Total; offset += pageSize {
		offsets = append(offsets, offset)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int, len(offsets))
	results := make(chan pageResult[T], len(offsets))

	workers := opts.Workers
	if workers > len(offsets) {
		workers = len(offsets)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for offset := range jobs {
				if opts.limiter != nil {
					if err := opts.limiter.Wait(ctx); err != nil {
						results <- pageResult[T]{err: err}
						continue
					}
				}
				page, err := src.Page(ctx, offset)
				if err != nil {
					cancel()
					results <- pageResult[T]{err: err}
					continue
				}
				results <- pageResult[T]{page: page}
			}
		}()
	}

	for _, offset := range offsets {
		jobs <- offset
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	pages := []Page[T]{first}
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		pages = append(pages, res.page)
	}

	if firstErr != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", firstErr)
	}

	// Completion order is non-deterministic under concurrency; reassemble by offset.
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Offset < pages[j].Offset
	})

	items := make([]T, 0, first.Total)
	for _, page := range pages {
		items = append(items, page.Items...)
	}

	return items, nil
}
