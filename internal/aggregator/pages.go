package aggregator

import "context"

// pageFunc fetches one page starting at cursor ("" for the first page) and
// returns its items and the next cursor ("" when exhausted).
type pageFunc[T any] func(ctx context.Context, cursor string) ([]T, string, error)

// collectPages follows cursors until none is returned, a cursor repeats or
// maxPages pages have been read.
//
// It returns everything gathered plus the first error. A failure on the
// first page yields no items; a failure later keeps the earlier pages.
func collectPages[T any](ctx context.Context, maxPages int, fetch pageFunc[T]) ([]T, error) {
	if maxPages <= 0 {
		maxPages = 1
	}

	var all []T
	seen := make(map[string]struct{})
	cursor := ""

	for page := 0; page < maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return all, err
		}

		items, next, err := fetch(ctx, cursor)
		if err != nil {
			return all, err
		}
		all = append(all, items...)

		if next == "" {
			break
		}
		if _, loop := seen[next]; loop {
			break
		}
		seen[next] = struct{}{}
		cursor = next
	}

	return all, nil
}
