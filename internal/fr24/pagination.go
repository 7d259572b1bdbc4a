package fr24

import (
	"context"
	"log/slog"
)

// PageFunc fetches one page of results. Each call is independent and
// idempotent: the same limit+offset always yields the same page, barring
// upstream data changes.
type PageFunc[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// FetchAllPages drives a paged query to exhaustion or to the maxPages
// ceiling. Exhaustion is a page shorter than pageSize. Hitting the ceiling is
// not an error, but incomplete is true so the caller can warn. The offset
// advances by the number of items actually returned, which survives short
// final pages.
func FetchAllPages[T any](ctx context.Context, fetch PageFunc[T], pageSize, maxPages int) (items []T, incomplete bool, err error) {
	if pageSize <= 0 {
		return nil, false, &ValidationError{Field: "page_size", Message: "must be positive"}
	}
	if maxPages <= 0 {
		return nil, false, &ValidationError{Field: "max_pages", Message: "must be positive"}
	}

	offset := 0
	for page := 0; page < maxPages; page++ {
		batch, err := fetch(ctx, pageSize, offset)
		if err != nil {
			return items, false, err
		}
		items = append(items, batch...)
		if len(batch) < pageSize {
			return items, false, nil
		}
		offset += len(batch)
	}

	slog.Warn("Pagination ceiling reached, results may be incomplete",
		"max_pages", maxPages, "items", len(items))
	return items, true, nil
}
