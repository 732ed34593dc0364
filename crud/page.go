package crud

import (
	"recipebook/errs"
)

// PageSize is the fixed window size of all paginated listings.
const PageSize = 10

// Paginate cuts one window out of an ordered slice. Pages are
// 1-indexed. The second return value reports whether another page
// follows, which is the case exactly when more items exist than the
// requested page reaches. A page beyond the end of the slice is not
// an error, it is just empty.
func Paginate[T any](items []T, page, perPage int) ([]T, bool, error) {
	if page < 1 {
		return nil, false, errs.Errorf(errs.EINVALID, "Page numbering starts at 1.")
	}
	if perPage < 1 {
		return nil, false, errs.Errorf(errs.EINVALID, "Page size must be at least 1.")
	}
	hasNextPage := len(items) > page*perPage
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}, false, nil
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], hasNextPage, nil
}
