package helpers

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	DefaultTake     = 20
)

// NextCursor computes the cursor for the following page, or nil when the
// current page exhausts the result set. It never returns an out-of-range
// cursor: absence is the "no more pages" sentinel.
func NextCursor(cursor, pageSize, totalCount int) *int {
	next := cursor + pageSize
	if next >= totalCount {
		return nil
	}
	return &next
}

// ClampPageSize normalizes a requested page size into [1, MaxPageSize].
func ClampPageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}
