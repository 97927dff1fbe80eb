package util

const DefaultPageSize = 10

// Calculate clamps page/size to sane bounds and returns the query offset
// together with the effective limit.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}
