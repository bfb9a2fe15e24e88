package utils

func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// HasMore reports whether rows remain after the current page.
func HasMore(total int64, offset, pageLen int) bool {
	return int64(offset+pageLen) < total
}
