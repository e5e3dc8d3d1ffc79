package utils

import (
	"net/http"
	"strconv"
)

// ParsePagination extracts page and page_size query parameters. Out of
// range or malformed values fall back to the defaults; final clamping
// happens in the service layer.
func ParsePagination(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = 20

	if str := r.URL.Query().Get("page"); str != "" {
		if n, err := strconv.Atoi(str); err == nil && n > 0 {
			page = n
		}
	}
	if str := r.URL.Query().Get("page_size"); str != "" {
		if n, err := strconv.Atoi(str); err == nil && n > 0 {
			pageSize = n
		}
	}
	return page, pageSize
}
