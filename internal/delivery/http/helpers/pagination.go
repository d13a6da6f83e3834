package helpers

import (
	"net/http"
	"strconv"
	"time"
)

// Pagination query parameter defaults and limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParseCursorPage reads cursor and limit from the request query string.
// The cursor is opaque to this layer. Invalid or missing limits fall back to
// the default; oversized limits are clamped.
func ParseCursorPage(r *http.Request) (cursor string, limit int) {
	cursor = r.URL.Query().Get("cursor")
	limit = DefaultPageSize
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			limit = v
			if limit > MaxPageSize {
				limit = MaxPageSize
			}
		}
	}
	return cursor, limit
}

// ParseDateParam parses a YYYY-MM-DD query parameter. Returns nil when the
// parameter is absent or malformed.
func ParseDateParam(r *http.Request, name string) *time.Time {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil
	}
	return &t
}
