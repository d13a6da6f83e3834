package domain

import (
	"encoding/base64"
	"strconv"
)

// PageMetadata accompanies every paginated list response.
// swagger:model PageMetadata
type PageMetadata struct {
	Count       int    `json:"count"`
	HasNextPage bool   `json:"has_next_page"`
	Cursor      string `json:"cursor"`
}

// The enrollment list paginates by an opaque cursor that is the accumulated
// skip count, base64-encoded. An invalid or empty token decodes to skip 0.

// EncodeSkipCursor encodes a skip count as an opaque cursor token.
func EncodeSkipCursor(skip int) string {
	if skip <= 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(skip)))
}

// DecodeSkipCursor decodes a cursor token back to a skip count.
func DecodeSkipCursor(cursor string) int {
	if cursor == "" {
		return 0
	}
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
