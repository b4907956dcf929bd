package pagination

import (
	"encoding/base64"
	"encoding/json"
)

// Pagination carries the cursor query parameters of a list endpoint.
type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size,default=20"`
}

type Cursor struct {
	ID      string `json:"id,omitempty"`
	StartAt string `json:"start_at,omitempty"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token"`
	HasMore       bool   `json:"has_more"`
}

func EncodeCursor(data Cursor) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func DecodeCursor(data string) (*Cursor, error) {
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}

	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil {
		return nil, err
	}
	return &cursor, nil
}

// BuildCursorPageInfo trims a page fetched with limit+1 rows back to the
// limit and, when rows were cut, derives the cursor of the last kept row.
// A final page carries no token.
func BuildCursorPageInfo[T any](data []T, limit int, extractCursor func(T) (string, error)) (PageInfo, []T, error) {
	if limit <= 0 || len(data) <= limit {
		return PageInfo{}, data, nil
	}

	data = data[:limit]
	token, err := extractCursor(data[len(data)-1])
	if err != nil {
		return PageInfo{}, nil, err
	}
	return PageInfo{HasMore: true, NextPageToken: token}, data, nil
}
