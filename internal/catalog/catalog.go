// Package catalog shapes Google Books volumes into the items the library
// shows, and keeps the paging arithmetic in one place.
package catalog

import (
	"errors"
)

type Item struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Authors        []string `json:"authors,omitempty"`
	Description    string   `json:"description,omitempty"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	PreviewLink    string   `json:"previewLink,omitempty"`
	PublishedDate  string   `json:"publishedDate,omitempty"`
	Publisher      string   `json:"publisher,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	PageCount      *int     `json:"pageCount,omitempty"`
	Language       string   `json:"language,omitempty"`
	MaturityRating string   `json:"maturityRating,omitempty"`
	AverageRating  *float64 `json:"averageRating,omitempty"`
	RatingsCount   *int     `json:"ratingsCount,omitempty"`
}

type Order string

const (
	OrderRelevance Order = "relevance"
	OrderNewest    Order = "newest"
)

const (
	DefaultLimit = 20
	MaxLimit     = 40
	// MaxPage bounds one based page numbers accepted over HTTP.
	MaxPage = 1000
)

type Query struct {
	Q        string
	Category string
	Order    Order
	Offset   int
	Limit    int
}

type Page struct {
	Items      []Item `json:"items"`
	TotalItems int    `json:"totalItems"`
	Offset     int    `json:"offset"`
	Limit      int    `json:"limit"`
}

var (
	ErrNotFound      = errors.New("volume not found")
	ErrInvalidOrder  = errors.New("order must be relevance or newest")
	ErrInvalidOffset = errors.New("offset must not be negative")
)

// PageCount returns ceil(total/limit), or 0 when limit is not positive.
func PageCount(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func clampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultLimit
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

func (o Order) valid() bool {
	return o == OrderRelevance || o == OrderNewest
}
