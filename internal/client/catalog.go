package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"biglibrary/internal/catalog"
)

// PageMeta is the pagination block the API attaches to list responses.
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Search runs one catalog page query. An empty query returns an empty page
// without calling the API.
func (c *Client) Search(ctx context.Context, q catalog.Query) (catalog.Page, error) {
	if strings.TrimSpace(q.Q) == "" {
		return catalog.Page{}, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = catalog.DefaultLimit
	}
	v := url.Values{}
	v.Set("q", q.Q)
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Order != "" {
		v.Set("order", string(q.Order))
	}
	v.Set("page", strconv.Itoa(q.Offset/limit+1))
	v.Set("page_size", strconv.Itoa(limit))

	var (
		items []catalog.Item
		meta  PageMeta
	)
	if err := c.doData(ctx, http.MethodGet, "/v1/catalog/search?"+v.Encode(), nil, &items, &meta); err != nil {
		return catalog.Page{}, err
	}
	return catalog.Page{Items: items, TotalItems: meta.Total, Offset: q.Offset, Limit: meta.PageSize}, nil
}

// Volume fetches one catalog item by id.
func (c *Client) Volume(ctx context.Context, id string) (catalog.Item, error) {
	var it catalog.Item
	err := c.doData(ctx, http.MethodGet, "/v1/catalog/volumes/"+url.PathEscape(id), nil, &it, nil)
	return it, err
}
