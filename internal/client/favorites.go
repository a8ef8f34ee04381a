package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"biglibrary/internal/favorites"
)

type addResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// AddFavorite stores a favorite. created is false when the book was
// already in the list.
func (c *Client) AddFavorite(ctx context.Context, in favorites.AddInput) (id string, created bool, err error) {
	var res addResult
	if err := c.do(ctx, http.MethodPost, "/favorites", in, &res); err != nil {
		return "", false, err
	}
	return res.ID, res.Success, nil
}

func (c *Client) RemoveFavorite(ctx context.Context, bookID string) error {
	return c.do(ctx, http.MethodDelete, "/favorites", map[string]string{"bookId": bookID}, nil)
}

func (c *Client) ListFavorites(ctx context.Context) ([]favorites.Favorite, error) {
	var res struct {
		Favorites []favorites.Favorite `json:"favorites"`
	}
	if err := c.do(ctx, http.MethodGet, "/favorites", nil, &res); err != nil {
		return nil, err
	}
	return res.Favorites, nil
}

func (c *Client) IsFavorited(ctx context.Context, bookID string) (bool, error) {
	var res struct {
		Favorited bool `json:"favorited"`
	}
	err := c.do(ctx, http.MethodGet, "/favorites/check?bookId="+url.QueryEscape(bookID), nil, &res)
	return res.Favorited, err
}

// FavoritesView returns one page (one based) of the enriched favorites list.
func (c *Client) FavoritesView(ctx context.Context, page, pageSize int) ([]favorites.Entry, PageMeta, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("page_size", strconv.Itoa(pageSize))

	var (
		entries []favorites.Entry
		meta    PageMeta
	)
	err := c.doData(ctx, http.MethodGet, "/v1/favorites/view?"+v.Encode(), nil, &entries, &meta)
	return entries, meta, err
}
