package client

import (
	"context"
	"net/http"
	"net/url"

	"biglibrary/internal/article"
)

func (c *Client) ListArticles(ctx context.Context) ([]article.Article, error) {
	var list []article.Article
	err := c.doData(ctx, http.MethodGet, "/v1/articles", nil, &list, nil)
	return list, err
}

func (c *Client) PublishArticle(ctx context.Context, in article.Input) (article.Article, error) {
	var a article.Article
	err := c.doData(ctx, http.MethodPost, "/v1/articles", in, &a, nil)
	return a, err
}

func (c *Client) UpdateArticle(ctx context.Context, id string, p article.Patch) (article.Article, error) {
	var a article.Article
	err := c.doData(ctx, http.MethodPatch, "/v1/articles/"+url.PathEscape(id), p, &a, nil)
	return a, err
}

func (c *Client) DeleteArticle(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/articles/"+url.PathEscape(id), nil, nil)
}
