package client

import (
	"context"
	"net/http"
	"net/url"
)

type categoryEnvelope struct {
	Category Category `json:"category"`
}

func (c *Client) CreateCategory(ctx context.Context, name string) (*Category, error) {
	var resp categoryEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/categories", nil, map[string]string{"name": name}, &resp, true); err != nil {
		return nil, err
	}
	return &resp.Category, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var resp struct {
		Categories []Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id, name string) (*Category, error) {
	var resp categoryEnvelope
	path := "/api/categories/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, nil, map[string]string{"name": name}, &resp, true); err != nil {
		return nil, err
	}
	return &resp.Category, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/categories/"+url.PathEscape(id), nil, nil, nil, true)
}
