package api

import (
	"context"
	"net/http"
	"net/url"
)

const categoriesPath = "/api/categories"

// ListCategories returns all categories, or only those of typ when set.
func (c *Client) ListCategories(ctx context.Context, typ TransactionType) ([]Category, error) {
	q := url.Values{}
	if typ != "" {
		q.Set("type", string(typ))
	}
	var out []Category
	err := c.getJSON(ctx, categoriesPath, q, &out)
	return out, err
}

// CreateCategory adds a category.
func (c *Client) CreateCategory(ctx context.Context, req CategoryRequest) (Category, error) {
	var out Category
	err := c.sendJSON(ctx, http.MethodPost, categoriesPath, nil, req, &out)
	return out, err
}

// UpdateCategory replaces a category.
func (c *Client) UpdateCategory(ctx context.Context, id int64, req CategoryRequest) (Category, error) {
	var out Category
	err := c.sendJSON(ctx, http.MethodPut, itemPath(categoriesPath, id), nil, req, &out)
	return out, err
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.sendJSON(ctx, http.MethodDelete, itemPath(categoriesPath, id), nil, nil, nil)
}
