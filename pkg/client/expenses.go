package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

func (c *Client) CreateExpense(ctx context.Context, input NewExpense) (*Expense, error) {
	var expense Expense
	if err := c.do(ctx, http.MethodPost, "/api/expenses", nil, input, &expense, true); err != nil {
		return nil, err
	}
	return &expense, nil
}

func (c *Client) ListExpenses(ctx context.Context, opts ListOptions) (*ExpensePage, error) {
	var page ExpensePage
	if err := c.do(ctx, http.MethodGet, "/api/expenses", opts.query(), nil, &page, true); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetExpense(ctx context.Context, id string) (*Expense, error) {
	var expense Expense
	if err := c.do(ctx, http.MethodGet, expensePath(id), nil, nil, &expense, true); err != nil {
		return nil, err
	}
	return &expense, nil
}

func (c *Client) UpdateExpense(ctx context.Context, id string, patch ExpensePatch) (*Expense, error) {
	var expense Expense
	if err := c.do(ctx, http.MethodPut, expensePath(id), nil, patch.body(), &expense, true); err != nil {
		return nil, err
	}
	return &expense, nil
}

func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, expensePath(id), nil, nil, nil, true)
}

func expensePath(id string) string {
	return "/api/expenses/" + url.PathEscape(id)
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.From != nil {
		q.Set("from", o.From.UTC().Format(time.RFC3339Nano))
	}
	if o.To != nil {
		q.Set("to", o.To.UTC().Format(time.RFC3339Nano))
	}
	if o.CategoryID != "" {
		q.Set("categoryId", o.CategoryID)
	}
	return q
}
