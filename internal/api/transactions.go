package api

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const transactionsPath = "/api/transactions"

// Transaction filter query keys understood by the list endpoint.
const (
	FilterCategoryID = "categoryId"
	FilterType       = "type"
	FilterMonth      = "month"
	FilterYear       = "year"
	FilterKeyword    = "keyword"
)

// TransactionFilter is the set of list filters. Zero fields are unset.
type TransactionFilter struct {
	Month      int
	Year       int
	Type       TransactionType
	CategoryID int64
	Keyword    string
}

// Fields maps the filter onto query keys. Unset fields map to nil so that a
// list controller clears them.
func (f TransactionFilter) Fields() map[string]any {
	fields := map[string]any{
		FilterMonth:      nil,
		FilterYear:       nil,
		FilterType:       nil,
		FilterCategoryID: nil,
		FilterKeyword:    nil,
	}
	if f.Month != 0 {
		fields[FilterMonth] = f.Month
	}
	if f.Year != 0 {
		fields[FilterYear] = f.Year
	}
	if f.Type != "" {
		fields[FilterType] = string(f.Type)
	}
	if f.CategoryID != 0 {
		fields[FilterCategoryID] = f.CategoryID
	}
	if k := strings.TrimSpace(f.Keyword); k != "" {
		fields[FilterKeyword] = k
	}
	return fields
}

// ListTransactions fetches one page. query carries page, size, sort and any
// filter keys; unset filters must be omitted by the caller.
func (c *Client) ListTransactions(ctx context.Context, query url.Values) (Page[Transaction], error) {
	var page Page[Transaction]
	err := c.getJSON(ctx, transactionsPath, query, &page)
	return page, err
}

// GetTransaction fetches a single transaction.
func (c *Client) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	var t Transaction
	err := c.getJSON(ctx, itemPath(transactionsPath, id), nil, &t)
	return t, err
}

// CreateTransaction adds a transaction.
func (c *Client) CreateTransaction(ctx context.Context, req TransactionRequest) (Transaction, error) {
	var t Transaction
	err := c.sendJSON(ctx, http.MethodPost, transactionsPath, nil, req, &t)
	return t, err
}

// UpdateTransaction replaces a transaction.
func (c *Client) UpdateTransaction(ctx context.Context, id int64, req TransactionRequest) (Transaction, error) {
	var t Transaction
	err := c.sendJSON(ctx, http.MethodPut, itemPath(transactionsPath, id), nil, req, &t)
	return t, err
}

// DeleteTransaction removes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	return c.sendJSON(ctx, http.MethodDelete, itemPath(transactionsPath, id), nil, nil, nil)
}

// DownloadImportTemplate writes the Excel import template to w and returns
// the server-suggested file name.
func (c *Client) DownloadImportTemplate(ctx context.Context, w io.Writer) (Download, error) {
	return c.download(ctx, transactionsPath+"/template", nil, w, "transaction_import_template.xlsx")
}
