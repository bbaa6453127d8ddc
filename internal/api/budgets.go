package api

import (
	"context"
	"net/http"
)

const budgetsPath = "/api/budgets"

// ListBudgets returns the budgets for a month. Both month and year are required.
func (c *Client) ListBudgets(ctx context.Context, p Period) ([]Budget, error) {
	if err := ValidatePeriod(p.Month, p.Year); err != nil {
		return nil, err
	}
	var out []Budget
	err := c.getJSON(ctx, budgetsPath, periodQuery(p), &out)
	return out, err
}

// BudgetStatuses returns each budget of the month with the amount spent.
func (c *Client) BudgetStatuses(ctx context.Context, p Period) ([]BudgetStatus, error) {
	if err := ValidatePeriod(p.Month, p.Year); err != nil {
		return nil, err
	}
	var out []BudgetStatus
	err := c.getJSON(ctx, budgetsPath+"/status", periodQuery(p), &out)
	return out, err
}

// CreateBudget adds a budget.
func (c *Client) CreateBudget(ctx context.Context, req BudgetRequest) (Budget, error) {
	var out Budget
	err := c.sendJSON(ctx, http.MethodPost, budgetsPath, nil, req, &out)
	return out, err
}

// UpdateBudget replaces a budget.
func (c *Client) UpdateBudget(ctx context.Context, id int64, req BudgetRequest) (Budget, error) {
	var out Budget
	err := c.sendJSON(ctx, http.MethodPut, itemPath(budgetsPath, id), nil, req, &out)
	return out, err
}

// DeleteBudget removes a budget.
func (c *Client) DeleteBudget(ctx context.Context, id int64) error {
	return c.sendJSON(ctx, http.MethodDelete, itemPath(budgetsPath, id), nil, nil, nil)
}
