package api

import "context"

const dashboardPath = "/api/dashboard"

// DashboardSummary returns income, expense and balance for the period.
// A zero Period means the current month.
func (c *Client) DashboardSummary(ctx context.Context, p Period) (DashboardSummary, error) {
	var out DashboardSummary
	err := c.getJSON(ctx, dashboardPath+"/summary", periodQuery(p), &out)
	return out, err
}

// CategoryChart returns expense totals per category.
func (c *Client) CategoryChart(ctx context.Context, p Period) (ChartData, error) {
	var out ChartData
	err := c.getJSON(ctx, dashboardPath+"/chart/category", periodQuery(p), &out)
	return out, err
}

// DailyChart returns expense totals per day of the month.
func (c *Client) DailyChart(ctx context.Context, p Period) (ChartData, error) {
	var out ChartData
	err := c.getJSON(ctx, dashboardPath+"/chart/daily", periodQuery(p), &out)
	return out, err
}

// CategorySummary returns each category's share of the period's expenses.
func (c *Client) CategorySummary(ctx context.Context, p Period) ([]CategoryExpenseSummary, error) {
	var out []CategoryExpenseSummary
	err := c.getJSON(ctx, dashboardPath+"/category-summary", periodQuery(p), &out)
	return out, err
}
