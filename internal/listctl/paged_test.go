package listctl_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/api/apitest"
	"github.com/rshade/fintrack/internal/listctl"
	"github.com/rshade/fintrack/internal/notify"
)

func TestPaged(t *testing.T) {
	var gotFilters url.Values
	fetch := listctl.Paged(func(_ context.Context, filters url.Values) ([]string, error) {
		gotFilters = filters
		return []string{"a", "b", "c", "d", "e"}, nil
	})

	q := url.Values{"page": {"1"}, "size": {"2"}, "sort": {"name,asc"}, "type": {"INCOME"}}
	page, err := fetch(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "d"}, page.Content)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 5, page.TotalElements)
	assert.Equal(t, url.Values{"type": {"INCOME"}}, gotFilters)

	page, err = fetch(context.Background(), url.Values{"page": {"9"}, "size": {"2"}})
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.NotNil(t, page.Content)
}

func TestControllerAgainstBackend(t *testing.T) {
	srv := apitest.New(t)
	food := srv.AddCategory("Food", "#ff0000", api.Expense)
	salary := srv.AddCategory("Salary", "#00ff00", api.Income)
	for day := 1; day <= 25; day++ {
		srv.AddTransaction(float64(day)*1000, food.ID, api.NewDate(2025, 7, day), "meal")
	}
	srv.AddTransaction(9_000_000, salary.ID, api.NewDate(2025, 7, 1), "salary")
	client := srv.Client(t)

	view := &listctl.Snapshot[api.Transaction]{}
	rec := &notify.Recorder{}
	ctl := listctl.New(client.ListTransactions, view,
		listctl.WithPageSize[api.Transaction](10, []int{10, 20}),
		listctl.WithNotifier[api.Transaction](rec),
		listctl.WithNoun[api.Transaction]("transactions"),
	)
	ctx := context.Background()

	ctl.SetFilter(api.FilterType, api.Expense)
	ctl.SetFilter(api.FilterMonth, 7)
	ctl.SetFilter(api.FilterYear, 2025)
	require.NoError(t, ctl.Load(ctx, 2))

	assert.Equal(t, "Showing 21-25 of 25", view.Caption)
	require.Len(t, view.Items, 5)
	assert.Equal(t, api.NewDate(2025, 7, 5).String(), view.Items[0].Date.String())

	reqs := srv.RequestsTo(http.MethodGet, "/api/transactions")
	require.Len(t, reqs, 1)
	assert.Equal(t, url.Values{
		"type":  {"EXPENSE"},
		"month": {"7"},
		"year":  {"2025"},
		"page":  {"2"},
		"size":  {"10"},
	}, reqs[0].Query)

	// Deleting a row reloads the same page.
	require.NoError(t, client.DeleteTransaction(ctx, view.Items[0].ID))
	require.NoError(t, ctl.Reload(ctx))
	assert.Equal(t, "Showing 21-24 of 24", view.Caption)
	assert.Equal(t, 2, ctl.CurrentPage())

	ctl.SetFilter(api.FilterKeyword, "nothing matches")
	require.NoError(t, ctl.Load(ctx, 0))
	assert.True(t, view.IsEmpty)
	assert.Equal(t, "Showing 0-0 of 0", view.Caption)

	srv.Fail("GET /api/transactions", http.StatusServiceUnavailable)
	require.Error(t, ctl.Load(ctx, 0))
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "Failed to load transactions: injected failure 503", last.Message)
	assert.True(t, view.IsEmpty, "previous render kept")
}
