package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/api/apitest"
	"github.com/rshade/fintrack/internal/logging"
)

func seed(t *testing.T) (*apitest.Server, api.Category, api.Category) {
	t.Helper()
	srv := apitest.New(t)
	food := srv.AddCategory("Food", "#ff0000", api.Expense)
	salary := srv.AddCategory("Salary", "#00ff00", api.Income)
	return srv, food, salary
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := api.New("localhost:8080")
	require.Error(t, err)

	_, err = api.New("ftp://example.com")
	require.Error(t, err)

	c, err := api.New("http://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", c.BaseURL())
}

func TestListTransactions_QueryAndEnvelope(t *testing.T) {
	srv, food, salary := seed(t)
	for i := 1; i <= 23; i++ {
		srv.AddTransaction(float64(i*1000), food.ID, api.NewDate(2025, 3, i), "lunch")
	}
	srv.AddTransaction(5_000_000, salary.ID, api.NewDate(2025, 3, 1), "march salary")

	c := srv.Client(t)
	q := url.Values{}
	q.Set("page", "2")
	q.Set("size", "10")
	q.Set(api.FilterType, string(api.Expense))
	q.Set(api.FilterMonth, "3")

	page, err := c.ListTransactions(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 2, page.Number)
	assert.Equal(t, 10, page.Size)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 23, page.TotalElements)
	require.Len(t, page.Content, 3)
	assert.Equal(t, "Food", page.Content[0].CategoryName)
	assert.Equal(t, api.Expense, page.Content[0].Type)

	reqs := srv.RequestsTo(http.MethodGet, "/api/transactions")
	require.Len(t, reqs, 1)
	assert.Equal(t, "EXPENSE", reqs[0].Query.Get("type"))
	assert.Equal(t, "2", reqs[0].Query.Get("page"))
	assert.False(t, reqs[0].Query.Has("keyword"))
}

func TestTransactionCRUD(t *testing.T) {
	srv, food, _ := seed(t)
	c := srv.Client(t)
	ctx := context.Background()

	created, err := c.CreateTransaction(ctx, api.TransactionRequest{
		Amount:     45000,
		Type:       api.Expense,
		CategoryID: food.ID,
		Date:       api.NewDate(2025, 4, 2),
		Note:       "pho",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "2025-04-02", created.Date.String())

	got, err := c.GetTransaction(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	upd := api.RequestFrom(got)
	upd.Amount = 50000
	updated, err := c.UpdateTransaction(ctx, created.ID, upd)
	require.NoError(t, err)
	assert.InDelta(t, 50000, updated.Amount, 0.001)

	require.NoError(t, c.DeleteTransaction(ctx, created.ID))

	_, err = c.GetTransaction(ctx, created.ID)
	require.ErrorIs(t, err, api.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))
	assert.Contains(t, err.Error(), "Transaction not found")
}

func TestUnauthorized(t *testing.T) {
	srv, _, _ := seed(t)
	srv.RequireToken("s3cret")

	_, err := srv.Client(t).ListCategories(context.Background(), "")
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.True(t, api.IsUnauthorized(err))

	cats, err := srv.Client(t, api.WithToken("s3cret")).ListCategories(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}

func TestLoginSetsToken(t *testing.T) {
	srv, _, _ := seed(t)
	srv.RequireToken("issued-token")
	srv.AddUser("me@example.com", "pw")
	c := srv.Client(t)

	_, err := c.Login(context.Background(), api.LoginRequest{Email: "me@example.com", Password: "wrong"})
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Empty(t, c.Token())

	resp, err := c.Login(context.Background(), api.LoginRequest{Email: "me@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "issued-token", resp.Token)
	assert.Equal(t, "issued-token", c.Token())

	_, err = c.ListCategories(context.Background(), api.Income)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), api.LoginRequest{})
	require.Error(t, err)
}

func TestCategoriesAndBudgets(t *testing.T) {
	srv, food, _ := seed(t)
	c := srv.Client(t)
	ctx := context.Background()

	incomes, err := c.ListCategories(ctx, api.Income)
	require.NoError(t, err)
	require.Len(t, incomes, 1)
	assert.Equal(t, "Salary", incomes[0].Name)

	cat, err := c.CreateCategory(ctx, api.CategoryRequest{Name: "Rent", Color: "#123", Type: api.Expense})
	require.NoError(t, err)
	cat, err = c.UpdateCategory(ctx, cat.ID, api.CategoryRequest{Name: "Housing", Color: "#123456", Type: api.Expense})
	require.NoError(t, err)
	assert.Equal(t, "Housing", cat.Name)

	budget, err := c.CreateBudget(ctx, api.BudgetRequest{CategoryID: food.ID, Amount: 100000, Month: 5, Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, "Food", budget.CategoryName)

	srv.AddTransaction(150000, food.ID, api.NewDate(2025, 5, 3), "feast")

	statuses, err := c.BudgetStatuses(ctx, api.Period{Month: 5, Year: 2025})
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Exceeded)
	assert.InDelta(t, 150.0, statuses[0].Percentage, 0.01)
	assert.InDelta(t, -50000, statuses[0].RemainingAmount, 0.01)

	budgets, err := c.ListBudgets(ctx, api.Period{Month: 5, Year: 2025})
	require.NoError(t, err)
	assert.Len(t, budgets, 1)

	_, err = c.UpdateBudget(ctx, budget.ID, api.BudgetRequest{CategoryID: food.ID, Amount: 200000, Month: 5, Year: 2025})
	require.NoError(t, err)
	require.NoError(t, c.DeleteBudget(ctx, budget.ID))
	require.NoError(t, c.DeleteCategory(ctx, cat.ID))

	err = c.DeleteCategory(ctx, food.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, api.StatusCode(err))

	_, err = c.ListBudgets(ctx, api.Period{Month: 13, Year: 2025})
	require.Error(t, err)
}

func TestDashboardAndReports(t *testing.T) {
	srv, food, salary := seed(t)
	srv.AddTransaction(10_000_000, salary.ID, api.NewDate(2025, 6, 1), "salary")
	srv.AddTransaction(300_000, food.ID, api.NewDate(2025, 6, 2), "groceries")
	srv.AddTransaction(200_000, food.ID, api.NewDate(2025, 6, 2), "dinner")
	c := srv.Client(t)
	ctx := context.Background()
	p := api.Period{Month: 6, Year: 2025}

	sum, err := c.DashboardSummary(ctx, p)
	require.NoError(t, err)
	assert.InDelta(t, 9_500_000, sum.Balance, 0.01)
	assert.EqualValues(t, 3, sum.TransactionCount)

	chart, err := c.CategoryChart(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, []string{"Food"}, chart.Labels)

	daily, err := c.DailyChart(ctx, p)
	require.NoError(t, err)
	assert.Len(t, daily.Labels, 30)
	assert.InDelta(t, 500_000, daily.Data[1], 0.01)

	cs, err := c.CategorySummary(ctx, p)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.InDelta(t, 100, cs[0].Percentage, 0.01)

	rep, err := c.MonthlyReport(ctx, p)
	require.NoError(t, err)
	require.Len(t, rep.TopExpenseCategories, 1)

	var buf bytes.Buffer
	dl, err := c.ExportReport(ctx, api.ExportCSV, p, &buf)
	require.NoError(t, err)
	assert.Equal(t, "transactions_2025_6.csv", dl.FileName)
	assert.Equal(t, int64(buf.Len()), dl.Bytes)
	assert.Contains(t, buf.String(), "groceries")

	_, err = c.ExportReport(ctx, "pdf", p, &buf)
	require.Error(t, err)
}

func TestImportAndTemplate(t *testing.T) {
	srv, _, _ := seed(t)
	srv.SetImportResult(api.ImportResult{TotalRows: 3, SuccessCount: 2, ErrorCount: 1, Errors: []string{"Row 3: bad amount"}})
	c := srv.Client(t)
	ctx := context.Background()

	var calls atomic.Int64
	var last atomic.Int64
	res, err := c.ImportTransactions(ctx, "march.xlsx", strings.NewReader("fake workbook bytes"), func(sent, total int64) {
		calls.Add(1)
		last.Store(sent)
		assert.LessOrEqual(t, sent, total)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, []string{"Row 3: bad amount"}, res.Errors)
	assert.Positive(t, calls.Load())
	assert.Positive(t, last.Load())

	_, err = c.ImportTransactions(ctx, "notes.txt", strings.NewReader("x"), nil)
	require.ErrorIs(t, err, api.ErrInvalidImportFile)

	_, err = c.ImportTransactions(ctx, "empty.xls", strings.NewReader(""), nil)
	require.ErrorIs(t, err, api.ErrEmptyImportFile)

	var buf bytes.Buffer
	dl, err := c.DownloadImportTemplate(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, "transaction_import_template.xlsx", dl.FileName)
	assert.Equal(t, apitest.TemplateBytes, buf.Bytes())
}

func TestInjectedServerError(t *testing.T) {
	srv, _, _ := seed(t)
	srv.Fail("GET /api/transactions", http.StatusInternalServerError)

	_, err := srv.Client(t).ListTransactions(context.Background(), nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, api.ErrUnauthorized))

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "injected failure 500", apiErr.Message)
}

func TestRequestHeadersAndLogging(t *testing.T) {
	var seen http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Clone()
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	t.Cleanup(ts.Close)

	var logs bytes.Buffer
	logger := zerolog.New(&logs).Level(zerolog.DebugLevel)
	c, err := api.New(ts.URL,
		api.WithToken("tok"),
		api.WithLogger(logger),
		api.WithTimeout(5*time.Second),
		api.WithUserAgent("fintrack/test"),
	)
	require.NoError(t, err)

	ctx := logging.ContextWithTraceID(context.Background(), "01TRACE")
	_, err = c.DashboardSummary(ctx, api.Period{})
	require.Error(t, err)
	assert.Equal(t, "upstream down", err.(*api.Error).Message) //nolint:errorlint // Direct type for test.

	assert.Equal(t, "Bearer tok", seen.Get("Authorization"))
	assert.Equal(t, "01TRACE", seen.Get(api.HeaderTraceID))
	assert.Equal(t, "fintrack/test", seen.Get("User-Agent"))
	assert.NotEmpty(t, seen.Get(api.HeaderRequestID))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "api", entry["component"])
	assert.Equal(t, "/api/dashboard/summary", entry["path"])
	assert.EqualValues(t, http.StatusBadGateway, entry["status"])
	assert.Equal(t, seen.Get(api.HeaderRequestID), entry["request_id"])
}
