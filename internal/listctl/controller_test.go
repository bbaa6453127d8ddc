package listctl

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/notify"
	"github.com/rshade/fintrack/internal/pagination"
)

// fakeBackend serves pages of ints and records every query.
type fakeBackend struct {
	t       *testing.T
	total   int
	queries []url.Values
	err     error
}

func (f *fakeBackend) fetch(_ context.Context, q url.Values) (api.Page[int], error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return api.Page[int]{}, f.err
	}
	page, err := strconv.Atoi(q.Get(ParamPage))
	require.NoError(f.t, err)
	size, err := strconv.Atoi(q.Get(ParamSize))
	require.NoError(f.t, err)
	content := []int{}
	for i := page * size; i < min((page+1)*size, f.total); i++ {
		content = append(content, i)
	}
	return api.Page[int]{
		Content:       content,
		Number:        page,
		Size:          size,
		TotalPages:    pagination.TotalPages(f.total, size),
		TotalElements: f.total,
	}, nil
}

func newTestController(t *testing.T, total int) (*Controller[int], *fakeBackend, *Snapshot[int], *notify.Recorder) {
	t.Helper()
	backend := &fakeBackend{t: t, total: total}
	view := &Snapshot[int]{}
	rec := &notify.Recorder{}
	c := New[int](backend.fetch, view,
		WithPageSize[int](10, []int{10, 20, 50}),
		WithNotifier[int](rec),
		WithNoun[int]("numbers"),
	)
	return c, backend, view, rec
}

func TestSetFilterThenPageSize_SingleFetch(t *testing.T) {
	c, backend, _, _ := newTestController(t, 100)

	c.SetFilter(api.FilterMonth, 3)
	c.SetFilter(api.FilterType, api.Expense)
	require.NoError(t, c.SetPageSize(context.Background(), 50))

	require.Len(t, backend.queries, 1)
	q := backend.queries[0]
	assert.Equal(t, "3", q.Get(api.FilterMonth))
	assert.Equal(t, "EXPENSE", q.Get(api.FilterType))
	assert.Equal(t, "0", q.Get(ParamPage))
	assert.Equal(t, "50", q.Get(ParamSize))
}

func TestQueryOmitsUnsetFilters(t *testing.T) {
	c, _, _, _ := newTestController(t, 0)
	var noCategory *int64
	year := 2025

	c.SetFilter(api.FilterKeyword, "  ")
	c.SetFilter(api.FilterType, nil)
	c.SetFilter(api.FilterCategoryID, noCategory)
	c.SetFilter(api.FilterYear, &year)
	c.SetFilter(api.FilterMonth, "4")
	c.ClearFilter(api.FilterMonth)

	q := c.Query(0)
	assert.Equal(t, url.Values{
		"year": {"2025"},
		"page": {"0"},
		"size": {"10"},
	}, q)

	v, ok := c.Filter(api.FilterYear)
	assert.True(t, ok)
	assert.Equal(t, "2025", v)
	assert.Equal(t, map[string]string{"year": "2025"}, c.Filters())

	c.SetSort("transactionDate", "desc")
	assert.Equal(t, "transactionDate,desc", c.Query(1).Get(ParamSort))

	c.ClearFilters()
	assert.Empty(t, c.Filters())
}

func TestLoadRendersRowsSelectorAndCaption(t *testing.T) {
	c, _, view, rec := newTestController(t, 23)

	require.NoError(t, c.Load(context.Background(), 2))

	assert.Equal(t, []int{20, 21, 22}, view.Items)
	assert.False(t, view.IsEmpty)
	assert.Equal(t, "Showing 21-23 of 23", view.Caption)
	assert.Equal(t, []int{0, 1, 2}, view.Selector.Pages())
	assert.Equal(t, pagination.State{Number: 2, Size: 10, TotalPages: 3, TotalElements: 23}, c.State())
	assert.True(t, c.HasPrevious())
	assert.False(t, c.HasNext())
	assert.True(t, c.Loaded())
	assert.False(t, c.Pending())
	assert.Empty(t, rec.Entries())
}

func TestLoadEmptyResultIsNotAnError(t *testing.T) {
	c, _, view, rec := newTestController(t, 0)

	require.NoError(t, c.Load(context.Background(), 0))

	assert.True(t, view.IsEmpty)
	assert.Nil(t, view.Items)
	assert.Equal(t, "Showing 0-0 of 0", view.Caption)
	assert.True(t, view.Selector.Empty())
	assert.Empty(t, rec.Entries())
}

func TestLoadFailureKeepsPreviousRender(t *testing.T) {
	c, backend, view, rec := newTestController(t, 42)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx, 1))
	before := *view
	stateBefore := c.State()

	backend.err = &api.Error{StatusCode: http.StatusInternalServerError, Message: "database unavailable"}
	err := c.Load(ctx, 3)
	require.Error(t, err)

	assert.Equal(t, before, *view)
	assert.Equal(t, stateBefore, c.State())
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.Error, last.Severity)
	assert.Equal(t, "Failed to load numbers: database unavailable", last.Message)

	backend.err = errors.New("dial tcp: connection refused")
	require.Error(t, c.Load(ctx, 0))
	last, _ = rec.Last()
	assert.Equal(t, "Failed to load numbers: dial tcp: connection refused", last.Message)
}

func TestUnauthorizedIsEscalatedNotNotified(t *testing.T) {
	c, backend, view, rec := newTestController(t, 5)
	backend.err = &api.Error{StatusCode: http.StatusUnauthorized}

	err := c.Load(context.Background(), 0)
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Empty(t, rec.Entries())
	assert.Zero(t, view.Renders)
}

func TestCustomEscalate(t *testing.T) {
	backend := &fakeBackend{t: t, err: errors.New("boom")}
	rec := &notify.Recorder{}
	c := New[int](backend.fetch, nil,
		WithNotifier[int](rec),
		WithEscalate[int](func(error) bool { return true }),
	)
	require.Error(t, c.Load(context.Background(), 0))
	assert.Empty(t, rec.Entries())
}

func TestStaleResponsesAreDropped(t *testing.T) {
	c, _, view, _ := newTestController(t, 100)
	ctx := context.Background()

	first := c.Begin(1)
	second := c.Begin(4)
	assert.True(t, c.Pending())

	applied, err := c.Complete(second.Do(ctx))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.False(t, c.Pending())

	applied, err = c.Complete(first.Do(ctx))
	require.NoError(t, err)
	assert.False(t, applied)

	assert.Equal(t, 4, c.CurrentPage())
	assert.Equal(t, []int{40, 41, 42, 43, 44, 45, 46, 47, 48, 49}, view.Items)
	assert.Equal(t, 1, view.Renders)
}

func TestStaleResponseArrivingFirstIsDropped(t *testing.T) {
	c, _, view, _ := newTestController(t, 100)
	ctx := context.Background()

	first := c.Begin(1)
	second := c.Begin(2)

	applied, _ := c.Complete(first.Do(ctx))
	assert.False(t, applied)
	assert.Zero(t, view.Renders)
	assert.True(t, c.Pending())

	applied, _ = c.Complete(second.Do(ctx))
	assert.True(t, applied)
	assert.Equal(t, 2, c.CurrentPage())
}

func TestBeginSnapshotsQuery(t *testing.T) {
	c, _, _, _ := newTestController(t, 10)
	c.SetFilter(api.FilterKeyword, "coffee")
	req := c.Begin(0)
	c.SetFilter(api.FilterKeyword, "tea")

	assert.Equal(t, "coffee", req.Query.Get(api.FilterKeyword))
	assert.Equal(t, 0, c.Begin(-3).Page)
}

func TestLoadIsIdempotent(t *testing.T) {
	c, _, view, _ := newTestController(t, 57)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx, 3))
	first := *view
	require.NoError(t, c.Load(ctx, 3))
	first.Renders = view.Renders

	assert.Equal(t, first, *view)
}

func TestReloadKeepsCurrentPage(t *testing.T) {
	c, backend, _, _ := newTestController(t, 80)
	ctx := context.Background()
	c.SetFilter(api.FilterYear, 2025)

	require.NoError(t, c.Load(ctx, 5))
	backend.total = 79
	require.NoError(t, c.Reload(ctx))

	last := backend.queries[len(backend.queries)-1]
	assert.Equal(t, "5", last.Get(ParamPage))
	assert.Equal(t, "2025", last.Get(api.FilterYear))
	assert.Equal(t, 79, c.State().TotalElements)
}

func TestSelect(t *testing.T) {
	c, backend, _, _ := newTestController(t, 100)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx, 0))

	sel := c.Selector()
	prev := sel.Controls[0]
	require.True(t, prev.Disabled)
	require.NoError(t, c.Select(ctx, prev))
	require.NoError(t, c.Select(ctx, pagination.Control{Kind: pagination.ControlEllipsis, Page: -1}))
	assert.Len(t, backend.queries, 1, "inert controls do not fetch")

	next := sel.Controls[len(sel.Controls)-1]
	require.NoError(t, c.Select(ctx, next))
	assert.Equal(t, 1, c.CurrentPage())
}

func TestPageSizeOptions(t *testing.T) {
	c, backend, _, _ := newTestController(t, 100)

	require.ErrorIs(t, c.SetPageSize(context.Background(), 15), pagination.ErrInvalidPageSize)
	assert.Empty(t, backend.queries)
	assert.Equal(t, 10, c.PageSize())

	assert.Equal(t, 20, c.NextPageSize())
	require.NoError(t, c.Resize(50))
	assert.Equal(t, 10, c.NextPageSize())
	assert.Equal(t, []int{10, 20, 50}, c.PageSizeOptions())
}

func TestPageSizeChangeResetsToFirstPage(t *testing.T) {
	c, backend, _, _ := newTestController(t, 100)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx, 7))

	require.NoError(t, c.SetPageSize(ctx, 20))
	last := backend.queries[len(backend.queries)-1]
	assert.Equal(t, "0", last.Get(ParamPage))
	assert.Equal(t, 0, c.CurrentPage())
}

func TestViewFuncsSkipsNil(t *testing.T) {
	var rows []int
	v := ViewFuncs[int]{Rows: func(items []int) { rows = items }}
	assert.NotPanics(t, func() {
		v.RenderRows([]int{1})
		v.RenderEmpty()
		v.RenderSelector(pagination.Selector{})
		v.RenderCaption("x")
	})
	assert.Equal(t, []int{1}, rows)
}
