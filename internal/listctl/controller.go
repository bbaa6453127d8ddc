package listctl

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/notify"
	"github.com/rshade/fintrack/internal/pagination"
)

// Query parameter names for paging and sorting.
const (
	ParamPage = "page"
	ParamSize = "size"
	ParamSort = "sort"
)

// Fetcher issues one list request for the given query.
type Fetcher[T any] func(ctx context.Context, query url.Values) (api.Page[T], error)

// Controller is a paged, filtered list. Create one per list view.
type Controller[T any] struct {
	fetch    Fetcher[T]
	view     View[T]
	sink     notify.Sink
	escalate func(error) bool
	logger   zerolog.Logger
	noun     string

	filters map[string]string
	size    int
	options []int
	sort    string

	state  pagination.State
	items  []T
	loaded bool

	seq     uint64
	settled uint64
}

// Option configures a Controller.
type Option[T any] func(*Controller[T])

// WithNotifier sets the sink that receives load failures.
func WithNotifier[T any](sink notify.Sink) Option[T] {
	return func(c *Controller[T]) {
		if sink != nil {
			c.sink = sink
		}
	}
}

// WithEscalate sets a predicate for errors the hosting shell handles itself,
// such as an expired session. Matching errors are returned from Complete but
// not sent to the notify sink. The default escalates api.ErrUnauthorized.
func WithEscalate[T any](fn func(error) bool) Option[T] {
	return func(c *Controller[T]) { c.escalate = fn }
}

// WithLogger sets the logger.
func WithLogger[T any](logger zerolog.Logger) Option[T] {
	return func(c *Controller[T]) { c.logger = logger }
}

// WithPageSize sets the initial page size and the sizes a user may pick.
// An empty options slice accepts any positive size.
func WithPageSize[T any](size int, options []int) Option[T] {
	return func(c *Controller[T]) {
		c.size = size
		c.options = slices.Clone(options)
	}
}

// WithNoun names the list in notifications, e.g. "transactions".
func WithNoun[T any](noun string) Option[T] {
	return func(c *Controller[T]) { c.noun = noun }
}

// DefaultPageSize is used when no WithPageSize option is given.
const DefaultPageSize = 20

// New returns a controller that fetches with fetch and renders into view.
func New[T any](fetch Fetcher[T], view View[T], opts ...Option[T]) *Controller[T] {
	c := &Controller[T]{
		fetch:    fetch,
		view:     view,
		sink:     notify.Discard,
		escalate: api.IsUnauthorized,
		logger:   zerolog.Nop(),
		noun:     "items",
		filters:  make(map[string]string),
		size:     DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.view == nil {
		c.view = ViewFuncs[T]{}
	}
	c.logger = c.logger.With().Str("component", "listctl").Str("list", c.noun).Logger()
	return c
}

// SetFilter sets one filter field. nil, an empty string, or a nil pointer
// clears it. It does not fetch; call Load(ctx, 0) once all filters are set.
func (c *Controller[T]) SetFilter(field string, value any) {
	s, ok := filterString(value)
	if !ok {
		delete(c.filters, field)
		return
	}
	c.filters[field] = s
}

// ClearFilter unsets one filter field.
func (c *Controller[T]) ClearFilter(field string) {
	delete(c.filters, field)
}

// ClearFilters unsets every filter field.
func (c *Controller[T]) ClearFilters() {
	clear(c.filters)
}

// Filter returns the current value of a filter field.
func (c *Controller[T]) Filter(field string) (string, bool) {
	v, ok := c.filters[field]
	return v, ok
}

// Filters returns a copy of the set filter fields.
func (c *Controller[T]) Filters() map[string]string {
	return maps.Clone(c.filters)
}

// SetSort sets the server-side sort, e.g. ("transactionDate", "desc").
// An empty field restores the server default.
func (c *Controller[T]) SetSort(field, order string) {
	c.sort = pagination.Params{SortField: field, SortOrder: order}.SortParam()
}

// PageSize returns the current page size.
func (c *Controller[T]) PageSize() int {
	return c.size
}

// PageSizeOptions returns the sizes a user may pick.
func (c *Controller[T]) PageSizeOptions() []int {
	return slices.Clone(c.options)
}

// Resize changes the page size without fetching. The next load should
// target page 0.
func (c *Controller[T]) Resize(size int) error {
	if err := (pagination.Params{Size: size}).Validate(c.options); err != nil {
		return err
	}
	c.size = size
	return nil
}

// NextPageSize returns the option after the current size, wrapping around.
func (c *Controller[T]) NextPageSize() int {
	if len(c.options) == 0 {
		return c.size
	}
	i := slices.Index(c.options, c.size)
	return c.options[(i+1)%len(c.options)]
}

// Query builds the request query for page from the current state. Unset
// filters are omitted.
func (c *Controller[T]) Query(page int) url.Values {
	q := url.Values{}
	for k, v := range c.filters {
		q.Set(k, v)
	}
	q.Set(ParamPage, strconv.Itoa(page))
	q.Set(ParamSize, strconv.Itoa(c.size))
	if c.sort != "" {
		q.Set(ParamSort, c.sort)
	}
	return q
}

// Request is one issued list request. It holds a snapshot of the query and
// can run on any goroutine.
type Request[T any] struct {
	Seq   uint64
	Page  int
	Query url.Values
	fetch Fetcher[T]
}

// Result is the outcome of a Request.
type Result[T any] struct {
	Seq  uint64
	Page int
	Data api.Page[T]
	Err  error
}

// Begin issues a request for page, making it the only one whose result
// will be applied.
func (c *Controller[T]) Begin(page int) *Request[T] {
	if page < 0 {
		page = 0
	}
	c.seq++
	return &Request[T]{Seq: c.seq, Page: page, Query: c.Query(page), fetch: c.fetch}
}

// Do performs the request.
func (r *Request[T]) Do(ctx context.Context) Result[T] {
	data, err := r.fetch(ctx, r.Query)
	return Result[T]{Seq: r.Seq, Page: r.Page, Data: data, Err: err}
}

// Complete applies res if it belongs to the latest request. It reports
// whether the result was applied and returns the fetch error, if any.
// Stale results are dropped without touching the view.
func (c *Controller[T]) Complete(res Result[T]) (bool, error) {
	if res.Seq != c.seq {
		c.logger.Debug().
			Str("operation", "complete").
			Uint64("seq", res.Seq).
			Uint64("latest", c.seq).
			Msg("dropping stale list response")
		return false, nil
	}
	c.settled = res.Seq

	if res.Err != nil {
		if c.escalate != nil && c.escalate(res.Err) {
			c.logger.Debug().Err(res.Err).Int("page", res.Page).Msg("list load escalated")
			return true, res.Err
		}
		c.logger.Warn().
			Str("operation", "load").
			Err(res.Err).
			Int("page", res.Page).
			Msg("list load failed")
		c.sink.Notify(notify.Error, c.failureMessage(res.Err))
		return true, res.Err
	}

	data := res.Data
	c.state = pagination.State{
		Number:        data.Number,
		Size:          data.Size,
		TotalPages:    data.TotalPages,
		TotalElements: data.TotalElements,
	}
	if c.state.Size == 0 {
		c.state.Size = c.size
	}
	c.items = data.Content
	c.loaded = true

	if len(data.Content) == 0 {
		c.view.RenderEmpty()
	} else {
		c.view.RenderRows(data.Content)
	}
	c.view.RenderSelector(c.Selector())
	c.view.RenderCaption(c.state.Caption())

	c.logger.Debug().
		Str("operation", "load").
		Uint64("seq", res.Seq).
		Int("page", c.state.Number).
		Int("total_pages", c.state.TotalPages).
		Int("total_elements", c.state.TotalElements).
		Int("items", len(data.Content)).
		Msg("list loaded")
	return true, nil
}

func (c *Controller[T]) failureMessage(err error) string {
	msg := err.Error()
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	return fmt.Sprintf("Failed to load %s: %s", c.noun, msg)
}

// Load fetches page synchronously and applies the result.
func (c *Controller[T]) Load(ctx context.Context, page int) error {
	_, err := c.Complete(c.Begin(page).Do(ctx))
	return err
}

// SetPageSize changes the page size and loads page 0.
func (c *Controller[T]) SetPageSize(ctx context.Context, size int) error {
	if err := c.Resize(size); err != nil {
		return err
	}
	return c.Load(ctx, 0)
}

// Reload fetches the current page again, e.g. after an item was edited.
func (c *Controller[T]) Reload(ctx context.Context) error {
	return c.Load(ctx, c.CurrentPage())
}

// Select follows a page selector control. Disabled, active and ellipsis
// controls are ignored.
func (c *Controller[T]) Select(ctx context.Context, ctl pagination.Control) error {
	if !ctl.Interactive() {
		return nil
	}
	return c.Load(ctx, ctl.Page)
}

// CurrentPage returns the page index of the last successful load.
func (c *Controller[T]) CurrentPage() int {
	return c.state.Number
}

// State returns the pagination state of the last successful load.
func (c *Controller[T]) State() pagination.State {
	return c.state
}

// Items returns the rows of the last successful load.
func (c *Controller[T]) Items() []T {
	return c.items
}

// Loaded reports whether any load has succeeded.
func (c *Controller[T]) Loaded() bool {
	return c.loaded
}

// Pending reports whether the latest issued request has not completed.
func (c *Controller[T]) Pending() bool {
	return c.settled != c.seq
}

// Selector returns the page selector for the current state.
func (c *Controller[T]) Selector() pagination.Selector {
	return pagination.BuildSelector(c.state.Number, c.state.TotalPages)
}

// HasPrevious reports whether a previous page exists.
func (c *Controller[T]) HasPrevious() bool {
	return c.state.HasPrevious()
}

// HasNext reports whether a next page exists.
func (c *Controller[T]) HasNext() bool {
	return c.state.HasNext()
}

// filterString normalizes a filter value. It reports false for unset values.
func filterString(value any) (string, bool) {
	if value == nil {
		return "", false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		value = rv.Elem().Interface()
	}
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
