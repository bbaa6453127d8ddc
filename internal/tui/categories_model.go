package tui

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/listctl"
	"github.com/rshade/fintrack/internal/logging"
	"github.com/rshade/fintrack/internal/notify"
	"github.com/rshade/fintrack/internal/pagination"
)

// CategoryService is the part of the API client the categories browser uses.
type CategoryService interface {
	ListCategories(ctx context.Context, typ api.TransactionType) ([]api.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// CategoriesOptions configures the categories browser.
type CategoriesOptions struct {
	Logger          zerolog.Logger
	PageSize        int
	PageSizeOptions []int
	Type            api.TransactionType
}

type catPageMsg struct {
	res listctl.Result[api.Category]
}

// CategoriesModel is the Bubble Tea model for browsing categories. The
// endpoint returns every category, so pages are cut client-side.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type CategoriesModel struct {
	ctx     context.Context //nolint:containedctx // Commands run with the caller's context.
	svc     CategoryService
	logger  zerolog.Logger
	ctl     *listctl.Controller[api.Category]
	snap    *listctl.Snapshot[api.Category]
	status  *statusLine
	loading *LoadingState

	table   table.Model
	state   ViewState
	typ     api.TransactionType
	pending *api.Category
	bulk    <-chan tea.Msg

	height int
	err    error
}

// NewCategoriesModel creates the browser and the command that loads page 0.
func NewCategoriesModel(ctx context.Context, svc CategoryService, opts CategoriesOptions) (CategoriesModel, tea.Cmd) {
	logger := logging.ComponentLogger(opts.Logger, "tui")
	size := opts.PageSize
	if size <= 0 {
		size = listctl.DefaultPageSize
	}

	fetch := listctl.Paged(func(ctx context.Context, filters url.Values) ([]api.Category, error) {
		return svc.ListCategories(ctx, api.TransactionType(filters.Get(api.FilterType)))
	})
	status := &statusLine{}
	snap := &listctl.Snapshot[api.Category]{}
	ctl := listctl.New(fetch, snap,
		listctl.WithNotifier[api.Category](notify.Multi{status, notify.NewLogSink(logger)}),
		listctl.WithLogger[api.Category](logger),
		listctl.WithPageSize[api.Category](size, opts.PageSizeOptions),
		listctl.WithNoun[api.Category]("categories"),
	)
	ctl.SetFilter(api.FilterType, string(opts.Type))

	m := CategoriesModel{
		ctx:     ctx,
		svc:     svc,
		logger:  logger,
		ctl:     ctl,
		snap:    snap,
		status:  status,
		loading: NewLoadingState(),
		state:   ViewStateLoading,
		typ:     opts.Type,
		height:  defaultHeight,
	}
	m.table = m.buildTable()
	return m, tea.Batch(m.loading.Init(), m.load(0))
}

// Init implements tea.Model.
func (m CategoriesModel) Init() tea.Cmd {
	return m.loading.Init()
}

// Err returns the error that ended the session.
func (m CategoriesModel) Err() error {
	return m.err
}

// State returns the current view state.
func (m CategoriesModel) State() ViewState {
	return m.state
}

func (m CategoriesModel) load(page int) tea.Cmd {
	req := m.ctl.Begin(page)
	ctx := m.ctx
	return func() tea.Msg {
		return catPageMsg{res: req.Do(ctx)}
	}
}

// Update implements tea.Model.
func (m CategoriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-chromeHeight, minHeight))
		return m, nil
	case spinner.TickMsg:
		return m, m.loading.Update(msg)
	case catPageMsg:
		return m.handlePage(msg)
	case bulkProgressMsg:
		return m, waitBulk(m.bulk)
	case bulkDoneMsg:
		m.bulk = nil
		if api.IsUnauthorized(msg.err) {
			m.state = ViewStateAuth
			m.err = msg.err
			return m, nil
		}
		sev, text := bulkSummary("category", msg)
		if msg.err != nil && api.StatusCode(msg.err) == 409 { //nolint:mnd // HTTP 409 Conflict.
			text = "Category is used by transactions or budgets and cannot be deleted"
		}
		m.status.Notify(sev, text)
		return m, m.load(m.ctl.CurrentPage())
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m CategoriesModel) handlePage(msg catPageMsg) (tea.Model, tea.Cmd) {
	applied, err := m.ctl.Complete(msg.res)
	if !applied {
		return m, nil
	}
	if api.IsUnauthorized(err) {
		m.state = ViewStateAuth
		m.err = err
		return m, nil
	}
	if m.state == ViewStateLoading {
		m.state = ViewStateList
	}
	if err == nil {
		m.table.SetRows(categoryRows(m.snap.Items))
		st := m.ctl.State()
		if m.snap.IsEmpty && st.Number > 0 && st.TotalPages > 0 {
			return m, m.load(st.TotalPages - 1)
		}
	}
	return m, nil
}

//nolint:gocyclo,cyclop // One case per key binding.
func (m CategoriesModel) handleKey(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := keyMsg.String()
	switch m.state {
	case ViewStateAuth:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case ViewStateConfirm:
		switch key {
		case keyYes:
			target := *m.pending
			m.pending = nil
			m.state = ViewStateList
			svc := m.svc
			m.bulk = startBulk(m.ctx, []api.Category{target}, func(ctx context.Context, c api.Category) error {
				return svc.DeleteCategory(ctx, c.ID)
			})
			return m, waitBulk(m.bulk)
		case keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		default:
			m.pending = nil
			m.state = ViewStateList
			return m, nil
		}
	case ViewStateLoading, ViewStateList, ViewStateDetail, ViewStateError, ViewStateQuitting:
	}

	switch key {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyLeft, keyPrev:
		return m, m.follow(pagination.ControlPrevious)
	case keyRight, keyNext:
		return m, m.follow(pagination.ControlNext)
	case keySize:
		if err := m.ctl.Resize(m.ctl.NextPageSize()); err != nil {
			m.status.Notify(notify.Error, err.Error())
			return m, nil
		}
		return m, m.load(0)
	case keyReload:
		m.status.clear()
		return m, m.load(m.ctl.CurrentPage())
	case keyType:
		switch m.typ {
		case "":
			m.typ = api.Expense
		case api.Expense:
			m.typ = api.Income
		default:
			m.typ = ""
		}
		m.ctl.SetFilter(api.FilterType, string(m.typ))
		return m, m.load(0)
	case keyDelete:
		items := m.ctl.Items()
		if i := m.table.Cursor(); i >= 0 && i < len(items) && m.bulk == nil {
			c := items[i]
			m.pending = &c
			m.state = ViewStateConfirm
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}
}

func (m CategoriesModel) follow(kind pagination.ControlKind) tea.Cmd {
	for _, c := range m.ctl.Selector().Controls {
		if c.Kind == kind && c.Interactive() {
			return m.load(c.Page)
		}
	}
	return nil
}

func (m CategoriesModel) buildTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 6},    //nolint:mnd // Column width.
		{Title: "", Width: 2},      //nolint:mnd // Column width.
		{Title: "Name", Width: 28}, //nolint:mnd // Column width.
		{Title: "Type", Width: 8},  //nolint:mnd // Column width.
		{Title: "Color", Width: 8}, //nolint:mnd // Column width.
		{Title: "Icon", Width: 14}, //nolint:mnd // Column width.
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-chromeHeight, minHeight)),
	)
	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)
	return t
}

func categoryRows(items []api.Category) []table.Row {
	rows := make([]table.Row, len(items))
	for i, c := range items {
		rows[i] = table.Row{
			strconv.FormatInt(c.ID, 10),
			"●",
			truncate(c.Name, 28), //nolint:mnd // Column width.
			string(c.Type),
			c.Color,
			c.Icon,
		}
	}
	return rows
}

// View implements tea.Model.
func (m CategoriesModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateAuth:
		return renderAuthRequired()
	case ViewStateLoading, ViewStateList, ViewStateConfirm, ViewStateDetail, ViewStateError:
	}

	var b strings.Builder
	typ := "all types"
	if m.typ != "" {
		typ = string(m.typ)
	}
	header := HeaderStyle.Render("Categories") + "  " +
		SubtleStyle.Render(fmt.Sprintf("%s · %d/page", typ, m.ctl.PageSize()))
	if m.ctl.Pending() {
		header += "  " + m.loading.View()
	}
	b.WriteString(header + "\n\n")

	switch {
	case !m.ctl.Loaded():
	case m.snap.IsEmpty:
		b.WriteString(SubtleStyle.Render("No categories found.") + "\n")
	default:
		b.WriteString(m.table.View() + "\n")
	}
	b.WriteString("\n")
	if sel := RenderSelector(m.snap.Selector, false); sel != "" {
		b.WriteString(sel + "\n")
	}
	if m.snap.Caption != "" {
		b.WriteString(RenderCaption(m.snap.Caption, false) + "\n")
	}
	if m.state == ViewStateConfirm && m.pending != nil {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Delete category %q? [y/n]", m.pending.Name)) + "\n")
	}
	if s := m.status.View(); s != "" {
		b.WriteString(s + "\n")
	}
	b.WriteString(SubtleStyle.Render("←/→ page  z size  t type  d delete  r reload  q quit"))
	return b.String()
}
