package tui

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/batch"
	"github.com/rshade/fintrack/internal/format"
	"github.com/rshade/fintrack/internal/listctl"
	"github.com/rshade/fintrack/internal/logging"
	"github.com/rshade/fintrack/internal/notify"
	"github.com/rshade/fintrack/internal/pagination"
	"github.com/rshade/fintrack/internal/tui/detail"
	listview "github.com/rshade/fintrack/internal/tui/list"
)

// Row layout.
const (
	dateColWidth     = 10
	categoryColWidth = 18
	noteColWidth     = 32
	amountColWidth   = 18
	// chromeHeight is the number of lines around the rows: header, selector,
	// caption, progress, status and help.
	chromeHeight = 8
)

// TransactionService is the part of the API client the transactions browser uses.
type TransactionService interface {
	ListTransactions(ctx context.Context, query url.Values) (api.Page[api.Transaction], error)
	GetTransaction(ctx context.Context, id int64) (api.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	ListCategories(ctx context.Context, typ api.TransactionType) ([]api.Category, error)
}

// TransactionsOptions configures the transactions browser.
type TransactionsOptions struct {
	Formatter       *format.Formatter
	Logger          zerolog.Logger
	PageSize        int
	PageSizeOptions []int
	Filter          api.TransactionFilter
	// Now is the clock used when a month filter is first set. Defaults to time.Now.
	Now func() time.Time
}

// txPageMsg carries a completed list request.
type txPageMsg struct {
	res listctl.Result[api.Transaction]
}

// txCategoriesMsg carries the categories used by the category filter.
type txCategoriesMsg struct {
	items []api.Category
	err   error
}

// TransactionsModel is the Bubble Tea model for browsing transactions page by page.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type TransactionsModel struct {
	ctx       context.Context //nolint:containedctx // Commands run with the caller's context.
	svc       TransactionService
	formatter *format.Formatter
	logger    zerolog.Logger
	now       func() time.Time

	ctl     *listctl.Controller[api.Transaction]
	snap    *listctl.Snapshot[api.Transaction]
	rows    *listview.Model[api.Transaction]
	detail  *detail.Model[api.Transaction]
	status  *statusLine
	loading *LoadingState

	state      ViewState
	filter     api.TransactionFilter
	categories []api.Category
	textInput  textinput.Model
	showFilter bool

	pendingDelete []api.Transaction
	bulk          <-chan tea.Msg
	bulkBar       progress.Model
	bulkSnap      batch.ProgressSnapshot

	width  int
	height int
	err    error
}

// NewTransactionsModel creates the browser and the command that loads page 0.
func NewTransactionsModel(
	ctx context.Context,
	svc TransactionService,
	opts TransactionsOptions,
) (TransactionsModel, tea.Cmd) {
	logger := logging.ComponentLogger(opts.Logger, "tui")
	if opts.Formatter == nil {
		opts.Formatter = format.Must("", "", "")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	size := opts.PageSize
	if size <= 0 {
		size = listctl.DefaultPageSize
	}

	status := &statusLine{}
	snap := &listctl.Snapshot[api.Transaction]{}
	ctl := listctl.New[api.Transaction](svc.ListTransactions, snap,
		listctl.WithNotifier[api.Transaction](notify.Multi{status, notify.NewLogSink(logger)}),
		listctl.WithLogger[api.Transaction](logger),
		listctl.WithPageSize[api.Transaction](size, opts.PageSizeOptions),
		listctl.WithNoun[api.Transaction]("transactions"),
	)

	ti := newTextInput()
	ti.SetValue(opts.Filter.Keyword)

	m := TransactionsModel{
		ctx:       ctx,
		svc:       svc,
		formatter: opts.Formatter,
		logger:    logger,
		now:       opts.Now,
		ctl:       ctl,
		snap:      snap,
		status:    status,
		loading:   NewLoadingState(),
		state:     ViewStateLoading,
		filter:    opts.Filter,
		textInput: ti,
		bulkBar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		width:     defaultWidth,
		height:    defaultHeight,
	}
	m.rows = listview.New(
		func(tx api.Transaction) int64 { return tx.ID },
		m.renderRow,
		defaultHeight-chromeHeight,
	)
	m.applyFilter()

	return m, tea.Batch(m.loading.Init(), m.load(0), m.loadCategories())
}

// Init implements tea.Model.
func (m TransactionsModel) Init() tea.Cmd {
	return m.loading.Init()
}

// Err returns the error that ended the session, such as api.ErrUnauthorized.
func (m TransactionsModel) Err() error {
	return m.err
}

// State returns the current view state.
func (m TransactionsModel) State() ViewState {
	return m.state
}

// Controller exposes the list controller.
func (m TransactionsModel) Controller() *listctl.Controller[api.Transaction] {
	return m.ctl
}

// load issues a request for page and returns the command that runs it.
func (m TransactionsModel) load(page int) tea.Cmd {
	req := m.ctl.Begin(page)
	ctx := m.ctx
	return func() tea.Msg {
		return txPageMsg{res: req.Do(ctx)}
	}
}

func (m TransactionsModel) loadCategories() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		items, err := svc.ListCategories(ctx, "")
		return txCategoriesMsg{items: items, err: err}
	}
}

// applyFilter pushes the filter into the controller. The caller loads page 0.
func (m *TransactionsModel) applyFilter() {
	for field, value := range m.filter.Fields() {
		m.ctl.SetFilter(field, value)
	}
}

func (m TransactionsModel) refilter() tea.Cmd {
	m.applyFilter()
	return m.load(0)
}

// Update implements tea.Model.
//
//nolint:gocognit // Message routing for every screen lives here.
func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rows.SetHeight(max(msg.Height-chromeHeight, minHeight))
		m.bulkBar.Width = max(msg.Width/2, 10) //nolint:mnd // Half the screen.
		return m, nil
	case spinner.TickMsg:
		return m, m.loading.Update(msg)
	case txPageMsg:
		return m.handlePage(msg)
	case txCategoriesMsg:
		if msg.err != nil {
			m.logger.Warn().Ctx(m.ctx).Str("operation", "categories").Err(msg.err).Msg("category filter unavailable")
			return m, nil
		}
		m.categories = msg.items
		return m, nil
	case bulkProgressMsg:
		m.bulkSnap = msg.snap
		return m, waitBulk(m.bulk)
	case bulkDoneMsg:
		return m.handleBulkDone(msg)
	case detail.LoadedMsg[api.Transaction]:
		if m.detail != nil {
			m.detail.Update(msg)
			if m.detail.ErrIs(api.ErrUnauthorized) {
				m.state = ViewStateAuth
				m.err = m.detail.Err()
			}
		}
		return m, nil
	}

	if m.showFilter {
		return m.handleFilterInput(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.state {
	case ViewStateAuth, ViewStateError:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case ViewStateDetail:
		return m.handleDetailKeypress(keyMsg)
	case ViewStateConfirm:
		return m.handleConfirmKeypress(keyMsg)
	case ViewStateLoading, ViewStateList:
		return m.handleListKeypress(keyMsg)
	case ViewStateQuitting:
		return m, nil
	default:
		return m, nil
	}
}

func (m TransactionsModel) handlePage(msg txPageMsg) (tea.Model, tea.Cmd) {
	applied, err := m.ctl.Complete(msg.res)
	if !applied {
		return m, nil
	}
	if err != nil {
		if api.IsUnauthorized(err) {
			m.state = ViewStateAuth
			m.err = err
			return m, nil
		}
		if m.state == ViewStateLoading {
			m.state = ViewStateList
		}
		return m, nil
	}

	m.rows.SetItems(m.snap.Items)
	if m.state == ViewStateLoading {
		m.state = ViewStateList
	}

	// A delete can leave the current page past the end.
	st := m.ctl.State()
	if m.snap.IsEmpty && st.Number > 0 && st.TotalPages > 0 {
		return m, m.load(st.TotalPages - 1)
	}
	return m, nil
}

func (m TransactionsModel) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter:
			m.showFilter = false
			m.textInput.Blur()
			m.filter.Keyword = strings.TrimSpace(m.textInput.Value())
			return m, m.refilter()
		case keyEsc:
			m.showFilter = false
			m.textInput.Blur()
			m.textInput.SetValue(m.filter.Keyword)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

//nolint:gocyclo,cyclop // One case per key binding.
func (m TransactionsModel) handleListKeypress(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := keyMsg.String()
	switch key {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	}
	if m.state == ViewStateLoading {
		return m, nil
	}

	switch key {
	case keySlash:
		m.showFilter = true
		m.textInput.Focus()
		return m, textinput.Blink
	case keyEsc:
		if m.filter.Keyword == "" {
			return m, nil
		}
		m.filter.Keyword = ""
		m.textInput.SetValue("")
		return m, m.refilter()
	case keyLeft, keyPrev:
		return m, m.follow(pagination.ControlPrevious)
	case keyRight, keyNext:
		return m, m.follow(pagination.ControlNext)
	case keyFirst:
		if m.ctl.CurrentPage() == 0 {
			return m, nil
		}
		return m, m.load(0)
	case keyLast:
		st := m.ctl.State()
		if st.TotalPages == 0 || st.Number == st.TotalPages-1 {
			return m, nil
		}
		return m, m.load(st.TotalPages - 1)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n, _ := strconv.Atoi(key)
		if n > m.ctl.State().TotalPages || n-1 == m.ctl.CurrentPage() {
			return m, nil
		}
		return m, m.load(n - 1)
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
		m.cycleType()
		return m, m.refilter()
	case keyCat:
		m.cycleCategory()
		return m, m.refilter()
	case keyMonthB:
		m.shiftMonth(-1)
		return m, m.refilter()
	case keyMonthF:
		m.shiftMonth(1)
		return m, m.refilter()
	case keyClear:
		m.filter = api.TransactionFilter{}
		m.textInput.SetValue("")
		return m, m.refilter()
	case keyEnter:
		return m.openDetail()
	case keyDelete:
		targets := m.rows.Marked()
		if len(targets) == 0 {
			if cur := m.rows.Current(); cur != nil {
				targets = []api.Transaction{*cur}
			}
		}
		if len(targets) == 0 || m.bulk != nil {
			return m, nil
		}
		m.pendingDelete = targets
		m.state = ViewStateConfirm
		return m, nil
	default:
		m.rows.Update(keyMsg)
		return m, nil
	}
}

// follow loads the target of the first selector control of kind, if it is
// enabled.
func (m TransactionsModel) follow(kind pagination.ControlKind) tea.Cmd {
	for _, c := range m.ctl.Selector().Controls {
		if c.Kind == kind && c.Interactive() {
			return m.load(c.Page)
		}
	}
	return nil
}

func (m TransactionsModel) openDetail() (tea.Model, tea.Cmd) {
	cur := m.rows.Current()
	if cur == nil {
		return m, nil
	}
	id, svc := cur.ID, m.svc
	m.detail = detail.New(m.ctx,
		func(ctx context.Context) (api.Transaction, error) { return svc.GetTransaction(ctx, id) },
		m.renderDetail,
	)
	m.state = ViewStateDetail
	return m, m.detail.Open()
}

func (m TransactionsModel) handleDetailKeypress(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case keyCtrlC, keyQuit:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEsc:
		m.state = ViewStateList
		m.detail = nil
		return m, nil
	}
	return m, m.detail.Update(keyMsg)
}

func (m TransactionsModel) handleConfirmKeypress(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case keyYes:
		targets := m.pendingDelete
		m.pendingDelete = nil
		m.state = ViewStateList
		m.bulkSnap = batch.ProgressSnapshot{TotalItems: len(targets)}
		svc := m.svc
		m.bulk = startBulk(m.ctx, targets, func(ctx context.Context, tx api.Transaction) error {
			return svc.DeleteTransaction(ctx, tx.ID)
		})
		m.logger.Info().Ctx(m.ctx).Str("operation", "delete").Int("count", len(targets)).Msg("deleting transactions")
		return m, waitBulk(m.bulk)
	case keyNo, keyEsc, keyQuit:
		m.pendingDelete = nil
		m.state = ViewStateList
		return m, nil
	case keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	}
	return m, nil
}

func (m TransactionsModel) handleBulkDone(msg bulkDoneMsg) (tea.Model, tea.Cmd) {
	m.bulk = nil
	m.rows.ClearMarks()
	if api.IsUnauthorized(msg.err) && msg.deleted == 0 {
		m.state = ViewStateAuth
		m.err = msg.err
		return m, nil
	}
	sev, text := bulkSummary("transactions", msg)
	m.status.Notify(sev, text)
	return m, m.load(m.ctl.CurrentPage())
}

func (m *TransactionsModel) cycleType() {
	switch m.filter.Type {
	case "":
		m.filter.Type = api.Expense
	case api.Expense:
		m.filter.Type = api.Income
	default:
		m.filter.Type = ""
	}
	if c, ok := m.category(m.filter.CategoryID); ok && m.filter.Type != "" && c.Type != m.filter.Type {
		m.filter.CategoryID = 0
	}
}

// cycleCategory steps through the categories matching the type filter,
// then back to no category.
func (m *TransactionsModel) cycleCategory() {
	var ids []int64
	for _, c := range m.categories {
		if m.filter.Type == "" || c.Type == m.filter.Type {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 0 {
		m.filter.CategoryID = 0
		return
	}
	next := ids[0]
	for i, id := range ids {
		if id == m.filter.CategoryID {
			next = 0
			if i+1 < len(ids) {
				next = ids[i+1]
			}
			break
		}
	}
	m.filter.CategoryID = next
}

// shiftMonth moves the month filter by delta months. Without a month
// filter it starts from the current month.
func (m *TransactionsModel) shiftMonth(delta int) {
	if m.filter.Month == 0 {
		now := m.now()
		m.filter.Month = int(now.Month())
		m.filter.Year = now.Year()
		return
	}
	year := m.filter.Year
	if year == 0 {
		year = m.now().Year()
	}
	t := time.Date(year, time.Month(m.filter.Month)+time.Month(delta), 1, 0, 0, 0, 0, time.Local)
	m.filter.Month = int(t.Month())
	m.filter.Year = t.Year()
}

func (m TransactionsModel) category(id int64) (api.Category, bool) {
	for _, c := range m.categories {
		if c.ID == id {
			return c, true
		}
	}
	return api.Category{}, false
}

// filterSummary describes the active filters on one line.
func (m TransactionsModel) filterSummary() string {
	var parts []string
	switch {
	case m.filter.Month != 0 && m.filter.Year != 0:
		parts = append(parts, format.MonthLabel(m.filter.Month, m.filter.Year))
	case m.filter.Month != 0:
		parts = append(parts, fmt.Sprintf("month %02d", m.filter.Month))
	default:
		parts = append(parts, "all months")
	}
	if m.filter.Type != "" {
		parts = append(parts, string(m.filter.Type))
	}
	if m.filter.CategoryID != 0 {
		name := strconv.FormatInt(m.filter.CategoryID, 10)
		if c, ok := m.category(m.filter.CategoryID); ok {
			name = c.Name
		}
		parts = append(parts, name)
	}
	if m.filter.Keyword != "" {
		parts = append(parts, strconv.Quote(m.filter.Keyword))
	}
	parts = append(parts, fmt.Sprintf("%d/page", m.ctl.PageSize()))
	return strings.Join(parts, " · ")
}

// View implements tea.Model.
func (m TransactionsModel) View() string {
	if m.state == ViewStateQuitting {
		return ""
	}
	if m.state == ViewStateAuth {
		return renderAuthRequired()
	}

	var b strings.Builder
	header := HeaderStyle.Render("Transactions") + "  " + SubtleStyle.Render(m.filterSummary())
	if m.ctl.Pending() {
		header += "  " + m.loading.View()
	}
	b.WriteString(header + "\n")
	if m.showFilter {
		b.WriteString(m.textInput.View() + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.state == ViewStateDetail && m.detail != nil:
		b.WriteString(m.detail.View())
		b.WriteString("\n\n" + SubtleStyle.Render("[esc] back  [r] retry  [q] quit"))
		return b.String()
	case !m.ctl.Loaded():
		if m.state == ViewStateLoading {
			b.WriteString(m.loading.View())
		}
	case m.snap.IsEmpty:
		b.WriteString(SubtleStyle.Render("No transactions found."))
	default:
		b.WriteString(m.rows.View())
	}
	b.WriteString("\n\n")

	if sel := RenderSelector(m.snap.Selector, false); sel != "" {
		b.WriteString(sel + "\n")
	}
	if m.snap.Caption != "" {
		b.WriteString(RenderCaption(m.snap.Caption, false) + "\n")
	}
	if m.bulk != nil {
		b.WriteString(fmt.Sprintf("%s %d/%d\n",
			m.bulkBar.ViewAs(m.bulkSnap.Ratio()), m.bulkSnap.ProcessedItems, m.bulkSnap.TotalItems))
	}
	if m.state == ViewStateConfirm {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Delete %d transaction(s)? [y/n]", len(m.pendingDelete))) + "\n")
	}
	if s := m.status.View(); s != "" {
		b.WriteString(s + "\n")
	}
	b.WriteString(SubtleStyle.Render(
		"←/→ page  1-9 jump  z size  / search  t type  c category  [/] month  x clear  " +
			"space mark  d delete  enter open  r reload  q quit"))
	return b.String()
}

func (m TransactionsModel) renderRow(tx api.Transaction, cursor, marked bool) string {
	mark := "  "
	if marked {
		mark = "● "
	}
	date := pad(m.formatter.Date(tx.Date.Time), dateColWidth)
	cat := pad(truncate(tx.CategoryName, categoryColWidth), categoryColWidth)
	note := pad(truncate(tx.Note, noteColWidth), noteColWidth)
	amount := fmt.Sprintf("%*s", amountColWidth, m.formatter.SignedAmount(tx.Amount, tx.Type == api.Income))

	if cursor {
		return TableSelectedStyle.Render(mark + date + "    " + cat + "  " + note + "  " + amount)
	}
	amountStyle := ExpenseStyle
	if tx.Type == api.Income {
		amountStyle = IncomeStyle
	}
	return mark + date + "  " + swatch(tx.CategoryColor) + " " + cat + "  " + SubtleStyle.Render(note) + "  " +
		amountStyle.Render(amount)
}

func (m TransactionsModel) renderDetail(tx api.Transaction) string {
	amountStyle := ExpenseStyle
	if tx.Type == api.Income {
		amountStyle = IncomeStyle
	}
	note := tx.Note
	if note == "" {
		note = "-"
	}
	lines := []string{
		HeaderStyle.Render(fmt.Sprintf("Transaction #%d", tx.ID)),
		"",
		LabelStyle.Render("Date:     ") + ValueStyle.Render(m.formatter.Date(tx.Date.Time)),
		LabelStyle.Render("Type:     ") + ValueStyle.Render(string(tx.Type)),
		LabelStyle.Render("Category: ") + swatch(tx.CategoryColor) + " " + ValueStyle.Render(tx.CategoryName),
		LabelStyle.Render("Amount:   ") + amountStyle.Render(m.formatter.SignedAmount(tx.Amount, tx.Type == api.Income)),
		LabelStyle.Render("Note:     ") + ValueStyle.Render(note),
	}
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderAuthRequired is the full-screen view shown when the session is
// missing or expired.
func renderAuthRequired() string {
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		CriticalStyle.Render("Authentication required"),
		"",
		"Your session is missing or has expired.",
		"Run "+InfoStyle.Render("fintrack login")+" to sign in again.",
		"",
		SubtleStyle.Render("Press any key to exit."),
	))
}
