package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/listctl"
	"github.com/rshade/fintrack/internal/notify"
	"github.com/rshade/fintrack/internal/pagination"
	"github.com/rshade/fintrack/internal/tui"
)

// nowFunc is the clock used for default periods.
var nowFunc = time.Now //nolint:gochecknoglobals // Replaced in tests.

// transactionSortFields maps --sort names to API fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var transactionSortFields = pagination.SortFields{
	"date":   "transactionDate",
	"amount": "amount",
	"note":   "note",
}

// defaultTransactionSort lists newest transactions first.
const defaultTransactionSort = "date:desc"

func newTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions", "transaction"},
		Short:   "List and manage transactions",
	}
	cmd.AddCommand(
		newTxListCmd(),
		newTxBrowseCmd(),
		newTxGetCmd(),
		newTxAddCmd(),
		newTxEditCmd(),
		newTxDeleteCmd(),
		newTxImportCmd(),
		newTxTemplateCmd(),
	)
	return cmd
}

// txFilterFlags are the list filters shared by tx list and tx browse.
type txFilterFlags struct {
	period   periodFlags
	allTime  bool
	typ      string
	category string
	keyword  string
}

func (f *txFilterFlags) register(cmd *cobra.Command) {
	f.period.register(cmd)
	cmd.Flags().BoolVar(&f.allTime, "all", false, "do not filter by month and year")
	cmd.Flags().StringVar(&f.typ, "type", "", "income or expense")
	cmd.Flags().StringVar(&f.category, "category", "", "category ID or name")
	cmd.Flags().StringVarP(&f.keyword, "keyword", "k", "", "search text in notes")
}

// filter resolves the flags into an api.TransactionFilter. A category name is
// looked up on the server.
func (f txFilterFlags) filter(ctx context.Context, client *api.Client) (api.TransactionFilter, error) {
	var out api.TransactionFilter
	if !f.allTime {
		period, err := f.period.resolve(nowFunc())
		if err != nil {
			return out, err
		}
		out.Month, out.Year = period.Month, period.Year
	}
	if f.typ != "" {
		typ, err := api.ParseTransactionType(f.typ)
		if err != nil {
			return out, usageError(err)
		}
		out.Type = typ
	}
	if f.category != "" {
		cat, err := resolveCategory(ctx, client, f.category)
		if err != nil {
			return out, err
		}
		out.CategoryID = cat.ID
	}
	out.Keyword = strings.TrimSpace(f.keyword)
	return out, nil
}

// resolveCategory finds a category by numeric ID or case-insensitive name.
func resolveCategory(ctx context.Context, client *api.Client, ref string) (api.Category, error) {
	all, err := client.ListCategories(ctx, "")
	if err != nil {
		return api.Category{}, classify(fmt.Errorf("listing categories: %w", err))
	}
	if id, convErr := strconv.ParseInt(ref, 10, 64); convErr == nil {
		for _, c := range all {
			if c.ID == id {
				return c, nil
			}
		}
		return api.Category{}, usageError(fmt.Errorf("category %d not found", id))
	}
	for _, c := range all {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}
	return api.Category{}, usageError(fmt.Errorf("category %q not found", ref))
}

type txListOptions struct {
	filters  txFilterFlags
	page     int
	pageSize int
	sort     string
}

func newTxListCmd() *cobra.Command {
	var opts txListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of transactions",
		Long: `Lists one page of transactions matching the filters, newest first, followed
by the page selector and a "Showing x-y of z" caption.

Month and year default to the current month; pass --all to list every month.`,
		Example: `  # Current month, first page
  fintrack tx list

  # Expenses in the Food category, March 2025, page 2 of 50 per page
  fintrack tx list --type expense --category Food --month 3 --year 2025 --page 2 --page-size 50

  # Largest amounts first across all months
  fintrack tx list --all --sort amount:desc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTxList(cmd, opts)
		},
	}

	opts.filters.register(cmd)
	cmd.Flags().IntVar(&opts.page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "items per page (default list.page_size)")
	cmd.Flags().StringVar(&opts.sort, "sort", defaultTransactionSort, "sort as field[:asc|desc], fields: date, amount, note")

	return cmd
}

func runTxList(cmd *cobra.Command, opts txListOptions) error {
	ctx := cmd.Context()
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	size := opts.pageSize
	if size == 0 {
		size = a.cfg.List.PageSize
	}
	params, err := pagination.FromFlag(opts.page, size)
	if err != nil {
		return usageError(err)
	}
	params.SortField, params.SortOrder, err = transactionSortFields.Resolve(opts.sort)
	if err != nil {
		return usageError(err)
	}

	filter, err := opts.filters.filter(ctx, a.client)
	if err != nil {
		return err
	}

	snap := &listctl.Snapshot[api.Transaction]{}
	ctl := listctl.New[api.Transaction](a.client.ListTransactions, snap,
		listctl.WithNotifier[api.Transaction](notify.NewLogSink(a.logger)),
		listctl.WithLogger[api.Transaction](a.logger),
		listctl.WithPageSize[api.Transaction](a.cfg.List.PageSize, a.cfg.List.PageSizeOptions),
		listctl.WithNoun[api.Transaction]("transactions"),
	)
	if err = ctl.Resize(params.Size); err != nil {
		return usageError(err)
	}
	ctl.SetSort(params.SortField, params.SortOrder)
	for field, value := range filter.Fields() {
		ctl.SetFilter(field, value)
	}

	if err = ctl.Load(ctx, params.Page); err != nil {
		return classify(fmt.Errorf("listing transactions: %w", err))
	}

	if snap.IsEmpty {
		a.println(emptyPlaceholder)
	} else if err = writeTable(a.out, a.plain(), transactionHeader, transactionRows(snap.Items, a.format)); err != nil {
		return err
	}
	writeFooter(a.out, a.plain(), snap.Selector, snap.Caption)

	if state := ctl.State(); snap.IsEmpty && state.TotalPages > 0 && params.Page >= state.TotalPages {
		fmt.Fprintf(a.errOut, "Page %d is past the last page (%d)\n", params.Page+1, state.TotalPages)
	}
	return nil
}

func newTxBrowseCmd() *cobra.Command {
	var (
		filters  txFilterFlags
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse transactions interactively",
		Long: `Opens a full-screen transaction browser.

Keys: ←/→ or h/l previous/next page, 1-9 jump to page, home/end first/last,
/ search notes, t type, c category, [ ] previous/next month, x clear filters,
z page size, space mark, d delete, enter details, r reload, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if !a.interactive() {
				return &ExitError{Code: ExitUsage, Reason: "tx browse needs an interactive terminal, use tx list"}
			}
			filter, err := filters.filter(ctx, a.client)
			if err != nil {
				return err
			}
			size := pageSize
			if size == 0 {
				size = a.cfg.List.PageSize
			}
			model, start := tui.NewTransactionsModel(ctx, a.client, tui.TransactionsOptions{
				Formatter:       a.format,
				Logger:          a.logger,
				PageSize:        size,
				PageSizeOptions: a.cfg.List.PageSizeOptions,
				Filter:          filter,
				Now:             nowFunc,
			})
			_, err = runProgram(ctx, model, start, tea.WithAltScreen())
			return err
		},
	}

	filters.register(cmd)
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "items per page (default list.page_size)")

	return cmd
}
