package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/format"
	"github.com/rshade/fintrack/internal/listctl"
	"github.com/rshade/fintrack/internal/notify"
	"github.com/rshade/fintrack/internal/tui"
)

// drillDownPageSize is the page size of the per-category expense list.
const drillDownPageSize = 100

func newDashboardCmd() *cobra.Command {
	var (
		period   periodFlags
		category string
		page     int
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the month's income, expenses and spending by category",
		Long: `Shows the month summary, a daily expense chart and the expense breakdown by
category. With --category the expenses of that category are listed instead.`,
		Example: `  # This month
  fintrack dashboard

  # What went into Food in March 2025
  fintrack dashboard --month 3 --year 2025 --category Food`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := period.resolve(nowFunc())
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if category != "" {
				return runCategoryDrillDown(cmd.Context(), a, p, category, page)
			}
			data, err := loadDashboard(cmd.Context(), a.client, p)
			if err != nil {
				return classify(err)
			}
			a.println(tui.RenderDashboard(data, a.format, a.plain()))
			return nil
		},
	}

	period.register(cmd)
	cmd.Flags().StringVar(&category, "category", "", "list the expenses of one category (ID or name)")
	cmd.Flags().IntVar(&page, "page", 1, "page of the category expense list")

	return cmd
}

// loadDashboard fetches the summary, daily chart and category breakdown in
// parallel. The first failure cancels the others.
func loadDashboard(ctx context.Context, client *api.Client, p api.Period) (tui.DashboardData, error) {
	data := tui.DashboardData{Period: p}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := client.DashboardSummary(gctx, p)
		if err != nil {
			return fmt.Errorf("loading summary: %w", err)
		}
		data.Summary = s
		return nil
	})
	g.Go(func() error {
		c, err := client.DailyChart(gctx, p)
		if err != nil {
			return fmt.Errorf("loading daily chart: %w", err)
		}
		data.Daily = c
		return nil
	})
	g.Go(func() error {
		c, err := client.CategorySummary(gctx, p)
		if err != nil {
			return fmt.Errorf("loading category summary: %w", err)
		}
		data.Categories = c
		return nil
	})

	if err := g.Wait(); err != nil {
		return tui.DashboardData{}, err
	}
	return data, nil
}

// runCategoryDrillDown lists one category's expenses for the month.
func runCategoryDrillDown(ctx context.Context, a *app, p api.Period, ref string, page int) error {
	if page < 1 {
		return usageError(fmt.Errorf("page must be >= 1, got %d", page))
	}
	cat, err := resolveCategory(ctx, a.client, ref)
	if err != nil {
		return err
	}

	snap := &listctl.Snapshot[api.Transaction]{}
	ctl := listctl.New[api.Transaction](a.client.ListTransactions, snap,
		listctl.WithNotifier[api.Transaction](notify.NewLogSink(a.logger)),
		listctl.WithLogger[api.Transaction](a.logger),
		listctl.WithPageSize[api.Transaction](drillDownPageSize, nil),
		listctl.WithNoun[api.Transaction]("expenses"),
	)
	filter := api.TransactionFilter{Month: p.Month, Year: p.Year, Type: api.Expense, CategoryID: cat.ID}
	for field, value := range filter.Fields() {
		ctl.SetFilter(field, value)
	}
	if err = ctl.Load(ctx, page-1); err != nil {
		return classify(fmt.Errorf("listing %s expenses: %w", cat.Name, err))
	}

	a.println(fmt.Sprintf("%s expenses, %s", cat.Name, format.MonthLabel(p.Month, p.Year)))
	if snap.IsEmpty {
		a.println(emptyPlaceholder)
	} else if err = writeTable(a.out, a.plain(), transactionHeader, transactionRows(snap.Items, a.format)); err != nil {
		return err
	}
	writeFooter(a.out, a.plain(), snap.Selector, snap.Caption)
	return nil
}
