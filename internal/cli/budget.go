package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/batch"
	"github.com/rshade/fintrack/internal/format"
	"github.com/rshade/fintrack/internal/notify"
	"github.com/rshade/fintrack/internal/tui"
)

// DefaultBudgetExitCode is returned by "budget status --exit-on-exceeded"
// when no --exit-code is given.
const DefaultBudgetExitCode = 4

func newBudgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "budget",
		Aliases: []string{"budgets"},
		Short:   "Track monthly spending limits per category",
	}
	cmd.AddCommand(
		newBudgetStatusCmd(),
		newBudgetListCmd(),
		newBudgetAddCmd(),
		newBudgetEditCmd(),
		newBudgetDeleteCmd(),
	)
	return cmd
}

func newBudgetStatusCmd() *cobra.Command {
	var (
		period         periodFlags
		exitOnExceeded bool
		exitCode       int
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show spending against each budget",
		Long: `Shows spent, remaining and percentage used for every budget of the month.
Budgets at 80% or more are highlighted; exceeded budgets are marked.

With --exit-on-exceeded the command exits with --exit-code when any budget
is exceeded, for use in scripts.`,
		Example: `  # Current month
  fintrack budget status

  # Fail a script when a budget is exceeded
  fintrack budget status --exit-on-exceeded --exit-code 5`,
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
			statuses, err := a.client.BudgetStatuses(cmd.Context(), p)
			if err != nil {
				return classify(fmt.Errorf("loading budget status: %w", err))
			}
			a.println(tui.RenderBudgetStatuses(p, statuses, a.format, a.plain()))

			if !exitOnExceeded {
				return nil
			}
			exceeded := 0
			for _, s := range statuses {
				if s.Exceeded {
					exceeded++
				}
			}
			if exceeded > 0 {
				return &ExitError{
					Code:   exitCode,
					Reason: fmt.Sprintf("%d budget(s) exceeded in %s", exceeded, format.MonthLabel(p.Month, p.Year)),
				}
			}
			return nil
		},
	}

	period.register(cmd)
	cmd.Flags().BoolVar(&exitOnExceeded, "exit-on-exceeded", false, "exit non-zero when any budget is exceeded")
	cmd.Flags().IntVar(&exitCode, "exit-code", DefaultBudgetExitCode, "exit code used with --exit-on-exceeded")

	return cmd
}

func newBudgetListCmd() *cobra.Command {
	var period periodFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the budgets of a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := period.resolve(nowFunc())
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			budgets, err := a.client.ListBudgets(cmd.Context(), p)
			if err != nil {
				return classify(fmt.Errorf("listing budgets: %w", err))
			}
			if len(budgets) == 0 {
				a.println("No budgets for " + format.MonthLabel(p.Month, p.Year))
				return nil
			}
			rows := make([][]string, 0, len(budgets))
			for _, b := range budgets {
				rows = append(rows, []string{
					strconv.FormatInt(b.ID, 10),
					b.CategoryName,
					a.format.Amount(b.Amount),
					format.MonthLabel(b.Month, b.Year),
				})
			}
			return writeTable(a.out, a.plain(), []string{"ID", "CATEGORY", "AMOUNT", "MONTH"}, rows)
		},
	}

	period.register(cmd)

	return cmd
}

type budgetFields struct {
	category string
	amount   float64
	period   periodFlags
}

func (f *budgetFields) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "expense category ID or name")
	cmd.Flags().Float64Var(&f.amount, "amount", 0, "monthly limit")
	f.period.register(cmd)
}

func newBudgetAddCmd() *cobra.Command {
	var fields budgetFields

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Set a budget for a category",
		Example: `  fintrack budget add --category Food --amount 3000000 --month 3 --year 2025`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := requireFlags(cmd, "category", "amount"); err != nil {
				return err
			}
			p, err := fields.period.resolve(nowFunc())
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			cat, err := resolveCategory(ctx, a.client, fields.category)
			if err != nil {
				return err
			}
			req := api.BudgetRequest{CategoryID: cat.ID, Amount: fields.amount, Month: p.Month, Year: p.Year}
			if err = req.Validate(); err != nil {
				return usageError(err)
			}
			b, err := a.client.CreateBudget(ctx, req)
			if err != nil {
				return classify(fmt.Errorf("creating budget: %w", err))
			}
			a.sink.Notify(notify.Success, fmt.Sprintf("Budget %d added for %s", b.ID, cat.Name))
			return nil
		},
	}

	fields.register(cmd)

	return cmd
}

func newBudgetEditCmd() *cobra.Command {
	var fields budgetFields

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a budget",
		Long: `Changes the amount or category of a budget. The budget is looked up in the
month given by --month and --year (default current month).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := fields.period.resolve(nowFunc())
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			budgets, err := a.client.ListBudgets(ctx, p)
			if err != nil {
				return classify(fmt.Errorf("listing budgets: %w", err))
			}
			var current *api.Budget
			for i := range budgets {
				if budgets[i].ID == id {
					current = &budgets[i]
					break
				}
			}
			if current == nil {
				return &ExitError{Code: ExitFailure, Reason: fmt.Sprintf("budget %d not found in %s", id, format.MonthLabel(p.Month, p.Year))}
			}

			req := api.BudgetRequest{CategoryID: current.CategoryID, Amount: current.Amount, Month: current.Month, Year: current.Year}
			if cmd.Flags().Changed("amount") {
				req.Amount = fields.amount
			}
			if cmd.Flags().Changed("category") {
				cat, catErr := resolveCategory(ctx, a.client, fields.category)
				if catErr != nil {
					return catErr
				}
				req.CategoryID = cat.ID
			}
			if err = req.Validate(); err != nil {
				return usageError(err)
			}
			if _, err = a.client.UpdateBudget(ctx, id, req); err != nil {
				return classify(fmt.Errorf("updating budget %d: %w", id, err))
			}
			a.sink.Notify(notify.Success, "Budget updated")
			return nil
		},
	}

	fields.register(cmd)

	return cmd
}

func newBudgetDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete budgets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			question := "Delete this budget?"
			if len(ids) > 1 {
				question = fmt.Sprintf("Delete %d budgets?", len(ids))
			}
			if err = requireConfirmation(a.out, cmd.InOrStdin(), question, yes); err != nil {
				return err
			}
			return deleteAll(cmd.Context(), a, ids, batch.DefaultBatchSize, "budget", "budgets", a.client.DeleteBudget)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
