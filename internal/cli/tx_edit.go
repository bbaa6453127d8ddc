package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/batch"
	"github.com/rshade/fintrack/internal/notify"
)

func newTxGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			tx, err := a.client.GetTransaction(cmd.Context(), id)
			if err != nil {
				return classify(fmt.Errorf("getting transaction %d: %w", id, err))
			}
			writeTransaction(a.out, tx, a.format)
			return nil
		},
	}
}

// txFields are the editable transaction fields. Flags not passed keep the
// current value on edit.
type txFields struct {
	amount   float64
	typ      string
	category string
	date     string
	note     string
}

func (f *txFields) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.amount, "amount", 0, "amount, always positive")
	cmd.Flags().StringVar(&f.typ, "type", "", "income or expense (default: the category's type)")
	cmd.Flags().StringVar(&f.category, "category", "", "category ID or name")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.note, "note", "", "free-text note")
}

// apply copies the changed flags onto req.
func (f txFields) apply(ctx context.Context, cmd *cobra.Command, client *api.Client, req *api.TransactionRequest) error {
	flags := cmd.Flags()
	if flags.Changed("amount") {
		req.Amount = f.amount
	}
	if flags.Changed("category") {
		cat, err := resolveCategory(ctx, client, f.category)
		if err != nil {
			return err
		}
		req.CategoryID = cat.ID
		if !flags.Changed("type") {
			req.Type = cat.Type
		}
	}
	if flags.Changed("type") {
		typ, err := api.ParseTransactionType(f.typ)
		if err != nil {
			return usageError(err)
		}
		req.Type = typ
	}
	if flags.Changed("date") {
		d, err := api.ParseDate(f.date)
		if err != nil {
			return usageError(fmt.Errorf("invalid date %q: use YYYY-MM-DD", f.date))
		}
		req.Date = d
	}
	if flags.Changed("note") {
		req.Note = f.note
	}
	if err := req.Validate(); err != nil {
		return usageError(err)
	}
	return nil
}

func newTxAddCmd() *cobra.Command {
	var fields txFields

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Example: `  # Lunch today
  fintrack tx add --amount 45000 --category Food --note lunch

  # Salary on a given day
  fintrack tx add --amount 15000000 --category Salary --date 2025-03-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := requireFlags(cmd, "amount", "category"); err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			now := nowFunc()
			req := api.TransactionRequest{Date: api.NewDate(now.Year(), now.Month(), now.Day())}
			if err = fields.apply(ctx, cmd, a.client, &req); err != nil {
				return err
			}
			tx, err := a.client.CreateTransaction(ctx, req)
			if err != nil {
				return classify(fmt.Errorf("creating transaction: %w", err))
			}
			a.sink.Notify(notify.Success, fmt.Sprintf("Transaction %d added", tx.ID))
			writeTransaction(a.out, tx, a.format)
			return nil
		},
	}

	fields.register(cmd)

	return cmd
}

func newTxEditCmd() *cobra.Command {
	var fields txFields

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a transaction",
		Long:  "Fetches the transaction by ID and updates only the fields passed as flags.",
		Example: `  # Fix the amount
  fintrack tx edit 42 --amount 52000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			current, err := a.client.GetTransaction(ctx, id)
			if err != nil {
				return classify(fmt.Errorf("getting transaction %d: %w", id, err))
			}
			req := api.RequestFrom(current)
			if err = fields.apply(ctx, cmd, a.client, &req); err != nil {
				return err
			}
			tx, err := a.client.UpdateTransaction(ctx, id, req)
			if err != nil {
				return classify(fmt.Errorf("updating transaction %d: %w", id, err))
			}
			a.sink.Notify(notify.Success, "Transaction updated")
			writeTransaction(a.out, tx, a.format)
			return nil
		},
	}

	fields.register(cmd)

	return cmd
}

func newTxDeleteCmd() *cobra.Command {
	var (
		yes       bool
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete one or more transactions",
		Long: `Deletes the given transactions. Several IDs are deleted in batches; a failed
ID does not stop the others and is reported at the end.`,
		Example: `  # Delete one transaction
  fintrack tx delete 42

  # Delete several without a prompt
  fintrack tx delete 42 43 44 --yes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			question := "Delete this transaction?"
			if len(ids) > 1 {
				question = fmt.Sprintf("Delete %d transactions?", len(ids))
			}
			if err = requireConfirmation(a.out, cmd.InOrStdin(), question, yes); err != nil {
				return err
			}
			return deleteAll(cmd.Context(), a, ids, batchSize, "transaction", "transactions", a.client.DeleteTransaction)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().IntVar(&batchSize, "batch-size", batch.DefaultBatchSize, "IDs deleted per batch")

	return cmd
}

// deleteAll deletes ids in batches, printing progress in styled mode, and
// reports the outcome through the app's notifier.
func deleteAll(
	ctx context.Context,
	a *app,
	ids []int64,
	batchSize int,
	noun, plural string,
	del func(ctx context.Context, id int64) error,
) error {
	p, err := batch.NewProcessor[int64](batchSize)
	if err != nil {
		return usageError(err)
	}
	if !a.plain() && len(ids) > 1 {
		p = p.WithProgressCallback(func(s batch.ProgressSnapshot) {
			fmt.Fprintf(a.errOut, "\rDeleting %d/%d", s.ProcessedItems, s.TotalItems)
			if s.ProcessedItems == s.TotalItems {
				fmt.Fprintln(a.errOut)
			}
		})
	}

	res, err := p.Run(ctx, ids, batch.Operation[int64](del))
	if err != nil {
		return err
	}

	if len(res.Failed) == 0 {
		msg := fmt.Sprintf("Deleted %d %s", len(res.Succeeded), plural)
		if len(ids) == 1 {
			msg = fmt.Sprintf("Deleted %s %d", noun, ids[0])
		}
		a.sink.Notify(notify.Success, msg)
		return nil
	}

	for _, f := range res.Failed {
		a.logger.Warn().Str("operation", "delete").Int64("id", f.Item).Err(f.Err).Msg("delete failed")
	}
	joined := classify(res.Err())
	a.sink.Notify(notify.Error, fmt.Sprintf("Deleted %d of %d %s", len(res.Succeeded), res.Total(), plural))
	if ExitCode(joined) == ExitAuth {
		return joined
	}
	return &ExitError{Code: ExitFailure, Reason: fmt.Sprintf("%d of %d deletes failed", len(res.Failed), res.Total()), Err: joined}
}
