package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/batch"
	"github.com/rshade/fintrack/internal/listctl"
	"github.com/rshade/fintrack/internal/notify"
	"github.com/rshade/fintrack/internal/pagination"
	"github.com/rshade/fintrack/internal/tui"
)

// errCategoryInUse replaces the backend's 409 on category delete.
var errCategoryInUse = errors.New("category is used by transactions or budgets and cannot be deleted")

func newCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories", "cat"},
		Short:   "List and manage categories",
	}
	cmd.AddCommand(
		newCategoryListCmd(),
		newCategoryBrowseCmd(),
		newCategoryAddCmd(),
		newCategoryEditCmd(),
		newCategoryDeleteCmd(),
	)
	return cmd
}

// parseTypeFlag accepts "", "income" or "expense".
func parseTypeFlag(s string) (api.TransactionType, error) {
	if s == "" {
		return "", nil
	}
	typ, err := api.ParseTransactionType(s)
	if err != nil {
		return "", usageError(err)
	}
	return typ, nil
}

// categoryFetcher pages the category collection client-side.
func categoryFetcher(client *api.Client) listctl.Fetcher[api.Category] {
	return listctl.Paged(func(ctx context.Context, filters url.Values) ([]api.Category, error) {
		return client.ListCategories(ctx, api.TransactionType(filters.Get(api.FilterType)))
	})
}

func newCategoryListCmd() *cobra.Command {
	var (
		typ      string
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			t, err := parseTypeFlag(typ)
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			size := pageSize
			if size == 0 {
				size = a.cfg.List.PageSize
			}
			params, err := pagination.FromFlag(page, size)
			if err != nil {
				return usageError(err)
			}

			snap := &listctl.Snapshot[api.Category]{}
			ctl := listctl.New(categoryFetcher(a.client), snap,
				listctl.WithNotifier[api.Category](notify.NewLogSink(a.logger)),
				listctl.WithLogger[api.Category](a.logger),
				listctl.WithPageSize[api.Category](a.cfg.List.PageSize, a.cfg.List.PageSizeOptions),
				listctl.WithNoun[api.Category]("categories"),
			)
			if err = ctl.Resize(params.Size); err != nil {
				return usageError(err)
			}
			ctl.SetFilter(api.FilterType, string(t))
			if err = ctl.Load(ctx, params.Page); err != nil {
				return classify(fmt.Errorf("listing categories: %w", err))
			}

			if snap.IsEmpty {
				a.println("No categories found")
			} else if err = writeTable(a.out, a.plain(), categoryHeader, categoryRows(snap.Items)); err != nil {
				return err
			}
			writeFooter(a.out, a.plain(), snap.Selector, snap.Caption)
			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "income or expense")
	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "items per page (default list.page_size)")

	return cmd
}

func newCategoryBrowseCmd() *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse categories interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			t, err := parseTypeFlag(typ)
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if !a.interactive() {
				return &ExitError{Code: ExitUsage, Reason: "category browse needs an interactive terminal, use category list"}
			}
			model, start := tui.NewCategoriesModel(ctx, a.client, tui.CategoriesOptions{
				Logger:          a.logger,
				PageSize:        a.cfg.List.PageSize,
				PageSizeOptions: a.cfg.List.PageSizeOptions,
				Type:            t,
			})
			_, err = runProgram(ctx, model, start, tea.WithAltScreen())
			return err
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "income or expense")

	return cmd
}

type categoryFields struct {
	name  string
	color string
	icon  string
	typ   string
}

func (f *categoryFields) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "category name")
	cmd.Flags().StringVar(&f.color, "color", "", "color as #rgb or #rrggbb")
	cmd.Flags().StringVar(&f.icon, "icon", "", "icon name")
	cmd.Flags().StringVar(&f.typ, "type", "", "income or expense")
}

func (f categoryFields) apply(cmd *cobra.Command, req *api.CategoryRequest) error {
	flags := cmd.Flags()
	if flags.Changed("name") {
		req.Name = strings.TrimSpace(f.name)
	}
	if flags.Changed("color") {
		req.Color = f.color
	}
	if flags.Changed("icon") {
		req.Icon = f.icon
	}
	if flags.Changed("type") {
		typ, err := api.ParseTransactionType(f.typ)
		if err != nil {
			return usageError(err)
		}
		req.Type = typ
	}
	if err := req.Validate(); err != nil {
		return usageError(err)
	}
	return nil
}

// defaultCategoryColor matches the color picker default of the web client.
const defaultCategoryColor = "#3498db"

func newCategoryAddCmd() *cobra.Command {
	var fields categoryFields

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create a category",
		Example: `  fintrack category add --name Food --type expense --color "#e74c3c"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "name", "type"); err != nil {
				return err
			}
			req := api.CategoryRequest{Color: defaultCategoryColor}
			if err := fields.apply(cmd, &req); err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			c, err := a.client.CreateCategory(cmd.Context(), req)
			if err != nil {
				return classify(fmt.Errorf("creating category: %w", err))
			}
			a.sink.Notify(notify.Success, fmt.Sprintf("Category %q added (%d)", c.Name, c.ID))
			return nil
		},
	}

	fields.register(cmd)

	return cmd
}

func newCategoryEditCmd() *cobra.Command {
	var fields categoryFields

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a category",
		Args:  cobra.ExactArgs(1),
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
			current, err := resolveCategory(ctx, a.client, args[0])
			if err != nil {
				return err
			}
			req := api.CategoryRequest{Name: current.Name, Color: current.Color, Icon: current.Icon, Type: current.Type}
			if err = fields.apply(cmd, &req); err != nil {
				return err
			}
			if _, err = a.client.UpdateCategory(ctx, id, req); err != nil {
				return classify(fmt.Errorf("updating category %d: %w", id, err))
			}
			a.sink.Notify(notify.Success, "Category updated")
			return nil
		},
	}

	fields.register(cmd)

	return cmd
}

func newCategoryDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete categories that no transaction or budget uses",
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
			question := "Delete this category?"
			if len(ids) > 1 {
				question = fmt.Sprintf("Delete %d categories?", len(ids))
			}
			if err = requireConfirmation(a.out, cmd.InOrStdin(), question, yes); err != nil {
				return err
			}
			del := func(ctx context.Context, id int64) error {
				err := a.client.DeleteCategory(ctx, id)
				if api.StatusCode(err) == http.StatusConflict {
					return fmt.Errorf("%w: %w", errCategoryInUse, err)
				}
				return err
			}
			return deleteAll(cmd.Context(), a, ids, batch.DefaultBatchSize, "category", "categories", del)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
