package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/tui"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Monthly reports and exports",
	}
	cmd.AddCommand(newReportShowCmd(), newReportExportCmd())
	return cmd
}

func newReportShowCmd() *cobra.Command {
	var period periodFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the monthly report",
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
			r, err := a.client.MonthlyReport(cmd.Context(), p)
			if err != nil {
				return classify(fmt.Errorf("loading report: %w", err))
			}
			a.println(tui.RenderMonthlyReport(r, a.format, a.plain()))
			return nil
		},
	}

	period.register(cmd)

	return cmd
}

func newReportExportCmd() *cobra.Command {
	var (
		period periodFlags
		kind   string
		outDir string
		force  bool
	)

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export a month's transactions as Excel or CSV",
		Example: `  fintrack report export --format csv --month 3 --year 2025 -o ./exports`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind = strings.ToLower(kind)
			if kind != api.ExportExcel && kind != api.ExportCSV {
				return usageError(fmt.Errorf("unsupported format %q: use %s or %s", kind, api.ExportExcel, api.ExportCSV))
			}
			p, err := period.resolve(nowFunc())
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			ext := map[string]string{api.ExportExcel: "xlsx", api.ExportCSV: "csv"}[kind]
			fallback := fmt.Sprintf("transactions_%d_%d.%s", p.Year, p.Month, ext)
			return downloadTo(cmd, a, outDir, fallback, force, func(ctx context.Context, w io.Writer) (api.Download, error) {
				return a.client.ExportReport(ctx, kind, p, w)
			})
		},
	}

	period.register(cmd)
	cmd.Flags().StringVar(&kind, "format", api.ExportExcel, "excel or csv")
	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "directory to save into")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}
