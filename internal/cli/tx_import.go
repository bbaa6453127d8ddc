package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/format"
	"github.com/rshade/fintrack/internal/notify"
	"github.com/rshade/fintrack/internal/tui"
)

func newTxImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import transactions from an Excel file",
		Long: `Uploads an .xlsx or .xls file laid out like the import template
(see "fintrack tx template") and prints how many rows were imported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]
			if err := api.ValidateImportName(path); err != nil {
				return usageError(err)
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			var res api.ImportResult
			if a.interactive() {
				model, start := tui.NewImportModel(ctx, a.client, path)
				final, runErr := runProgram(ctx, model, start)
				if runErr != nil {
					return runErr
				}
				im, ok := final.(tui.ImportModel)
				if !ok || !im.Done() {
					return &ExitError{Code: ExitFailure, Reason: "import interrupted"}
				}
				if res, err = im.Result(); err != nil {
					return classify(fmt.Errorf("importing %s: %w", filepath.Base(path), err))
				}
			} else {
				res, err = a.client.ImportFile(ctx, path, nil)
				if err != nil {
					return classify(fmt.Errorf("importing %s: %w", filepath.Base(path), err))
				}
				a.println(tui.RenderImportResult(res, a.plain()))
			}

			if res.ErrorCount > 0 {
				a.sink.Notify(notify.Error, fmt.Sprintf("Imported %d of %d rows", res.SuccessCount, res.TotalRows))
				return &ExitError{Code: ExitFailure, Reason: fmt.Sprintf("%d rows failed to import", res.ErrorCount)}
			}
			a.sink.Notify(notify.Success, fmt.Sprintf("Imported %d transactions", res.SuccessCount))
			return nil
		},
	}
}

func newTxTemplateCmd() *cobra.Command {
	var (
		outDir string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Download the Excel import template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			return downloadTo(cmd, a, outDir, "transaction_template.xlsx", force, a.client.DownloadImportTemplate)
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "directory to save into")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

// downloadTo streams a server file into dir. The file is written to a
// temporary name and renamed once the server named it, so a failed download
// leaves nothing behind.
func downloadTo(
	cmd *cobra.Command,
	a *app,
	dir, fallbackName string,
	force bool,
	fetch func(ctx context.Context, w io.Writer) (api.Download, error),
) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".fintrack-download-*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	dl, err := fetch(cmd.Context(), tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return classify(fmt.Errorf("downloading: %w", err))
	}

	name := filepath.Base(dl.FileName)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = fallbackName
	}
	target := filepath.Join(dir, name)
	if !force {
		if _, statErr := os.Stat(target); statErr == nil {
			return &ExitError{Code: ExitFailure, Reason: fmt.Sprintf("%s already exists, use --force to overwrite", target)}
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return fmt.Errorf("cannot access %s: %w", target, statErr)
		}
	}
	if err = os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("saving %s: %w", target, err)
	}

	a.sink.Notify(notify.Success, fmt.Sprintf("Saved %s (%s)", target, format.Bytes(dl.Bytes)))
	return nil
}
