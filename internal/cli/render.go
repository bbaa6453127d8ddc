package cli

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/format"
	"github.com/rshade/fintrack/internal/pagination"
	"github.com/rshade/fintrack/internal/tui"
)

const tabPadding = 2

// writeTable prints header and rows as aligned columns. In styled mode the
// header line is highlighted after alignment.
func writeTable(w io.Writer, plain bool, header []string, rows [][]string) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if !plain && len(lines) > 0 {
		lines[0] = tui.TableHeaderStyle.Render(lines[0])
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

// writeFooter prints the page selector (when there is more than one page)
// and the caption under a list.
func writeFooter(w io.Writer, plain bool, sel pagination.Selector, caption string) {
	if s := tui.RenderSelector(sel, plain); s != "" {
		fmt.Fprintln(w, s)
	}
	fmt.Fprintln(w, tui.RenderCaption(caption, plain))
}

// emptyPlaceholder is printed instead of a table for an empty page.
const emptyPlaceholder = "No transactions found"

func transactionRows(items []api.Transaction, f *format.Formatter) [][]string {
	rows := make([][]string, 0, len(items))
	for _, tx := range items {
		rows = append(rows, []string{
			strconv.FormatInt(tx.ID, 10),
			f.Date(tx.Date.Time),
			string(tx.Type),
			tx.CategoryName,
			f.SignedAmount(tx.Amount, tx.Type == api.Income),
			tx.Note,
		})
	}
	return rows
}

//nolint:gochecknoglobals // Read-only column headers.
var transactionHeader = []string{"ID", "DATE", "TYPE", "CATEGORY", "AMOUNT", "NOTE"}

func writeTransaction(w io.Writer, tx api.Transaction, f *format.Formatter) {
	fmt.Fprintf(w, "ID:        %d\n", tx.ID)
	fmt.Fprintf(w, "Date:      %s\n", f.Date(tx.Date.Time))
	fmt.Fprintf(w, "Type:      %s\n", tx.Type)
	fmt.Fprintf(w, "Category:  %s\n", tx.CategoryName)
	fmt.Fprintf(w, "Amount:    %s\n", f.SignedAmount(tx.Amount, tx.Type == api.Income))
	if tx.Note != "" {
		fmt.Fprintf(w, "Note:      %s\n", tx.Note)
	}
}

func categoryRows(items []api.Category) [][]string {
	rows := make([][]string, 0, len(items))
	for _, c := range items {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			string(c.Type),
			c.Color,
			c.Icon,
		})
	}
	return rows
}

//nolint:gochecknoglobals // Read-only column headers.
var categoryHeader = []string{"ID", "NAME", "TYPE", "COLOR", "ICON"}
