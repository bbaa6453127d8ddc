package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/format"
)

// Chart layout.
const (
	barMaxWidth    = 40
	chartLabelLen  = 16
	budgetWarnPct  = 80.0
	percentDivisor = 100.0
)

// DashboardData is everything shown by the dashboard for one month.
type DashboardData struct {
	Period     api.Period
	Summary    api.DashboardSummary
	Daily      api.ChartData
	Categories []api.CategoryExpenseSummary
}

// RenderDashboard renders the month summary, the daily expense chart and the
// category breakdown.
func RenderDashboard(d DashboardData, f *format.Formatter, plain bool) string {
	sections := []string{
		renderSummaryBox(d, f, plain),
		renderDailyChart(d.Daily, plain),
		renderCategoryBreakdown(d.Categories, f, plain),
	}
	return strings.Join(sections, "\n\n")
}

func renderSummaryBox(d DashboardData, f *format.Formatter, plain bool) string {
	title := "Summary"
	if d.Summary.Month != "" {
		title += " " + d.Summary.Month
	} else if d.Period.Month != 0 {
		title += " " + format.MonthLabel(d.Period.Month, d.Period.Year)
	}
	balanceStyle := IncomeStyle
	if d.Summary.Balance < 0 {
		balanceStyle = CriticalStyle
	}
	rows := [][3]string{
		{"Income:", f.Amount(d.Summary.TotalIncome), "income"},
		{"Expense:", f.Amount(d.Summary.TotalExpense), "expense"},
		{"Balance:", f.Amount(d.Summary.Balance), "balance"},
		{"Transactions:", strconv.FormatInt(d.Summary.TransactionCount, 10), ""},
	}
	if plain {
		lines := []string{title}
		for _, r := range rows {
			lines = append(lines, fmt.Sprintf("  %-14s %s", r[0], r[1]))
		}
		return strings.Join(lines, "\n")
	}
	lines := []string{HeaderStyle.Render(title), ""}
	for _, r := range rows {
		value := ValueStyle.Render(r[1])
		switch r[2] {
		case "income":
			value = IncomeStyle.Render(r[1])
		case "expense":
			value = ExpenseStyle.Render(r[1])
		case "balance":
			value = balanceStyle.Render(r[1])
		}
		lines = append(lines, LabelStyle.Render(pad(r[0], 14))+" "+value) //nolint:mnd // Label width.
	}
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderDailyChart draws one horizontal bar per day with spending.
func renderDailyChart(c api.ChartData, plain bool) string {
	title := "Daily expenses"
	if len(c.Data) == 0 {
		return heading(title, plain) + "\n" + muted("No expenses this month.", plain)
	}
	peak := 0.0
	for _, v := range c.Data {
		peak = math.Max(peak, v)
	}
	lines := []string{heading(title, plain)}
	for i, v := range c.Data {
		if v == 0 {
			continue
		}
		label := ""
		if i < len(c.Labels) {
			label = c.Labels[i]
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			pad(truncate(label, 6), 6), //nolint:mnd // Day label width.
			bar(v/peak, barMaxWidth, ExpenseStyle, plain),
			format.Compact(v)))
	}
	if len(lines) == 1 {
		lines = append(lines, muted("No expenses this month.", plain))
	}
	return strings.Join(lines, "\n")
}

func renderCategoryBreakdown(items []api.CategoryExpenseSummary, f *format.Formatter, plain bool) string {
	title := "Expenses by category"
	if len(items) == 0 {
		return heading(title, plain) + "\n" + muted("No expenses this month.", plain)
	}
	lines := []string{heading(title, plain)}
	for _, it := range items {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(it.Color))
		if it.Color == "" {
			style = ExpenseStyle
		}
		name := pad(truncate(it.CategoryName, chartLabelLen), chartLabelLen)
		lines = append(lines, fmt.Sprintf("%s %s %6s  %s",
			name,
			bar(it.Percentage/percentDivisor, barMaxWidth/2, style, plain), //nolint:mnd // Half-width bars.
			format.Percent(it.Percentage),
			f.Amount(it.TotalAmount)))
	}
	return strings.Join(lines, "\n")
}

// RenderBudgetStatuses renders one line per budget with a usage bar.
// Budgets over 80% are shown in warning style, exceeded ones as critical.
func RenderBudgetStatuses(period api.Period, statuses []api.BudgetStatus, f *format.Formatter, plain bool) string {
	title := "Budgets " + format.MonthLabel(period.Month, period.Year)
	if len(statuses) == 0 {
		return heading(title, plain) + "\n" + muted("No budgets for this month.", plain)
	}
	lines := []string{heading(title, plain)}
	for _, s := range statuses {
		style := IncomeStyle
		flag := ""
		switch {
		case s.Exceeded:
			style = CriticalStyle
			flag = " EXCEEDED"
		case s.Percentage >= budgetWarnPct:
			style = WarningStyle
		}
		ratio := math.Min(s.Percentage/percentDivisor, 1)
		line := fmt.Sprintf("%s %s %6s  %s / %s  left %s",
			pad(truncate(s.CategoryName, chartLabelLen), chartLabelLen),
			bar(ratio, barMaxWidth/2, style, plain), //nolint:mnd // Half-width bars.
			format.Percent(s.Percentage),
			f.Amount(s.SpentAmount),
			f.Amount(s.BudgetAmount),
			f.Amount(s.RemainingAmount))
		if flag != "" {
			if plain {
				line += flag
			} else {
				line += CriticalStyle.Render(flag)
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// RenderMonthlyReport renders the report totals and top expense categories.
func RenderMonthlyReport(r api.MonthlyReport, f *format.Formatter, plain bool) string {
	lines := []string{
		heading("Monthly report "+r.Month, plain),
		fmt.Sprintf("  %-10s %s", "Income:", f.Amount(r.TotalIncome)),
		fmt.Sprintf("  %-10s %s", "Expense:", f.Amount(r.TotalExpense)),
		fmt.Sprintf("  %-10s %s", "Balance:", f.Amount(r.Balance)),
		"",
		heading("Top expense categories", plain),
	}
	if len(r.TopExpenseCategories) == 0 {
		lines = append(lines, muted("No expenses this month.", plain))
	}
	for i, c := range r.TopExpenseCategories {
		lines = append(lines, fmt.Sprintf("  %d. %s %6s  %s",
			i+1,
			pad(truncate(c.CategoryName, chartLabelLen), chartLabelLen),
			format.Percent(c.Percentage),
			f.Amount(c.Amount)))
	}
	return strings.Join(lines, "\n")
}

// RenderImportResult summarizes an import and lists row errors.
func RenderImportResult(r api.ImportResult, plain bool) string {
	summary := fmt.Sprintf("Imported %d of %d rows", r.SuccessCount, r.TotalRows)
	lines := []string{heading(summary, plain)}
	if r.ErrorCount > 0 {
		lines = append(lines, warn(fmt.Sprintf("%d rows failed:", r.ErrorCount), plain))
		for _, e := range r.Errors {
			lines = append(lines, "  - "+e)
		}
	}
	return strings.Join(lines, "\n")
}

// bar draws a horizontal bar filled to ratio (0-1) of width cells.
func bar(ratio float64, width int, style lipgloss.Style, plain bool) string {
	ratio = math.Max(0, math.Min(ratio, 1))
	filled := int(math.Round(ratio * float64(width)))
	if ratio > 0 && filled == 0 {
		filled = 1
	}
	if plain {
		return strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
	}
	return style.Render(strings.Repeat("█", filled)) + SubtleStyle.Render(strings.Repeat("░", width-filled))
}

func heading(s string, plain bool) string {
	if plain {
		return s
	}
	return HeaderStyle.Render(s)
}

func muted(s string, plain bool) string {
	if plain {
		return s
	}
	return SubtleStyle.Render(s)
}

func warn(s string, plain bool) string {
	if plain {
		return s
	}
	return WarningStyle.Render(s)
}
