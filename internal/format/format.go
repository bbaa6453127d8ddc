// Package format renders amounts, dates and percentages for display.
//
// Numbers are formatted with golang.org/x/text so grouping and decimal
// separators follow the configured locale (vi-VN by default: 1.234.567 ₫).
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Thresholds for Compact.
const (
	Thousand = 1_000
	Million  = 1_000_000
	Billion  = 1_000_000_000
)

// symbolBefore lists currencies whose symbol is written before the amount.
//
//nolint:gochecknoglobals // Read-only lookup table.
var symbolBefore = map[string]bool{
	"USD": true,
	"GBP": true,
	"JPY": true,
	"CNY": true,
}

// symbols maps ISO codes to the display symbol. Codes not listed print as-is.
//
//nolint:gochecknoglobals // Read-only lookup table.
var symbols = map[string]string{
	"VND": "₫",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"KRW": "₩",
	"THB": "฿",
}

// Formatter renders values for one currency and locale.
type Formatter struct {
	printer    *message.Printer
	code       string
	symbol     string
	scale      int
	dateLayout string
}

// Fallbacks for empty arguments to New.
const (
	defaultCurrency = "VND"
	defaultLocale   = "vi-VN"
)

// New returns a Formatter for the ISO 4217 currency code, BCP 47 locale and
// Go date layout. Empty arguments select VND, vi-VN and "2006-01-02".
func New(currencyCode, locale, dateLayout string) (*Formatter, error) {
	if currencyCode == "" {
		currencyCode = defaultCurrency
	}
	if locale == "" {
		locale = defaultLocale
	}
	unit, err := currency.ParseISO(strings.ToUpper(currencyCode))
	if err != nil {
		return nil, fmt.Errorf("parsing currency %q: %w", currencyCode, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}
	if dateLayout == "" {
		dateLayout = time.DateOnly
	}

	scale, _ := currency.Standard.Rounding(unit)
	code := unit.String()
	symbol, ok := symbols[code]
	if !ok {
		symbol = code
	}

	return &Formatter{
		printer:    message.NewPrinter(tag),
		code:       code,
		symbol:     symbol,
		scale:      scale,
		dateLayout: dateLayout,
	}, nil
}

// Must is New that panics on error. Intended for defaults known to be valid.
func Must(currencyCode, locale, dateLayout string) *Formatter {
	f, err := New(currencyCode, locale, dateLayout)
	if err != nil {
		panic(err)
	}
	return f
}

// Currency returns the ISO code the formatter renders.
func (f *Formatter) Currency() string {
	return f.code
}

// Number formats n with locale grouping and the given number of decimals.
func (f *Formatter) Number(n float64, decimals int) string {
	return f.printer.Sprint(number.Decimal(n, number.Scale(decimals)))
}

// Amount formats n as money, e.g. "1.234.567 ₫" or "$1,234.50".
func (f *Formatter) Amount(n float64) string {
	neg := n < 0
	digits := f.Number(math.Abs(n), f.scale)

	var s string
	if symbolBefore[f.code] {
		s = f.symbol + digits
	} else {
		s = digits + " " + f.symbol
	}
	if neg {
		return "-" + s
	}
	return s
}

// SignedAmount formats n with a leading "+" for income or "-" for expense.
func (f *Formatter) SignedAmount(n float64, income bool) string {
	if income {
		return "+" + f.Amount(math.Abs(n))
	}
	return "-" + f.Amount(math.Abs(n))
}

// Date formats t with the configured layout. Zero times render as "".
func (f *Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(f.dateLayout)
}

// Percent formats p (already in percent units) with one decimal, e.g. "42.5%".
func Percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// Compact abbreviates large values for chart axes: 1.5B, 2.3M, 12K.
func Compact(n float64) string {
	abs := math.Abs(n)
	sign := ""
	if n < 0 {
		sign = "-"
	}
	switch {
	case abs >= Billion:
		return fmt.Sprintf("%s%.1fB", sign, abs/Billion)
	case abs >= Million:
		return fmt.Sprintf("%s%.1fM", sign, abs/Million)
	case abs >= Thousand:
		return fmt.Sprintf("%s%.0fK", sign, abs/Thousand)
	default:
		return fmt.Sprintf("%s%.0f", sign, abs)
	}
}

// Bytes renders a file size for upload progress, e.g. "82 kB".
func Bytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// MonthLabel renders a month/year pair the way the dashboard header shows it.
func MonthLabel(month, year int) string {
	return fmt.Sprintf("%02d/%d", month, year)
}
