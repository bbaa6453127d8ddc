package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TransactionType is INCOME or EXPENSE.
type TransactionType string

// Transaction types.
const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// ParseTransactionType accepts "income"/"expense" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(strings.ToUpper(strings.TrimSpace(s))); t {
	case Income, Expense:
		return t, nil
	default:
		return "", fmt.Errorf("invalid transaction type %q: use income or expense", s)
	}
}

// Date is a calendar date encoded as "2006-01-02".
type Date struct {
	time.Time
}

// dateLayout is the wire format of Date.
const dateLayout = time.DateOnly

// NewDate returns the Date for y-m-d.
func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.Local)}
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

// String returns the wire form.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// UnmarshalJSON accepts "2006-01-02", a full local date-time, or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Page is the server's page envelope.
type Page[T any] struct {
	Content       []T `json:"content"`
	Number        int `json:"number"`
	Size          int `json:"size"`
	TotalPages    int `json:"totalPages"`
	TotalElements int `json:"totalElements"`
}

// Transaction is one income or expense entry.
type Transaction struct {
	ID            int64           `json:"id"`
	Amount        float64         `json:"amount"`
	Type          TransactionType `json:"type"`
	CategoryID    int64           `json:"categoryId"`
	CategoryName  string          `json:"categoryName"`
	CategoryColor string          `json:"categoryColor"`
	Date          Date            `json:"transactionDate"`
	Note          string          `json:"note"`
}

// TransactionRequest is the body for create and update.
type TransactionRequest struct {
	Amount     float64         `json:"amount"`
	Type       TransactionType `json:"type"`
	CategoryID int64           `json:"categoryId"`
	// Date is sent as a local date-time at midnight.
	Date Date   `json:"-"`
	Note string `json:"note,omitempty"`
}

// MarshalJSON encodes Date as the backend's local date-time.
func (r TransactionRequest) MarshalJSON() ([]byte, error) {
	type alias TransactionRequest
	return json.Marshal(struct {
		alias
		TransactionDate string `json:"transactionDate"`
	}{
		alias:           alias(r),
		TransactionDate: r.Date.Format("2006-01-02T15:04:05"),
	})
}

// Validate checks what the backend would reject.
func (r TransactionRequest) Validate() error {
	if r.Amount < 0.01 {
		return fmt.Errorf("amount must be greater than 0")
	}
	if r.Type != Income && r.Type != Expense {
		return fmt.Errorf("type is required")
	}
	if r.CategoryID <= 0 {
		return fmt.Errorf("category is required")
	}
	if r.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	return nil
}

// RequestFrom copies an existing transaction into an update request.
func RequestFrom(t Transaction) TransactionRequest {
	return TransactionRequest{
		Amount:     t.Amount,
		Type:       t.Type,
		CategoryID: t.CategoryID,
		Date:       t.Date,
		Note:       t.Note,
	}
}

// Category groups transactions of one type.
type Category struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Color string          `json:"color"`
	Icon  string          `json:"icon,omitempty"`
	Type  TransactionType `json:"type"`
}

// CategoryRequest is the body for category create and update.
type CategoryRequest struct {
	Name  string          `json:"name"`
	Color string          `json:"color"`
	Icon  string          `json:"icon,omitempty"`
	Type  TransactionType `json:"type"`
}

// Validate checks the fields the backend requires.
func (r CategoryRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !isHexColor(r.Color) {
		return fmt.Errorf("invalid color %q: use #rgb or #rrggbb", r.Color)
	}
	if r.Type != Income && r.Type != Expense {
		return fmt.Errorf("type is required")
	}
	return nil
}

func isHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !isHex {
			return false
		}
	}
	return true
}

// Budget is a spending limit for one category in one month.
type Budget struct {
	ID           int64   `json:"id"`
	CategoryID   int64   `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Amount       float64 `json:"amount"`
	Month        int     `json:"month"`
	Year         int     `json:"year"`
}

// BudgetRequest is the body for budget create and update.
type BudgetRequest struct {
	CategoryID int64   `json:"categoryId"`
	Amount     float64 `json:"amount"`
	Month      int     `json:"month"`
	Year       int     `json:"year"`
}

// Validate checks the fields the backend requires.
func (r BudgetRequest) Validate() error {
	if r.CategoryID <= 0 {
		return fmt.Errorf("category is required")
	}
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	return ValidatePeriod(r.Month, r.Year)
}

// BudgetStatus is a budget with the amount spent against it.
type BudgetStatus struct {
	BudgetID        int64   `json:"budgetId"`
	CategoryName    string  `json:"categoryName"`
	CategoryColor   string  `json:"categoryColor"`
	BudgetAmount    float64 `json:"budgetAmount"`
	SpentAmount     float64 `json:"spentAmount"`
	RemainingAmount float64 `json:"remainingAmount"`
	Percentage      float64 `json:"percentage"`
	Exceeded        bool    `json:"isExceeded"`
}

// DashboardSummary holds the month totals.
type DashboardSummary struct {
	Month            string  `json:"month"`
	TotalIncome      float64 `json:"totalIncome"`
	TotalExpense     float64 `json:"totalExpense"`
	Balance          float64 `json:"balance"`
	TransactionCount int64   `json:"transactionCount"`
}

// ChartData is a labelled series, one color per label.
type ChartData struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
	Colors []string  `json:"colors"`
}

// CategoryExpenseSummary is one category's share of the month's expenses.
type CategoryExpenseSummary struct {
	CategoryID   int64   `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Color        string  `json:"color"`
	Icon         string  `json:"icon"`
	TotalAmount  float64 `json:"totalAmount"`
	Percentage   float64 `json:"percentage"`
}

// MonthlyReport is the report for one month.
type MonthlyReport struct {
	Month                string                 `json:"month"`
	TotalIncome          float64                `json:"totalIncome"`
	TotalExpense         float64                `json:"totalExpense"`
	Balance              float64                `json:"balance"`
	TopExpenseCategories []CategoryExpenseStats `json:"topExpenseCategories"`
}

// CategoryExpenseStats is one row of a report's top expense categories.
type CategoryExpenseStats struct {
	CategoryName string  `json:"categoryName"`
	Amount       float64 `json:"amount"`
	Percentage   float64 `json:"percentage"`
}

// ImportResult summarizes an Excel import.
type ImportResult struct {
	TotalRows            int           `json:"totalRows"`
	SuccessCount         int           `json:"successCount"`
	ErrorCount           int           `json:"errorCount"`
	Errors               []string      `json:"errors"`
	ImportedTransactions []Transaction `json:"importedTransactions"`
}

// LoginRequest is the body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login.
type AuthResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	Role     string `json:"role"`
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// Period selects a month. Zero fields are omitted and the server uses the
// current month.
type Period struct {
	Month int
	Year  int
}

// ValidatePeriod checks month is 1-12 and year is positive.
func ValidatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	if year < 1 {
		return fmt.Errorf("year must be positive, got %d", year)
	}
	return nil
}
