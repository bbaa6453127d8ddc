package apitest

import (
	"cmp"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rshade/fintrack/internal/api"
)

// Spring's default page size.
const defaultPageSize = 20

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt(q, "page", 0)
	size := queryInt(q, "size", defaultPageSize)
	if page < 0 || size <= 0 {
		writeError(w, http.StatusBadRequest, "invalid page request")
		return
	}

	s.mu.Lock()
	matched := filterTransactions(s.transactions, q)
	s.mu.Unlock()

	sortTransactions(matched, q.Get("sort"))

	total := len(matched)
	content := []api.Transaction{}
	if start := page * size; start < total {
		content = matched[start:min(start+size, total)]
	}

	writeJSON(w, http.StatusOK, api.Page[api.Transaction]{
		Content:       content,
		Number:        page,
		Size:          size,
		TotalPages:    (total + size - 1) / size,
		TotalElements: total,
	})
}

func filterTransactions(all []api.Transaction, q url.Values) []api.Transaction {
	out := make([]api.Transaction, 0, len(all))
	categoryID, _ := strconv.ParseInt(q.Get(api.FilterCategoryID), 10, 64)
	typ := api.TransactionType(q.Get(api.FilterType))
	month := queryInt(q, api.FilterMonth, 0)
	year := queryInt(q, api.FilterYear, 0)
	keyword := strings.ToLower(q.Get(api.FilterKeyword))

	for _, t := range all {
		if categoryID != 0 && t.CategoryID != categoryID {
			continue
		}
		if typ != "" && t.Type != typ {
			continue
		}
		if month != 0 && int(t.Date.Month()) != month {
			continue
		}
		if year != 0 && t.Date.Year() != year {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(t.Note), keyword) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// sortTransactions applies "field,dir". The default is newest first.
func sortTransactions(ts []api.Transaction, spec string) {
	field, dir, _ := strings.Cut(spec, ",")
	if field == "" {
		field, dir = "transactionDate", "desc"
	}
	desc := strings.EqualFold(dir, "desc")

	slices.SortStableFunc(ts, func(a, b api.Transaction) int {
		var c int
		switch field {
		case "amount":
			c = cmp.Compare(a.Amount, b.Amount)
		case "note":
			c = strings.Compare(a.Note, b.Note)
		default:
			c = a.Date.Compare(b.Date.Time)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if desc {
			return -c
		}
		return c
	})
}

func (s *Server) findTransaction(id int64) (int, bool) {
	for i, t := range s.transactions {
		if t.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, found := s.findTransaction(id)
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Transaction not found with id: %d", id))
		return
	}
	writeJSON(w, http.StatusOK, s.transactions[i])
}

// transactionBody mirrors api.TransactionRequest on the wire.
type transactionBody struct {
	Amount          float64             `json:"amount"`
	Type            api.TransactionType `json:"type"`
	CategoryID      int64               `json:"categoryId"`
	TransactionDate string              `json:"transactionDate"`
	Note            string              `json:"note"`
}

func (s *Server) toTransaction(w http.ResponseWriter, body transactionBody) (api.Transaction, bool) {
	if body.Amount < 0.01 {
		writeError(w, http.StatusBadRequest, "Amount must be greater than 0")
		return api.Transaction{}, false
	}
	date, err := time.ParseInLocation("2006-01-02T15:04:05", body.TransactionDate, time.Local)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Date is required")
		return api.Transaction{}, false
	}
	if _, ok := s.category(body.CategoryID); !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Category not found with id: %d", body.CategoryID))
		return api.Transaction{}, false
	}
	t := api.Transaction{
		Amount:     body.Amount,
		Type:       body.Type,
		CategoryID: body.CategoryID,
		Date:       api.NewDate(date.Year(), date.Month(), date.Day()),
		Note:       body.Note,
	}
	s.fillCategory(&t)
	t.Type = body.Type
	return t, true
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var body transactionBody
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.toTransaction(w, body)
	if !ok {
		return
	}
	t.ID = s.id()
	s.transactions = append(s.transactions, t)
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body transactionBody
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, found := s.findTransaction(id)
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Transaction not found with id: %d", id))
		return
	}
	t, ok := s.toTransaction(w, body)
	if !ok {
		return
	}
	t.ID = id
	s.transactions[i] = t
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, found := s.findTransaction(id)
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Transaction not found with id: %d", id))
		return
	}
	s.transactions = slices.Delete(s.transactions, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()
	if api.ValidateImportName(header.Filename) != nil || header.Size == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.importResult != nil {
		writeJSON(w, http.StatusOK, s.importResult)
		return
	}
	writeJSON(w, http.StatusOK, api.ImportResult{Errors: []string{}, ImportedTransactions: []api.Transaction{}})
}

// TemplateBytes is the body served by the template endpoint.
var TemplateBytes = []byte("PK-fake-xlsx-template") //nolint:gochecknoglobals // Test fixture.

func (s *Server) handleTemplate(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `form-data; name="attachment"; filename="transaction_import_template.xlsx"`)
	_, _ = w.Write(TemplateBytes)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	typ := api.TransactionType(r.URL.Query().Get("type"))
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.Category{}
	for _, c := range s.categories {
		if typ == "" || c.Type == typ {
			out = append(out, c)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req api.CategoryRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := api.Category{ID: s.id(), Name: req.Name, Color: req.Color, Icon: req.Icon, Type: req.Type}
	s.categories = append(s.categories, c)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req api.CategoryRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.categories {
		if c.ID == id {
			s.categories[i] = api.Category{ID: id, Name: req.Name, Color: req.Color, Icon: req.Icon, Type: req.Type}
			writeJSON(w, http.StatusOK, s.categories[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("Category not found with id: %d", id))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.transactions {
		if t.CategoryID == id {
			writeError(w, http.StatusConflict, "Category is in use by transactions")
			return
		}
	}
	for i, c := range s.categories {
		if c.ID == id {
			s.categories = slices.Delete(s.categories, i, i+1)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("Category not found with id: %d", id))
}

func requirePeriod(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	q := r.URL.Query()
	month, year := queryInt(q, "month", 0), queryInt(q, "year", 0)
	if month == 0 || year == 0 {
		writeError(w, http.StatusBadRequest, "month and year are required")
		return 0, 0, false
	}
	return month, year, true
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	month, year, ok := requirePeriod(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.Budget{}
	for _, b := range s.budgets {
		if b.Month == month && b.Year == year {
			out = append(out, b)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	month, year, ok := requirePeriod(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.BudgetStatus{}
	for _, b := range s.budgets {
		if b.Month != month || b.Year != year {
			continue
		}
		var spent float64
		for _, t := range s.transactions {
			if t.CategoryID == b.CategoryID && t.Type == api.Expense &&
				int(t.Date.Month()) == month && t.Date.Year() == year {
				spent += t.Amount
			}
		}
		c, _ := s.category(b.CategoryID)
		pct := 0.0
		if b.Amount > 0 {
			pct = spent / b.Amount * 100
		}
		out = append(out, api.BudgetStatus{
			BudgetID:        b.ID,
			CategoryName:    c.Name,
			CategoryColor:   c.Color,
			BudgetAmount:    b.Amount,
			SpentAmount:     spent,
			RemainingAmount: b.Amount - spent,
			Percentage:      pct,
			Exceeded:        spent > b.Amount,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req api.BudgetRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.category(req.CategoryID)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Category not found with id: %d", req.CategoryID))
		return
	}
	b := api.Budget{
		ID: s.id(), CategoryID: req.CategoryID, CategoryName: c.Name,
		Amount: req.Amount, Month: req.Month, Year: req.Year,
	}
	s.budgets = append(s.budgets, b)
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req api.BudgetRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.budgets {
		if b.ID == id {
			c, _ := s.category(req.CategoryID)
			s.budgets[i] = api.Budget{
				ID: id, CategoryID: req.CategoryID, CategoryName: c.Name,
				Amount: req.Amount, Month: req.Month, Year: req.Year,
			}
			writeJSON(w, http.StatusOK, s.budgets[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("Budget not found with id: %d", id))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.budgets {
		if b.ID == id {
			s.budgets = slices.Delete(s.budgets, i, i+1)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("Budget not found with id: %d", id))
}

// period returns the month/year from the query or the current month.
func period(r *http.Request) (int, int) {
	now := time.Now()
	q := r.URL.Query()
	return queryInt(q, "month", int(now.Month())), queryInt(q, "year", now.Year())
}

func (s *Server) monthTransactions(month, year int) []api.Transaction {
	var out []api.Transaction
	for _, t := range s.transactions {
		if int(t.Date.Month()) == month && t.Date.Year() == year {
			out = append(out, t)
		}
	}
	return out
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	month, year := period(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum api.DashboardSummary
	sum.Month = fmt.Sprintf("%d-%02d", year, month)
	for _, t := range s.monthTransactions(month, year) {
		if t.Type == api.Income {
			sum.TotalIncome += t.Amount
		} else {
			sum.TotalExpense += t.Amount
		}
		sum.TransactionCount++
	}
	sum.Balance = sum.TotalIncome - sum.TotalExpense
	writeJSON(w, http.StatusOK, sum)
}

// expenseByCategory aggregates the month's expenses, largest first.
func (s *Server) expenseByCategory(month, year int) ([]api.CategoryExpenseSummary, float64) {
	totals := map[int64]float64{}
	var grand float64
	for _, t := range s.monthTransactions(month, year) {
		if t.Type != api.Expense {
			continue
		}
		totals[t.CategoryID] += t.Amount
		grand += t.Amount
	}
	out := make([]api.CategoryExpenseSummary, 0, len(totals))
	for id, amt := range totals {
		c, _ := s.category(id)
		pct := 0.0
		if grand > 0 {
			pct = amt / grand * 100
		}
		out = append(out, api.CategoryExpenseSummary{
			CategoryID: id, CategoryName: c.Name, Color: c.Color, Icon: c.Icon,
			TotalAmount: amt, Percentage: pct,
		})
	}
	slices.SortFunc(out, func(a, b api.CategoryExpenseSummary) int {
		if c := cmp.Compare(b.TotalAmount, a.TotalAmount); c != 0 {
			return c
		}
		return cmp.Compare(a.CategoryID, b.CategoryID)
	})
	return out, grand
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	month, year := period(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, _ := s.expenseByCategory(month, year)
	chart := api.ChartData{Labels: []string{}, Data: []float64{}, Colors: []string{}}
	for _, row := range rows {
		chart.Labels = append(chart.Labels, row.CategoryName)
		chart.Data = append(chart.Data, row.TotalAmount)
		chart.Colors = append(chart.Colors, row.Color)
	}
	writeJSON(w, http.StatusOK, chart)
}

func (s *Server) handleDailyChart(w http.ResponseWriter, r *http.Request) {
	month, year := period(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	days := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	chart := api.ChartData{Labels: make([]string, days), Data: make([]float64, days), Colors: []string{}}
	for d := range days {
		chart.Labels[d] = strconv.Itoa(d + 1)
	}
	for _, t := range s.monthTransactions(month, year) {
		if t.Type == api.Expense {
			chart.Data[t.Date.Day()-1] += t.Amount
		}
	}
	writeJSON(w, http.StatusOK, chart)
}

func (s *Server) handleCategorySummary(w http.ResponseWriter, r *http.Request) {
	month, year := period(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, _ := s.expenseByCategory(month, year)
	writeJSON(w, http.StatusOK, rows)
}

// topCategories is the number of categories in a monthly report.
const topCategories = 5

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	month, year, ok := requirePeriod(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rep := api.MonthlyReport{Month: fmt.Sprintf("%d-%02d", year, month), TopExpenseCategories: []api.CategoryExpenseStats{}}
	for _, t := range s.monthTransactions(month, year) {
		if t.Type == api.Income {
			rep.TotalIncome += t.Amount
		} else {
			rep.TotalExpense += t.Amount
		}
	}
	rep.Balance = rep.TotalIncome - rep.TotalExpense
	rows, _ := s.expenseByCategory(month, year)
	for _, row := range rows[:min(topCategories, len(rows))] {
		rep.TopExpenseCategories = append(rep.TopExpenseCategories, api.CategoryExpenseStats{
			CategoryName: row.CategoryName, Amount: row.TotalAmount, Percentage: row.Percentage,
		})
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	month, year, ok := requirePeriod(w, r)
	if !ok {
		return
	}
	format := chi.URLParam(r, "format")
	ext := map[string]string{"excel": "xlsx", "csv": "csv"}[format]
	if ext == "" {
		writeError(w, http.StatusNotFound, "unknown export format")
		return
	}

	s.mu.Lock()
	rows := s.monthTransactions(month, year)
	s.mu.Unlock()

	var b strings.Builder
	b.WriteString("Date,Type,Category,Amount,Note\n")
	for _, t := range rows {
		fmt.Fprintf(&b, "%s,%s,%s,%.2f,%s\n", t.Date, t.Type, t.CategoryName, t.Amount, t.Note)
	}

	if ext == "csv" {
		w.Header().Set("Content-Type", "text/csv")
	} else {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=transactions_%d_%d.%s", year, month, ext))
	_, _ = w.Write([]byte(b.String()))
}
