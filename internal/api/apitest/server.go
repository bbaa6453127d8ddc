// Package apitest runs an in-memory finance tracker backend for tests.
//
// The server implements the same routes, paging envelope, filters and error
// shapes as the real backend, backed by plain slices. It records every
// request so tests can assert on the exact query a list view sent.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rshade/fintrack/internal/api"
)

// Request is one request the server received.
type Request struct {
	Method string
	Path   string
	Query  url.Values
}

// Server is an in-memory backend.
type Server struct {
	URL string

	mu           sync.Mutex
	srv          *httptest.Server
	token        string
	requests     []Request
	failures     map[string]int
	categories   []api.Category
	transactions []api.Transaction
	budgets      []api.Budget
	importResult *api.ImportResult
	nextID       int64
	users        map[string]string
}

// New starts a server and closes it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		failures: make(map[string]int),
		users:    make(map[string]string),
		nextID:   1,
	}
	s.srv = httptest.NewServer(s.routes())
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)
	return s
}

// Client returns an api.Client pointed at the server.
func (s *Server) Client(t testing.TB, opts ...api.Option) *api.Client {
	t.Helper()
	c, err := api.New(s.URL, opts...)
	if err != nil {
		t.Fatalf("apitest: creating client: %v", err)
	}
	return c
}

// RequireToken makes every route except login demand "Bearer token".
func (s *Server) RequireToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// AddUser registers credentials accepted by login.
func (s *Server) AddUser(email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = password
}

// Fail makes requests matching "METHOD /path" answer with status until
// cleared with Fail(key, 0). The path is matched as a prefix.
func (s *Server) Fail(key string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, key)
		return
	}
	s.failures[key] = status
}

// Requests returns everything received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// RequestsTo returns the requests for one method and exact path.
func (s *Server) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// ResetRequests clears the request log.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// AddCategory stores a category and returns it with its ID.
func (s *Server) AddCategory(name, color string, typ api.TransactionType) api.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := api.Category{ID: s.id(), Name: name, Color: color, Type: typ}
	s.categories = append(s.categories, c)
	return c
}

// AddTransaction stores a transaction. Category name and color are filled in
// from the category.
func (s *Server) AddTransaction(amount float64, categoryID int64, date api.Date, note string) api.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := api.Transaction{ID: s.id(), Amount: amount, CategoryID: categoryID, Date: date, Note: note}
	s.fillCategory(&t)
	s.transactions = append(s.transactions, t)
	return t
}

// AddBudget stores a budget.
func (s *Server) AddBudget(categoryID int64, amount float64, month, year int) api.Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := api.Budget{ID: s.id(), CategoryID: categoryID, Amount: amount, Month: month, Year: year}
	if c, ok := s.category(categoryID); ok {
		b.CategoryName = c.Name
	}
	s.budgets = append(s.budgets, b)
	return b
}

// Transactions returns the stored transactions.
func (s *Server) Transactions() []api.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.transactions)
}

// SetImportResult fixes the response of the import endpoint.
func (s *Server) SetImportResult(r api.ImportResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.importResult = &r
}

func (s *Server) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Server) category(id int64) (api.Category, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return api.Category{}, false
}

func (s *Server) fillCategory(t *api.Transaction) {
	if c, ok := s.category(t.CategoryID); ok {
		t.CategoryName = c.Name
		t.CategoryColor = c.Color
		t.Type = c.Type
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)
	r.Use(s.injectFailures)

	r.Post("/api/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.auth)

		r.Route("/api/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleCreateTransaction)
			r.Post("/import", s.handleImport)
			r.Get("/template", s.handleTemplate)
			r.Get("/{id}", s.handleGetTransaction)
			r.Put("/{id}", s.handleUpdateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Route("/api/categories", func(r chi.Router) {
			r.Get("/", s.handleListCategories)
			r.Post("/", s.handleCreateCategory)
			r.Put("/{id}", s.handleUpdateCategory)
			r.Delete("/{id}", s.handleDeleteCategory)
		})

		r.Route("/api/budgets", func(r chi.Router) {
			r.Get("/", s.handleListBudgets)
			r.Get("/status", s.handleBudgetStatus)
			r.Post("/", s.handleCreateBudget)
			r.Put("/{id}", s.handleUpdateBudget)
			r.Delete("/{id}", s.handleDeleteBudget)
		})

		r.Route("/api/dashboard", func(r chi.Router) {
			r.Get("/summary", s.handleSummary)
			r.Get("/chart/category", s.handleCategoryChart)
			r.Get("/chart/daily", s.handleDailyChart)
			r.Get("/category-summary", s.handleCategorySummary)
		})

		r.Route("/api/reports", func(r chi.Router) {
			r.Get("/monthly", s.handleMonthlyReport)
			r.Get("/export/{format}", s.handleExport)
		})
	})

	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   strings.TrimSuffix(r.URL.Path, "/"),
			Query:  r.URL.Query(),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var status int
		for key, code := range s.failures {
			method, prefix, _ := strings.Cut(key, " ")
			if method == r.Method && strings.HasPrefix(r.URL.Path, prefix) {
				status = code
				break
			}
		}
		s.mu.Unlock()
		if status != 0 {
			writeError(w, status, fmt.Sprintf("injected failure %d", status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		want := s.token
		s.mu.Unlock()
		if want != "" && r.Header.Get("Authorization") != "Bearer "+want {
			writeError(w, http.StatusUnauthorized, "Full authentication is required to access this resource")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"timestamp": time.Now().Format(time.RFC3339),
		"status":    status,
		"error":     http.StatusText(status),
		"message":   message,
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(r.Body)
	if err == nil {
		err = json.Unmarshal(body, v)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON request")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func queryInt(q url.Values, key string, def int) int {
	if v := q.Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	pw, ok := s.users[req.Email]
	token := s.token
	s.mu.Unlock()
	if !ok || pw != req.Password {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if token == "" {
		token = "test-token"
	}
	writeJSON(w, http.StatusOK, api.AuthResponse{
		Message:  "Login successful",
		Token:    token,
		Role:     "USER",
		UserID:   1,
		Email:    req.Email,
		FullName: "Test User",
	})
}
