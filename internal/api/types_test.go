package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-03-05"`), &d))
	assert.Equal(t, "2025-03-05", d.String())

	require.NoError(t, json.Unmarshal([]byte(`"2025-03-05T10:30:00"`), &d))
	assert.Equal(t, "2025-03-05", d.String())

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())

	require.Error(t, json.Unmarshal([]byte(`"05/03/2025"`), &d))

	out, err := json.Marshal(NewDate(2024, time.February, 29))
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-02-29"`, string(out))
}

func TestTransactionRequestJSON(t *testing.T) {
	req := TransactionRequest{
		Amount:     12.5,
		Type:       Expense,
		CategoryID: 3,
		Date:       NewDate(2025, time.January, 9),
		Note:       "coffee",
	}
	out, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"amount": 12.5,
		"type": "EXPENSE",
		"categoryId": 3,
		"transactionDate": "2025-01-09T00:00:00",
		"note": "coffee"
	}`, string(out))
}

func TestRequestValidation(t *testing.T) {
	valid := TransactionRequest{Amount: 1, Type: Income, CategoryID: 1, Date: NewDate(2025, 1, 1)}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.Amount = 0
	require.Error(t, bad.Validate())
	bad = valid
	bad.Type = "TRANSFER"
	require.Error(t, bad.Validate())
	bad = valid
	bad.Date = Date{}
	require.Error(t, bad.Validate())

	require.NoError(t, CategoryRequest{Name: "Food", Color: "#aBc", Type: Expense}.Validate())
	require.Error(t, CategoryRequest{Name: "Food", Color: "red", Type: Expense}.Validate())
	require.Error(t, CategoryRequest{Name: "  ", Color: "#abcdef", Type: Expense}.Validate())
	require.Error(t, CategoryRequest{Name: "Food", Color: "#abcdeg", Type: Expense}.Validate())

	require.NoError(t, BudgetRequest{CategoryID: 1, Amount: 10, Month: 12, Year: 2025}.Validate())
	require.Error(t, BudgetRequest{CategoryID: 1, Amount: 10, Month: 0, Year: 2025}.Validate())
}

func TestParseTransactionType(t *testing.T) {
	typ, err := ParseTransactionType(" income ")
	require.NoError(t, err)
	assert.Equal(t, Income, typ)

	_, err = ParseTransactionType("transfer")
	require.Error(t, err)
}

func TestNewError(t *testing.T) {
	e := newError("GET", "/api/x", http.StatusBadRequest, []byte(`{"message":"Amount must be greater than 0"}`))
	assert.Equal(t, "Amount must be greater than 0", e.Message)
	assert.Equal(t, "GET /api/x: 400 Amount must be greater than 0", e.Error())

	e = newError("GET", "/api/x", http.StatusForbidden, []byte(`{"error":"Forbidden"}`))
	assert.Equal(t, "Forbidden", e.Message)

	e = newError("DELETE", "/api/x/1", http.StatusInternalServerError, nil)
	assert.Equal(t, "DELETE /api/x/1: 500 Internal Server Error", e.Error())
}

func TestAttachmentName(t *testing.T) {
	assert.Equal(t, "a.csv", attachmentName("attachment; filename=a.csv", "x"))
	assert.Equal(t, "t.xlsx", attachmentName(`form-data; name="attachment"; filename="t.xlsx"`, "x"))
	assert.Equal(t, "evil.csv", attachmentName(`attachment; filename="../../evil.csv"`, "x"))
	assert.Equal(t, "x", attachmentName("", "x"))
	assert.Equal(t, "x", attachmentName("attachment", "x"))
}

func TestTransactionFilterFields(t *testing.T) {
	fields := TransactionFilter{Month: 3, Year: 2025, Type: Expense, Keyword: "  "}.Fields()

	assert.Equal(t, 3, fields[FilterMonth])
	assert.Equal(t, 2025, fields[FilterYear])
	assert.Equal(t, "EXPENSE", fields[FilterType])
	assert.Nil(t, fields[FilterCategoryID])
	assert.Nil(t, fields[FilterKeyword], "blank keyword is unset")
	assert.Len(t, fields, 5, "every key is present so stale filters get cleared")
}
