package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moazalc/autostacks-app-sub001/internal/ledger"
	"github.com/moazalc/autostacks-app-sub001/internal/models"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "handler_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Entry{}, &models.Balance{}))

	svc := ledger.NewService(db)
	entryHandler := NewEntryHandler(svc)
	balanceHandler := NewBalanceHandler(svc)

	r := gin.New()
	r.POST("/api/entries", entryHandler.CreateEntry)
	r.GET("/api/entries", entryHandler.ListEntries)
	r.PUT("/api/entries/:id", entryHandler.UpdateEntry)
	r.DELETE("/api/entries/:id", entryHandler.DeleteEntry)
	r.GET("/api/balances/:accountId", balanceHandler.GetBalance)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type entryEnvelope struct {
	Code int `json:"code"`
	Data struct {
		Entry   models.Entry   `json:"entry"`
		Updated models.Entry   `json:"updated"`
		Message string         `json:"message"`
		Balance models.Balance `json:"balance"`
	} `json:"data"`
}

type balanceEnvelope struct {
	Code int `json:"code"`
	Data struct {
		AccountID string          `json:"accountId"`
		Amount    decimal.Decimal `json:"amount"`
		Source    string          `json:"source"`
	} `json:"data"`
}

type errorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Issues  []struct {
		Field string `json:"field"`
		Issue string `json:"issue"`
	} `json:"issues"`
}

func createEntry(t *testing.T, r *gin.Engine, accountID string, amount, entryType, date string) entryEnvelope {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/entries", gin.H{
		"accountId": accountID,
		"amount":    json.Number(amount),
		"type":      entryType,
		"date":      date,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp entryEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateEntryReturnsEntryAndBalance(t *testing.T) {
	r := newTestRouter(t)
	accountID := uuid.NewString()

	resp := createEntry(t, r, accountID, "100", "CREDIT", "2025-01-01")
	assert.NotEmpty(t, resp.Data.Entry.ID)
	assert.Equal(t, accountID, resp.Data.Entry.AccountID)
	assert.True(t, decimal.NewFromInt(100).Equal(resp.Data.Balance.Amount))

	resp = createEntry(t, r, accountID, "30", "DEBIT", "2025-01-02")
	assert.True(t, decimal.NewFromInt(70).Equal(resp.Data.Balance.Amount))
}

func TestCreateEntryValidationFailure(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/entries", gin.H{
		"accountId": uuid.NewString(),
		"amount":    json.Number("-10"),
		"type":      "CREDIT",
		"date":      "2025-01-01",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, "amount", resp.Issues[0].Field)
}

func TestCreateEntryRejectsBadDate(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/entries", gin.H{
		"accountId": uuid.NewString(),
		"amount":    json.Number("10"),
		"type":      "CREDIT",
		"date":      "01/02/2025",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, "date", resp.Issues[0].Field)
}

func TestUpdateEntryRecalculatesBalance(t *testing.T) {
	r := newTestRouter(t)
	accountID := uuid.NewString()

	createEntry(t, r, accountID, "100", "CREDIT", "2025-01-01")
	second := createEntry(t, r, accountID, "30", "DEBIT", "2025-01-02")

	w := doJSON(t, r, http.MethodPut, "/api/entries/"+second.Data.Entry.ID, gin.H{
		"amount": json.Number("50"),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp entryEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, decimal.NewFromInt(50).Equal(resp.Data.Updated.Amount))
	assert.True(t, decimal.NewFromInt(50).Equal(resp.Data.Balance.Amount))
	// ownership is sticky
	assert.Equal(t, accountID, resp.Data.Updated.AccountID)
}

func TestUpdateMissingEntryIs404(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/entries/"+uuid.NewString(), gin.H{
		"amount": json.Number("50"),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteEntryReturnsBalance(t *testing.T) {
	r := newTestRouter(t)
	accountID := uuid.NewString()

	first := createEntry(t, r, accountID, "100", "CREDIT", "2025-01-01")

	w := doJSON(t, r, http.MethodDelete, "/api/entries/"+first.Data.Entry.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp entryEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Message)
	assert.True(t, decimal.Zero.Equal(resp.Data.Balance.Amount))
}

func TestGetBalanceSources(t *testing.T) {
	r := newTestRouter(t)
	accountID := uuid.NewString()

	// never-seen account initializes to zero
	w := doJSON(t, r, http.MethodGet, "/api/balances/"+accountID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp balanceEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ledger.SourceInitialized, resp.Data.Source)
	assert.True(t, decimal.Zero.Equal(resp.Data.Amount))

	// second read is served from cache
	w = doJSON(t, r, http.MethodGet, "/api/balances/"+accountID, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ledger.SourceCached, resp.Data.Source)

	// forced-fresh read recalculates
	createEntry(t, r, accountID, "42", "CREDIT", "2025-01-01")
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/balances/%s?fresh=TRUE", accountID), nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ledger.SourceRecalc, resp.Data.Source)
	assert.True(t, decimal.NewFromInt(42).Equal(resp.Data.Amount))
}

func TestGetBalanceRejectsBadInput(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/balances/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/balances/"+uuid.NewString()+"?fresh=banana", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, "fresh", resp.Issues[0].Field)
}

func TestListEntriesFiltersAndOrders(t *testing.T) {
	r := newTestRouter(t)
	accountA := uuid.NewString()
	accountB := uuid.NewString()

	createEntry(t, r, accountA, "10", "CREDIT", "2025-01-01")
	createEntry(t, r, accountA, "20", "CREDIT", "2025-02-01")
	createEntry(t, r, accountB, "99", "CREDIT", "2025-03-01")

	w := doJSON(t, r, http.MethodGet, "/api/entries?accountId="+accountA, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Entries []models.Entry `json:"entries"`
			Total   int            `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Data.Total)
	assert.True(t, resp.Data.Entries[0].Date.After(resp.Data.Entries[1].Date))

	w = doJSON(t, r, http.MethodGet, "/api/entries?accountId=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEntriesWithoutAccountShowsEmptyState(t *testing.T) {
	r := newTestRouter(t)
	createEntry(t, r, uuid.NewString(), "10", "CREDIT", "2025-01-01")
	createEntry(t, r, uuid.NewString(), "20", "DEBIT", "2025-01-02")

	// no accountId query and no resolved membership: empty state,
	// never other accounts' entries
	w := doJSON(t, r, http.MethodGet, "/api/entries", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Entries []models.Entry `json:"entries"`
			Total   int            `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Data.Total)
	assert.Empty(t, resp.Data.Entries)
}
