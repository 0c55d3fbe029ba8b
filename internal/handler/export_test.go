package handler

import (
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moazalc/autostacks-app-sub001/internal/models"
)

func newExportRouter(t *testing.T, accountID string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "export_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Entry{}))

	exportHandler := NewExportHandler(db)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if accountID != "" {
			c.Set("currentAccountID", accountID)
		}
	})
	r.GET("/api/export/csv", exportHandler.ExportCSV)
	r.GET("/api/export/xlsx", exportHandler.ExportXLSX)
	return r, db
}

func seedEntry(t *testing.T, db *gorm.DB, accountID, amount, entryType, description string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Entry{
		AccountID:   accountID,
		Amount:      decimal.RequireFromString(amount),
		Type:        entryType,
		Description: description,
		Date:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}).Error)
}

func TestExportCSVWritesLedgerRows(t *testing.T) {
	accountID := uuid.NewString()
	r, db := newExportRouter(t, accountID)
	seedEntry(t, db, accountID, "1234.5", models.EntryTypeCredit, "sold sedan")
	seedEntry(t, db, uuid.NewString(), "999", models.EntryTypeDebit, "other tenant")

	w := doJSON(t, r, http.MethodGet, "/api/export/csv", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

	body := w.Body.String()
	assert.Contains(t, body, "Type,Amount,Description")
	assert.Contains(t, body, "CREDIT,1234.50,sold sedan")
	assert.NotContains(t, body, "other tenant")
}

func TestExportXLSXProducesWorkbook(t *testing.T) {
	accountID := uuid.NewString()
	r, db := newExportRouter(t, accountID)
	seedEntry(t, db, accountID, "500", models.EntryTypeDebit, "detailing")

	w := doJSON(t, r, http.MethodGet, "/api/export/xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, w.Body.Len())
}

func TestExportWithoutAccountIsRejected(t *testing.T) {
	r, _ := newExportRouter(t, "")

	w := doJSON(t, r, http.MethodGet, "/api/export/csv", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/export/xlsx", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
