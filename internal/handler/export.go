package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/moazalc/autostacks-app-sub001/internal/middleware"
	"github.com/moazalc/autostacks-app-sub001/internal/models"
	"github.com/moazalc/autostacks-app-sub001/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler streams the current account's ledger as CSV or XLSX.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

func (h *ExportHandler) accountEntries(c *gin.Context) ([]models.Entry, bool) {
	accountID := middleware.CurrentAccountID(c)
	if accountID == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "no account for current user")
		return nil, false
	}

	var entries []models.Entry
	if err := h.DB.Where("account_id = ?", accountID).
		Order("date DESC, created_at DESC").
		Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load entries")
		return nil, false
	}
	return entries, true
}

var exportHeader = []string{"Type", "Amount", "Description", "Related car", "Date"}

// ExportCSV writes the ledger as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	entries, ok := h.accountEntries(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"entries_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	writer.Write(exportHeader)
	for _, e := range entries {
		writer.Write([]string{
			e.Type,
			e.Amount.StringFixed(2),
			e.Description,
			e.RelatedCarID,
			e.Date.Format("2006-01-02"),
		})
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		// headers are already sent, all we can do is log
		log.Printf("export csv: %v", err)
	}
}

// ExportXLSX writes the ledger as an Excel workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	entries, ok := h.accountEntries(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Ledger"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}

	setCell := func(cell string, value interface{}) error {
		return f.SetCellValue(sheetName, cell, value)
	}

	for i, head := range exportHeader {
		if err := setCell(fmt.Sprintf("%c1", 'A'+i), head); err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to build sheet")
			return
		}
	}

	for idx, e := range entries {
		row := idx + 2
		cells := map[string]interface{}{
			fmt.Sprintf("A%d", row): e.Type,
			fmt.Sprintf("B%d", row): e.Amount.StringFixed(2),
			fmt.Sprintf("C%d", row): e.Description,
			fmt.Sprintf("D%d", row): e.RelatedCarID,
			fmt.Sprintf("E%d", row): e.Date.Format("2006-01-02"),
		}
		for cell, value := range cells {
			if err := setCell(cell, value); err != nil {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to build sheet")
				return
			}
		}
	}

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 30)
	f.SetColWidth(sheetName, "D", "D", 38)
	f.SetColWidth(sheetName, "E", "E", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"entries_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to export")
	}
}
