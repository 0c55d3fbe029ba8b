package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/moazalc/autostacks-app-sub001/internal/ledger"
	"github.com/moazalc/autostacks-app-sub001/internal/middleware"
	"github.com/moazalc/autostacks-app-sub001/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// EntryHandler exposes the ledger mutation and listing endpoints.
type EntryHandler struct {
	Ledger *ledger.Service
}

func NewEntryHandler(svc *ledger.Service) *EntryHandler {
	return &EntryHandler{Ledger: svc}
}

// ---------- request bodies ----------

type createEntryReq struct {
	AccountID    string          `json:"accountId"`
	Amount       decimal.Decimal `json:"amount"`
	Type         string          `json:"type"`
	Description  string          `json:"description"`
	RelatedCarID string          `json:"relatedCarId"`
	Date         string          `json:"date"`
}

type updateEntryReq struct {
	Amount       *decimal.Decimal `json:"amount"`
	Type         *string          `json:"type"`
	Description  *string          `json:"description"`
	RelatedCarID *string          `json:"relatedCarId"`
	Date         *string          `json:"date"`
}

// writeLedgerError maps service errors onto the response envelope.
func writeLedgerError(c *gin.Context, err error) {
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		util.Invalid(c, "invalid input", verr.Issues)
	case errors.Is(err, ledger.ErrEntryNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "entry not found")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "storage error")
	}
}

// CreateEntry records one credit or debit movement and answers with the
// created entry plus the freshly recalculated balance.
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	var req createEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "malformed request body")
		return
	}

	// body may omit accountId; fall back to the resolved membership
	if req.AccountID == "" {
		req.AccountID = middleware.CurrentAccountID(c)
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := util.ParseDate(req.Date)
		if err != nil {
			util.Invalid(c, "invalid input", []ledger.FieldIssue{{Field: "date", Issue: "must be a valid date"}})
			return
		}
		date = parsed
	}

	entry, bal, err := h.Ledger.CreateEntry(ledger.CreateEntryInput{
		AccountID:    req.AccountID,
		Amount:       req.Amount,
		Type:         req.Type,
		Description:  req.Description,
		RelatedCarID: req.RelatedCarID,
		Date:         date,
	})
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Created(c, util.Response{
		"entry":   entry,
		"balance": bal,
	})
}

// ListEntries returns entries ordered by effective date descending,
// filtered to one account when ?accountId= is given (defaulting to the
// caller's resolved account).
func (h *EntryHandler) ListEntries(c *gin.Context) {
	accountID := c.Query("accountId")
	if accountID == "" {
		accountID = middleware.CurrentAccountID(c)
	}
	if accountID != "" {
		if err := util.ValidateID(accountID); err != nil {
			util.Invalid(c, "invalid query", []ledger.FieldIssue{{Field: "accountId", Issue: "must be a valid uuid"}})
			return
		}
	}

	entries, err := h.Ledger.ListEntries(accountID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "storage error")
		return
	}

	util.Success(c, util.Response{
		"entries": entries,
		"total":   len(entries),
	})
}

// UpdateEntry overwrites the supplied fields in place. The entry's
// account is never changed here, and the recalculation targets the
// stored owner regardless of what the body claims.
func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	entryID := c.Param("id")
	if err := util.ValidateID(entryID); err != nil {
		util.Invalid(c, "invalid input", []ledger.FieldIssue{{Field: "id", Issue: "must be a valid uuid"}})
		return
	}

	var req updateEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "malformed request body")
		return
	}

	in := ledger.UpdateEntryInput{
		Amount:       req.Amount,
		Type:         req.Type,
		Description:  req.Description,
		RelatedCarID: req.RelatedCarID,
	}
	if req.Date != nil {
		parsed, err := util.ParseDate(*req.Date)
		if err != nil {
			util.Invalid(c, "invalid input", []ledger.FieldIssue{{Field: "date", Issue: "must be a valid date"}})
			return
		}
		in.Date = &parsed
	}

	updated, bal, err := h.Ledger.UpdateEntry(entryID, in)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"updated": updated,
		"balance": bal,
	})
}

// DeleteEntry removes the entry outright and answers with the owning
// account's recalculated balance.
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	entryID := c.Param("id")
	if err := util.ValidateID(entryID); err != nil {
		util.Invalid(c, "invalid input", []ledger.FieldIssue{{Field: "id", Issue: "must be a valid uuid"}})
		return
	}

	bal, err := h.Ledger.DeleteEntry(entryID)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "entry deleted",
		"balance": bal,
	})
}
