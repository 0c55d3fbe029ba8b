package handler

import (
	"net/http"
	"strings"

	"github.com/moazalc/autostacks-app-sub001/internal/ledger"
	"github.com/moazalc/autostacks-app-sub001/internal/util"

	"github.com/gin-gonic/gin"
)

// BalanceHandler serves the cached account balance.
type BalanceHandler struct {
	Ledger *ledger.Service
}

func NewBalanceHandler(svc *ledger.Service) *BalanceHandler {
	return &BalanceHandler{Ledger: svc}
}

// GetBalance answers with the account balance. ?fresh=true forces a
// recalculation; otherwise the cached row is served, initializing it
// once if it does not exist yet. The response names its source so
// clients can tell a cached figure from a recomputed one.
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	accountID := c.Param("accountId")
	if err := util.ValidateID(accountID); err != nil {
		util.Invalid(c, "invalid input", []ledger.FieldIssue{{Field: "accountId", Issue: "must be a valid uuid"}})
		return
	}

	fresh := false
	if raw, ok := c.GetQuery("fresh"); ok {
		switch strings.ToLower(raw) {
		case "true":
			fresh = true
		case "false":
			fresh = false
		default:
			util.Invalid(c, "invalid query", []ledger.FieldIssue{{Field: "fresh", Issue: "must be true or false"}})
			return
		}
	}

	reading, err := h.Ledger.GetBalance(accountID, fresh)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "storage error")
		return
	}

	util.Success(c, util.Response{
		"accountId": reading.AccountID,
		"amount":    reading.Amount,
		"updatedAt": reading.UpdatedAt,
		"source":    reading.Source,
	})
}
