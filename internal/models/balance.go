package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the cached net sum of an account's entries
// (sum of credits minus sum of debits), derived only.
// It is never the source of truth: every mutation of the ledger
// recomputes it from the entries table, and it is never deleted,
// only upserted (amount 0 when the ledger is empty).
type Balance struct {
	AccountID string          `gorm:"type:uuid;size:36;primaryKey" json:"accountId"`
	Amount    decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
