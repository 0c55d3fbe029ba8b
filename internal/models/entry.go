package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Entry types. The sign of a movement lives here, never in Amount.
const (
	EntryTypeCredit = "CREDIT"
	EntryTypeDebit  = "DEBIT"
)

// Entry is a single ledger movement against an account.
// Amount is always positive; Date is the effective date of the movement,
// distinct from CreatedAt, and drives the default listing order.
type Entry struct {
	ID           string          `gorm:"type:uuid;size:36;primaryKey" json:"id"`
	AccountID    string          `gorm:"type:uuid;size:36;index;not null" json:"accountId"`
	Amount       decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	Type         string          `gorm:"size:16;not null" json:"type"`
	Description  string          `gorm:"size:255" json:"description,omitempty"`
	RelatedCarID string          `gorm:"type:uuid;size:36;index" json:"relatedCarId,omitempty"` // weak reference, may dangle
	Date         time.Time       `gorm:"index;not null" json:"date"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
