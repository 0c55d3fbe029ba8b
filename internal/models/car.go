package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Car lifecycle states.
const (
	CarStatusAvailable = "available"
	CarStatusReserved  = "reserved"
	CarStatusSold      = "sold"
)

// Car is one vehicle in an account's inventory. Ledger entries may point
// at a car via Entry.RelatedCarID; deleting the car does not cascade.
type Car struct {
	ID        string          `gorm:"type:uuid;size:36;primaryKey" json:"id"`
	AccountID string          `gorm:"type:uuid;size:36;index;not null" json:"accountId"`
	Make      string          `gorm:"size:64;not null" json:"make"`
	Model     string          `gorm:"size:64;not null" json:"model"`
	Year      int             `gorm:"not null" json:"year"`
	VIN       string          `gorm:"size:32;index" json:"vin,omitempty"`
	Price     decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
	Status    string          `gorm:"size:16;default:available" json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (c *Car) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
