package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is a dealership tenant. The ledger and the car inventory are
// scoped to an account, not to a user.
type Account struct {
	ID        string    `gorm:"type:uuid;size:36;primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Membership maps an authenticated user to the account it operates.
// A user without a membership is valid; downstream pages show empty state.
type Membership struct {
	ID        string    `gorm:"type:uuid;size:36;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;size:36;uniqueIndex;not null" json:"userId"`
	AccountID string    `gorm:"type:uuid;size:36;index;not null" json:"accountId"`
	Role      string    `gorm:"size:16;default:owner" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
