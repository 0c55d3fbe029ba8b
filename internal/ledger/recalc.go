package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/moazalc/autostacks-app-sub001/internal/models"
)

// Recalc recomputes the account's balance from scratch over the entries
// table and upserts the cached Balance row. It is the single source of
// truth for "what the balance currently is": every ledger mutation calls
// it as a follow-up step instead of maintaining incremental counters, so
// the cache cannot drift from partial failures or out-of-band data edits.
// Cost is one column scan per entry type; per-account volumes are
// dealership-sized, so that is fine.
//
// Storage errors propagate to the caller; no retry happens here.
func (s *Service) Recalc(accountID string) (models.Balance, error) {
	return recalc(s.db, accountID)
}

func recalc(db *gorm.DB, accountID string) (models.Balance, error) {
	creditSum, err := sumByType(db, accountID, models.EntryTypeCredit)
	if err != nil {
		return models.Balance{}, err
	}
	debitSum, err := sumByType(db, accountID, models.EntryTypeDebit)
	if err != nil {
		return models.Balance{}, err
	}

	bal := models.Balance{
		AccountID: accountID,
		Amount:    creditSum.Sub(debitSum),
		UpdatedAt: time.Now().UTC(),
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(&bal).Error; err != nil {
		return models.Balance{}, fmt.Errorf("upsert balance: %w", err)
	}
	return bal, nil
}

// sumByType returns the total amount of one entry type for the account,
// zero when no rows match. The addition happens in Go over decimals:
// SQLite's SUM aggregates in floating point, which would reintroduce
// exactly the accumulation error full recalculation is meant to avoid.
func sumByType(db *gorm.DB, accountID, entryType string) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	if err := db.Model(&models.Entry{}).
		Where("account_id = ? AND type = ?", accountID, entryType).
		Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, fmt.Errorf("sum %s entries: %w", entryType, err)
	}

	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return total, nil
}
