package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/moazalc/autostacks-app-sub001/internal/models"
	"github.com/moazalc/autostacks-app-sub001/internal/util"
)

const maxDescriptionLen = 255

// Service owns the account ledger: entry mutations, the balance cache
// and the recalculation that ties them together. Each mutation runs as
// one storage transaction (entry write, aggregate read, balance upsert),
// so a crash mid-sequence cannot leave a committed entry with a stale
// cache. Concurrent mutations on the same account are not serialized;
// the last recalculation wins and the next one restores truth.
//
// Account identifiers are format-checked only. Whether the account
// actually exists is the storage layer's concern, not ours.
type Service struct {
	db *gorm.DB
}

// NewService wires a Service around an injected gorm handle.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateEntryInput is the validated surface of a create call.
type CreateEntryInput struct {
	AccountID    string
	Amount       decimal.Decimal
	Type         string
	Description  string
	RelatedCarID string
	Date         time.Time
}

// UpdateEntryInput carries optional in-place overwrites. There is no
// AccountID field on purpose: entries never move between accounts, and
// recalculation always targets the stored owner.
type UpdateEntryInput struct {
	Amount       *decimal.Decimal
	Type         *string
	Description  *string
	RelatedCarID *string
	Date         *time.Time
}

// CreateEntry validates, inserts the entry and recomputes the account
// balance, returning both.
func (s *Service) CreateEntry(in CreateEntryInput) (models.Entry, models.Balance, error) {
	if err := validateCreate(in); err != nil {
		return models.Entry{}, models.Balance{}, err
	}

	entry := models.Entry{
		AccountID:    in.AccountID,
		Amount:       in.Amount,
		Type:         in.Type,
		Description:  in.Description,
		RelatedCarID: in.RelatedCarID,
		Date:         in.Date,
	}

	var bal models.Balance
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		b, err := recalc(tx, in.AccountID)
		if err != nil {
			return err
		}
		bal = b
		return nil
	})
	if err != nil {
		return models.Entry{}, models.Balance{}, err
	}
	return entry, bal, nil
}

// UpdateEntry overwrites the supplied fields of an existing entry and
// recomputes the balance of the entry's own account.
func (s *Service) UpdateEntry(entryID string, in UpdateEntryInput) (models.Entry, models.Balance, error) {
	if err := validateUpdate(in); err != nil {
		return models.Entry{}, models.Balance{}, err
	}

	var entry models.Entry
	var bal models.Balance
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entry, "id = ?", entryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntryNotFound
			}
			return fmt.Errorf("load entry: %w", err)
		}

		if in.Amount != nil {
			entry.Amount = *in.Amount
		}
		if in.Type != nil {
			entry.Type = *in.Type
		}
		if in.Description != nil {
			entry.Description = *in.Description
		}
		if in.RelatedCarID != nil {
			entry.RelatedCarID = *in.RelatedCarID
		}
		if in.Date != nil {
			entry.Date = *in.Date
		}

		if err := tx.Save(&entry).Error; err != nil {
			return fmt.Errorf("save entry: %w", err)
		}
		b, err := recalc(tx, entry.AccountID)
		if err != nil {
			return err
		}
		bal = b
		return nil
	})
	if err != nil {
		return models.Entry{}, models.Balance{}, err
	}
	return entry, bal, nil
}

// DeleteEntry removes the entry and recomputes the owning account's
// balance. The account id is read from the row before deletion; deleting
// the last entry of an account upserts a zero balance, never an absent one.
func (s *Service) DeleteEntry(entryID string) (models.Balance, error) {
	var bal models.Balance
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var entry models.Entry
		if err := tx.First(&entry, "id = ?", entryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntryNotFound
			}
			return fmt.Errorf("load entry: %w", err)
		}

		if err := tx.Delete(&models.Entry{}, "id = ?", entryID).Error; err != nil {
			return fmt.Errorf("delete entry: %w", err)
		}
		b, err := recalc(tx, entry.AccountID)
		if err != nil {
			return err
		}
		bal = b
		return nil
	})
	if err != nil {
		return models.Balance{}, err
	}
	return bal, nil
}

// ListEntries returns one account's entries ordered by effective date,
// newest first. An empty accountID means the caller resolved no account
// and gets empty state, never a cross-account listing.
func (s *Service) ListEntries(accountID string) ([]models.Entry, error) {
	entries := make([]models.Entry, 0)
	if accountID == "" {
		return entries, nil
	}
	if err := s.db.Model(&models.Entry{}).
		Where("account_id = ?", accountID).
		Order("date DESC, created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// Balance read sources.
const (
	SourceCached      = "cached"
	SourceRecalc      = "recalc"
	SourceInitialized = "initialized"
)

// BalanceReading is a Balance plus where it came from.
type BalanceReading struct {
	models.Balance
	Source string
}

// GetBalance serves the cached balance. With fresh=true it always
// recomputes; otherwise a missing cache row self-heals through a single
// recalculation. A cached hit may be stale relative to an in-flight
// mutation, which is acceptable here.
func (s *Service) GetBalance(accountID string, fresh bool) (BalanceReading, error) {
	if fresh {
		bal, err := s.Recalc(accountID)
		if err != nil {
			return BalanceReading{}, err
		}
		return BalanceReading{Balance: bal, Source: SourceRecalc}, nil
	}

	var bal models.Balance
	err := s.db.First(&bal, "account_id = ?", accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		bal, err = s.Recalc(accountID)
		if err != nil {
			return BalanceReading{}, err
		}
		return BalanceReading{Balance: bal, Source: SourceInitialized}, nil
	}
	if err != nil {
		return BalanceReading{}, fmt.Errorf("load balance: %w", err)
	}
	return BalanceReading{Balance: bal, Source: SourceCached}, nil
}

func validateCreate(in CreateEntryInput) error {
	var issues []FieldIssue
	if err := util.ValidateID(in.AccountID); err != nil {
		issues = append(issues, FieldIssue{Field: "accountId", Issue: "must be a valid uuid"})
	}
	issues = append(issues, checkCommon(&in.Amount, &in.Type, &in.Description, in.RelatedCarID)...)
	if in.Date.IsZero() {
		issues = append(issues, FieldIssue{Field: "date", Issue: "required"})
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func validateUpdate(in UpdateEntryInput) error {
	relatedCarID := ""
	if in.RelatedCarID != nil {
		relatedCarID = *in.RelatedCarID
	}
	issues := checkCommon(in.Amount, in.Type, in.Description, relatedCarID)
	if in.Date != nil && in.Date.IsZero() {
		issues = append(issues, FieldIssue{Field: "date", Issue: "must be a valid date"})
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// checkCommon validates the fields create and update share; nil means
// "not supplied" and is skipped.
func checkCommon(amount *decimal.Decimal, entryType, description *string, relatedCarID string) []FieldIssue {
	var issues []FieldIssue
	if amount != nil {
		if err := util.ValidateAmount(*amount); err != nil {
			issues = append(issues, FieldIssue{Field: "amount", Issue: "must be greater than zero"})
		}
	}
	if entryType != nil && *entryType != models.EntryTypeCredit && *entryType != models.EntryTypeDebit {
		issues = append(issues, FieldIssue{Field: "type", Issue: "must be CREDIT or DEBIT"})
	}
	if description != nil && len(*description) > maxDescriptionLen {
		issues = append(issues, FieldIssue{Field: "description", Issue: "too long, max 255 characters"})
	}
	if relatedCarID != "" {
		if err := util.ValidateID(relatedCarID); err != nil {
			issues = append(issues, FieldIssue{Field: "relatedCarId", Issue: "must be a valid uuid"})
		}
	}
	return issues
}
