package util

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// upper bound on a single movement, dealership scale
var maxAmount = decimal.NewFromInt(10_000_000)

// ValidateAmount checks that a monetary amount is positive and sane.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", amount)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("amount too large, got %s", amount)
	}
	return nil
}

// ValidateID checks that s is a well-formed uuid string.
func ValidateID(s string) error {
	if s == "" {
		return fmt.Errorf("id is empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	return nil
}

// accepted effective-date layouts, most specific first
var dateLayouts = []string{
	time.RFC3339,          // 2025-12-03T00:00:00+02:00
	"2006-01-02T15:04:05", // 2025-12-03T00:00:00
	"2006-01-02",          // 2025-12-03
}

// ParseDate parses an effective date in one of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %q", s)
}
