package util

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount_Positive(t *testing.T) {
	testCases := []string{"0.01", "1.0", "100.5", "9999999.99"}

	for _, raw := range testCases {
		amount := decimal.RequireFromString(raw)
		err := ValidateAmount(amount)
		if err != nil {
			t.Errorf("ValidateAmount(%s) error = %v, want nil", raw, err)
		}
	}
}

func TestValidateAmount_Zero(t *testing.T) {
	err := ValidateAmount(decimal.Zero)

	if err == nil {
		t.Error("ValidateAmount(0) error = nil, want error")
	}
}

func TestValidateAmount_Negative(t *testing.T) {
	testCases := []string{"-0.01", "-100", "-9999.99"}

	for _, raw := range testCases {
		err := ValidateAmount(decimal.RequireFromString(raw))
		if err == nil {
			t.Errorf("ValidateAmount(%s) error = nil, want error", raw)
		}
	}
}

func TestValidateAmount_TooLarge(t *testing.T) {
	err := ValidateAmount(decimal.NewFromInt(100_000_000))

	if err == nil {
		t.Error("ValidateAmount(100000000) error = nil, want error")
	}
}

func TestParseDate_Valid(t *testing.T) {
	testCases := []string{
		"2024-01-01",
		"2024-12-31",
		"2025-06-15T00:00:00",
		"2025-06-15T10:30:00Z",
	}

	for _, date := range testCases {
		if _, err := ParseDate(date); err != nil {
			t.Errorf("ParseDate(%q) error = %v, want nil", date, err)
		}
	}
}

func TestParseDate_InvalidFormat(t *testing.T) {
	testCases := []string{
		"",
		"2024/01/01",
		"01-01-2024",
		"2024-1-1",
		"not-a-date",
		"2024-13-01", // bad month
		"2024-01-32", // bad day
	}

	for _, date := range testCases {
		if _, err := ParseDate(date); err == nil {
			t.Errorf("ParseDate(%q) error = nil, want error", date)
		}
	}
}

func TestValidateID_Valid(t *testing.T) {
	testCases := []string{
		"550e8400-e29b-41d4-a716-446655440000",
		"00000000-0000-0000-0000-000000000000",
	}

	for _, id := range testCases {
		if err := ValidateID(id); err != nil {
			t.Errorf("ValidateID(%q) error = %v, want nil", id, err)
		}
	}
}

func TestValidateID_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"123",
		"550e8400-e29b-41d4-a716",
		"zzze8400-e29b-41d4-a716-446655440000",
	}

	for _, id := range testCases {
		if err := ValidateID(id); err == nil {
			t.Errorf("ValidateID(%q) error = nil, want error", id)
		}
	}
}
