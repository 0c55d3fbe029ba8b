package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEntryNotFound is returned when a referenced entry does not exist.
// It is distinct from validation failures so handlers can answer 404.
var ErrEntryNotFound = errors.New("ledger: entry not found")

// FieldIssue names one invalid input field.
type FieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ValidationError carries the full list of failing fields. It is always
// produced before any write; a mutation that returns it has not touched
// the entry store or the balance cache.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Issue))
	}
	return "ledger: invalid input (" + strings.Join(parts, "; ") + ")"
}
