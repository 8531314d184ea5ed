package dataprocessing

import (
	apperrors "github.com/lizi12/hw5-2019/internal/errors"
)

// EmailPredicate decides whether an email address is valid.
type EmailPredicate interface {
	IsValid(email string) bool
}

// EmailPredicateFunc adapts a function to EmailPredicate.
type EmailPredicateFunc func(email string) bool

// IsValid calls f(email).
func (f EmailPredicateFunc) IsValid(email string) bool {
	return f(email)
}

// EmailPartition is the result of splitting a table by email validity.
// Rows whose email is missing are in neither table.
type EmailPartition struct {
	Valid          *Table
	Invalid        *Table
	DroppedMissing int
}

// RemoveRowsWithoutValidEmail drops rows with a missing email, then splits the
// rest by predicate. Both tables are indexed from 0 and each row keeps its
// Origin. Email cells that are not strings count as invalid.
func (t *Table) RemoveRowsWithoutValidEmail(column string, predicate EmailPredicate) (EmailPartition, error) {
	if predicate == nil {
		return EmailPartition{}, apperrors.NewInvalidArgumentError("email predicate is required")
	}
	if !t.HasColumn(column) {
		return EmailPartition{}, apperrors.NewMissingColumnError(column)
	}

	var valid, invalid []Row
	dropped := 0
	for _, r := range t.rows {
		v := r.values[column]
		if IsMissing(v) {
			dropped++
			continue
		}
		if email, ok := v.(string); ok && predicate.IsValid(email) {
			valid = append(valid, r)
		} else {
			invalid = append(invalid, r)
		}
	}

	return EmailPartition{
		Valid:          t.derive(valid),
		Invalid:        t.derive(invalid),
		DroppedMissing: dropped,
	}, nil
}
