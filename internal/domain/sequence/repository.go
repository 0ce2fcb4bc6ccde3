package sequence

import "context"

// Repository issues document numbers. Next must be a single atomic
// insert-or-increment against the (document type, fiscal year) row: two
// concurrent callers can never observe the same counter value, and a missing
// row is created with counter = 1 in the same step rather than by a separate
// racing insert. Counters are never cached across transactions and never
// decremented, so a rolled-back caller leaves a gap instead of a duplicate.
type Repository interface {
	// Next atomically increments and returns the counter for the given
	// document type and fiscal year, creating the row at 1 when absent.
	Next(ctx context.Context, docType DocumentType, fiscalYear string) (int64, error)

	// Current returns the current counter without advancing it, 0 when the
	// row does not exist yet. Informational only.
	Current(ctx context.Context, docType DocumentType, fiscalYear string) (int64, error)
}
