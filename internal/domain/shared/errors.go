package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Is lets errors.Is match on the error code, so the sentinels below match
// freshly constructed errors carrying the same code with a specific message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrValidation          = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Allocation and fulfillment errors
var (
	// ErrInsufficientRemainingDemand means the order line cannot absorb the
	// requested quantity on top of its active reservations.
	ErrInsufficientRemainingDemand = NewDomainError("INSUFFICIENT_REMAINING_DEMAND", "Requested quantity exceeds the order line's remaining demand")
	// ErrInsufficientStock means the lot does not hold enough unclaimed quantity.
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient unclaimed stock in lot")
	// ErrLotNotAvailable means the lot is not in a reservable status.
	ErrLotNotAvailable = NewDomainError("LOT_NOT_AVAILABLE", "Stock lot is not available for reservation")
	// ErrReservationMismatch means the reservation does not belong to the given order.
	ErrReservationMismatch = NewDomainError("RESERVATION_MISMATCH", "Reservation does not belong to this order")
	// ErrInvalidReservationState means the reservation cannot make the
	// requested transition from its current status.
	ErrInvalidReservationState = NewDomainError("INVALID_RESERVATION_STATE", "Reservation is not in a state that allows this transition")
	// ErrLockTimeout is transient; callers are expected to retry with backoff.
	ErrLockTimeout = NewDomainError("LOCK_TIMEOUT", "Timed out waiting for a row lock; retry the operation")
	// ErrFulfillmentIntegrity indicates dispatch data inconsistent with the
	// reservation ledger. The whole dispatch transaction aborts; the
	// offending entry is never skipped.
	ErrFulfillmentIntegrity = NewDomainError("FULFILLMENT_INTEGRITY", "Dispatch data is inconsistent with reservations")
)
