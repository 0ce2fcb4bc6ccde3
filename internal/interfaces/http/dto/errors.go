package dto

import "net/http"

// Wire error codes, ERR_<CATEGORY>_<DESCRIPTION>. Handlers translate domain
// error codes into these before writing the response body.
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation  = "ERR_VALIDATION"
	ErrCodeBadRequest  = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	// ErrCodeLockTimeout means a bounded row-lock wait expired; the request
	// can be retried as-is.
	ErrCodeLockTimeout = "ERR_LOCK_TIMEOUT"

	ErrCodeInvalidState                = "ERR_INVALID_STATE"
	ErrCodeInsufficientRemainingDemand = "ERR_INSUFFICIENT_REMAINING_DEMAND"
	ErrCodeInsufficientStock           = "ERR_INSUFFICIENT_STOCK"
	ErrCodeLotNotAvailable             = "ERR_LOT_NOT_AVAILABLE"
	ErrCodeReservationMismatch         = "ERR_RESERVATION_MISMATCH"
	ErrCodeInvalidReservationState     = "ERR_INVALID_RESERVATION_STATE"
	// ErrCodeFulfillmentIntegrity means dispatch data contradicts the
	// reservation ledger.
	ErrCodeFulfillmentIntegrity = "ERR_FULFILLMENT_INTEGRITY"
)

// GetHTTPStatus returns the HTTP status for a wire error code, defaulting to
// 500 for anything unrecognized.
func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeValidation, ErrCodeBadRequest, ErrCodeInvalidJSON:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists, ErrCodeConcurrencyConflict, ErrCodeLockTimeout, ErrCodeReservationMismatch:
		return http.StatusConflict
	case ErrCodeInvalidState, ErrCodeInsufficientRemainingDemand, ErrCodeInsufficientStock,
		ErrCodeLotNotAvailable, ErrCodeInvalidReservationState, ErrCodeFulfillmentIntegrity:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

var domainToWire = map[string]string{
	"NOT_FOUND":                     ErrCodeNotFound,
	"ALREADY_EXISTS":                ErrCodeAlreadyExists,
	"VALIDATION_ERROR":              ErrCodeValidation,
	"UNAUTHORIZED":                  ErrCodeUnauthorized,
	"INVALID_STATE":                 ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT":          ErrCodeConcurrencyConflict,
	"LOCK_TIMEOUT":                  ErrCodeLockTimeout,
	"INSUFFICIENT_REMAINING_DEMAND": ErrCodeInsufficientRemainingDemand,
	"INSUFFICIENT_STOCK":            ErrCodeInsufficientStock,
	"LOT_NOT_AVAILABLE":             ErrCodeLotNotAvailable,
	"RESERVATION_MISMATCH":          ErrCodeReservationMismatch,
	"INVALID_RESERVATION_STATE":     ErrCodeInvalidReservationState,
	"FULFILLMENT_INTEGRITY":         ErrCodeFulfillmentIntegrity,
}

// NormalizeErrorCode maps a domain error code to its wire form. Codes already
// in wire form, or unknown ones, pass through unchanged.
func NormalizeErrorCode(code string) string {
	if wire, ok := domainToWire[code]; ok {
		return wire
	}
	return code
}
