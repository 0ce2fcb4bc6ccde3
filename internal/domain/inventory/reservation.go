package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tubetrade/backend/internal/domain/shared"
)

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationStatusReserved   ReservationStatus = "RESERVED"
	ReservationStatusDispatched ReservationStatus = "DISPATCHED"
	ReservationStatusReleased   ReservationStatus = "RELEASED"
)

// IsValid checks if the status is a valid ReservationStatus
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusReserved, ReservationStatusDispatched, ReservationStatusReleased:
		return true
	}
	return false
}

// String returns the string representation of ReservationStatus
func (s ReservationStatus) String() string {
	return string(s)
}

// Reservation records a claim of part of a stock lot against a sales-order
// line. Quantity is immutable once written; only the status moves, and only
// RESERVED -> DISPATCHED or RESERVED -> RELEASED. Rows are never deleted so
// the ledger doubles as an audit trail. OrderID is denormalized from the
// order line so ownership checks on release stay inside one row read.
type Reservation struct {
	shared.BaseEntity
	OrderLineID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	OrderID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	StockLotID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	Quantity     decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Pieces       int               `gorm:"not null;default:0"`
	Status       ReservationStatus `gorm:"type:varchar(20);not null;index"`
	DispatchedAt *time.Time        `gorm:"type:timestamp"`
	ReleasedAt   *time.Time        `gorm:"type:timestamp"`
}

// TableName returns the table name for GORM
func (Reservation) TableName() string {
	return "reservations"
}

// NewReservation creates a reservation in RESERVED status
func NewReservation(orderLineID, orderID, stockLotID uuid.UUID, quantity decimal.Decimal, pieces int) (*Reservation, error) {
	if orderLineID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order line ID cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order ID cannot be empty")
	}
	if stockLotID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Stock lot ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Reserved quantity must be positive")
	}
	if pieces < 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Reserved piece count cannot be negative")
	}

	return &Reservation{
		BaseEntity:  shared.NewBaseEntity(),
		OrderLineID: orderLineID,
		OrderID:     orderID,
		StockLotID:  stockLotID,
		Quantity:    quantity,
		Pieces:      pieces,
		Status:      ReservationStatusReserved,
	}, nil
}

// IsActive returns true while the claim still holds stock
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusReserved
}

// BelongsToOrder returns true if the reservation was made for the given order
func (r *Reservation) BelongsToOrder(orderID uuid.UUID) bool {
	return r.OrderID == orderID
}

// MarkDispatched transitions RESERVED -> DISPATCHED (terminal)
func (r *Reservation) MarkDispatched() error {
	if r.Status != ReservationStatusReserved {
		return shared.NewDomainError("INVALID_RESERVATION_STATE",
			"Cannot dispatch a reservation in "+r.Status.String()+" status")
	}
	now := time.Now()
	r.Status = ReservationStatusDispatched
	r.DispatchedAt = &now
	r.UpdatedAt = now
	return nil
}

// Release transitions RESERVED -> RELEASED (terminal). Dispatched
// reservations can never be released.
func (r *Reservation) Release() error {
	if r.Status != ReservationStatusReserved {
		return shared.NewDomainError("INVALID_RESERVATION_STATE",
			"Cannot release a reservation in "+r.Status.String()+" status")
	}
	now := time.Now()
	r.Status = ReservationStatusReleased
	r.ReleasedAt = &now
	r.UpdatedAt = now
	return nil
}
