package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tubetrade/backend/internal/domain/shared"
	"github.com/tubetrade/backend/internal/domain/shared/valueobject"
)

// LotStatus represents the status of a stock lot
type LotStatus string

const (
	LotStatusUnderReview LotStatus = "UNDER_REVIEW"
	LotStatusAccepted    LotStatus = "ACCEPTED"
	LotStatusRejected    LotStatus = "REJECTED"
	LotStatusHeld        LotStatus = "HELD"
	LotStatusReserved    LotStatus = "RESERVED"
	LotStatusDispatched  LotStatus = "DISPATCHED"
)

// IsValid checks if the status is a valid LotStatus
func (s LotStatus) IsValid() bool {
	switch s {
	case LotStatusUnderReview, LotStatusAccepted, LotStatusRejected,
		LotStatusHeld, LotStatusReserved, LotStatusDispatched:
		return true
	}
	return false
}

// String returns the string representation of LotStatus
func (s LotStatus) String() string {
	return string(s)
}

// StockLot is the aggregate root for a physically identical batch of material:
// one product, specification, size and heat number sitting in one place.
// Quantity always means the currently unclaimed quantity; claimed amounts
// live in the reservation ledger, so decrementing here and inserting a
// reservation conserves the originally received total.
type StockLot struct {
	shared.BaseAggregateRoot
	ProductName        string          `gorm:"type:varchar(200);not null;index:idx_stock_lot_product_size,priority:1"`
	Specification      string          `gorm:"type:varchar(200)"`
	SizeLabel          string          `gorm:"type:varchar(100);not null;index:idx_stock_lot_product_size,priority:2"`
	HeatNumber         string          `gorm:"type:varchar(100);not null;index"`
	Quantity           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Pieces             int             `gorm:"not null;default:0"`
	Status             LotStatus       `gorm:"type:varchar(20);not null;index"`
	ReservedForOrderID *uuid.UUID      `gorm:"type:uuid;index"`
	ReceivedAt         time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockLot) TableName() string {
	return "stock_lots"
}

// NewStockLot creates a lot on goods receipt. New material enters UNDER_REVIEW
// and becomes reservable only after quality acceptance.
func NewStockLot(productName, specification, sizeLabel, heatNumber string, quantity decimal.Decimal, pieces int, receivedAt time.Time) (*StockLot, error) {
	if productName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product name cannot be empty")
	}
	if sizeLabel == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Size label cannot be empty")
	}
	if heatNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Heat number cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Lot quantity must be positive")
	}
	if pieces < 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Piece count cannot be negative")
	}
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	return &StockLot{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductName:       productName,
		Specification:     specification,
		SizeLabel:         sizeLabel,
		HeatNumber:        heatNumber,
		Quantity:          quantity,
		Pieces:            pieces,
		Status:            LotStatusUnderReview,
		ReceivedAt:        receivedAt,
	}, nil
}

// Accept marks the lot as quality-accepted and reservable.
// Quality transitions are driven by the inspection collaborator.
func (l *StockLot) Accept() error {
	if l.Status != LotStatusUnderReview && l.Status != LotStatusHeld {
		return shared.NewDomainError("INVALID_STATE", "Only lots under review or on hold can be accepted")
	}
	l.setStatus(LotStatusAccepted)
	return nil
}

// Reject marks the lot as quality-rejected.
func (l *StockLot) Reject() error {
	if l.Status != LotStatusUnderReview && l.Status != LotStatusHeld {
		return shared.NewDomainError("INVALID_STATE", "Only lots under review or on hold can be rejected")
	}
	l.setStatus(LotStatusRejected)
	return nil
}

// Hold places the lot on hold pending investigation.
func (l *StockLot) Hold() error {
	if l.Status != LotStatusUnderReview && l.Status != LotStatusAccepted {
		return shared.NewDomainError("INVALID_STATE", "Only accepted or under-review lots can be held")
	}
	l.setStatus(LotStatusHeld)
	return nil
}

// IsReservable returns true if quantity can be claimed from this lot
func (l *StockLot) IsReservable() bool {
	return l.Status == LotStatusAccepted
}

// HasUnclaimedQuantity returns true if any quantity remains unclaimed
func (l *StockLot) HasUnclaimedQuantity() bool {
	return !valueobject.ApproxZero(l.Quantity) && l.Quantity.GreaterThan(decimal.Zero)
}

// Claim decrements the unclaimed quantity for a new reservation against the
// given order. When the claim consumes everything, the lot flips to RESERVED
// and records the order it is held for; otherwise the remainder stays
// ACCEPTED and available to other orders.
func (l *StockLot) Claim(quantity decimal.Decimal, orderID uuid.UUID) error {
	if !l.IsReservable() {
		return shared.NewDomainError("LOT_NOT_AVAILABLE",
			"Stock lot "+l.HeatNumber+" is "+l.Status.String()+" and cannot be reserved")
	}
	if !valueobject.FitsWithin(quantity, l.Quantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			"Lot "+l.HeatNumber+" has "+l.Quantity.String()+" unclaimed, requested "+quantity.String())
	}

	l.Quantity = l.Quantity.Sub(quantity)
	if l.Quantity.IsNegative() {
		// tolerance allowed a hair over; clamp so the invariant quantity >= 0 holds
		l.Quantity = decimal.Zero
	}
	if valueobject.ApproxZero(l.Quantity) {
		l.ReservedForOrderID = &orderID
		l.setStatus(LotStatusReserved)
	} else {
		l.touch()
	}
	return nil
}

// Restore is the exact inverse of Claim: it adds back the same quantity the
// reservation removed. A fully claimed lot reverts to ACCEPTED and drops its
// order back-reference.
func (l *StockLot) Restore(quantity decimal.Decimal) error {
	if l.Status != LotStatusAccepted && l.Status != LotStatusReserved {
		return shared.NewDomainError("INVALID_STATE", "Cannot restore quantity to a "+l.Status.String()+" lot")
	}

	l.Quantity = l.Quantity.Add(quantity)
	if l.Status == LotStatusReserved {
		l.ReservedForOrderID = nil
		l.setStatus(LotStatusAccepted)
	} else {
		l.touch()
	}
	return nil
}

// FinalizeDispatch settles the lot's status when a dispatch covering its
// reservations is finalized. Quantity bookkeeping already happened at
// reservation time; this only transitions status. The lot goes DISPATCHED
// only when nothing unclaimed remains and no active reservation still holds
// part of it; otherwise it returns to ACCEPTED with the back-reference
// cleared so the free remainder stays sellable.
func (l *StockLot) FinalizeDispatch(hasActiveReservations bool) error {
	if l.Status != LotStatusReserved && l.Status != LotStatusAccepted {
		return shared.NewDomainError("INVALID_STATE", "Cannot dispatch a "+l.Status.String()+" lot")
	}

	if !l.HasUnclaimedQuantity() && !hasActiveReservations {
		l.Quantity = decimal.Zero
		l.Pieces = 0
		l.ReservedForOrderID = nil
		l.setStatus(LotStatusDispatched)
		return nil
	}

	l.ReservedForOrderID = nil
	if l.Status != LotStatusAccepted {
		l.setStatus(LotStatusAccepted)
	} else {
		l.touch()
	}
	return nil
}

func (l *StockLot) setStatus(status LotStatus) {
	from := l.Status
	l.Status = status
	l.touch()
	l.AddDomainEvent(NewStockLotStatusChangedEvent(l, from, status))
}

func (l *StockLot) touch() {
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}
