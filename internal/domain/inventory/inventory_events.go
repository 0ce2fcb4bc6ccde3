package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/tubetrade/backend/internal/domain/shared"
)

// Event types for the inventory context
const (
	EventTypeStockLotStatusChanged = "inventory.stock_lot.status_changed"
	EventTypeReservationCreated    = "inventory.reservation.created"
	EventTypeReservationReleased   = "inventory.reservation.released"
	EventTypeReservationDispatched = "inventory.reservation.dispatched"
)

// StockLotStatusChangedEvent is emitted whenever a lot's status moves
type StockLotStatusChangedEvent struct {
	shared.BaseDomainEvent
	HeatNumber string          `json:"heat_number"`
	FromStatus LotStatus       `json:"from_status"`
	ToStatus   LotStatus       `json:"to_status"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// NewStockLotStatusChangedEvent creates a new StockLotStatusChangedEvent
func NewStockLotStatusChangedEvent(lot *StockLot, from, to LotStatus) *StockLotStatusChangedEvent {
	return &StockLotStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLotStatusChanged, "StockLot", lot.ID),
		HeatNumber:      lot.HeatNumber,
		FromStatus:      from,
		ToStatus:        to,
		Quantity:        lot.Quantity,
	}
}

// ReservationCreatedEvent is emitted when the allocation engine writes a claim
type ReservationCreatedEvent struct {
	shared.BaseDomainEvent
	OrderLineID string          `json:"order_line_id"`
	StockLotID  string          `json:"stock_lot_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Pieces      int             `json:"pieces"`
}

// NewReservationCreatedEvent creates a new ReservationCreatedEvent
func NewReservationCreatedEvent(r *Reservation) *ReservationCreatedEvent {
	return &ReservationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationCreated, "Reservation", r.ID),
		OrderLineID:     r.OrderLineID.String(),
		StockLotID:      r.StockLotID.String(),
		Quantity:        r.Quantity,
		Pieces:          r.Pieces,
	}
}

// ReservationReleasedEvent is emitted when a claim is handed back
type ReservationReleasedEvent struct {
	shared.BaseDomainEvent
	StockLotID string          `json:"stock_lot_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// NewReservationReleasedEvent creates a new ReservationReleasedEvent
func NewReservationReleasedEvent(r *Reservation) *ReservationReleasedEvent {
	return &ReservationReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationReleased, "Reservation", r.ID),
		StockLotID:      r.StockLotID.String(),
		Quantity:        r.Quantity,
	}
}

// ReservationDispatchedEvent is emitted when dispatch finalization consumes a claim
type ReservationDispatchedEvent struct {
	shared.BaseDomainEvent
	StockLotID string          `json:"stock_lot_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// NewReservationDispatchedEvent creates a new ReservationDispatchedEvent
func NewReservationDispatchedEvent(r *Reservation) *ReservationDispatchedEvent {
	return &ReservationDispatchedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationDispatched, "Reservation", r.ID),
		StockLotID:      r.StockLotID.String(),
		Quantity:        r.Quantity,
	}
}
