package allocation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tubetrade/backend/internal/domain/inventory"
)

// ReserveRequest asks for a quantity of one stock lot to be claimed for an
// order line.
type ReserveRequest struct {
	ActorID     uuid.UUID       `json:"actor_id"`
	OrderLineID uuid.UUID       `json:"order_line_id"`
	StockLotID  uuid.UUID       `json:"stock_lot_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Pieces      int             `json:"pieces"`
}

// ReleaseRequest undoes a reservation. OrderID must match the order the
// reservation was made for.
type ReleaseRequest struct {
	ActorID       uuid.UUID `json:"actor_id"`
	ReservationID uuid.UUID `json:"reservation_id"`
	OrderID       uuid.UUID `json:"order_id"`
}

// ReservationResponse is the external view of a reservation.
type ReservationResponse struct {
	ID           uuid.UUID       `json:"id"`
	OrderLineID  uuid.UUID       `json:"order_line_id"`
	OrderID      uuid.UUID       `json:"order_id"`
	StockLotID   uuid.UUID       `json:"stock_lot_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Pieces       int             `json:"pieces"`
	Status       string          `json:"status"`
	DispatchedAt *time.Time      `json:"dispatched_at,omitempty"`
	ReleasedAt   *time.Time      `json:"released_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ReserveResult carries the created reservation together with any FIFO
// advisory warnings. Warnings never indicate failure.
type ReserveResult struct {
	Reservation ReservationResponse `json:"reservation"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// StockLotResponse is the external view of a stock lot.
type StockLotResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductName   string          `json:"product_name"`
	Specification string          `json:"specification"`
	SizeLabel     string          `json:"size_label"`
	HeatNumber    string          `json:"heat_number"`
	Quantity      decimal.Decimal `json:"quantity"`
	Pieces        int             `json:"pieces"`
	Status        string          `json:"status"`
	ReceivedAt    time.Time       `json:"received_at"`
}

// ToReservationResponse converts a domain reservation to its response DTO.
func ToReservationResponse(r *inventory.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:           r.ID,
		OrderLineID:  r.OrderLineID,
		OrderID:      r.OrderID,
		StockLotID:   r.StockLotID,
		Quantity:     r.Quantity,
		Pieces:       r.Pieces,
		Status:       string(r.Status),
		DispatchedAt: r.DispatchedAt,
		ReleasedAt:   r.ReleasedAt,
		CreatedAt:    r.CreatedAt,
	}
}

// ToStockLotResponse converts a domain stock lot to its response DTO.
func ToStockLotResponse(l *inventory.StockLot) StockLotResponse {
	return StockLotResponse{
		ID:            l.ID,
		ProductName:   l.ProductName,
		Specification: l.Specification,
		SizeLabel:     l.SizeLabel,
		HeatNumber:    l.HeatNumber,
		Quantity:      l.Quantity,
		Pieces:        l.Pieces,
		Status:        string(l.Status),
		ReceivedAt:    l.ReceivedAt,
	}
}
