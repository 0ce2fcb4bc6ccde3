package inventory

import (
	"context"

	"github.com/google/uuid"
)

// StockLotRepository defines persistence operations for stock lots
type StockLotRepository interface {
	// FindByID finds a stock lot by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockLot, error)

	// FindByIDForUpdate loads a stock lot under an exclusive row lock. Only
	// meaningful inside a transaction scope; the lock is held until the
	// enclosing transaction commits or rolls back. A bounded lock wait that
	// expires surfaces as a LOCK_TIMEOUT domain error.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*StockLot, error)

	// FindReservableByProductAndSize returns all ACCEPTED lots with unclaimed
	// quantity for a product and size, ordered oldest receipt first.
	FindReservableByProductAndSize(ctx context.Context, productName, sizeLabel string) ([]StockLot, error)

	// Save persists a stock lot
	Save(ctx context.Context, lot *StockLot) error
}

// ReservationRepository defines persistence operations for the reservation
// ledger. Reservations are append-and-transition only, never deleted.
type ReservationRepository interface {
	// FindByID finds a reservation by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Reservation, error)

	// FindActiveByOrderLine returns RESERVED reservations against an order line
	FindActiveByOrderLine(ctx context.Context, orderLineID uuid.UUID) ([]Reservation, error)

	// FindActiveByOrderAndLot returns the RESERVED reservations tying a lot
	// to any line of the given order
	FindActiveByOrderAndLot(ctx context.Context, orderID, stockLotID uuid.UUID) ([]Reservation, error)

	// FindActiveByStockLot returns RESERVED reservations against a lot,
	// regardless of order
	FindActiveByStockLot(ctx context.Context, stockLotID uuid.UUID) ([]Reservation, error)

	// FindByOrder returns every reservation ever made for the order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Reservation, error)

	// Create inserts a new reservation
	Create(ctx context.Context, reservation *Reservation) error

	// Save persists status transitions of an existing reservation
	Save(ctx context.Context, reservation *Reservation) error
}
