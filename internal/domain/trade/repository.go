package trade

import (
	"context"

	"github.com/google/uuid"
)

// SalesOrderRepository defines persistence operations for sales orders
type SalesOrderRepository interface {
	// FindByID finds an order with its lines preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)

	// FindByOrderLine finds the order owning the given line, lines preloaded
	FindByOrderLine(ctx context.Context, orderLineID uuid.UUID) (*SalesOrder, error)

	// Save persists the order header
	Save(ctx context.Context, order *SalesOrder) error

	// SaveWithLock persists the order header with an optimistic version check
	SaveWithLock(ctx context.Context, order *SalesOrder) error

	// SaveLine persists a single order line
	SaveLine(ctx context.Context, line *OrderLine) error
}

// PackingListRepository defines persistence operations for packing lists
type PackingListRepository interface {
	// FindByID finds a packing list with its entries preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*PackingList, error)

	// Save persists the packing list header
	Save(ctx context.Context, list *PackingList) error
}

// DispatchNoteRepository defines persistence operations for dispatch notes
type DispatchNoteRepository interface {
	// FindByID finds a dispatch note by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*DispatchNote, error)

	// Create inserts a new dispatch note
	Create(ctx context.Context, note *DispatchNote) error
}
