package fulfillment

import (
	"context"

	"github.com/tubetrade/backend/internal/domain/inventory"
	"github.com/tubetrade/backend/internal/domain/sequence"
	"github.com/tubetrade/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to everything a dispatch
// finalization touches. The whole finalization is one transaction: the
// dispatch note, the packing list link, every reservation transition, every
// lot status change, the order line increments and the status cascade commit
// together or not at all. Even the document number is minted inside this
// transaction, so an aborted dispatch leaves a gap in the sequence rather
// than a dangling number.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to the current
// transaction.
type TransactionalRepositories interface {
	StockLots() inventory.StockLotRepository
	Reservations() inventory.ReservationRepository
	SalesOrders() trade.SalesOrderRepository
	PackingLists() trade.PackingListRepository
	DispatchNotes() trade.DispatchNoteRepository
	Sequences() sequence.Repository
}
