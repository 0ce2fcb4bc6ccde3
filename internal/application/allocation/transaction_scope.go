package allocation

import (
	"context"

	"github.com/tubetrade/backend/internal/domain/inventory"
	"github.com/tubetrade/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories a
// reservation or release touches. Everything executed within one scope
// shares a single database transaction; the stock-lot row lock taken inside
// is held until that transaction commits or rolls back.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to the current
// transaction. Aggregate boundary notes:
//   - StockLots: the unit of allocation; the only aggregate locked FOR UPDATE.
//   - Reservations: the ledger of claims; append-and-transition only.
//   - SalesOrders: read for the demand check and the PO-acceptance gate;
//     this scope never mutates order state.
type TransactionalRepositories interface {
	StockLots() inventory.StockLotRepository
	Reservations() inventory.ReservationRepository
	SalesOrders() trade.SalesOrderRepository
}

// NoOpTransactionScope runs the function against plain repositories without
// a real transaction. Useful in tests and tooling.
type NoOpTransactionScope struct {
	lots         inventory.StockLotRepository
	reservations inventory.ReservationRepository
	orders       trade.SalesOrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	lots inventory.StockLotRepository,
	reservations inventory.ReservationRepository,
	orders trade.SalesOrderRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		lots:         lots,
		reservations: reservations,
		orders:       orders,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockLots returns the stock lot repository.
func (s *NoOpTransactionScope) StockLots() inventory.StockLotRepository {
	return s.lots
}

// Reservations returns the reservation repository.
func (s *NoOpTransactionScope) Reservations() inventory.ReservationRepository {
	return s.reservations
}

// SalesOrders returns the sales order repository.
func (s *NoOpTransactionScope) SalesOrders() trade.SalesOrderRepository {
	return s.orders
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
