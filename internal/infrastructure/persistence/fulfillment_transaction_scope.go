package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	appfulfil "github.com/tubetrade/backend/internal/application/fulfillment"
	"github.com/tubetrade/backend/internal/domain/inventory"
	"github.com/tubetrade/backend/internal/domain/sequence"
	"github.com/tubetrade/backend/internal/domain/trade"
)

// GormFulfillmentScope implements the fulfillment TransactionScope using GORM
// transactions. Dispatch finalization mints its document number through the
// same transaction, so an aborted dispatch burns the counter value without
// ever exposing the number.
type GormFulfillmentScope struct {
	db       *gorm.DB
	lockWait time.Duration
}

// NewGormFulfillmentScope creates a new GormFulfillmentScope
func NewGormFulfillmentScope(db *gorm.DB) *GormFulfillmentScope {
	return &GormFulfillmentScope{db: db, lockWait: defaultLockWait}
}

// NewGormFulfillmentScopeWithLockWait creates a scope with a custom bound on
// row-lock waits
func NewGormFulfillmentScopeWithLockWait(db *gorm.DB, lockWait time.Duration) *GormFulfillmentScope {
	return &GormFulfillmentScope{db: db, lockWait: lockWait}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormFulfillmentScope) Execute(ctx context.Context, fn func(repos appfulfil.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&fulfillmentRepositories{tx: tx, lockWait: s.lockWait})
	})
}

// fulfillmentRepositories provides repositories bound to one transaction
type fulfillmentRepositories struct {
	tx       *gorm.DB
	lockWait time.Duration
}

// StockLots returns the stock lot repository scoped to the current transaction
func (r *fulfillmentRepositories) StockLots() inventory.StockLotRepository {
	return NewGormStockLotRepositoryWithLockWait(r.tx, r.lockWait)
}

// Reservations returns the reservation repository scoped to the current transaction
func (r *fulfillmentRepositories) Reservations() inventory.ReservationRepository {
	return NewGormReservationRepository(r.tx)
}

// SalesOrders returns the sales order repository scoped to the current transaction
func (r *fulfillmentRepositories) SalesOrders() trade.SalesOrderRepository {
	return NewGormSalesOrderRepository(r.tx)
}

// PackingLists returns the packing list repository scoped to the current transaction
func (r *fulfillmentRepositories) PackingLists() trade.PackingListRepository {
	return NewGormPackingListRepository(r.tx)
}

// DispatchNotes returns the dispatch note repository scoped to the current transaction
func (r *fulfillmentRepositories) DispatchNotes() trade.DispatchNoteRepository {
	return NewGormDispatchNoteRepository(r.tx)
}

// Sequences returns the document sequence repository scoped to the current transaction
func (r *fulfillmentRepositories) Sequences() sequence.Repository {
	return NewGormDocumentSequenceRepository(r.tx)
}

var _ appfulfil.TransactionScope = (*GormFulfillmentScope)(nil)
var _ appfulfil.TransactionalRepositories = (*fulfillmentRepositories)(nil)
