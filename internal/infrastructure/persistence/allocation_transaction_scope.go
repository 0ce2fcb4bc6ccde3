package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	appalloc "github.com/tubetrade/backend/internal/application/allocation"
	"github.com/tubetrade/backend/internal/domain/inventory"
	"github.com/tubetrade/backend/internal/domain/trade"
)

// GormAllocationScope implements the allocation TransactionScope using GORM
// transactions. Every repository handed to the callback shares one
// transaction, so the FOR UPDATE lock taken on a stock lot is held until the
// whole reservation or release commits.
type GormAllocationScope struct {
	db       *gorm.DB
	lockWait time.Duration
}

// NewGormAllocationScope creates a new GormAllocationScope
func NewGormAllocationScope(db *gorm.DB) *GormAllocationScope {
	return &GormAllocationScope{db: db, lockWait: defaultLockWait}
}

// NewGormAllocationScopeWithLockWait creates a scope with a custom bound on
// row-lock waits
func NewGormAllocationScopeWithLockWait(db *gorm.DB, lockWait time.Duration) *GormAllocationScope {
	return &GormAllocationScope{db: db, lockWait: lockWait}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormAllocationScope) Execute(ctx context.Context, fn func(repos appalloc.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&allocationRepositories{tx: tx, lockWait: s.lockWait})
	})
}

// allocationRepositories provides repositories bound to one transaction
type allocationRepositories struct {
	tx       *gorm.DB
	lockWait time.Duration
}

// StockLots returns the stock lot repository scoped to the current transaction
func (r *allocationRepositories) StockLots() inventory.StockLotRepository {
	return NewGormStockLotRepositoryWithLockWait(r.tx, r.lockWait)
}

// Reservations returns the reservation repository scoped to the current transaction
func (r *allocationRepositories) Reservations() inventory.ReservationRepository {
	return NewGormReservationRepository(r.tx)
}

// SalesOrders returns the sales order repository scoped to the current transaction
func (r *allocationRepositories) SalesOrders() trade.SalesOrderRepository {
	return NewGormSalesOrderRepository(r.tx)
}

var _ appalloc.TransactionScope = (*GormAllocationScope)(nil)
var _ appalloc.TransactionalRepositories = (*allocationRepositories)(nil)
