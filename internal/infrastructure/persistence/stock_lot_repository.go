package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tubetrade/backend/internal/domain/inventory"
	"github.com/tubetrade/backend/internal/domain/shared"
)

// pgLockNotAvailable is the SQLSTATE raised when lock_timeout expires
const pgLockNotAvailable = "55P03"

// defaultLockWait bounds how long a reservation waits for a contended lot row
const defaultLockWait = 3 * time.Second

// GormStockLotRepository implements StockLotRepository using GORM
type GormStockLotRepository struct {
	db       *gorm.DB
	lockWait time.Duration
}

// NewGormStockLotRepository creates a new GormStockLotRepository
func NewGormStockLotRepository(db *gorm.DB) *GormStockLotRepository {
	return &GormStockLotRepository{db: db, lockWait: defaultLockWait}
}

// NewGormStockLotRepositoryWithLockWait creates a repository with a custom
// bound on row-lock waits
func NewGormStockLotRepositoryWithLockWait(db *gorm.DB, lockWait time.Duration) *GormStockLotRepository {
	if lockWait <= 0 {
		lockWait = defaultLockWait
	}
	return &GormStockLotRepository{db: db, lockWait: lockWait}
}

// FindByID finds a stock lot by its ID
func (r *GormStockLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockLot, error) {
	var lot inventory.StockLot
	if err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByIDForUpdate loads a lot under SELECT ... FOR UPDATE with a bounded
// lock wait. Callers must be inside a transaction scope; SET LOCAL ties the
// timeout to that transaction only. An expired wait surfaces as LOCK_TIMEOUT
// so the caller can retry instead of treating it as a hard failure.
func (r *GormStockLotRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.StockLot, error) {
	timeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockWait.Milliseconds())
	if err := r.db.WithContext(ctx).Exec(timeout).Error; err != nil {
		return nil, err
	}

	var lot inventory.StockLot
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&lot, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
			return nil, shared.ErrLockTimeout
		}
		return nil, err
	}
	return &lot, nil
}

// FindReservableByProductAndSize returns ACCEPTED lots with unclaimed quantity
// for the product/size, oldest receipt first
func (r *GormStockLotRepository) FindReservableByProductAndSize(ctx context.Context, productName, sizeLabel string) ([]inventory.StockLot, error) {
	var lots []inventory.StockLot
	err := r.db.WithContext(ctx).
		Where("product_name = ? AND size_label = ? AND status = ? AND quantity > 0",
			productName, sizeLabel, inventory.LotStatusAccepted).
		Order("received_at ASC").
		Find(&lots).Error
	if err != nil {
		return nil, err
	}
	return lots, nil
}

// Save persists a stock lot with an optimistic version check. The domain
// bumps Version on every mutation, so the previous version is Version-1.
func (r *GormStockLotRepository) Save(ctx context.Context, lot *inventory.StockLot) error {
	if lot.Version <= 1 {
		return r.db.WithContext(ctx).Save(lot).Error
	}

	result := r.db.WithContext(ctx).
		Model(lot).
		Where("id = ? AND version = ?", lot.ID, lot.Version-1).
		Updates(map[string]interface{}{
			"quantity":              lot.Quantity,
			"pieces":                lot.Pieces,
			"status":                lot.Status,
			"reserved_for_order_id": lot.ReservedForOrderID,
			"version":               lot.Version,
			"updated_at":            lot.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Stock lot was modified by another transaction")
	}
	return nil
}

var _ inventory.StockLotRepository = (*GormStockLotRepository)(nil)
