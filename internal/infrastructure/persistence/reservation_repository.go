package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tubetrade/backend/internal/domain/inventory"
	"github.com/tubetrade/backend/internal/domain/shared"
)

// GormReservationRepository implements ReservationRepository using GORM
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// FindByID finds a reservation by its ID
func (r *GormReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Reservation, error) {
	var reservation inventory.Reservation
	if err := r.db.WithContext(ctx).First(&reservation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// FindActiveByOrderLine returns RESERVED reservations against an order line
func (r *GormReservationRepository) FindActiveByOrderLine(ctx context.Context, orderLineID uuid.UUID) ([]inventory.Reservation, error) {
	var reservations []inventory.Reservation
	err := r.db.WithContext(ctx).
		Where("order_line_id = ? AND status = ?", orderLineID, inventory.ReservationStatusReserved).
		Order("created_at ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindActiveByOrderAndLot returns RESERVED reservations tying a lot to any
// line of the given order
func (r *GormReservationRepository) FindActiveByOrderAndLot(ctx context.Context, orderID, stockLotID uuid.UUID) ([]inventory.Reservation, error) {
	var reservations []inventory.Reservation
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND stock_lot_id = ? AND status = ?",
			orderID, stockLotID, inventory.ReservationStatusReserved).
		Order("created_at ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindActiveByStockLot returns RESERVED reservations against a lot
func (r *GormReservationRepository) FindActiveByStockLot(ctx context.Context, stockLotID uuid.UUID) ([]inventory.Reservation, error) {
	var reservations []inventory.Reservation
	err := r.db.WithContext(ctx).
		Where("stock_lot_id = ? AND status = ?", stockLotID, inventory.ReservationStatusReserved).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindByOrder returns every reservation ever made for the order
func (r *GormReservationRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]inventory.Reservation, error) {
	var reservations []inventory.Reservation
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// Create inserts a new reservation
func (r *GormReservationRepository) Create(ctx context.Context, reservation *inventory.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// Save persists status transitions of an existing reservation
func (r *GormReservationRepository) Save(ctx context.Context, reservation *inventory.Reservation) error {
	result := r.db.WithContext(ctx).
		Model(reservation).
		Where("id = ?", reservation.ID).
		Updates(map[string]interface{}{
			"status":        reservation.Status,
			"dispatched_at": reservation.DispatchedAt,
			"released_at":   reservation.ReleasedAt,
			"updated_at":    reservation.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ inventory.ReservationRepository = (*GormReservationRepository)(nil)
