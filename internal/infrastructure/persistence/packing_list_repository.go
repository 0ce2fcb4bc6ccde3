package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tubetrade/backend/internal/domain/shared"
	"github.com/tubetrade/backend/internal/domain/trade"
)

// GormPackingListRepository implements PackingListRepository using GORM
type GormPackingListRepository struct {
	db *gorm.DB
}

// NewGormPackingListRepository creates a new GormPackingListRepository
func NewGormPackingListRepository(db *gorm.DB) *GormPackingListRepository {
	return &GormPackingListRepository{db: db}
}

// FindByID finds a packing list with its entries preloaded
func (r *GormPackingListRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PackingList, error) {
	var list trade.PackingList
	if err := r.db.WithContext(ctx).
		Preload("Entries").
		First(&list, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &list, nil
}

// Save persists the packing list header. The unique index on dispatch_note_id
// backs the one-dispatch-per-list invariant at the storage level.
func (r *GormPackingListRepository) Save(ctx context.Context, list *trade.PackingList) error {
	if list.Version <= 1 {
		return r.db.WithContext(ctx).
			Session(&gorm.Session{FullSaveAssociations: true}).
			Save(list).Error
	}

	result := r.db.WithContext(ctx).
		Model(list).
		Where("id = ? AND version = ?", list.ID, list.Version-1).
		Updates(map[string]interface{}{
			"dispatch_note_id": list.DispatchNoteID,
			"version":          list.Version,
			"updated_at":       list.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Packing list was modified by another transaction")
	}
	return nil
}

var _ trade.PackingListRepository = (*GormPackingListRepository)(nil)
