package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tubetrade/backend/internal/domain/shared"
	"github.com/tubetrade/backend/internal/domain/trade"
)

// GormDispatchNoteRepository implements DispatchNoteRepository using GORM
type GormDispatchNoteRepository struct {
	db *gorm.DB
}

// NewGormDispatchNoteRepository creates a new GormDispatchNoteRepository
func NewGormDispatchNoteRepository(db *gorm.DB) *GormDispatchNoteRepository {
	return &GormDispatchNoteRepository{db: db}
}

// FindByID finds a dispatch note by its ID
func (r *GormDispatchNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.DispatchNote, error) {
	var note trade.DispatchNote
	if err := r.db.WithContext(ctx).First(&note, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

// Create inserts a new dispatch note
func (r *GormDispatchNoteRepository) Create(ctx context.Context, note *trade.DispatchNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

var _ trade.DispatchNoteRepository = (*GormDispatchNoteRepository)(nil)
