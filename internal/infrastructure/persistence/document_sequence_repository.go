package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tubetrade/backend/internal/domain/sequence"
)

// GormDocumentSequenceRepository implements sequence.Repository using GORM.
// The increment is a single upsert so two concurrent minters serialize on the
// row and can never read the same counter value.
type GormDocumentSequenceRepository struct {
	db *gorm.DB
}

// NewGormDocumentSequenceRepository creates a new GormDocumentSequenceRepository
func NewGormDocumentSequenceRepository(db *gorm.DB) *GormDocumentSequenceRepository {
	return &GormDocumentSequenceRepository{db: db}
}

// Next atomically increments and returns the counter for the (type, fiscal
// year) pair, creating the row at 1 when absent. The ON CONFLICT arm takes a
// row lock, so a concurrent caller blocks until this transaction finishes and
// then increments on top of the committed value.
func (r *GormDocumentSequenceRepository) Next(ctx context.Context, docType sequence.DocumentType, fiscalYear string) (int64, error) {
	var counter int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO document_sequences (id, document_type, fiscal_year, counter, created_at, updated_at)
		VALUES (?, ?, ?, 1, NOW(), NOW())
		ON CONFLICT (document_type, fiscal_year)
		DO UPDATE SET counter = document_sequences.counter + 1, updated_at = NOW()
		RETURNING counter`,
		uuid.New(), docType, fiscalYear,
	).Scan(&counter).Error
	if err != nil {
		return 0, err
	}
	return counter, nil
}

// Current returns the counter without advancing it, 0 when the row does not
// exist yet
func (r *GormDocumentSequenceRepository) Current(ctx context.Context, docType sequence.DocumentType, fiscalYear string) (int64, error) {
	var row sequence.DocumentSequence
	err := r.db.WithContext(ctx).
		Where("document_type = ? AND fiscal_year = ?", docType, fiscalYear).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.Counter, nil
}

var _ sequence.Repository = (*GormDocumentSequenceRepository)(nil)
