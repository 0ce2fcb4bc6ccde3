package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubetrade/backend/internal/domain/inventory"
	"github.com/tubetrade/backend/internal/domain/shared"
)

func stockLotRows(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "version",
		"product_name", "specification", "size_label", "heat_number",
		"quantity", "pieces", "status", "reserved_for_order_id", "received_at",
	}).AddRow(
		id.String(), time.Now(), time.Now(), 2,
		"ERW Pipe", "IS 1239", "50NB x 3.2mm", "H-1001",
		"500", 25, "ACCEPTED", nil, time.Now(),
	)
}

func TestGormStockLotRepository_FindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormStockLotRepository(db.DB)
		id := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_lots" WHERE id = \$1`).
			WillReturnRows(stockLotRows(id))

		lot, err := repo.FindByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, id, lot.ID)
		assert.Equal(t, "H-1001", lot.HeatNumber)
		assert.Equal(t, inventory.LotStatusAccepted, lot.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found maps to domain error", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormStockLotRepository(db.DB)

		mock.ExpectQuery(`SELECT \* FROM "stock_lots"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByID(context.Background(), uuid.New())

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormStockLotRepository_FindByIDForUpdate(t *testing.T) {
	t.Run("bounds the lock wait and locks the row", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormStockLotRepository(db.DB)
		id := uuid.New()

		mock.ExpectExec(`SET LOCAL lock_timeout = '3000ms'`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "stock_lots" WHERE id = \$1.*FOR UPDATE`).
			WillReturnRows(stockLotRows(id))

		lot, err := repo.FindByIDForUpdate(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, id, lot.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("custom lock wait", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormStockLotRepositoryWithLockWait(db.DB, 500*time.Millisecond)
		id := uuid.New()

		mock.ExpectExec(`SET LOCAL lock_timeout = '500ms'`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`FOR UPDATE`).
			WillReturnRows(stockLotRows(id))

		_, err := repo.FindByIDForUpdate(context.Background(), id)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expired lock wait maps to lock timeout", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormStockLotRepository(db.DB)

		mock.ExpectExec(`SET LOCAL lock_timeout`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`FOR UPDATE`).
			WillReturnError(&pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"})

		_, err := repo.FindByIDForUpdate(context.Background(), uuid.New())

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrLockTimeout)
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormStockLotRepository(db.DB)

		mock.ExpectExec(`SET LOCAL lock_timeout`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByIDForUpdate(context.Background(), uuid.New())

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormStockLotRepository_FindReservableByProductAndSize(t *testing.T) {
	t.Run("filters on status and orders by receipt", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormStockLotRepository(db.DB)
		id := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_lots" WHERE product_name = \$1 AND size_label = \$2 AND status = \$3 AND quantity > 0 ORDER BY received_at ASC`).
			WithArgs("ERW Pipe", "50NB x 3.2mm", "ACCEPTED").
			WillReturnRows(stockLotRows(id))

		lots, err := repo.FindReservableByProductAndSize(context.Background(), "ERW Pipe", "50NB x 3.2mm")

		require.NoError(t, err)
		require.Len(t, lots, 1)
		assert.Equal(t, id, lots[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormStockLotRepository(db.DB)

		mock.ExpectQuery(`SELECT \* FROM "stock_lots"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		lots, err := repo.FindReservableByProductAndSize(context.Background(), "ERW Pipe", "50NB")

		require.NoError(t, err)
		assert.Empty(t, lots)
	})
}

func TestGormStockLotRepository_Save(t *testing.T) {
	newLot := func(t *testing.T, version int) *inventory.StockLot {
		t.Helper()
		lot, err := inventory.NewStockLot("ERW Pipe", "IS 1239", "50NB x 3.2mm", "H-1001",
			decimal.NewFromInt(500), 25, time.Now())
		require.NoError(t, err)
		lot.Version = version
		return lot
	}

	t.Run("versioned update succeeds when the row matches", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormStockLotRepository(db.DB)
		lot := newLot(t, 3)

		mock.ExpectExec(`UPDATE "stock_lots" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Save(context.Background(), lot)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version surfaces a concurrency conflict", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormStockLotRepository(db.DB)
		lot := newLot(t, 3)

		mock.ExpectExec(`UPDATE "stock_lots" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Save(context.Background(), lot)

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}
