package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubetrade/backend/internal/domain/shared"
)

func createTestPackingList(t *testing.T) *PackingList {
	t.Helper()
	list, err := NewPackingList(uuid.New())
	require.NoError(t, err)
	return list
}

func TestNewPackingList(t *testing.T) {
	t.Run("creates empty unlinked list", func(t *testing.T) {
		orderID := uuid.New()

		list, err := NewPackingList(orderID)

		require.NoError(t, err)
		assert.Equal(t, orderID, list.OrderID)
		assert.Nil(t, list.DispatchNoteID)
		assert.False(t, list.IsDispatched())
		assert.Empty(t, list.Entries)
	})

	t.Run("fails with nil order ID", func(t *testing.T) {
		_, err := NewPackingList(uuid.Nil)

		require.Error(t, err)
	})
}

func TestPackingList_AddEntry(t *testing.T) {
	t.Run("appends bundle items", func(t *testing.T) {
		list := createTestPackingList(t)
		lotID := uuid.New()

		require.NoError(t, list.AddEntry(lotID, decimal.NewFromInt(200), 10))
		require.NoError(t, list.AddEntry(uuid.New(), decimal.NewFromInt(300), 15))

		require.Len(t, list.Entries, 2)
		assert.Equal(t, lotID, list.Entries[0].StockLotID)
		assert.Equal(t, list.ID, list.Entries[0].PackingListID)
	})

	t.Run("rejects entries on a dispatched list", func(t *testing.T) {
		list := createTestPackingList(t)
		require.NoError(t, list.LinkDispatchNote(uuid.New()))

		err := list.AddEntry(uuid.New(), decimal.NewFromInt(100), 5)

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		list := createTestPackingList(t)

		err := list.AddEntry(uuid.New(), decimal.Zero, 0)

		require.Error(t, err)
	})
}

func TestPackingList_LinkDispatchNote(t *testing.T) {
	t.Run("links once and bumps version", func(t *testing.T) {
		list := createTestPackingList(t)
		noteID := uuid.New()
		versionBefore := list.Version

		require.NoError(t, list.LinkDispatchNote(noteID))

		assert.True(t, list.IsDispatched())
		require.NotNil(t, list.DispatchNoteID)
		assert.Equal(t, noteID, *list.DispatchNoteID)
		assert.Equal(t, versionBefore+1, list.Version)
	})

	t.Run("rejects a second link", func(t *testing.T) {
		list := createTestPackingList(t)
		require.NoError(t, list.LinkDispatchNote(uuid.New()))

		err := list.LinkDispatchNote(uuid.New())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "already linked")
	})

	t.Run("rejects nil dispatch note ID", func(t *testing.T) {
		list := createTestPackingList(t)

		err := list.LinkDispatchNote(uuid.Nil)

		require.Error(t, err)
	})
}

func TestNewDispatchNote(t *testing.T) {
	meta := ShipmentMeta{VehicleNumber: "MH-04-AB-1234", Carrier: "VRL Logistics", Destination: "Pune"}

	t.Run("creates note with transport details and event", func(t *testing.T) {
		listID := uuid.New()
		orderID := uuid.New()

		note, err := NewDispatchNote("DN/24-25/00007", listID, orderID, meta)

		require.NoError(t, err)
		assert.Equal(t, "DN/24-25/00007", note.DispatchNumber)
		assert.Equal(t, listID, note.PackingListID)
		assert.Equal(t, orderID, note.OrderID)
		assert.Equal(t, "MH-04-AB-1234", note.VehicleNumber)
		assert.False(t, note.DispatchedAt.IsZero())

		events := note.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeDispatchFinalized, events[0].EventType())
	})

	t.Run("fails with empty dispatch number", func(t *testing.T) {
		_, err := NewDispatchNote("", uuid.New(), uuid.New(), meta)

		require.Error(t, err)
	})

	t.Run("fails with nil packing list ID", func(t *testing.T) {
		_, err := NewDispatchNote("DN/24-25/00007", uuid.Nil, uuid.New(), meta)

		require.Error(t, err)
	})
}
