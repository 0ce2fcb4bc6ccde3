package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tubetrade/backend/internal/domain/shared"
)

// PackingListEntry is one pre-selected (lot, quantity, pieces) bundle item.
// Entries are committed before dispatch begins and are immutable inputs to
// the fulfillment orchestrator.
type PackingListEntry struct {
	shared.BaseEntity
	PackingListID uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockLotID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Pieces        int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PackingListEntry) TableName() string {
	return "packing_list_entries"
}

// PackingList is a pre-committed bundle of lots and quantities to ship for
// one order. It links to at most one dispatch note.
type PackingList struct {
	shared.BaseAggregateRoot
	OrderID        uuid.UUID          `gorm:"type:uuid;not null;index"`
	DispatchNoteID *uuid.UUID         `gorm:"type:uuid;uniqueIndex"`
	Entries        []PackingListEntry `gorm:"foreignKey:PackingListID;references:ID"`
}

// TableName returns the table name for GORM
func (PackingList) TableName() string {
	return "packing_lists"
}

// NewPackingList creates a packing list for an order
func NewPackingList(orderID uuid.UUID) (*PackingList, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order ID cannot be empty")
	}
	return &PackingList{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		Entries:           make([]PackingListEntry, 0),
	}, nil
}

// AddEntry appends a lot/quantity bundle item. Only allowed before the list
// is linked to a dispatch note.
func (p *PackingList) AddEntry(stockLotID uuid.UUID, quantity decimal.Decimal, pieces int) error {
	if p.IsDispatched() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a dispatched packing list")
	}
	if stockLotID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Stock lot ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Entry quantity must be positive")
	}

	entry := PackingListEntry{
		BaseEntity:    shared.NewBaseEntity(),
		PackingListID: p.ID,
		StockLotID:    stockLotID,
		Quantity:      quantity,
		Pieces:        pieces,
	}
	p.Entries = append(p.Entries, entry)
	p.UpdatedAt = time.Now()
	return nil
}

// IsDispatched returns true once a dispatch note consumed this list
func (p *PackingList) IsDispatched() bool {
	return p.DispatchNoteID != nil
}

// LinkDispatchNote binds the one dispatch note that consumes this list
func (p *PackingList) LinkDispatchNote(dispatchNoteID uuid.UUID) error {
	if p.IsDispatched() {
		return shared.NewDomainError("INVALID_STATE", "Packing list is already linked to a dispatch note")
	}
	if dispatchNoteID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Dispatch note ID cannot be empty")
	}
	p.DispatchNoteID = &dispatchNoteID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// ShipmentMeta carries the transport details stamped onto a dispatch note
type ShipmentMeta struct {
	VehicleNumber string
	Carrier       string
	Destination   string
}

// DispatchNote records a finalized shipment: the packing list it consumed,
// the order it fulfills, its minted document number and transport details.
type DispatchNote struct {
	shared.BaseAggregateRoot
	DispatchNumber string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	PackingListID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	VehicleNumber  string    `gorm:"type:varchar(50)"`
	Carrier        string    `gorm:"type:varchar(100)"`
	Destination    string    `gorm:"type:varchar(200)"`
	DispatchedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DispatchNote) TableName() string {
	return "dispatch_notes"
}

// NewDispatchNote creates a dispatch note with a minted document number
func NewDispatchNote(dispatchNumber string, packingListID, orderID uuid.UUID, meta ShipmentMeta) (*DispatchNote, error) {
	if dispatchNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Dispatch number cannot be empty")
	}
	if packingListID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Packing list ID cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order ID cannot be empty")
	}

	note := &DispatchNote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DispatchNumber:    dispatchNumber,
		PackingListID:     packingListID,
		OrderID:           orderID,
		VehicleNumber:     meta.VehicleNumber,
		Carrier:           meta.Carrier,
		Destination:       meta.Destination,
		DispatchedAt:      time.Now(),
	}
	note.AddDomainEvent(NewDispatchFinalizedEvent(note))
	return note, nil
}
