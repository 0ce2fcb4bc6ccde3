package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tubetrade/backend/internal/domain/shared"
	"github.com/tubetrade/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the aggregate status of a sales order. It is always
// derived from the order's lines and reservations, never set independently.
type OrderStatus string

const (
	OrderStatusOpen                OrderStatus = "OPEN"
	OrderStatusPartiallyDispatched OrderStatus = "PARTIALLY_DISPATCHED"
	OrderStatusFullyDispatched     OrderStatus = "FULLY_DISPATCHED"
	OrderStatusClosed              OrderStatus = "CLOSED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusOpen, OrderStatusPartiallyDispatched, OrderStatusFullyDispatched, OrderStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// LineStatus represents the dispatch progress of a single order line.
// It moves OPEN -> PARTIALLY_DISPATCHED -> FULLY_DISPATCHED and never regresses.
type LineStatus string

const (
	LineStatusOpen                LineStatus = "OPEN"
	LineStatusPartiallyDispatched LineStatus = "PARTIALLY_DISPATCHED"
	LineStatusFullyDispatched     LineStatus = "FULLY_DISPATCHED"
)

// IsValid checks if the status is a valid LineStatus
func (s LineStatus) IsValid() bool {
	switch s {
	case LineStatusOpen, LineStatusPartiallyDispatched, LineStatusFullyDispatched:
		return true
	}
	return false
}

// String returns the string representation of LineStatus
func (s LineStatus) String() string {
	return string(s)
}

// rank orders line statuses for the monotonicity guard
func (s LineStatus) rank() int {
	switch s {
	case LineStatusPartiallyDispatched:
		return 1
	case LineStatusFullyDispatched:
		return 2
	}
	return 0
}

// OrderLine is a demand for a quantity of one product/size combination,
// owned by exactly one sales order.
type OrderLine struct {
	shared.BaseEntity
	OrderID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName        string          `gorm:"type:varchar(200);not null"`
	Specification      string          `gorm:"type:varchar(200)"`
	SizeLabel          string          `gorm:"type:varchar(100);not null"`
	OrderedQuantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DispatchedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Pieces             int             `gorm:"not null;default:0"`
	Status             LineStatus      `gorm:"type:varchar(30);not null"`
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "sales_order_lines"
}

// NewOrderLine creates a new order line in OPEN status
func NewOrderLine(orderID uuid.UUID, productName, specification, sizeLabel string, orderedQuantity decimal.Decimal, pieces int) (*OrderLine, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product name cannot be empty")
	}
	if sizeLabel == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Size label cannot be empty")
	}
	if orderedQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Ordered quantity must be positive")
	}

	return &OrderLine{
		BaseEntity:         shared.NewBaseEntity(),
		OrderID:            orderID,
		ProductName:        productName,
		Specification:      specification,
		SizeLabel:          sizeLabel,
		OrderedQuantity:    orderedQuantity,
		DispatchedQuantity: decimal.Zero,
		Pieces:             pieces,
		Status:             LineStatusOpen,
	}, nil
}

// RemainingQuantity returns ordered minus dispatched-so-far
func (l *OrderLine) RemainingQuantity() decimal.Decimal {
	return l.OrderedQuantity.Sub(l.DispatchedQuantity)
}

// RemainingDemand returns how much more of this line can still be reserved,
// given the quantity currently held by active reservations.
func (l *OrderLine) RemainingDemand(activeReserved decimal.Decimal) decimal.Decimal {
	return l.OrderedQuantity.Sub(activeReserved)
}

// AddDispatched increments the dispatched-so-far quantity. Dispatching past
// the ordered quantity (beyond tolerance) violates the line invariant.
func (l *OrderLine) AddDispatched(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Dispatched quantity must be positive")
	}
	next := l.DispatchedQuantity.Add(quantity)
	if !valueobject.FitsWithin(next, l.OrderedQuantity) {
		return shared.NewDomainError("FULFILLMENT_INTEGRITY",
			"Dispatching "+quantity.String()+" would exceed the ordered quantity on line "+l.ID.String())
	}
	l.DispatchedQuantity = next
	l.UpdatedAt = time.Now()
	return nil
}

// ApplyStatus sets a recomputed line status, refusing regressions.
func (l *OrderLine) ApplyStatus(status LineStatus) error {
	if status.rank() < l.Status.rank() {
		return shared.NewDomainError("INVALID_STATE",
			"Line status cannot regress from "+l.Status.String()+" to "+status.String())
	}
	if status != l.Status {
		l.Status = status
		l.UpdatedAt = time.Now()
	}
	return nil
}

// SalesOrder owns its order lines. POAccepted mirrors the upstream
// credit/purchase-order acceptance gate; this engine reads it and never
// writes it.
type SalesOrder struct {
	shared.BaseAggregateRoot
	OrderNumber  string      `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerName string      `gorm:"type:varchar(200);not null"`
	POAccepted   bool        `gorm:"not null;default:false"`
	Status       OrderStatus `gorm:"type:varchar(30);not null;index"`
	Lines        []OrderLine `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// NewSalesOrder creates a new sales order in OPEN status
func NewSalesOrder(orderNumber, customerName string) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order number cannot exceed 50 characters")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer name cannot be empty")
	}

	return &SalesOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerName:      customerName,
		Status:            OrderStatusOpen,
		Lines:             make([]OrderLine, 0),
	}, nil
}

// AddLine appends a new line to the order
func (o *SalesOrder) AddLine(productName, specification, sizeLabel string, orderedQuantity decimal.Decimal, pieces int) (*OrderLine, error) {
	line, err := NewOrderLine(o.ID, productName, specification, sizeLabel, orderedQuantity, pieces)
	if err != nil {
		return nil, err
	}
	o.Lines = append(o.Lines, *line)
	o.UpdatedAt = time.Now()
	// Return a pointer into the slice so callers mutate the stored line.
	return &o.Lines[len(o.Lines)-1], nil
}

// AcceptPO records the upstream purchase-order acceptance gate. Exposed for
// the order-management collaborator; the allocation engine only reads it.
func (o *SalesOrder) AcceptPO() {
	o.POAccepted = true
	o.UpdatedAt = time.Now()
}

// GetLine returns a line by its ID
func (o *SalesOrder) GetLine(lineID uuid.UUID) *OrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// ApplyStatus sets a recomputed order status and emits a status event when it
// changes. The orchestrator is the only caller; the status is always derived.
func (o *SalesOrder) ApplyStatus(status OrderStatus) {
	if status == o.Status {
		return
	}
	from := o.Status
	o.Status = status
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, status))
}

// IsFullyDispatched returns true once every reservation on the order shipped
func (o *SalesOrder) IsFullyDispatched() bool {
	return o.Status == OrderStatusFullyDispatched
}
