package trade

import (
	"github.com/tubetrade/backend/internal/domain/shared"
)

// Event types for the trade context
const (
	EventTypeOrderStatusChanged = "trade.sales_order.status_changed"
	EventTypeDispatchFinalized  = "trade.dispatch_note.finalized"
)

// OrderStatusChangedEvent is emitted when the derived order status moves
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	FromStatus  OrderStatus `json:"from_status"`
	ToStatus    OrderStatus `json:"to_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *SalesOrder, from, to OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, "SalesOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		FromStatus:      from,
		ToStatus:        to,
	}
}

// DispatchFinalizedEvent is emitted when a dispatch note is created
type DispatchFinalizedEvent struct {
	shared.BaseDomainEvent
	DispatchNumber string `json:"dispatch_number"`
	OrderID        string `json:"order_id"`
	PackingListID  string `json:"packing_list_id"`
}

// NewDispatchFinalizedEvent creates a new DispatchFinalizedEvent
func NewDispatchFinalizedEvent(note *DispatchNote) *DispatchFinalizedEvent {
	return &DispatchFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDispatchFinalized, "DispatchNote", note.ID),
		DispatchNumber:  note.DispatchNumber,
		OrderID:         note.OrderID.String(),
		PackingListID:   note.PackingListID.String(),
	}
}
