package fulfillment

import (
	"time"

	"github.com/google/uuid"

	"github.com/tubetrade/backend/internal/domain/trade"
)

// FinalizeDispatchRequest finalizes the shipment of one packing list.
type FinalizeDispatchRequest struct {
	ActorID       uuid.UUID `json:"actor_id"`
	PackingListID uuid.UUID `json:"packing_list_id"`
	OrderID       uuid.UUID `json:"order_id"`
	VehicleNumber string    `json:"vehicle_number"`
	Carrier       string    `json:"carrier"`
	Destination   string    `json:"destination"`
}

// DispatchNoteResponse is the external view of a finalized dispatch.
type DispatchNoteResponse struct {
	ID             uuid.UUID `json:"id"`
	DispatchNumber string    `json:"dispatch_number"`
	PackingListID  uuid.UUID `json:"packing_list_id"`
	OrderID        uuid.UUID `json:"order_id"`
	OrderStatus    string    `json:"order_status"`
	VehicleNumber  string    `json:"vehicle_number,omitempty"`
	Carrier        string    `json:"carrier,omitempty"`
	Destination    string    `json:"destination,omitempty"`
	DispatchedAt   time.Time `json:"dispatched_at"`
}

// OrderLineResponse is the external view of an order line.
type OrderLineResponse struct {
	ID                 uuid.UUID `json:"id"`
	ProductName        string    `json:"product_name"`
	Specification      string    `json:"specification,omitempty"`
	SizeLabel          string    `json:"size_label"`
	OrderedQuantity    string    `json:"ordered_quantity"`
	DispatchedQuantity string    `json:"dispatched_quantity"`
	Pieces             int       `json:"pieces"`
	Status             string    `json:"status"`
}

// SalesOrderResponse is the external view of a sales order.
type SalesOrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	OrderNumber  string              `json:"order_number"`
	CustomerName string              `json:"customer_name"`
	POAccepted   bool                `json:"po_accepted"`
	Status       string              `json:"status"`
	Lines        []OrderLineResponse `json:"lines"`
}

// ToDispatchNoteResponse converts a dispatch note and the resulting order
// status to the response DTO.
func ToDispatchNoteResponse(note *trade.DispatchNote, orderStatus trade.OrderStatus) DispatchNoteResponse {
	return DispatchNoteResponse{
		ID:             note.ID,
		DispatchNumber: note.DispatchNumber,
		PackingListID:  note.PackingListID,
		OrderID:        note.OrderID,
		OrderStatus:    orderStatus.String(),
		VehicleNumber:  note.VehicleNumber,
		Carrier:        note.Carrier,
		Destination:    note.Destination,
		DispatchedAt:   note.DispatchedAt,
	}
}

// ToSalesOrderResponse converts a sales order with its lines to the response DTO.
func ToSalesOrderResponse(order *trade.SalesOrder) SalesOrderResponse {
	lines := make([]OrderLineResponse, 0, len(order.Lines))
	for idx := range order.Lines {
		line := &order.Lines[idx]
		lines = append(lines, OrderLineResponse{
			ID:                 line.ID,
			ProductName:        line.ProductName,
			Specification:      line.Specification,
			SizeLabel:          line.SizeLabel,
			OrderedQuantity:    line.OrderedQuantity.String(),
			DispatchedQuantity: line.DispatchedQuantity.String(),
			Pieces:             line.Pieces,
			Status:             line.Status.String(),
		})
	}
	return SalesOrderResponse{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		CustomerName: order.CustomerName,
		POAccepted:   order.POAccepted,
		Status:       order.Status.String(),
		Lines:        lines,
	}
}
