package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	allocationapp "github.com/tubetrade/backend/internal/application/allocation"
	"github.com/tubetrade/backend/internal/interfaces/http/dto"
)

// AllocationHandler handles reservation and stock availability endpoints
type AllocationHandler struct {
	BaseHandler
	service *allocationapp.Service
}

// NewAllocationHandler creates a new AllocationHandler
func NewAllocationHandler(service *allocationapp.Service) *AllocationHandler {
	return &AllocationHandler{service: service}
}

// ReserveRequest represents a request to reserve stock for an order line
type ReserveRequest struct {
	OrderLineID string  `json:"order_line_id" binding:"required,uuid"`
	StockLotID  string  `json:"stock_lot_id" binding:"required,uuid"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	Pieces      int     `json:"pieces" binding:"gte=0"`
}

// ReleaseRequest represents a request to release a reservation
type ReleaseRequest struct {
	OrderID string `json:"order_id" binding:"required,uuid"`
}

// RegisterRoutes registers allocation routes
func (h *AllocationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reservations := rg.Group("/reservations")
	{
		reservations.POST("", h.Reserve)
		reservations.POST("/:id/release", h.Release)
	}
	rg.GET("/order-lines/:id/available-stock", h.AvailableStock)
	rg.GET("/stock-lots/:id", h.GetStockLot)
}

// Reserve claims a quantity of one stock lot for an order line
func (h *AllocationHandler) Reserve(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orderLineID, err := uuid.Parse(req.OrderLineID)
	if err != nil {
		h.BadRequest(c, "Invalid order line ID format")
		return
	}
	stockLotID, err := uuid.Parse(req.StockLotID)
	if err != nil {
		h.BadRequest(c, "Invalid stock lot ID format")
		return
	}

	result, err := h.service.Reserve(c.Request.Context(), allocationapp.ReserveRequest{
		ActorID:     actorID,
		OrderLineID: orderLineID,
		StockLotID:  stockLotID,
		Quantity:    decimal.NewFromFloat(req.Quantity),
		Pieces:      req.Pieces,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Release hands a reservation's quantity back to its lot
func (h *AllocationHandler) Release(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid reservation ID")
		return
	}
	reservationID, err := uuid.Parse(idReq.ID)
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID format")
		return
	}

	var req ReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	reservation, err := h.service.Release(c.Request.Context(), allocationapp.ReleaseRequest{
		ActorID:       actorID,
		ReservationID: reservationID,
		OrderID:       orderID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reservation)
}

// AvailableStock lists reservable lots matching an order line, oldest first
func (h *AllocationHandler) AvailableStock(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid order line ID")
		return
	}
	orderLineID, err := uuid.Parse(idReq.ID)
	if err != nil {
		h.BadRequest(c, "Invalid order line ID format")
		return
	}

	lots, err := h.service.AvailableStockFor(c.Request.Context(), actorID, orderLineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lots)
}

// GetStockLot returns a single stock lot
func (h *AllocationHandler) GetStockLot(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid stock lot ID")
		return
	}
	lotID, err := uuid.Parse(idReq.ID)
	if err != nil {
		h.BadRequest(c, "Invalid stock lot ID format")
		return
	}

	lot, err := h.service.GetStockLot(c.Request.Context(), actorID, lotID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lot)
}
