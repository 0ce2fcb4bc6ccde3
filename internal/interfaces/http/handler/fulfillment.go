package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	fulfillmentapp "github.com/tubetrade/backend/internal/application/fulfillment"
	"github.com/tubetrade/backend/internal/interfaces/http/dto"
)

// FulfillmentHandler handles dispatch finalization and order endpoints
type FulfillmentHandler struct {
	BaseHandler
	service *fulfillmentapp.Service
}

// NewFulfillmentHandler creates a new FulfillmentHandler
func NewFulfillmentHandler(service *fulfillmentapp.Service) *FulfillmentHandler {
	return &FulfillmentHandler{service: service}
}

// FinalizeDispatchRequest represents a request to finalize a dispatch
type FinalizeDispatchRequest struct {
	PackingListID string `json:"packing_list_id" binding:"required,uuid"`
	OrderID       string `json:"order_id" binding:"required,uuid"`
	VehicleNumber string `json:"vehicle_number"`
	Carrier       string `json:"carrier"`
	Destination   string `json:"destination"`
}

// RegisterRoutes registers fulfillment routes
func (h *FulfillmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/dispatch-notes", h.FinalizeDispatch)
	rg.GET("/orders/:id", h.GetOrder)
}

// FinalizeDispatch turns a packing list into a dispatch note
func (h *FulfillmentHandler) FinalizeDispatch(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req FinalizeDispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	packingListID, err := uuid.Parse(req.PackingListID)
	if err != nil {
		h.BadRequest(c, "Invalid packing list ID format")
		return
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	note, err := h.service.FinalizeDispatch(c.Request.Context(), fulfillmentapp.FinalizeDispatchRequest{
		ActorID:       actorID,
		PackingListID: packingListID,
		OrderID:       orderID,
		VehicleNumber: req.VehicleNumber,
		Carrier:       req.Carrier,
		Destination:   req.Destination,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, note)
}

// GetOrder returns a sales order with its lines
func (h *FulfillmentHandler) GetOrder(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	orderID, err := uuid.Parse(idReq.ID)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), actorID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
