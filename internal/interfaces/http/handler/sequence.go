package handler

import (
	"github.com/gin-gonic/gin"

	sequenceapp "github.com/tubetrade/backend/internal/application/sequence"
	"github.com/tubetrade/backend/internal/domain/sequence"
)

// SequenceHandler handles document number minting
type SequenceHandler struct {
	BaseHandler
	service *sequenceapp.Service
}

// NewSequenceHandler creates a new SequenceHandler
func NewSequenceHandler(service *sequenceapp.Service) *SequenceHandler {
	return &SequenceHandler{service: service}
}

// MintNumberRequest represents a request to mint the next document number
type MintNumberRequest struct {
	DocumentType string `json:"document_type" binding:"required"`
}

// MintNumberResponse carries the minted document number
type MintNumberResponse struct {
	DocumentType string `json:"document_type"`
	Number       string `json:"number"`
}

// RegisterRoutes registers sequence routes
func (h *SequenceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/document-numbers", h.MintNumber)
}

// MintNumber mints the next number for a document type. The counter value is
// burned even if the caller discards it; numbers are unique, not gap-free.
func (h *SequenceHandler) MintNumber(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req MintNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	number, err := h.service.NextNumber(c.Request.Context(), actorID, sequence.DocumentType(req.DocumentType))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, MintNumberResponse{
		DocumentType: req.DocumentType,
		Number:       number,
	})
}
