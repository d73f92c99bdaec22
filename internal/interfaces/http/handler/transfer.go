package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	mfgapp "github.com/mfg/backend/internal/application/manufacturing"
)

// TransferHandler handles transfer audit API endpoints
type TransferHandler struct {
	BaseHandler
	transferService *mfgapp.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *mfgapp.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// TransferPersonnel handles POST /manufacturing/transfers.
// It swaps one assignment slot on an item and records an audit entry.
func (h *TransferHandler) TransferPersonnel(c *gin.Context) {
	var req mfgapp.PersonnelTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transfer, err := h.transferService.TransferPersonnel(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, transfer)
}

// TransferMixture handles POST /manufacturing/mixture-transfers. All task
// forms of the source employee on the item move to the target employee.
func (h *TransferHandler) TransferMixture(c *gin.Context) {
	var req mfgapp.MixtureTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transfer, err := h.transferService.TransferMixture(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, transfer)
}

// GetByID handles GET /manufacturing/transfers/:id
func (h *TransferHandler) GetByID(c *gin.Context) {
	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}

	transfer, err := h.transferService.GetByID(c.Request.Context(), transferID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transfer)
}

// List handles GET /manufacturing/transfers with optional kind and
// employee filters
func (h *TransferHandler) List(c *gin.Context) {
	var filter mfgapp.TransferListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	transfers, total, err := h.transferService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, transfers, total, filter.Page, filter.PageSize)
}

// ListByItem handles GET /manufacturing/items/:id/transfers
func (h *TransferHandler) ListByItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	transfers, err := h.transferService.ListByItem(c.Request.Context(), itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transfers)
}
