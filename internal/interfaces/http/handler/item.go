package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	mfgapp "github.com/mfg/backend/internal/application/manufacturing"
	"github.com/mfg/backend/internal/interfaces/http/dto"
)

// ItemHandler handles manufacturing item API endpoints
type ItemHandler struct {
	BaseHandler
	itemService *mfgapp.ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService *mfgapp.ItemService) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
	}
}

// Create handles POST /manufacturing/items. The request is a multipart
// form carrying the item fields plus a mandatory "photo" file part. The
// initial box batch is created together with the item, each box carrying
// a generated QR label.
func (h *ItemHandler) Create(c *gin.Context) {
	var req mfgapp.CreateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		h.BadRequest(c, "photo is required")
		return
	}
	defer file.Close()

	if header.Size > maxPhotoSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "photo exceeds maximum size of 5MB")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, "photo must be an image")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	req.Photo = mfgapp.PhotoUpload{Filename: header.Filename, ContentType: contentType, Data: data}

	item, err := h.itemService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, item)
}

// GetByID handles GET /manufacturing/items/:id
func (h *ItemHandler) GetByID(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	item, err := h.itemService.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// GetByItemNo handles GET /manufacturing/items/no/:item_no
func (h *ItemHandler) GetByItemNo(c *gin.Context) {
	itemNo := c.Param("item_no")
	if itemNo == "" {
		h.BadRequest(c, "Item number is required")
		return
	}

	item, err := h.itemService.GetByItemNo(c.Request.Context(), itemNo)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// List handles GET /manufacturing/items
func (h *ItemHandler) List(c *gin.Context) {
	var filter mfgapp.ItemListFilter
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

	items, total, err := h.itemService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Update handles PUT /manufacturing/items/:id. A box_count that differs
// from the current count rebuilds the box set from scratch, discarding
// existing serials and labels.
func (h *ItemHandler) Update(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req mfgapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// UpdateByItemNo handles PUT /manufacturing/items/no/:item_no, the same
// update addressed by the business key instead of the row id.
func (h *ItemHandler) UpdateByItemNo(c *gin.Context) {
	itemNo := c.Param("item_no")
	if itemNo == "" {
		h.BadRequest(c, "Item number is required")
		return
	}

	var req mfgapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	current, err := h.itemService.GetByItemNo(c.Request.Context(), itemNo)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), current.ID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// AddBoxes handles PATCH /manufacturing/items/:id/boxes, appending boxes
// after the current highest serial without touching existing ones.
func (h *ItemHandler) AddBoxes(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req mfgapp.AddBoxesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.itemService.AddBoxes(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// UploadPhoto handles POST /manufacturing/items/:id/photo
func (h *ItemHandler) UploadPhoto(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > maxPhotoSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "file exceeds maximum size of 5MB")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, "file must be an image")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}

	item, err := h.itemService.UploadPhoto(c.Request.Context(), itemID, header.Filename, contentType, data)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// Delete handles DELETE /manufacturing/items/:id
func (h *ItemHandler) Delete(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), itemID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
