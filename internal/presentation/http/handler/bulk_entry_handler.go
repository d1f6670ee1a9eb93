package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dharmik200817/milkmate-api/internal/application/service"
	"github.com/dharmik200817/milkmate-api/internal/domain/enum"
	"github.com/dharmik200817/milkmate-api/internal/presentation/http/dto/response"
)

// BulkEntryHandler handles the round-entry workflow HTTP requests
type BulkEntryHandler struct {
	bulkEntryService *service.BulkEntryService
}

// NewBulkEntryHandler creates a new bulk entry handler
func NewBulkEntryHandler(bulkEntryService *service.BulkEntryService) *BulkEntryHandler {
	return &BulkEntryHandler{bulkEntryService: bulkEntryService}
}

// Start opens a new session for the given delivery date
func (h *BulkEntryHandler) Start(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		DeliveryDate string `json:"delivery_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	deliveryDate, ok := parseDate(req.DeliveryDate)
	if !ok {
		response.BadRequest(c, "delivery_date must be YYYY-MM-DD")
		return
	}

	prompt, err := h.bulkEntryService.Start(c.Request.Context(), *userID, deliveryDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bulk entry session started", prompt)
}

// Current returns the open session's current prompt
func (h *BulkEntryHandler) Current(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	prompt, err := h.bulkEntryService.Resume(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Current prompt retrieved", prompt)
}

// Enter records a delivery for the current customer and advances
func (h *BulkEntryHandler) Enter(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		MilkTypeID    *uuid.UUID           `json:"milk_type_id"`
		Quantity      decimal.Decimal      `json:"quantity"`
		TimeOfDay     *enum.TimeOfDay      `json:"time_of_day"`
		PriceOverride *decimal.Decimal     `json:"price_override"`
		Notes         string               `json:"notes"`
		Items         []groceryItemRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	prompt, err := h.bulkEntryService.Enter(c.Request.Context(), &service.EnterInput{
		UserID:        *userID,
		MilkTypeID:    req.MilkTypeID,
		Quantity:      req.Quantity,
		TimeOfDay:     req.TimeOfDay,
		PriceOverride: req.PriceOverride,
		Notes:         req.Notes,
		Items:         groceryInputs(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery recorded, cursor advanced", prompt)
}

// Skip advances past the current customer
func (h *BulkEntryHandler) Skip(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	prompt, err := h.bulkEntryService.Skip(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer skipped", prompt)
}

// Previous moves the cursor back one customer
func (h *BulkEntryHandler) Previous(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	prompt, err := h.bulkEntryService.Previous(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cursor moved back", prompt)
}

// Finish closes the open session early
func (h *BulkEntryHandler) Finish(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	session, err := h.bulkEntryService.Finish(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bulk entry session finished", session)
}
