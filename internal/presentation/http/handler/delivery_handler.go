package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dharmik200817/milkmate-api/internal/application/service"
	"github.com/dharmik200817/milkmate-api/internal/domain/enum"
	"github.com/dharmik200817/milkmate-api/internal/domain/repository"
	"github.com/dharmik200817/milkmate-api/internal/presentation/http/dto/response"
	"github.com/dharmik200817/milkmate-api/pkg/pagination"
)

// DeliveryHandler handles delivery record HTTP requests
type DeliveryHandler struct {
	deliveryService *service.DeliveryService
	printerService  *service.PrinterService
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(deliveryService *service.DeliveryService, printerService *service.PrinterService) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: deliveryService,
		printerService:  printerService,
	}
}

// groceryItemRequest is one grocery line in a delivery payload
type groceryItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	Description *string         `json:"description"`
}

func groceryInputs(items []groceryItemRequest) []service.GroceryItemInput {
	inputs := make([]service.GroceryItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, service.GroceryItemInput{
			Name:        item.Name,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			Price:       item.Price,
			Description: item.Description,
		})
	}
	return inputs
}

// Create handles recording a delivery
func (h *DeliveryHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		CustomerID    uuid.UUID            `json:"customer_id" binding:"required"`
		MilkTypeID    *uuid.UUID           `json:"milk_type_id"`
		DeliveryDate  string               `json:"delivery_date" binding:"required"`
		TimeOfDay     *enum.TimeOfDay      `json:"time_of_day"`
		Quantity      decimal.Decimal      `json:"quantity"`
		PriceOverride *decimal.Decimal     `json:"price_override"`
		Notes         string               `json:"notes"`
		Items         []groceryItemRequest `json:"items"`
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

	delivery, err := h.deliveryService.CreateDelivery(c.Request.Context(), &service.CreateDeliveryInput{
		UserID:        *userID,
		CustomerID:    req.CustomerID,
		MilkTypeID:    req.MilkTypeID,
		DeliveryDate:  deliveryDate,
		TimeOfDay:     req.TimeOfDay,
		Quantity:      req.Quantity,
		PriceOverride: req.PriceOverride,
		Notes:         req.Notes,
		Items:         groceryInputs(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Delivery recorded successfully", delivery)
}

// Get handles getting a single delivery record
func (h *DeliveryHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid delivery ID")
		return
	}

	delivery, err := h.deliveryService.GetDelivery(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery retrieved successfully", delivery)
}

// List handles listing deliveries with optional filters
func (h *DeliveryHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	var filter repository.DeliveryFilter
	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		customerID, err := uuid.Parse(customerIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid customer_id")
			return
		}
		filter.CustomerID = &customerID
	}
	if fromStr := c.Query("from"); fromStr != "" {
		from, ok := parseDate(fromStr)
		if !ok {
			response.BadRequest(c, "from must be YYYY-MM-DD")
			return
		}
		filter.From = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, ok := parseDate(toStr)
		if !ok {
			response.BadRequest(c, "to must be YYYY-MM-DD")
			return
		}
		filter.To = &to
	}

	result, err := h.deliveryService.ListDeliveries(c.Request.Context(), filter, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Deliveries retrieved successfully", result)
}

// Update handles editing a delivery record
func (h *DeliveryHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid delivery ID")
		return
	}

	var req struct {
		MilkTypeID    *uuid.UUID           `json:"milk_type_id"`
		DeliveryDate  *string              `json:"delivery_date"`
		TimeOfDay     *enum.TimeOfDay      `json:"time_of_day"`
		Quantity      *decimal.Decimal     `json:"quantity"`
		PriceOverride *decimal.Decimal     `json:"price_override"`
		Notes         *string              `json:"notes"`
		Items         []groceryItemRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateDeliveryInput{
		ID:            id,
		MilkTypeID:    req.MilkTypeID,
		TimeOfDay:     req.TimeOfDay,
		Quantity:      req.Quantity,
		PriceOverride: req.PriceOverride,
		Notes:         req.Notes,
	}
	if req.DeliveryDate != nil {
		deliveryDate, ok := parseDate(*req.DeliveryDate)
		if !ok {
			response.BadRequest(c, "delivery_date must be YYYY-MM-DD")
			return
		}
		input.DeliveryDate = &deliveryDate
	}
	if req.Items != nil {
		input.Items = groceryInputs(req.Items)
	}

	delivery, err := h.deliveryService.UpdateDelivery(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery updated successfully", delivery)
}

// Delete handles deleting a delivery record
func (h *DeliveryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid delivery ID")
		return
	}

	if err := h.deliveryService.DeleteDelivery(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery deleted successfully", nil)
}

// PrintReceipt sends a delivery receipt to the thermal printer
func (h *DeliveryHandler) PrintReceipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid delivery ID")
		return
	}

	if err := h.printerService.PrintDeliveryReceipt(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt sent to printer", nil)
}
