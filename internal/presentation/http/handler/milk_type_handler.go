package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dharmik200817/milkmate-api/internal/application/service"
	"github.com/dharmik200817/milkmate-api/internal/presentation/http/dto/response"
)

// MilkTypeHandler handles milk type HTTP requests
type MilkTypeHandler struct {
	milkTypeService *service.MilkTypeService
}

// NewMilkTypeHandler creates a new milk type handler
func NewMilkTypeHandler(milkTypeService *service.MilkTypeService) *MilkTypeHandler {
	return &MilkTypeHandler{milkTypeService: milkTypeService}
}

// List handles listing all milk types
func (h *MilkTypeHandler) List(c *gin.Context) {
	milkTypes, err := h.milkTypeService.ListMilkTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Milk types retrieved successfully", milkTypes)
}

// Get handles getting a single milk type
func (h *MilkTypeHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid milk type ID")
		return
	}

	milkType, err := h.milkTypeService.GetMilkType(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Milk type retrieved successfully", milkType)
}

// Create handles creating a milk type
func (h *MilkTypeHandler) Create(c *gin.Context) {
	var req struct {
		Name          string          `json:"name" binding:"required"`
		PricePerLiter decimal.Decimal `json:"price_per_liter" binding:"required"`
		Description   *string         `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	milkType, err := h.milkTypeService.CreateMilkType(c.Request.Context(), &service.CreateMilkTypeInput{
		Name:          req.Name,
		PricePerLiter: req.PricePerLiter,
		Description:   req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Milk type created successfully", milkType)
}

// Update handles updating a milk type
func (h *MilkTypeHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid milk type ID")
		return
	}

	var req struct {
		Name          *string          `json:"name"`
		PricePerLiter *decimal.Decimal `json:"price_per_liter"`
		Description   *string          `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	milkType, err := h.milkTypeService.UpdateMilkType(c.Request.Context(), &service.UpdateMilkTypeInput{
		ID:            id,
		Name:          req.Name,
		PricePerLiter: req.PricePerLiter,
		Description:   req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Milk type updated successfully", milkType)
}

// Delete handles deleting a milk type
func (h *MilkTypeHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid milk type ID")
		return
	}

	if err := h.milkTypeService.DeleteMilkType(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Milk type deleted successfully", nil)
}
