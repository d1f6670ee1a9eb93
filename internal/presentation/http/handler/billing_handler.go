package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dharmik200817/milkmate-api/internal/application/service"
	"github.com/dharmik200817/milkmate-api/internal/presentation/http/dto/response"
	"github.com/dharmik200817/milkmate-api/pkg/storage"
)

// BillingHandler handles monthly bill HTTP requests
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// billParams reads the customer id path param and month query param
// shared by all billing endpoints.
func (h *BillingHandler) billParams(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return uuid.Nil, false
	}
	return id, true
}

// Statement returns the aggregated monthly statement as JSON
func (h *BillingHandler) Statement(c *gin.Context) {
	customerID, ok := h.billParams(c)
	if !ok {
		return
	}

	monthDate, ok := parseMonth(c.Query("month"))
	if !ok {
		response.BadRequest(c, "month query parameter must be YYYY-MM")
		return
	}

	st, err := h.billingService.GenerateStatement(c.Request.Context(), customerID, monthDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Statement generated successfully", st)
}

// PDF renders the bill and streams the PDF directly
func (h *BillingHandler) PDF(c *gin.Context) {
	customerID, ok := h.billParams(c)
	if !ok {
		return
	}

	monthDate, ok := parseMonth(c.Query("month"))
	if !ok {
		response.BadRequest(c, "month query parameter must be YYYY-MM")
		return
	}

	st, err := h.billingService.GenerateStatement(c.Request.Context(), customerID, monthDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.billingService.RenderPDF(st)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := storage.BillFileName(st.CustomerName, st.Month, st.Year)
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(200, "application/pdf", data)
}

// Publish archives the bill PDF and returns the WhatsApp handoff
func (h *BillingHandler) Publish(c *gin.Context) {
	customerID, ok := h.billParams(c)
	if !ok {
		return
	}

	var req struct {
		Month string `json:"month" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	monthDate, ok := parseMonth(req.Month)
	if !ok {
		response.BadRequest(c, "month must be YYYY-MM")
		return
	}

	result, err := h.billingService.PublishBill(c.Request.Context(), customerID, monthDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill published successfully", result)
}

// Email sends the bill PDF to the given address
func (h *BillingHandler) Email(c *gin.Context) {
	customerID, ok := h.billParams(c)
	if !ok {
		return
	}

	var req struct {
		Month string `json:"month" binding:"required"`
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	monthDate, ok := parseMonth(req.Month)
	if !ok {
		response.BadRequest(c, "month must be YYYY-MM")
		return
	}

	if err := h.billingService.EmailBill(c.Request.Context(), customerID, monthDate, req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill emailed successfully", nil)
}
