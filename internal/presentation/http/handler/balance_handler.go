package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dharmik200817/milkmate-api/internal/application/service"
	"github.com/dharmik200817/milkmate-api/internal/presentation/http/dto/response"
)

// BalanceHandler handles balance-related HTTP requests
type BalanceHandler struct {
	balanceService *service.BalanceService
}

// NewBalanceHandler creates a new balance handler
func NewBalanceHandler(balanceService *service.BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceService: balanceService}
}

// List handles the per-customer balance overview
func (h *BalanceHandler) List(c *gin.Context) {
	summaries, err := h.balanceService.ListSummaries(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Balances retrieved successfully", summaries)
}

// PendingBefore answers "what did this customer owe as of a date":
// the previous-outstanding figure on a monthly bill.
func (h *BalanceHandler) PendingBefore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	beforeStr := c.Query("before")
	if beforeStr == "" {
		response.BadRequest(c, "before query parameter is required")
		return
	}
	before, ok := parseDate(beforeStr)
	if !ok {
		response.BadRequest(c, "before must be YYYY-MM-DD")
		return
	}

	pending, err := h.balanceService.GetPendingBefore(c.Request.Context(), id, before)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Balance retrieved successfully", gin.H{
		"customer_id":    id,
		"before":         beforeStr,
		"pending_amount": pending,
	})
}

// Recompute rebuilds a customer's cached balance counter from the rows
func (h *BalanceHandler) Recompute(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	pending, err := h.balanceService.Recompute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Balance recomputed successfully", gin.H{
		"customer_id":    id,
		"pending_amount": pending,
	})
}

// Clear zeroes a customer's balance with a settlement payment. The
// route is guarded by the admin role.
func (h *BalanceHandler) Clear(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	var req struct {
		Notes *string `json:"notes"`
	}
	// Body is optional for this endpoint.
	_ = c.ShouldBindJSON(&req)

	payment, err := h.balanceService.ClearBalance(c.Request.Context(), *userID, id, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Balance cleared successfully", payment)
}
