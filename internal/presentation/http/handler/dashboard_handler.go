package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dharmik200817/milkmate-api/internal/application/service"
	"github.com/dharmik200817/milkmate-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	printerService   *service.PrinterService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService, printerService *service.PrinterService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		printerService:   printerService,
	}
}

// Get returns the dashboard snapshot
func (h *DashboardHandler) Get(c *gin.Context) {
	data, err := h.dashboardService.GetDashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard retrieved successfully", data)
}

// PrinterStatus returns the thermal printer's connection status
func (h *DashboardHandler) PrinterStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus())
}

// PrinterTest sends a test slip to the printer
func (h *DashboardHandler) PrinterTest(c *gin.Context) {
	if err := h.printerService.TestPrint(); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Test print sent", nil)
}
