package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dharmik200817/milkmate-api/internal/config"
	"github.com/dharmik200817/milkmate-api/internal/domain/entity"
	domainRepo "github.com/dharmik200817/milkmate-api/internal/domain/repository"
	"github.com/dharmik200817/milkmate-api/internal/presentation/http/handler"
	"github.com/dharmik200817/milkmate-api/internal/presentation/http/middleware"
	"github.com/dharmik200817/milkmate-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Customer  *handler.CustomerHandler
	MilkType  *handler.MilkTypeHandler
	Delivery  *handler.DeliveryHandler
	Payment   *handler.PaymentHandler
	Balance   *handler.BalanceHandler
	Billing   *handler.BillingHandler
	BulkEntry *handler.BulkEntryHandler
	Dashboard *handler.DashboardHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	// BillArchiveDir is served statically so archived bill PDFs are
	// reachable from the links sent over WhatsApp.
	BillArchiveDir string
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// Archived bill PDFs. Public on purpose: the links go out over
	// WhatsApp where no auth header exists.
	router.Static(deps.Cfg.Storage.PublicPrefix, deps.BillArchiveDir)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.Refresh)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	// Profile
	protected.GET("/profile", h.Auth.Me)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Dashboard
	protected.GET("/dashboard", h.Dashboard.Get)
	protected.GET("/printer/status", h.Dashboard.PrinterStatus)
	protected.POST("/printer/test", h.Dashboard.PrinterTest)

	// Customers
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.GET("/:id/balance", h.Customer.Balance)
		customers.GET("/:id/balance/before", h.Balance.PendingBefore)
		customers.POST("/:id/balance/recompute", h.Balance.Recompute)
		customers.POST("/:id/balance/clear",
			middleware.RequireRole(entity.RoleAdmin), h.Balance.Clear)

		// Monthly bills
		customers.GET("/:id/bill", h.Billing.Statement)
		customers.GET("/:id/bill/pdf", h.Billing.PDF)
		customers.POST("/:id/bill/publish", h.Billing.Publish)
		customers.POST("/:id/bill/email", h.Billing.Email)
	}

	// Milk types
	milkTypes := protected.Group("/milk-types")
	{
		milkTypes.GET("", h.MilkType.List)
		milkTypes.POST("", h.MilkType.Create)
		milkTypes.GET("/:id", h.MilkType.Get)
		milkTypes.PUT("/:id", h.MilkType.Update)
		milkTypes.DELETE("/:id", h.MilkType.Delete)
	}

	// Deliveries. Creation mutates the balance counter, so it honors
	// idempotency keys.
	deliveries := protected.Group("/deliveries")
	{
		deliveries.GET("", h.Delivery.List)
		deliveries.POST("", idempotency, h.Delivery.Create)
		deliveries.GET("/:id", h.Delivery.Get)
		deliveries.PUT("/:id", h.Delivery.Update)
		deliveries.DELETE("/:id", h.Delivery.Delete)
		deliveries.POST("/:id/print", h.Delivery.PrintReceipt)
	}

	// Payments
	payments := protected.Group("/payments")
	{
		payments.GET("", h.Payment.List)
		payments.POST("", idempotency, h.Payment.Create)
		payments.GET("/:id", h.Payment.Get)
		payments.PUT("/:id", h.Payment.Update)
		payments.DELETE("/:id", h.Payment.Delete)
	}

	// Balance overview
	protected.GET("/balances", h.Balance.List)

	// Bulk entry cursor
	bulkEntry := protected.Group("/bulk-entry")
	{
		bulkEntry.POST("/start", h.BulkEntry.Start)
		bulkEntry.GET("/current", h.BulkEntry.Current)
		bulkEntry.POST("/enter", idempotency, h.BulkEntry.Enter)
		bulkEntry.POST("/skip", h.BulkEntry.Skip)
		bulkEntry.POST("/previous", h.BulkEntry.Previous)
		bulkEntry.POST("/finish", h.BulkEntry.Finish)
	}
}
