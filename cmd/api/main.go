package main

import (
	"github.com/gin-gonic/gin"

	"github.com/dharmik200817/milkmate-api/internal/application/service"
	"github.com/dharmik200817/milkmate-api/internal/config"
	"github.com/dharmik200817/milkmate-api/internal/domain/enum"
	"github.com/dharmik200817/milkmate-api/internal/infrastructure/database"
	"github.com/dharmik200817/milkmate-api/internal/infrastructure/repository"
	"github.com/dharmik200817/milkmate-api/internal/presentation/http/handler"
	"github.com/dharmik200817/milkmate-api/internal/presentation/http/routes"
	"github.com/dharmik200817/milkmate-api/pkg/email"
	"github.com/dharmik200817/milkmate-api/pkg/logger"
	"github.com/dharmik200817/milkmate-api/pkg/printer"
	"github.com/dharmik200817/milkmate-api/pkg/storage"
	"github.com/dharmik200817/milkmate-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Configure(cfg.App.Env, cfg.App.LogLevel)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Log.WithError(err).Fatal("Failed to run migrations")
	}

	// Seed default milk types and the admin account
	if err := database.SeedDefaultData(db); err != nil {
		logger.Log.WithError(err).Warn("Failed to seed default data")
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	milkTypeRepo := repository.NewMilkTypeRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	balanceRepo := repository.NewBalanceRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	bulkEntryRepo := repository.NewBulkEntryRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize supporting services
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		BusinessName: cfg.Billing.BusinessName,
	})

	archive := storage.NewBillArchive(cfg.Storage.Path, cfg.App.BaseURL, cfg.Storage.PublicPrefix)

	thermalPrinter, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		logger.Log.WithError(err).Warn("Printer misconfigured, receipts disabled")
		thermalPrinter = printer.NewNullPrinter()
	}

	terminalPolicy := enum.BulkEntryTerminalComplete
	if cfg.Billing.BulkEntryWrap {
		terminalPolicy = enum.BulkEntryTerminalWrap
	}

	// Initialize application services
	authService := service.NewAuthService(userRepo, jwtManager)
	customerService := service.NewCustomerService(customerRepo)
	milkTypeService := service.NewMilkTypeService(milkTypeRepo)
	deliveryService := service.NewDeliveryService(deliveryRepo, customerRepo, milkTypeRepo)
	paymentService := service.NewPaymentService(paymentRepo, customerRepo)
	balanceService := service.NewBalanceService(balanceRepo, deliveryRepo, paymentRepo, customerRepo)
	billingService := service.NewBillingService(
		customerRepo, deliveryRepo, paymentRepo, balanceService,
		archive, emailService, cfg.Billing.BusinessName,
	)
	bulkEntryService := service.NewBulkEntryService(
		bulkEntryRepo, customerRepo, deliveryRepo, deliveryService, terminalPolicy,
	)
	dashboardService := service.NewDashboardService(statsRepo)
	printerService := service.NewPrinterService(
		thermalPrinter, deliveryRepo, customerRepo, balanceRepo,
		cfg.Printer.Type, cfg.Billing.BusinessName,
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Customer:  handler.NewCustomerHandler(customerService, balanceService),
		MilkType:  handler.NewMilkTypeHandler(milkTypeService),
		Delivery:  handler.NewDeliveryHandler(deliveryService, printerService),
		Payment:   handler.NewPaymentHandler(paymentService),
		Balance:   handler.NewBalanceHandler(balanceService),
		Billing:   handler.NewBillingHandler(billingService),
		BulkEntry: handler.NewBulkEntryHandler(bulkEntryService),
		Dashboard: handler.NewDashboardHandler(dashboardService, printerService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		BillArchiveDir:  archive.Root(),
	})

	logger.Log.WithField("port", cfg.App.Port).Info("Starting server")
	if err := router.Run(":" + cfg.App.Port); err != nil {
		logger.Log.WithError(err).Fatal("Failed to start server")
	}
}
