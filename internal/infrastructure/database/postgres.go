package database

import (
	"fmt"

	"github.com/dharmik200817/milkmate-api/internal/config"
	"github.com/dharmik200817/milkmate-api/internal/domain/entity"
	"github.com/dharmik200817/milkmate-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	logger.Log.Info("Connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	logger.Log.Info("Running database migrations...")

	err := db.AutoMigrate(
		// Operator accounts
		&entity.User{},

		// Reference data
		&entity.MilkType{},

		// Delivery domain
		&entity.Customer{},
		&entity.DeliveryRecord{},
		&entity.GroceryItem{},
		&entity.Payment{},
		&entity.CustomerBalance{},

		// Workflow / system entities
		&entity.BulkEntrySession{},
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Log.Info("Database migrations completed")
	return nil
}

// SeedDefaultData seeds the milk price list and, when configured via
// environment variables, the admin operator.
func SeedDefaultData(db *gorm.DB) error {
	logger.Log.Info("Seeding default data...")

	milkTypes := []entity.MilkType{
		{Name: "Cow", PricePerLiter: decimal.NewFromInt(55)},
		{Name: "Buffalo", PricePerLiter: decimal.NewFromInt(70)},
		{Name: "Toned", PricePerLiter: decimal.NewFromInt(48)},
	}

	for i := range milkTypes {
		var existing entity.MilkType
		if err := db.Where("name = ?", milkTypes[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&milkTypes[i]).Error; err != nil {
				logger.Log.Warnf("failed to seed milk type %s: %v", milkTypes[i].Name, err)
			}
		}
	}

	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				logger.Log.Warnf("failed to hash admin password: %v", err)
			} else {
				if adminName == "" {
					adminName = "Admin"
				}
				adminUser := entity.User{
					Name:     adminName,
					Email:    adminEmail,
					Password: string(hashedPassword),
					Role:     entity.RoleAdmin,
				}
				if err := db.Create(&adminUser).Error; err != nil {
					logger.Log.Warnf("failed to create admin user: %v", err)
				} else {
					logger.Log.Infof("Admin user created: %s", adminEmail)
				}
			}
		} else {
			logger.Log.Infof("Admin user already exists: %s", adminEmail)
		}
	}

	logger.Log.Info("Default data seeding completed")
	return nil
}
