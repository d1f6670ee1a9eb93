package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MilkType represents a priced milk variety (cow, buffalo, toned, ...).
// Reference data; the price here is only a default, every delivery
// snapshots the price it was sold at.
type MilkType struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name          string          `gorm:"size:100;uniqueIndex;not null" json:"name"`
	PricePerLiter decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_per_liter"`
	Description   *string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new milk type
func (m *MilkType) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the MilkType model
func (MilkType) TableName() string {
	return "milk_types"
}
