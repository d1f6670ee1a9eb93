package entity

import (
	"time"

	"github.com/dharmik200817/milkmate-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DeliveryRecord represents one visit to a customer on a given date:
// a milk quantity (possibly zero for grocery-only drops) plus any
// grocery items handed over alongside.
//
// MilkAmount, GroceryAmount and TotalAmount are snapshotted at creation
// time. Later price-list edits must not change old bills, so totals are
// stored, never re-derived on read.
type DeliveryRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	MilkTypeID    *uuid.UUID      `gorm:"type:uuid;index" json:"milk_type_id,omitempty"`
	DeliveryDate  time.Time       `gorm:"type:date;not null;index" json:"delivery_date"`
	TimeOfDay     enum.TimeOfDay  `gorm:"default:0" json:"time_of_day"`
	Quantity      decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"quantity"`
	PricePerLiter decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_per_liter"`
	MilkAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"milk_amount"`
	GroceryAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"grocery_amount"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	User     User          `gorm:"foreignKey:UserID" json:"-"`
	Customer Customer      `gorm:"foreignKey:CustomerID" json:"-"`
	MilkType *MilkType     `gorm:"foreignKey:MilkTypeID" json:"milk_type,omitempty"`
	Items    []GroceryItem `gorm:"foreignKey:DeliveryRecordID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new delivery record
func (d *DeliveryRecord) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DeliveryRecord model
func (DeliveryRecord) TableName() string {
	return "delivery_records"
}

// GroceryItem is an ad-hoc line item attached to a delivery record.
// Its lifecycle is bound to the parent: created alongside it and
// removed in the same transaction that deletes the delivery.
type GroceryItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	DeliveryRecordID uuid.UUID       `gorm:"type:uuid;not null;index" json:"delivery_record_id"`
	Name             string          `gorm:"size:255;not null" json:"name"`
	Quantity         decimal.Decimal `gorm:"type:decimal(8,2);not null;default:1" json:"quantity"`
	Unit             string          `gorm:"size:50" json:"unit"`
	Price            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Description      *string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new grocery item
func (g *GroceryItem) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the GroceryItem model
func (GroceryItem) TableName() string {
	return "grocery_items"
}
