package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerBalance caches the current pending amount for one customer.
// It is written inside the same transaction as every delivery and
// payment write, so it cannot drift from the source rows; date-bounded
// balances (bill "previous outstanding") are always recomputed from
// the rows instead.
//
// Invariant: PendingAmount >= 0. Decrements clamp at zero.
type CustomerBalance struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"customer_id"`
	PendingAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"pending_amount"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new balance row
func (b *CustomerBalance) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CustomerBalance model
func (CustomerBalance) TableName() string {
	return "customer_balances"
}
