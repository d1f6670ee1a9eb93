package entity

import (
	"time"

	"github.com/dharmik200817/milkmate-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BulkEntrySession is the DB-backed cursor for the round-entry
// workflow: one pass over the customer list for a delivery date,
// prompting for each customer's quantity before advancing. Persisting
// the session lets a reloaded page resume where it left off.
type BulkEntrySession struct {
	ID           uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID            `gorm:"type:uuid;not null;index" json:"user_id"`
	DeliveryDate time.Time            `gorm:"type:date;not null" json:"delivery_date"`
	CustomerIDs  []uuid.UUID          `gorm:"serializer:json;type:jsonb;not null" json:"customer_ids"`
	CurrentIndex int                  `gorm:"not null;default:0" json:"current_index"`
	Entered      int                  `gorm:"not null;default:0" json:"entered"`
	Skipped      int                  `gorm:"not null;default:0" json:"skipped"`
	Status       enum.BulkEntryStatus `gorm:"size:20;not null;default:active" json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new session
func (s *BulkEntrySession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BulkEntrySession model
func (BulkEntrySession) TableName() string {
	return "bulk_entry_sessions"
}

// Done reports whether the cursor has walked past the last customer.
func (s *BulkEntrySession) Done() bool {
	return s.CurrentIndex >= len(s.CustomerIDs)
}

// CurrentCustomerID returns the customer the cursor points at, or
// uuid.Nil when the session is done.
func (s *BulkEntrySession) CurrentCustomerID() uuid.UUID {
	if s.Done() || s.CurrentIndex < 0 {
		return uuid.Nil
	}
	return s.CustomerIDs[s.CurrentIndex]
}
