package repository

import (
	"context"
	"time"

	"github.com/dharmik200817/milkmate-api/internal/domain/entity"
	"github.com/dharmik200817/milkmate-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryFilter narrows delivery listings.
type DeliveryFilter struct {
	CustomerID *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// DeliveryRepository defines the interface for delivery record data
// operations. The mutating calls also maintain the customer balance
// counter inside the same transaction, so a delivery write and its
// balance credit cannot be split by a failure.
type DeliveryRepository interface {
	// Create persists the delivery with its grocery items and credits
	// the customer's pending balance by the delivery total, atomically.
	Create(ctx context.Context, delivery *entity.DeliveryRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DeliveryRecord, error)
	// Update saves the delivery and adjusts the balance counter by the
	// difference between the new and previous totals, atomically.
	Update(ctx context.Context, delivery *entity.DeliveryRecord, previousTotal decimal.Decimal) error
	// Delete removes the delivery and its grocery items and debits the
	// balance counter by the delivery total, atomically.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter DeliveryFilter, params *pagination.PaginationParams) ([]entity.DeliveryRecord, int64, error)
	// ListForMonth returns the customer's deliveries with grocery items
	// preloaded for the half-open range [from, to).
	ListForMonth(ctx context.Context, customerID uuid.UUID, from, to time.Time) ([]entity.DeliveryRecord, error)
	// LatestForCustomer returns the customer's most recent delivery, or
	// nil if they have none. Used to pre-fill bulk entry drafts.
	LatestForCustomer(ctx context.Context, customerID uuid.UUID) (*entity.DeliveryRecord, error)
	// SumTotalBefore sums delivery totals strictly before the bound.
	SumTotalBefore(ctx context.Context, customerID uuid.UUID, bound time.Time) (decimal.Decimal, error)
}

// PaymentRepository defines the interface for payment data operations.
// Like deliveries, payment writes maintain the balance counter in the
// same transaction.
type PaymentRepository interface {
	// Create persists the payment and debits the customer's pending
	// balance (floored at zero), atomically.
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	// Update saves the payment and adjusts the balance counter by the
	// difference between the previous and new amounts, atomically.
	Update(ctx context.Context, payment *entity.Payment, previousAmount decimal.Decimal) error
	// Delete removes the payment and credits the balance counter back,
	// atomically.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, customerID *uuid.UUID, params *pagination.PaginationParams) ([]entity.Payment, int64, error)
	// ListForRange returns the customer's payments in [from, to).
	ListForRange(ctx context.Context, customerID uuid.UUID, from, to time.Time) ([]entity.Payment, error)
	// ListBefore returns up to limit payments strictly before the bound,
	// latest first.
	ListBefore(ctx context.Context, customerID uuid.UUID, bound time.Time, limit int) ([]entity.Payment, error)
	// SumBefore sums payment amounts strictly before the bound.
	SumBefore(ctx context.Context, customerID uuid.UUID, bound time.Time) (decimal.Decimal, error)
}
