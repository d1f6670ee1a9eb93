package repository

import (
	"context"

	"github.com/dharmik200817/milkmate-api/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerBalanceSummary is one row of the per-customer aggregate:
// lifetime delivery charges, lifetime payments, and the derived
// pending amount, computed server-side in a single query.
type CustomerBalanceSummary struct {
	CustomerID      uuid.UUID       `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	Phone           *string         `json:"phone,omitempty"`
	DeliveriesTotal decimal.Decimal `json:"deliveries_total"`
	PaymentsTotal   decimal.Decimal `json:"payments_total"`
	PendingAmount   decimal.Decimal `json:"pending_amount"`
}

// BalanceRepository defines the interface for the cached balance counter
type BalanceRepository interface {
	GetByCustomer(ctx context.Context, customerID uuid.UUID) (*entity.CustomerBalance, error)
	// Set overwrites the counter with an absolute value (upsert).
	Set(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) error
	// ListSummaries aggregates deliveries and payments per customer.
	ListSummaries(ctx context.Context) ([]CustomerBalanceSummary, error)
}

// DashboardStats is the aggregate snapshot shown on the home screen.
type DashboardStats struct {
	TodayDeliveries  int64           `json:"today_deliveries"`
	TodayLiters      decimal.Decimal `json:"today_liters"`
	MonthRevenue     decimal.Decimal `json:"month_revenue"`
	MonthPayments    decimal.Decimal `json:"month_payments"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	ActiveCustomers  int64           `json:"active_customers"`
}

// TopDebtor is one entry of the highest-outstanding customer list.
type TopDebtor struct {
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
}

// StatsRepository defines the interface for dashboard aggregates
type StatsRepository interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
	GetTopDebtors(ctx context.Context, limit int) ([]TopDebtor, error)
}

// BulkEntryRepository defines the interface for bulk entry sessions
type BulkEntryRepository interface {
	Create(ctx context.Context, session *entity.BulkEntrySession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.BulkEntrySession, error)
	// GetActiveForUser returns the user's open session, or nil.
	GetActiveForUser(ctx context.Context, userID uuid.UUID) (*entity.BulkEntrySession, error)
	Update(ctx context.Context, session *entity.BulkEntrySession) error
}
