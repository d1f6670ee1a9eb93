package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dharmik200817/milkmate-api/internal/domain/entity"
	domainRepo "github.com/dharmik200817/milkmate-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type balanceRepository struct {
	db *gorm.DB
}

// NewBalanceRepository creates a new customer balance repository
func NewBalanceRepository(db *gorm.DB) domainRepo.BalanceRepository {
	return &balanceRepository{db: db}
}

func (r *balanceRepository) GetByCustomer(ctx context.Context, customerID uuid.UUID) (*entity.CustomerBalance, error) {
	var balance entity.CustomerBalance
	err := r.db.WithContext(ctx).First(&balance, "customer_id = ?", customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &balance, err
}

func (r *balanceRepository) Set(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	balance := entity.CustomerBalance{
		CustomerID:    customerID,
		PendingAmount: amount.Round(2),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"pending_amount", "updated_at"}),
	}).Create(&balance).Error
}

// ListSummaries folds lifetime delivery and payment totals per customer
// into one server-side aggregate query.
func (r *balanceRepository) ListSummaries(ctx context.Context) ([]domainRepo.CustomerBalanceSummary, error) {
	var results []domainRepo.CustomerBalanceSummary

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id AS customer_id,
			c.name AS customer_name,
			c.phone AS phone,
			COALESCE(d.total, 0) AS deliveries_total,
			COALESCE(p.total, 0) AS payments_total,
			GREATEST(COALESCE(d.total, 0) - COALESCE(p.total, 0), 0) AS pending_amount
		FROM customers c
		LEFT JOIN (
			SELECT customer_id, SUM(total_amount) AS total
			FROM delivery_records
			WHERE deleted_at IS NULL
			GROUP BY customer_id
		) d ON d.customer_id = c.id
		LEFT JOIN (
			SELECT customer_id, SUM(amount) AS total
			FROM payments
			WHERE deleted_at IS NULL
			GROUP BY customer_id
		) p ON p.customer_id = c.id
		WHERE c.deleted_at IS NULL
		ORDER BY pending_amount DESC, c.name ASC
	`).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new dashboard stats repository
func NewStatsRepository(db *gorm.DB) domainRepo.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) GetDashboardStats(ctx context.Context) (*domainRepo.DashboardStats, error) {
	stats := &domainRepo.DashboardStats{}

	today := time.Now().Format("2006-01-02")
	monthStart := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.Local).Format("2006-01-02")

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS today_deliveries,
			COALESCE(SUM(quantity), 0) AS today_liters
		FROM delivery_records
		WHERE delivery_date = ? AND deleted_at IS NULL
	`, today).Scan(stats).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total_amount), 0)
		FROM delivery_records
		WHERE delivery_date >= ? AND deleted_at IS NULL
	`, monthStart).Scan(&stats.MonthRevenue).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE payment_date >= ? AND deleted_at IS NULL
	`, monthStart).Scan(&stats.MonthPayments).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(pending_amount), 0)
		FROM customer_balances
	`).Scan(&stats.TotalOutstanding).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Model(&entity.Customer{}).
		Where("is_active = ?", true).
		Count(&stats.ActiveCustomers).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *statsRepository) GetTopDebtors(ctx context.Context, limit int) ([]domainRepo.TopDebtor, error) {
	var results []domainRepo.TopDebtor

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id AS customer_id,
			c.name AS customer_name,
			b.pending_amount AS pending_amount
		FROM customer_balances b
		JOIN customers c ON c.id = b.customer_id
		WHERE c.deleted_at IS NULL AND b.pending_amount > 0
		ORDER BY b.pending_amount DESC
		LIMIT ?
	`, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

type bulkEntryRepository struct {
	db *gorm.DB
}

// NewBulkEntryRepository creates a new bulk entry session repository
func NewBulkEntryRepository(db *gorm.DB) domainRepo.BulkEntryRepository {
	return &bulkEntryRepository{db: db}
}

func (r *bulkEntryRepository) Create(ctx context.Context, session *entity.BulkEntrySession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *bulkEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.BulkEntrySession, error) {
	var session entity.BulkEntrySession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *bulkEntryRepository) GetActiveForUser(ctx context.Context, userID uuid.UUID) (*entity.BulkEntrySession, error) {
	var session entity.BulkEntrySession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, "active").
		Order("created_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *bulkEntryRepository) Update(ctx context.Context, session *entity.BulkEntrySession) error {
	return r.db.WithContext(ctx).Save(session).Error
}
