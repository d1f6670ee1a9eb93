package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dharmik200817/milkmate-api/internal/domain/entity"
	domainRepo "github.com/dharmik200817/milkmate-api/internal/domain/repository"
	"github.com/dharmik200817/milkmate-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		return applyBalanceDelta(tx, payment.CustomerID, payment.Amount.Neg())
	})
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *paymentRepository) Update(ctx context.Context, payment *entity.Payment, previousAmount decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(payment).Error; err != nil {
			return err
		}
		// Larger payment -> smaller pending balance.
		return applyBalanceDelta(tx, payment.CustomerID, previousAmount.Sub(payment.Amount))
	})
}

func (r *paymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment entity.Payment
		if err := tx.First(&payment, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.Payment{}, "id = ?", id).Error; err != nil {
			return err
		}
		return applyBalanceDelta(tx, payment.CustomerID, payment.Amount)
	})
}

func (r *paymentRepository) List(ctx context.Context, customerID *uuid.UUID, params *pagination.PaginationParams) ([]entity.Payment, int64, error) {
	var payments []entity.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Payment{})
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("payment_date DESC, created_at DESC").
		Find(&payments).Error

	return payments, total, err
}

func (r *paymentRepository) ListForRange(ctx context.Context, customerID uuid.UUID, from, to time.Time) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND payment_date >= ? AND payment_date < ?",
			customerID, from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("payment_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) ListBefore(ctx context.Context, customerID uuid.UUID, bound time.Time, limit int) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND payment_date < ?", customerID, bound.Format("2006-01-02")).
		Order("payment_date DESC").
		Limit(limit).
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) SumBefore(ctx context.Context, customerID uuid.UUID, bound time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("customer_id = ? AND payment_date < ?", customerID, bound.Format("2006-01-02")).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}
