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

type deliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository creates a new delivery record repository
func NewDeliveryRepository(db *gorm.DB) domainRepo.DeliveryRepository {
	return &deliveryRepository{db: db}
}

// applyBalanceDelta adjusts the customer's cached pending balance
// inside the caller's transaction, clamping at zero. Runs an update
// first and falls back to an insert for customers without a row yet.
func applyBalanceDelta(tx *gorm.DB, customerID uuid.UUID, delta decimal.Decimal) error {
	res := tx.Model(&entity.CustomerBalance{}).
		Where("customer_id = ?", customerID).
		Update("pending_amount", gorm.Expr("GREATEST(pending_amount + ?, 0)", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		amount := delta
		if amount.IsNegative() {
			amount = decimal.Zero
		}
		return tx.Create(&entity.CustomerBalance{
			CustomerID:    customerID,
			PendingAmount: amount,
		}).Error
	}
	return nil
}

func (r *deliveryRepository) Create(ctx context.Context, delivery *entity.DeliveryRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Grocery items ride along via the association.
		if err := tx.Create(delivery).Error; err != nil {
			return err
		}
		return applyBalanceDelta(tx, delivery.CustomerID, delivery.TotalAmount)
	})
}

func (r *deliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DeliveryRecord, error) {
	var delivery entity.DeliveryRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("MilkType").
		First(&delivery, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &delivery, err
}

func (r *deliveryRepository) Update(ctx context.Context, delivery *entity.DeliveryRecord, previousTotal decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Replace the grocery items wholesale; their lifecycle is bound
		// to the parent record.
		if err := tx.Where("delivery_record_id = ?", delivery.ID).
			Delete(&entity.GroceryItem{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(delivery).Error; err != nil {
			return err
		}
		return applyBalanceDelta(tx, delivery.CustomerID, delivery.TotalAmount.Sub(previousTotal))
	})
}

func (r *deliveryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var delivery entity.DeliveryRecord
		if err := tx.First(&delivery, "id = ?", id).Error; err != nil {
			return err
		}
		// Cascade is manual: items first, then the record.
		if err := tx.Where("delivery_record_id = ?", id).
			Delete(&entity.GroceryItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.DeliveryRecord{}, "id = ?", id).Error; err != nil {
			return err
		}
		return applyBalanceDelta(tx, delivery.CustomerID, delivery.TotalAmount.Neg())
	})
}

func (r *deliveryRepository) List(ctx context.Context, filter domainRepo.DeliveryFilter, params *pagination.PaginationParams) ([]entity.DeliveryRecord, int64, error) {
	var deliveries []entity.DeliveryRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.DeliveryRecord{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.From != nil {
		query = query.Where("delivery_date >= ?", filter.From.Format("2006-01-02"))
	}
	if filter.To != nil {
		query = query.Where("delivery_date < ?", filter.To.Format("2006-01-02"))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Preload("Items").Preload("MilkType").
		Offset(params.Offset()).Limit(params.PerPage).
		Order("delivery_date DESC, created_at DESC").
		Find(&deliveries).Error

	return deliveries, total, err
}

func (r *deliveryRepository) ListForMonth(ctx context.Context, customerID uuid.UUID, from, to time.Time) ([]entity.DeliveryRecord, error) {
	var deliveries []entity.DeliveryRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ? AND delivery_date >= ? AND delivery_date < ?",
			customerID, from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("delivery_date ASC").
		Find(&deliveries).Error
	return deliveries, err
}

func (r *deliveryRepository) LatestForCustomer(ctx context.Context, customerID uuid.UUID) (*entity.DeliveryRecord, error) {
	var delivery entity.DeliveryRecord
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("delivery_date DESC, created_at DESC").
		First(&delivery).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &delivery, err
}

func (r *deliveryRepository) SumTotalBefore(ctx context.Context, customerID uuid.UUID, bound time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&entity.DeliveryRecord{}).
		Where("customer_id = ? AND delivery_date < ?", customerID, bound.Format("2006-01-02")).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&sum).Error
	return sum, err
}
