package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dharmik200817/milkmate-api/internal/domain/entity"
	"github.com/dharmik200817/milkmate-api/internal/domain/enum"
	"github.com/dharmik200817/milkmate-api/internal/domain/repository"
	"github.com/dharmik200817/milkmate-api/pkg/apperror"
	"github.com/dharmik200817/milkmate-api/pkg/pagination"
)

// DeliveryService handles delivery record operations
type DeliveryService struct {
	deliveryRepo repository.DeliveryRepository
	customerRepo repository.CustomerRepository
	milkTypeRepo repository.MilkTypeRepository
}

// NewDeliveryService creates a new delivery service
func NewDeliveryService(
	deliveryRepo repository.DeliveryRepository,
	customerRepo repository.CustomerRepository,
	milkTypeRepo repository.MilkTypeRepository,
) *DeliveryService {
	return &DeliveryService{
		deliveryRepo: deliveryRepo,
		customerRepo: customerRepo,
		milkTypeRepo: milkTypeRepo,
	}
}

// GroceryItemInput is one grocery line on a delivery. Price is the
// line total, not a unit price.
type GroceryItemInput struct {
	Name        string
	Quantity    decimal.Decimal
	Unit        string
	Price       decimal.Decimal
	Description *string
}

// CreateDeliveryInput represents the create delivery input
type CreateDeliveryInput struct {
	UserID       uuid.UUID
	CustomerID   uuid.UUID
	MilkTypeID   *uuid.UUID
	DeliveryDate time.Time
	TimeOfDay    *enum.TimeOfDay
	Quantity     decimal.Decimal
	// PriceOverride, when set, replaces the milk type's current price
	// for this record only.
	PriceOverride *decimal.Decimal
	Notes         string
	Items         []GroceryItemInput
}

// CreateDelivery records one delivery visit. Amounts are computed here
// and snapshotted on the record; the repository credits the customer's
// pending balance in the same transaction.
func (s *DeliveryService) CreateDelivery(ctx context.Context, input *CreateDeliveryInput) (*entity.DeliveryRecord, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Quantity.IsNegative() {
		return nil, apperror.NewBadRequestError("Quantity cannot be negative")
	}
	if input.Quantity.IsZero() && len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("A delivery needs a milk quantity or at least one grocery item")
	}

	price := decimal.Zero
	if input.Quantity.IsPositive() {
		if input.MilkTypeID == nil {
			return nil, apperror.NewBadRequestError("Milk type is required when quantity is set")
		}
		milkType, err := s.milkTypeRepo.GetByID(ctx, *input.MilkTypeID)
		if err != nil {
			return nil, err
		}
		if milkType == nil {
			return nil, apperror.NewNotFoundError("Milk type")
		}
		price = milkType.PricePerLiter
		if input.PriceOverride != nil {
			if !input.PriceOverride.IsPositive() {
				return nil, apperror.NewBadRequestError("Price override must be greater than zero")
			}
			price = *input.PriceOverride
		}
	}

	items, groceryAmount, err := buildGroceryItems(input.Items)
	if err != nil {
		return nil, err
	}

	timeOfDay := enum.TimeOfDayFromNotes(input.Notes)
	if input.TimeOfDay != nil {
		if !input.TimeOfDay.Valid() {
			return nil, apperror.NewBadRequestError("Invalid time of day")
		}
		timeOfDay = *input.TimeOfDay
	}

	milkAmount := input.Quantity.Mul(price).Round(2)

	delivery := &entity.DeliveryRecord{
		UserID:        input.UserID,
		CustomerID:    input.CustomerID,
		MilkTypeID:    input.MilkTypeID,
		DeliveryDate:  dateOnly(input.DeliveryDate),
		TimeOfDay:     timeOfDay,
		Quantity:      input.Quantity,
		PricePerLiter: price.Round(2),
		MilkAmount:    milkAmount,
		GroceryAmount: groceryAmount,
		TotalAmount:   milkAmount.Add(groceryAmount),
		Notes:         input.Notes,
		Items:         items,
	}

	if err := s.deliveryRepo.Create(ctx, delivery); err != nil {
		return nil, err
	}

	return delivery, nil
}

// GetDelivery retrieves a delivery record by ID
func (s *DeliveryService) GetDelivery(ctx context.Context, id uuid.UUID) (*entity.DeliveryRecord, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, apperror.NewNotFoundError("Delivery record")
	}
	return delivery, nil
}

// ListDeliveries lists delivery records with optional filters
func (s *DeliveryService) ListDeliveries(ctx context.Context, filter repository.DeliveryFilter, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.DeliveryRecord], error) {
	deliveries, total, err := s.deliveryRepo.List(ctx, filter, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(deliveries, pag), nil
}

// UpdateDeliveryInput represents the update delivery input
type UpdateDeliveryInput struct {
	ID            uuid.UUID
	MilkTypeID    *uuid.UUID
	DeliveryDate  *time.Time
	TimeOfDay     *enum.TimeOfDay
	Quantity      *decimal.Decimal
	PriceOverride *decimal.Decimal
	Notes         *string
	// Items, when non-nil, replaces the grocery lines wholesale.
	Items []GroceryItemInput
}

// UpdateDelivery edits a delivery record and recomputes its amounts.
// The balance counter is adjusted by the difference between the old
// and new totals inside the repository transaction.
func (s *DeliveryService) UpdateDelivery(ctx context.Context, input *UpdateDeliveryInput) (*entity.DeliveryRecord, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, apperror.NewNotFoundError("Delivery record")
	}

	previousTotal := delivery.TotalAmount

	if input.DeliveryDate != nil {
		delivery.DeliveryDate = dateOnly(*input.DeliveryDate)
	}
	if input.TimeOfDay != nil {
		if !input.TimeOfDay.Valid() {
			return nil, apperror.NewBadRequestError("Invalid time of day")
		}
		delivery.TimeOfDay = *input.TimeOfDay
	}
	if input.Notes != nil {
		delivery.Notes = *input.Notes
	}
	if input.Quantity != nil {
		if input.Quantity.IsNegative() {
			return nil, apperror.NewBadRequestError("Quantity cannot be negative")
		}
		delivery.Quantity = *input.Quantity
	}
	if input.MilkTypeID != nil {
		milkType, err := s.milkTypeRepo.GetByID(ctx, *input.MilkTypeID)
		if err != nil {
			return nil, err
		}
		if milkType == nil {
			return nil, apperror.NewNotFoundError("Milk type")
		}
		delivery.MilkTypeID = input.MilkTypeID
		delivery.PricePerLiter = milkType.PricePerLiter.Round(2)
	}
	if input.PriceOverride != nil {
		if !input.PriceOverride.IsPositive() {
			return nil, apperror.NewBadRequestError("Price override must be greater than zero")
		}
		delivery.PricePerLiter = input.PriceOverride.Round(2)
	}
	if input.Items != nil {
		items, groceryAmount, err := buildGroceryItems(input.Items)
		if err != nil {
			return nil, err
		}
		for i := range items {
			items[i].DeliveryRecordID = delivery.ID
		}
		delivery.Items = items
		delivery.GroceryAmount = groceryAmount
	}

	if delivery.Quantity.IsPositive() && delivery.MilkTypeID == nil {
		return nil, apperror.NewBadRequestError("Milk type is required when quantity is set")
	}
	if delivery.Quantity.IsZero() && len(delivery.Items) == 0 {
		return nil, apperror.NewBadRequestError("A delivery needs a milk quantity or at least one grocery item")
	}

	delivery.MilkAmount = delivery.Quantity.Mul(delivery.PricePerLiter).Round(2)
	delivery.TotalAmount = delivery.MilkAmount.Add(delivery.GroceryAmount)

	if err := s.deliveryRepo.Update(ctx, delivery, previousTotal); err != nil {
		return nil, err
	}

	return delivery, nil
}

// DeleteDelivery removes a delivery record. The customer's pending
// balance is debited by the record's total in the same transaction.
func (s *DeliveryService) DeleteDelivery(ctx context.Context, id uuid.UUID) error {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if delivery == nil {
		return apperror.NewNotFoundError("Delivery record")
	}

	return s.deliveryRepo.Delete(ctx, id)
}

func buildGroceryItems(inputs []GroceryItemInput) ([]entity.GroceryItem, decimal.Decimal, error) {
	items := make([]entity.GroceryItem, 0, len(inputs))
	total := decimal.Zero
	for _, in := range inputs {
		if in.Name == "" {
			return nil, decimal.Zero, apperror.NewBadRequestError("Grocery item name is required")
		}
		if in.Price.IsNegative() {
			return nil, decimal.Zero, apperror.NewBadRequestError("Grocery item price cannot be negative")
		}
		qty := in.Quantity
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}
		// Sum the rounded line prices so the stored total always
		// matches the stored lines.
		price := in.Price.Round(2)
		items = append(items, entity.GroceryItem{
			Name:        in.Name,
			Quantity:    qty,
			Unit:        in.Unit,
			Price:       price,
			Description: in.Description,
		})
		total = total.Add(price)
	}
	return items, total, nil
}

// dateOnly truncates a timestamp to its calendar date. Delivery and
// payment dates are stored at day granularity.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
