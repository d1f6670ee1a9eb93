package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dharmik200817/milkmate-api/internal/domain/entity"
	"github.com/dharmik200817/milkmate-api/internal/domain/repository"
	"github.com/dharmik200817/milkmate-api/pkg/apperror"
)

// MilkTypeService handles milk type reference data
type MilkTypeService struct {
	milkTypeRepo repository.MilkTypeRepository
}

// NewMilkTypeService creates a new milk type service
func NewMilkTypeService(milkTypeRepo repository.MilkTypeRepository) *MilkTypeService {
	return &MilkTypeService{milkTypeRepo: milkTypeRepo}
}

// CreateMilkTypeInput represents the create milk type input
type CreateMilkTypeInput struct {
	Name          string
	PricePerLiter decimal.Decimal
	Description   *string
}

// CreateMilkType creates a new milk type
func (s *MilkTypeService) CreateMilkType(ctx context.Context, input *CreateMilkTypeInput) (*entity.MilkType, error) {
	if !input.PricePerLiter.IsPositive() {
		return nil, apperror.NewBadRequestError("Price per liter must be greater than zero")
	}

	existing, err := s.milkTypeRepo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A milk type with this name already exists")
	}

	milkType := &entity.MilkType{
		Name:          input.Name,
		PricePerLiter: input.PricePerLiter.Round(2),
		Description:   input.Description,
	}

	if err := s.milkTypeRepo.Create(ctx, milkType); err != nil {
		return nil, err
	}

	return milkType, nil
}

// GetMilkType retrieves a milk type by ID
func (s *MilkTypeService) GetMilkType(ctx context.Context, id uuid.UUID) (*entity.MilkType, error) {
	milkType, err := s.milkTypeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if milkType == nil {
		return nil, apperror.NewNotFoundError("Milk type")
	}
	return milkType, nil
}

// ListMilkTypes lists all milk types
func (s *MilkTypeService) ListMilkTypes(ctx context.Context) ([]entity.MilkType, error) {
	return s.milkTypeRepo.List(ctx)
}

// UpdateMilkTypeInput represents the update milk type input
type UpdateMilkTypeInput struct {
	ID            uuid.UUID
	Name          *string
	PricePerLiter *decimal.Decimal
	Description   *string
}

// UpdateMilkType updates a milk type. Price changes apply to future
// deliveries only; existing records keep their snapshotted price.
func (s *MilkTypeService) UpdateMilkType(ctx context.Context, input *UpdateMilkTypeInput) (*entity.MilkType, error) {
	milkType, err := s.milkTypeRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if milkType == nil {
		return nil, apperror.NewNotFoundError("Milk type")
	}

	if input.Name != nil && *input.Name != milkType.Name {
		existing, err := s.milkTypeRepo.GetByName(ctx, *input.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != milkType.ID {
			return nil, apperror.NewConflictError("A milk type with this name already exists")
		}
		milkType.Name = *input.Name
	}
	if input.PricePerLiter != nil {
		if !input.PricePerLiter.IsPositive() {
			return nil, apperror.NewBadRequestError("Price per liter must be greater than zero")
		}
		milkType.PricePerLiter = input.PricePerLiter.Round(2)
	}
	if input.Description != nil {
		milkType.Description = input.Description
	}

	if err := s.milkTypeRepo.Update(ctx, milkType); err != nil {
		return nil, err
	}

	return milkType, nil
}

// DeleteMilkType soft-deletes a milk type
func (s *MilkTypeService) DeleteMilkType(ctx context.Context, id uuid.UUID) error {
	milkType, err := s.milkTypeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if milkType == nil {
		return apperror.NewNotFoundError("Milk type")
	}

	return s.milkTypeRepo.Delete(ctx, id)
}
