package repository

import (
	"context"

	"github.com/dharmik200817/milkmate-api/internal/domain/entity"
	"github.com/dharmik200817/milkmate-api/pkg/pagination"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	GetByName(ctx context.Context, name string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns customers with page-based pagination, optionally
	// filtered by a name/phone search string.
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	// ListWithCursor returns customers using cursor-based pagination.
	ListWithCursor(ctx context.Context, params *pagination.CursorParams, search string) ([]entity.Customer, error)
	// ListActiveIDs returns the ids of all active customers ordered by
	// name, the walk order of a bulk entry round.
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

// MilkTypeRepository defines the interface for milk type reference data
type MilkTypeRepository interface {
	Create(ctx context.Context, milkType *entity.MilkType) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.MilkType, error)
	GetByName(ctx context.Context, name string) (*entity.MilkType, error)
	Update(ctx context.Context, milkType *entity.MilkType) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.MilkType, error)
}
