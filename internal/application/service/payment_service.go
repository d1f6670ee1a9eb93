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

// PaymentService handles payment operations
type PaymentService struct {
	paymentRepo  repository.PaymentRepository
	customerRepo repository.CustomerRepository
}

// NewPaymentService creates a new payment service
func NewPaymentService(paymentRepo repository.PaymentRepository, customerRepo repository.CustomerRepository) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
	}
}

// CreatePaymentInput represents the create payment input
type CreatePaymentInput struct {
	UserID      uuid.UUID
	CustomerID  uuid.UUID
	Amount      decimal.Decimal
	PaymentDate time.Time
	Method      enum.PaymentMethod
	Notes       *string
}

// CreatePayment records money received from a customer. The customer's
// pending balance is debited in the same transaction, clamped at zero
// for overpayments.
func (s *PaymentService) CreatePayment(ctx context.Context, input *CreatePaymentInput) (*entity.Payment, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if !input.Amount.IsPositive() {
		return nil, apperror.NewBadRequestError("Payment amount must be greater than zero")
	}

	method := input.Method
	if method == "" {
		method = enum.PaymentMethodCash
	}
	if !method.Valid() {
		return nil, apperror.NewBadRequestError("Unknown payment method")
	}

	payment := &entity.Payment{
		UserID:      input.UserID,
		CustomerID:  input.CustomerID,
		Amount:      input.Amount.Round(2),
		PaymentDate: dateOnly(input.PaymentDate),
		Method:      method,
		Notes:       input.Notes,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return payment, nil
}

// GetPayment retrieves a payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

// ListPayments lists payments, optionally filtered by customer
func (s *PaymentService) ListPayments(ctx context.Context, customerID *uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Payment], error) {
	payments, total, err := s.paymentRepo.List(ctx, customerID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(payments, pag), nil
}

// UpdatePaymentInput represents the update payment input
type UpdatePaymentInput struct {
	ID          uuid.UUID
	Amount      *decimal.Decimal
	PaymentDate *time.Time
	Method      *enum.PaymentMethod
	Notes       *string
}

// UpdatePayment edits a payment. The balance counter is adjusted by
// the amount difference inside the repository transaction.
func (s *PaymentService) UpdatePayment(ctx context.Context, input *UpdatePaymentInput) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}

	previousAmount := payment.Amount

	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return nil, apperror.NewBadRequestError("Payment amount must be greater than zero")
		}
		payment.Amount = input.Amount.Round(2)
	}
	if input.PaymentDate != nil {
		payment.PaymentDate = dateOnly(*input.PaymentDate)
	}
	if input.Method != nil {
		if !input.Method.Valid() {
			return nil, apperror.NewBadRequestError("Unknown payment method")
		}
		payment.Method = *input.Method
	}
	if input.Notes != nil {
		payment.Notes = input.Notes
	}

	if err := s.paymentRepo.Update(ctx, payment, previousAmount); err != nil {
		return nil, err
	}

	return payment, nil
}

// DeletePayment removes a payment and credits the amount back onto the
// customer's pending balance.
func (s *PaymentService) DeletePayment(ctx context.Context, id uuid.UUID) error {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if payment == nil {
		return apperror.NewNotFoundError("Payment")
	}

	return s.paymentRepo.Delete(ctx, id)
}
