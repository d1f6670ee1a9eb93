package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dharmik200817/milkmate-api/internal/domain/billing"
	"github.com/dharmik200817/milkmate-api/internal/domain/entity"
	"github.com/dharmik200817/milkmate-api/internal/domain/enum"
	"github.com/dharmik200817/milkmate-api/internal/domain/repository"
	"github.com/dharmik200817/milkmate-api/pkg/apperror"
	"github.com/dharmik200817/milkmate-api/pkg/logger"
)

// BalanceService answers balance questions. Current pending comes from
// the cached counter; date-bounded balances are always recomputed from
// the delivery and payment rows.
type BalanceService struct {
	balanceRepo  repository.BalanceRepository
	deliveryRepo repository.DeliveryRepository
	paymentRepo  repository.PaymentRepository
	customerRepo repository.CustomerRepository
}

// NewBalanceService creates a new balance service
func NewBalanceService(
	balanceRepo repository.BalanceRepository,
	deliveryRepo repository.DeliveryRepository,
	paymentRepo repository.PaymentRepository,
	customerRepo repository.CustomerRepository,
) *BalanceService {
	return &BalanceService{
		balanceRepo:  balanceRepo,
		deliveryRepo: deliveryRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
	}
}

// GetCurrentPending returns the customer's cached pending amount. A
// customer with no balance row simply owes nothing yet.
func (s *BalanceService) GetCurrentPending(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	if customer == nil {
		return decimal.Zero, apperror.NewNotFoundError("Customer")
	}

	balance, err := s.balanceRepo.GetByCustomer(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	if balance == nil {
		return decimal.Zero, nil
	}
	return balance.PendingAmount, nil
}

// GetPendingBefore computes the customer's outstanding balance as of
// the given date (exclusive): deliveries minus payments strictly
// before it, floored at zero.
func (s *BalanceService) GetPendingBefore(ctx context.Context, customerID uuid.UUID, bound time.Time) (decimal.Decimal, error) {
	deliveriesTotal, err := s.deliveryRepo.SumTotalBefore(ctx, customerID, bound)
	if err != nil {
		return decimal.Zero, err
	}
	paymentsTotal, err := s.paymentRepo.SumBefore(ctx, customerID, bound)
	if err != nil {
		return decimal.Zero, err
	}
	return billing.Pending(deliveriesTotal, paymentsTotal), nil
}

// ListSummaries returns the per-customer balance overview computed
// from the source rows in one aggregate query.
func (s *BalanceService) ListSummaries(ctx context.Context) ([]repository.CustomerBalanceSummary, error) {
	return s.balanceRepo.ListSummaries(ctx)
}

// Recompute rebuilds the cached counter from the delivery and payment
// rows. A repair tool; the counter should never drift on its own.
func (s *BalanceService) Recompute(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	if customer == nil {
		return decimal.Zero, apperror.NewNotFoundError("Customer")
	}

	// time.Now far bound covers every row; dates are never in the future.
	farBound := time.Now().AddDate(1, 0, 0)
	pending, err := s.GetPendingBefore(ctx, customerID, farBound)
	if err != nil {
		return decimal.Zero, err
	}

	if err := s.balanceRepo.Set(ctx, customerID, pending); err != nil {
		return decimal.Zero, err
	}

	logger.Log.WithField("customer_id", customerID).
		WithField("pending", pending.String()).
		Info("balance counter recomputed")

	return pending, nil
}

// ClearBalance zeroes a customer's outstanding balance by recording a
// settlement payment for the full pending amount. The route guards
// this behind the admin role.
func (s *BalanceService) ClearBalance(ctx context.Context, userID, customerID uuid.UUID, notes *string) (*entity.Payment, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	pending, err := s.GetCurrentPending(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !pending.IsPositive() {
		return nil, apperror.NewBadRequestError("Customer has no outstanding balance")
	}

	if notes == nil {
		n := "Balance cleared"
		notes = &n
	}

	payment := &entity.Payment{
		UserID:      userID,
		CustomerID:  customerID,
		Amount:      pending,
		PaymentDate: dateOnly(time.Now()),
		Method:      enum.PaymentMethodOther,
		Notes:       notes,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	logger.Log.WithField("customer_id", customerID).
		WithField("amount", pending.String()).
		Warn("balance cleared by settlement payment")

	return payment, nil
}
