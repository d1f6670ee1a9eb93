package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmik200817/milkmate-api/internal/domain/entity"
	"github.com/dharmik200817/milkmate-api/internal/domain/enum"
)

type balanceFixture struct {
	svc        *BalanceService
	customers  *fakeCustomerRepo
	deliveries *fakeDeliveryRepo
	payments   *fakePaymentRepo
}

func newBalanceFixture() *balanceFixture {
	customers := newFakeCustomerRepo()
	deliveries := newFakeDeliveryRepo()
	payments := newFakePaymentRepo(deliveries)
	balances := &fakeBalanceRepo{delivery: deliveries}
	return &balanceFixture{
		svc:        NewBalanceService(balances, deliveries, payments, customers),
		customers:  customers,
		deliveries: deliveries,
		payments:   payments,
	}
}

func (f *balanceFixture) deliver(t *testing.T, customerID uuid.UUID, date time.Time, amount string) {
	t.Helper()
	total := decimal.RequireFromString(amount)
	err := f.deliveries.Create(context.Background(), &entity.DeliveryRecord{
		UserID:       uuid.New(),
		CustomerID:   customerID,
		DeliveryDate: date,
		Quantity:     decimal.NewFromInt(1),
		MilkAmount:   total,
		TotalAmount:  total,
	})
	require.NoError(t, err)
}

func (f *balanceFixture) pay(t *testing.T, customerID uuid.UUID, date time.Time, amount string) {
	t.Helper()
	err := f.payments.Create(context.Background(), &entity.Payment{
		UserID:      uuid.New(),
		CustomerID:  customerID,
		Amount:      decimal.RequireFromString(amount),
		PaymentDate: date,
		Method:      enum.PaymentMethodCash,
	})
	require.NoError(t, err)
}

func TestGetCurrentPendingWithoutBalanceRow(t *testing.T) {
	f := newBalanceFixture()
	alice := f.customers.add("Alice")

	pending, err := f.svc.GetCurrentPending(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.True(t, pending.IsZero())

	_, err = f.svc.GetCurrentPending(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestGetPendingBeforeFloorsAtZero(t *testing.T) {
	f := newBalanceFixture()
	ctx := context.Background()
	alice := f.customers.add("Alice")

	jan := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	f.deliver(t, alice.ID, jan, "300")
	f.pay(t, alice.ID, jan.AddDate(0, 0, 5), "500")

	// Overpayment does not go negative.
	pending, err := f.svc.GetPendingBefore(ctx, alice.ID, feb)
	require.NoError(t, err)
	assert.True(t, pending.IsZero())

	// Rows on or after the bound are excluded.
	f.deliver(t, alice.ID, feb, "100")
	pending, err = f.svc.GetPendingBefore(ctx, alice.ID, feb)
	require.NoError(t, err)
	assert.True(t, pending.IsZero())

	pending, err = f.svc.GetPendingBefore(ctx, alice.ID, feb.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.True(t, pending.Equal(decimal.RequireFromString("100")))
}

func TestRecomputeRepairsCounter(t *testing.T) {
	f := newBalanceFixture()
	ctx := context.Background()
	alice := f.customers.add("Alice")

	f.deliver(t, alice.ID, time.Now().AddDate(0, 0, -3), "250")
	f.pay(t, alice.ID, time.Now().AddDate(0, 0, -1), "100")

	// Corrupt the counter, then rebuild it from the rows.
	f.deliveries.balances[alice.ID] = decimal.RequireFromString("9999")

	pending, err := f.svc.Recompute(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, pending.Equal(decimal.RequireFromString("150")))

	current, err := f.svc.GetCurrentPending(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, current.Equal(decimal.RequireFromString("150")))
}

func TestClearBalanceRecordsSettlementPayment(t *testing.T) {
	f := newBalanceFixture()
	ctx := context.Background()
	alice := f.customers.add("Alice")
	userID := uuid.New()

	// Nothing outstanding yet.
	_, err := f.svc.ClearBalance(ctx, userID, alice.ID, nil)
	assert.Error(t, err)

	f.deliver(t, alice.ID, time.Now(), "350")

	payment, err := f.svc.ClearBalance(ctx, userID, alice.ID, nil)
	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(decimal.RequireFromString("350")))
	assert.Equal(t, enum.PaymentMethodOther, payment.Method)
	require.NotNil(t, payment.Notes)
	assert.Equal(t, "Balance cleared", *payment.Notes)

	current, err := f.svc.GetCurrentPending(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, current.IsZero())
}
