package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmik200817/milkmate-api/internal/domain/enum"
)

type bulkEntryFixture struct {
	svc        *BulkEntryService
	sessions   *fakeBulkEntryRepo
	customers  *fakeCustomerRepo
	deliveries *fakeDeliveryRepo
	milkTypes  *fakeMilkTypeRepo
	userID     uuid.UUID
}

func newBulkEntryFixture(policy enum.BulkEntryTerminalPolicy) *bulkEntryFixture {
	customers := newFakeCustomerRepo()
	deliveries := newFakeDeliveryRepo()
	milkTypes := newFakeMilkTypeRepo()
	sessions := newFakeBulkEntryRepo()
	deliverySvc := NewDeliveryService(deliveries, customers, milkTypes)
	return &bulkEntryFixture{
		svc:        NewBulkEntryService(sessions, customers, deliveries, deliverySvc, policy),
		sessions:   sessions,
		customers:  customers,
		deliveries: deliveries,
		milkTypes:  milkTypes,
		userID:     uuid.New(),
	}
}

func TestBulkEntryStartWalksActiveCustomersByName(t *testing.T) {
	f := newBulkEntryFixture(enum.BulkEntryTerminalComplete)
	ctx := context.Background()

	f.customers.add("Charlie")
	alice := f.customers.add("Alice")
	inactive := f.customers.add("Bob")
	inactive.IsActive = false

	date := time.Date(2026, time.March, 5, 14, 30, 0, 0, time.UTC)
	prompt, err := f.svc.Start(ctx, f.userID, date)
	require.NoError(t, err)

	assert.Len(t, prompt.Session.CustomerIDs, 2)
	assert.Equal(t, alice.ID, prompt.Session.CurrentCustomerID())
	require.NotNil(t, prompt.Customer)
	assert.Equal(t, "Alice", prompt.Customer.Name)
	assert.Equal(t, enum.BulkEntryStatusActive, prompt.Session.Status)

	// The session date is stored at day granularity.
	assert.Equal(t, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC), prompt.Session.DeliveryDate)
}

func TestBulkEntryStartWithNoActiveCustomers(t *testing.T) {
	f := newBulkEntryFixture(enum.BulkEntryTerminalComplete)

	_, err := f.svc.Start(context.Background(), f.userID, time.Now())
	assert.Error(t, err)
}

func TestBulkEntryStartCompletesPreviousSession(t *testing.T) {
	f := newBulkEntryFixture(enum.BulkEntryTerminalComplete)
	ctx := context.Background()
	f.customers.add("Alice")

	first, err := f.svc.Start(ctx, f.userID, time.Now())
	require.NoError(t, err)

	second, err := f.svc.Start(ctx, f.userID, time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, first.Session.ID, second.Session.ID)

	stale, err := f.sessions.GetByID(ctx, first.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.BulkEntryStatusCompleted, stale.Status)
}

func TestBulkEntryEnterRecordsDeliveryAndAdvances(t *testing.T) {
	f := newBulkEntryFixture(enum.BulkEntryTerminalComplete)
	ctx := context.Background()

	f.customers.add("Alice")
	bob := f.customers.add("Bob")
	cow := f.milkTypes.add("Cow", decimal.NewFromInt(55))

	date := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	prompt, err := f.svc.Start(ctx, f.userID, date)
	require.NoError(t, err)
	alice := prompt.Customer

	prompt, err = f.svc.Enter(ctx, &EnterInput{
		UserID:     f.userID,
		MilkTypeID: &cow.ID,
		Quantity:   decimal.RequireFromString("1.5"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, prompt.Session.Entered)
	assert.Equal(t, bob.ID, prompt.Session.CurrentCustomerID())

	recorded, err := f.deliveries.LatestForCustomer(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, recorded)
	assert.Equal(t, date, recorded.DeliveryDate)
	assert.True(t, recorded.TotalAmount.Equal(decimal.RequireFromString("82.50")))

	// The delivery went through the normal create path, so the balance
	// counter was credited too.
	assert.True(t, f.deliveries.balances[alice.ID].Equal(decimal.RequireFromString("82.50")))
}

func TestBulkEntrySkipAdvancesWithoutDelivery(t *testing.T) {
	f := newBulkEntryFixture(enum.BulkEntryTerminalComplete)
	ctx := context.Background()
	alice := f.customers.add("Alice")
	f.customers.add("Bob")

	_, err := f.svc.Start(ctx, f.userID, time.Now())
	require.NoError(t, err)

	prompt, err := f.svc.Skip(ctx, f.userID)
	require.NoError(t, err)

	assert.Equal(t, 1, prompt.Session.Skipped)
	assert.Equal(t, 0, prompt.Session.Entered)
	assert.Empty(t, f.deliveries.deliveries)
	assert.True(t, f.deliveries.balances[alice.ID].IsZero())
}

func TestBulkEntryPreviousClampsAtFirstCustomer(t *testing.T) {
	f := newBulkEntryFixture(enum.BulkEntryTerminalComplete)
	ctx := context.Background()
	f.customers.add("Alice")
	f.customers.add("Bob")

	_, err := f.svc.Start(ctx, f.userID, time.Now())
	require.NoError(t, err)

	prompt, err := f.svc.Previous(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, prompt.Session.CurrentIndex)

	_, err = f.svc.Skip(ctx, f.userID)
	require.NoError(t, err)
	prompt, err = f.svc.Previous(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, prompt.Session.CurrentIndex)
}

func TestBulkEntryCompletesAtEndOfList(t *testing.T) {
	f := newBulkEntryFixture(enum.BulkEntryTerminalComplete)
	ctx := context.Background()
	f.customers.add("Alice")

	_, err := f.svc.Start(ctx, f.userID, time.Now())
	require.NoError(t, err)

	prompt, err := f.svc.Skip(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, enum.BulkEntryStatusCompleted, prompt.Session.Status)
	assert.Nil(t, prompt.Customer)

	// A completed session cannot be resumed.
	_, err = f.svc.Resume(ctx, f.userID)
	assert.Error(t, err)
}

func TestBulkEntryWrapPolicyResetsCursor(t *testing.T) {
	f := newBulkEntryFixture(enum.BulkEntryTerminalWrap)
	ctx := context.Background()
	alice := f.customers.add("Alice")
	f.customers.add("Bob")

	_, err := f.svc.Start(ctx, f.userID, time.Now())
	require.NoError(t, err)

	_, err = f.svc.Skip(ctx, f.userID)
	require.NoError(t, err)
	prompt, err := f.svc.Skip(ctx, f.userID)
	require.NoError(t, err)

	assert.Equal(t, enum.BulkEntryStatusActive, prompt.Session.Status)
	assert.Equal(t, 0, prompt.Session.CurrentIndex)
	require.NotNil(t, prompt.Customer)
	assert.Equal(t, alice.ID, prompt.Customer.ID)
}

func TestBulkEntryPrefillFromLatestDelivery(t *testing.T) {
	f := newBulkEntryFixture(enum.BulkEntryTerminalComplete)
	ctx := context.Background()
	alice := f.customers.add("Alice")
	cow := f.milkTypes.add("Cow", decimal.NewFromInt(55))

	deliverySvc := NewDeliveryService(f.deliveries, f.customers, f.milkTypes)
	evening := enum.TimeOfDayEvening
	_, err := deliverySvc.CreateDelivery(ctx, &CreateDeliveryInput{
		UserID:       f.userID,
		CustomerID:   alice.ID,
		MilkTypeID:   &cow.ID,
		DeliveryDate: time.Now().AddDate(0, 0, -1),
		TimeOfDay:    &evening,
		Quantity:     decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	prompt, err := f.svc.Start(ctx, f.userID, time.Now())
	require.NoError(t, err)

	require.NotNil(t, prompt.Prefill)
	assert.Equal(t, cow.ID, *prompt.Prefill.MilkTypeID)
	assert.True(t, prompt.Prefill.Quantity.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, enum.TimeOfDayEvening, prompt.Prefill.TimeOfDay)
}

func TestBulkEntryPromptForDeletedCustomerIsEmpty(t *testing.T) {
	f := newBulkEntryFixture(enum.BulkEntryTerminalComplete)
	ctx := context.Background()
	alice := f.customers.add("Alice")
	f.customers.add("Bob")

	_, err := f.svc.Start(ctx, f.userID, time.Now())
	require.NoError(t, err)

	require.NoError(t, f.customers.Delete(ctx, alice.ID))

	prompt, err := f.svc.Resume(ctx, f.userID)
	require.NoError(t, err)
	assert.Nil(t, prompt.Customer)
	assert.Nil(t, prompt.Prefill)

	// The operator skips past the gap.
	prompt, err = f.svc.Skip(ctx, f.userID)
	require.NoError(t, err)
	require.NotNil(t, prompt.Customer)
	assert.Equal(t, "Bob", prompt.Customer.Name)
}

func TestBulkEntryFinishClosesEarly(t *testing.T) {
	f := newBulkEntryFixture(enum.BulkEntryTerminalComplete)
	ctx := context.Background()
	f.customers.add("Alice")
	f.customers.add("Bob")

	_, err := f.svc.Start(ctx, f.userID, time.Now())
	require.NoError(t, err)

	session, err := f.svc.Finish(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, enum.BulkEntryStatusCompleted, session.Status)

	_, err = f.svc.Resume(ctx, f.userID)
	assert.Error(t, err)
}
