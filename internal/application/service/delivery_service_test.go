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

type deliveryFixture struct {
	svc        *DeliveryService
	customers  *fakeCustomerRepo
	deliveries *fakeDeliveryRepo
	milkTypes  *fakeMilkTypeRepo
}

func newDeliveryFixture() *deliveryFixture {
	customers := newFakeCustomerRepo()
	deliveries := newFakeDeliveryRepo()
	milkTypes := newFakeMilkTypeRepo()
	return &deliveryFixture{
		svc:        NewDeliveryService(deliveries, customers, milkTypes),
		customers:  customers,
		deliveries: deliveries,
		milkTypes:  milkTypes,
	}
}

func TestCreateDeliverySnapshotsAmounts(t *testing.T) {
	f := newDeliveryFixture()
	ctx := context.Background()
	alice := f.customers.add("Alice")
	cow := f.milkTypes.add("Cow", decimal.RequireFromString("55"))

	delivery, err := f.svc.CreateDelivery(ctx, &CreateDeliveryInput{
		UserID:       uuid.New(),
		CustomerID:   alice.ID,
		MilkTypeID:   &cow.ID,
		DeliveryDate: time.Date(2026, time.March, 5, 18, 0, 0, 0, time.UTC),
		Quantity:     decimal.RequireFromString("1.5"),
		Items: []GroceryItemInput{
			{Name: "Paneer", Price: decimal.RequireFromString("120")},
			{Name: "Curd", Quantity: decimal.NewFromInt(2), Price: decimal.RequireFromString("60")},
		},
	})
	require.NoError(t, err)

	assert.True(t, delivery.MilkAmount.Equal(decimal.RequireFromString("82.50")))
	assert.True(t, delivery.GroceryAmount.Equal(decimal.RequireFromString("180")))
	assert.True(t, delivery.TotalAmount.Equal(decimal.RequireFromString("262.50")))
	assert.Equal(t, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC), delivery.DeliveryDate)

	// Raising the price list later must not touch the snapshot.
	cow.PricePerLiter = decimal.RequireFromString("70")
	got, err := f.svc.GetDelivery(ctx, delivery.ID)
	require.NoError(t, err)
	assert.True(t, got.MilkAmount.Equal(decimal.RequireFromString("82.50")))
}

func TestCreateDeliveryPriceOverride(t *testing.T) {
	f := newDeliveryFixture()
	ctx := context.Background()
	alice := f.customers.add("Alice")
	cow := f.milkTypes.add("Cow", decimal.RequireFromString("55"))

	override := decimal.RequireFromString("50")
	delivery, err := f.svc.CreateDelivery(ctx, &CreateDeliveryInput{
		UserID:        uuid.New(),
		CustomerID:    alice.ID,
		MilkTypeID:    &cow.ID,
		DeliveryDate:  time.Now(),
		Quantity:      decimal.NewFromInt(2),
		PriceOverride: &override,
	})
	require.NoError(t, err)
	assert.True(t, delivery.PricePerLiter.Equal(decimal.RequireFromString("50")))
	assert.True(t, delivery.TotalAmount.Equal(decimal.RequireFromString("100")))
}

func TestCreateDeliveryValidation(t *testing.T) {
	f := newDeliveryFixture()
	ctx := context.Background()
	alice := f.customers.add("Alice")
	cow := f.milkTypes.add("Cow", decimal.RequireFromString("55"))
	badSlot := enum.TimeOfDay(5)

	cases := []struct {
		name  string
		input *CreateDeliveryInput
	}{
		{
			name: "negative quantity",
			input: &CreateDeliveryInput{
				CustomerID: alice.ID, MilkTypeID: &cow.ID,
				DeliveryDate: time.Now(), Quantity: decimal.RequireFromString("-1"),
			},
		},
		{
			name: "zero quantity with no items",
			input: &CreateDeliveryInput{
				CustomerID: alice.ID, DeliveryDate: time.Now(),
			},
		},
		{
			name: "quantity without milk type",
			input: &CreateDeliveryInput{
				CustomerID: alice.ID, DeliveryDate: time.Now(),
				Quantity: decimal.NewFromInt(1),
			},
		},
		{
			name: "unknown customer",
			input: &CreateDeliveryInput{
				CustomerID: uuid.New(), MilkTypeID: &cow.ID,
				DeliveryDate: time.Now(), Quantity: decimal.NewFromInt(1),
			},
		},
		{
			name: "out of range time of day",
			input: &CreateDeliveryInput{
				CustomerID: alice.ID, MilkTypeID: &cow.ID,
				DeliveryDate: time.Now(), Quantity: decimal.NewFromInt(1),
				TimeOfDay: &badSlot,
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.input.UserID = uuid.New()
			_, err := f.svc.CreateDelivery(ctx, tc.input)
			assert.Error(t, err)
		})
	}
}

func TestCreateDeliveryGroceryOnly(t *testing.T) {
	f := newDeliveryFixture()
	ctx := context.Background()
	alice := f.customers.add("Alice")

	delivery, err := f.svc.CreateDelivery(ctx, &CreateDeliveryInput{
		UserID:       uuid.New(),
		CustomerID:   alice.ID,
		DeliveryDate: time.Now(),
		Items:        []GroceryItemInput{{Name: "Ghee", Price: decimal.RequireFromString("450")}},
	})
	require.NoError(t, err)
	assert.True(t, delivery.MilkAmount.IsZero())
	assert.True(t, delivery.TotalAmount.Equal(decimal.RequireFromString("450")))
	assert.Nil(t, delivery.MilkTypeID)
}

func TestCreateDeliveryTimeOfDayFromNotes(t *testing.T) {
	f := newDeliveryFixture()
	ctx := context.Background()
	alice := f.customers.add("Alice")
	cow := f.milkTypes.add("Cow", decimal.RequireFromString("55"))

	delivery, err := f.svc.CreateDelivery(ctx, &CreateDeliveryInput{
		UserID:       uuid.New(),
		CustomerID:   alice.ID,
		MilkTypeID:   &cow.ID,
		DeliveryDate: time.Now(),
		Quantity:     decimal.NewFromInt(1),
		Notes:        "evening round, gate was locked",
	})
	require.NoError(t, err)
	assert.Equal(t, enum.TimeOfDayEvening, delivery.TimeOfDay)

	// An explicit slot wins over the notes hint.
	morning := enum.TimeOfDayMorning
	delivery, err = f.svc.CreateDelivery(ctx, &CreateDeliveryInput{
		UserID:       uuid.New(),
		CustomerID:   alice.ID,
		MilkTypeID:   &cow.ID,
		DeliveryDate: time.Now(),
		TimeOfDay:    &morning,
		Quantity:     decimal.NewFromInt(1),
		Notes:        "evening round",
	})
	require.NoError(t, err)
	assert.Equal(t, enum.TimeOfDayMorning, delivery.TimeOfDay)
}

func TestUpdateDeliveryAdjustsBalanceByDifference(t *testing.T) {
	f := newDeliveryFixture()
	ctx := context.Background()
	alice := f.customers.add("Alice")
	cow := f.milkTypes.add("Cow", decimal.RequireFromString("55"))

	delivery, err := f.svc.CreateDelivery(ctx, &CreateDeliveryInput{
		UserID:       uuid.New(),
		CustomerID:   alice.ID,
		MilkTypeID:   &cow.ID,
		DeliveryDate: time.Now(),
		Quantity:     decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	require.True(t, f.deliveries.balances[alice.ID].Equal(decimal.RequireFromString("55")))

	qty := decimal.NewFromInt(3)
	updated, err := f.svc.UpdateDelivery(ctx, &UpdateDeliveryInput{ID: delivery.ID, Quantity: &qty})
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(decimal.RequireFromString("165")))
	assert.True(t, f.deliveries.balances[alice.ID].Equal(decimal.RequireFromString("165")))
}

func TestDeleteDeliveryDebitsBalance(t *testing.T) {
	f := newDeliveryFixture()
	ctx := context.Background()
	alice := f.customers.add("Alice")
	cow := f.milkTypes.add("Cow", decimal.RequireFromString("55"))

	delivery, err := f.svc.CreateDelivery(ctx, &CreateDeliveryInput{
		UserID:       uuid.New(),
		CustomerID:   alice.ID,
		MilkTypeID:   &cow.ID,
		DeliveryDate: time.Now(),
		Quantity:     decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteDelivery(ctx, delivery.ID))
	assert.True(t, f.deliveries.balances[alice.ID].IsZero())

	err = f.svc.DeleteDelivery(ctx, delivery.ID)
	assert.Error(t, err)
}

func TestUpdateDeliveryRejectsInvalidTimeOfDay(t *testing.T) {
	f := newDeliveryFixture()
	ctx := context.Background()
	alice := f.customers.add("Alice")
	cow := f.milkTypes.add("Cow", decimal.RequireFromString("55"))

	delivery, err := f.svc.CreateDelivery(ctx, &CreateDeliveryInput{
		UserID:       uuid.New(),
		CustomerID:   alice.ID,
		MilkTypeID:   &cow.ID,
		DeliveryDate: time.Now(),
		Quantity:     decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	badSlot := enum.TimeOfDay(5)
	_, err = f.svc.UpdateDelivery(ctx, &UpdateDeliveryInput{ID: delivery.ID, TimeOfDay: &badSlot})
	assert.Error(t, err)

	// The record keeps its valid slot.
	got, err := f.svc.GetDelivery(ctx, delivery.ID)
	require.NoError(t, err)
	assert.True(t, got.TimeOfDay.Valid())
}

func TestCreateDeliveryGroceryTotalMatchesStoredLines(t *testing.T) {
	f := newDeliveryFixture()
	ctx := context.Background()
	alice := f.customers.add("Alice")

	// Sub-cent inputs round per line; the stored total must equal the
	// sum of the stored line prices.
	delivery, err := f.svc.CreateDelivery(ctx, &CreateDeliveryInput{
		UserID:       uuid.New(),
		CustomerID:   alice.ID,
		DeliveryDate: time.Now(),
		Items: []GroceryItemInput{
			{Name: "Paneer", Price: decimal.RequireFromString("10.005")},
			{Name: "Curd", Price: decimal.RequireFromString("10.005")},
		},
	})
	require.NoError(t, err)

	lineSum := decimal.Zero
	for _, item := range delivery.Items {
		lineSum = lineSum.Add(item.Price)
	}
	assert.True(t, delivery.GroceryAmount.Equal(lineSum))
	assert.True(t, delivery.GroceryAmount.Equal(decimal.RequireFromString("20.02")))
}
