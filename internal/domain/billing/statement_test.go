package billing

import (
	"testing"
	"time"

	"github.com/dharmik200817/milkmate-api/internal/domain/entity"
	"github.com/dharmik200817/milkmate-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func testCustomer(name string) *entity.Customer {
	phone := "+91 98765 43210"
	return &entity.Customer{
		ID:      uuid.New(),
		Name:    name,
		Address: "12 Dairy Lane",
		Phone:   &phone,
	}
}

func delivery(c *entity.Customer, day time.Time, slot enum.TimeOfDay, qty, price string, items ...entity.GroceryItem) entity.DeliveryRecord {
	q := d(qty)
	p := d(price)
	milk := q.Mul(p).Round(2)
	grocery := decimal.Zero
	for _, it := range items {
		grocery = grocery.Add(it.Price)
	}
	return entity.DeliveryRecord{
		ID:            uuid.New(),
		CustomerID:    c.ID,
		DeliveryDate:  day,
		TimeOfDay:     slot,
		Quantity:      q,
		PricePerLiter: p,
		MilkAmount:    milk,
		GroceryAmount: grocery.Round(2),
		TotalAmount:   milk.Add(grocery).Round(2),
		Items:         items,
	}
}

func TestPending(t *testing.T) {
	assert.True(t, Pending(d("500"), d("200")).Equal(d("300")))
	assert.True(t, Pending(d("100"), d("150")).IsZero(), "overpayment floors at zero")
	assert.True(t, Pending(decimal.Zero, decimal.Zero).IsZero())
}

func TestMonthBounds(t *testing.T) {
	start, next := MonthBounds(date(2026, time.February, 17))
	assert.Equal(t, date(2026, time.February, 1), start)
	assert.Equal(t, date(2026, time.March, 1), next)
}

// Scenario: one 2L delivery at Rs 55/L plus a Rs 40 grocery item on
// day 5, no prior balance.
func TestBuild_SingleDeliveryWithGrocery(t *testing.T) {
	asha := testCustomer("Asha")
	bread := entity.GroceryItem{Name: "Bread", Quantity: d("1"), Price: d("40")}
	rows := []entity.DeliveryRecord{
		delivery(asha, date(2026, time.August, 5), enum.TimeOfDayMorning, "2", "55", bread),
	}

	st, err := Build(asha, date(2026, time.August, 1), rows, nil, nil, decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, 31, st.DaysInMonth)
	assert.Equal(t, "August 2026", st.PeriodLabel)
	require.Len(t, st.Days, 1)

	day5 := st.DayAt(5)
	require.NotNil(t, day5)
	assert.True(t, day5.Quantity.Equal(d("2")))
	assert.True(t, day5.MilkAmount.Equal(d("110")))
	assert.True(t, day5.GroceryAmount.Equal(d("40")))
	assert.True(t, day5.Total.Equal(d("150")))

	assert.True(t, st.TotalMonthlyAmount.Equal(d("150")))
	assert.True(t, st.GrandTotal.Equal(d("150")))
	assert.Nil(t, st.DayAt(6), "day without delivery is a gap")
}

// Scenario: same month data with Rs 200 carried in from prior months.
func TestBuild_PriorBalanceCarriesIntoGrandTotal(t *testing.T) {
	asha := testCustomer("Asha")
	bread := entity.GroceryItem{Name: "Bread", Quantity: d("1"), Price: d("40")}
	rows := []entity.DeliveryRecord{
		delivery(asha, date(2026, time.August, 5), enum.TimeOfDayMorning, "2", "55", bread),
	}

	st, err := Build(asha, date(2026, time.August, 15), rows, nil, nil, d("200"))
	require.NoError(t, err)

	assert.True(t, st.TotalMonthlyAmount.Equal(d("150")))
	assert.True(t, st.GrandTotal.Equal(d("350")))
}

// Scenario: a Rs 150 payment recorded within the bill month.
func TestBuild_PaymentInMonthReducesClosingBalance(t *testing.T) {
	asha := testCustomer("Asha")
	bread := entity.GroceryItem{Name: "Bread", Quantity: d("1"), Price: d("40")}
	rows := []entity.DeliveryRecord{
		delivery(asha, date(2026, time.August, 5), enum.TimeOfDayMorning, "2", "55", bread),
	}
	payments := []entity.Payment{
		{CustomerID: asha.ID, Amount: d("150"), PaymentDate: date(2026, time.August, 20), Method: enum.PaymentMethodCash},
	}

	st, err := Build(asha, date(2026, time.August, 1), rows, payments, nil, d("200"))
	require.NoError(t, err)

	assert.True(t, st.GrandTotal.Equal(d("350")))
	assert.True(t, st.HasMonthPayment)
	assert.True(t, st.MonthPayments.Equal(d("150")))
	assert.True(t, st.BalanceAfterPayment.Equal(d("200")))
}

// Scenario: two rows on the same day, both evening, 1L and 1.5L at
// Rs 50/L, must merge into a single 2.5L / Rs 125 slot entry.
func TestBuild_SameDaySameSlotRowsMerge(t *testing.T) {
	c := testCustomer("Ravi")
	rows := []entity.DeliveryRecord{
		delivery(c, date(2026, time.August, 10), enum.TimeOfDayEvening, "1", "50"),
		delivery(c, date(2026, time.August, 10), enum.TimeOfDayEvening, "1.5", "50"),
	}

	st, err := Build(c, date(2026, time.August, 1), rows, nil, nil, decimal.Zero)
	require.NoError(t, err)

	day := st.DayAt(10)
	require.NotNil(t, day)
	require.Len(t, day.Slots, 1)
	assert.Equal(t, enum.TimeOfDayEvening, day.Slots[0].Slot)
	assert.True(t, day.Slots[0].Quantity.Equal(d("2.5")))
	assert.True(t, day.Slots[0].MilkAmount.Equal(d("125")))
}

func TestBuild_MergeConcatenatesGroceries(t *testing.T) {
	c := testCustomer("Meena")
	rows := []entity.DeliveryRecord{
		delivery(c, date(2026, time.August, 3), enum.TimeOfDayMorning, "1", "50",
			entity.GroceryItem{Name: "Bread", Quantity: d("1"), Price: d("40")}),
		delivery(c, date(2026, time.August, 3), enum.TimeOfDayMorning, "1", "50",
			entity.GroceryItem{Name: "Eggs", Quantity: d("6"), Unit: "pcs", Price: d("36")}),
	}

	st, err := Build(c, date(2026, time.August, 1), rows, nil, nil, decimal.Zero)
	require.NoError(t, err)

	day := st.DayAt(3)
	require.NotNil(t, day)
	require.Len(t, day.Slots, 1)
	assert.Len(t, day.Slots[0].Groceries, 2)
	assert.True(t, day.Slots[0].GroceryAmount.Equal(d("76")))
	assert.True(t, day.GroceryAmount.Equal(d("76")))
}

func TestBuild_MorningAndEveningOrdered(t *testing.T) {
	c := testCustomer("Meena")
	rows := []entity.DeliveryRecord{
		delivery(c, date(2026, time.August, 8), enum.TimeOfDayEvening, "1", "50"),
		delivery(c, date(2026, time.August, 8), enum.TimeOfDayMorning, "2", "50"),
	}

	st, err := Build(c, date(2026, time.August, 1), rows, nil, nil, decimal.Zero)
	require.NoError(t, err)

	day := st.DayAt(8)
	require.NotNil(t, day)
	require.Len(t, day.Slots, 2)
	assert.Equal(t, enum.TimeOfDayMorning, day.Slots[0].Slot)
	assert.Equal(t, enum.TimeOfDayEvening, day.Slots[1].Slot)
	assert.True(t, day.Quantity.Equal(d("3")))
	assert.True(t, day.Total.Equal(d("150")))
}

// A customer with no rows at all gets an all-gap month and zero
// totals, not an error.
func TestBuild_EmptyMonth(t *testing.T) {
	c := testCustomer("New Customer")
	st, err := Build(c, date(2026, time.February, 1), nil, nil, nil, decimal.Zero)
	require.NoError(t, err)

	assert.Empty(t, st.Days)
	assert.Equal(t, 28, st.DaysInMonth)
	assert.True(t, st.TotalMilk.IsZero())
	assert.True(t, st.TotalMonthlyAmount.IsZero())
	assert.True(t, st.GrandTotal.IsZero())
}

func TestBuild_RejectsRowOutsideMonth(t *testing.T) {
	c := testCustomer("Asha")
	rows := []entity.DeliveryRecord{
		delivery(c, date(2026, time.July, 31), enum.TimeOfDayMorning, "1", "50"),
	}
	_, err := Build(c, date(2026, time.August, 1), rows, nil, nil, decimal.Zero)
	assert.Error(t, err)
}

func TestBuild_NilCustomer(t *testing.T) {
	_, err := Build(nil, date(2026, time.August, 1), nil, nil, nil, decimal.Zero)
	assert.Error(t, err)
}

// Building twice from identical inputs must yield identical output.
func TestBuild_Idempotent(t *testing.T) {
	c := testCustomer("Asha")
	rows := []entity.DeliveryRecord{
		delivery(c, date(2026, time.August, 5), enum.TimeOfDayMorning, "2", "55",
			entity.GroceryItem{Name: "Bread", Quantity: d("1"), Price: d("40")}),
		delivery(c, date(2026, time.August, 12), enum.TimeOfDayEvening, "1.5", "55"),
	}

	first, err := Build(c, date(2026, time.August, 1), rows, nil, nil, d("75"))
	require.NoError(t, err)
	second, err := Build(c, date(2026, time.August, 1), rows, nil, nil, d("75"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuild_PriorPaymentsTrimmedToFiveMostRecent(t *testing.T) {
	c := testCustomer("Asha")
	var prior []entity.Payment
	for day := 1; day <= 7; day++ {
		prior = append(prior, entity.Payment{
			CustomerID:  c.ID,
			Amount:      d("100"),
			PaymentDate: date(2026, time.July, day),
			Method:      enum.PaymentMethodCash,
		})
	}
	// A payment inside the bill month must not leak into the prior list.
	prior = append(prior, entity.Payment{
		CustomerID:  c.ID,
		Amount:      d("999"),
		PaymentDate: date(2026, time.August, 2),
		Method:      enum.PaymentMethodCash,
	})

	st, err := Build(c, date(2026, time.August, 1), nil, nil, prior, decimal.Zero)
	require.NoError(t, err)

	require.Len(t, st.PriorPayments, 5)
	assert.Equal(t, date(2026, time.July, 7), st.PriorPayments[0].Date, "latest first")
	assert.Equal(t, date(2026, time.July, 3), st.PriorPayments[4].Date)
}

func TestTimeOfDayFromNotes(t *testing.T) {
	assert.Equal(t, enum.TimeOfDayEvening, enum.TimeOfDayFromNotes("Evening round"))
	assert.Equal(t, enum.TimeOfDayEvening, enum.TimeOfDayFromNotes("delivered in the EVENING"))
	assert.Equal(t, enum.TimeOfDayMorning, enum.TimeOfDayFromNotes("Morning"))
	assert.Equal(t, enum.TimeOfDayMorning, enum.TimeOfDayFromNotes(""))
	assert.Equal(t, enum.TimeOfDayMorning, enum.TimeOfDayFromNotes("2 packets bread"))
}
