package billpdf

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmik200817/milkmate-api/internal/domain/billing"
	"github.com/dharmik200817/milkmate-api/internal/domain/enum"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleStatement() *billing.Statement {
	return &billing.Statement{
		CustomerName:    "Ramesh Patel",
		CustomerAddress: "12 Market Road",
		CustomerPhone:   "+91 9876543210",
		Year:            2025,
		Month:           time.March,
		PeriodLabel:     "March 2025",
		DaysInMonth:     31,
		Days: []billing.DayEntry{
			{
				Day:  1,
				Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				Slots: []billing.SlotEntry{
					{
						Slot:          enum.TimeOfDayMorning,
						Quantity:      d("2"),
						MilkAmount:    d("110.00"),
						GroceryAmount: d("40.00"),
						Groceries:     []billing.GroceryLine{{Name: "Bread", Quantity: d("1"), Price: d("40.00")}},
					},
				},
				Quantity:      d("2"),
				MilkAmount:    d("110.00"),
				GroceryAmount: d("40.00"),
				Total:         d("150.00"),
			},
		},
		TotalMilk:          d("2"),
		TotalMilkAmount:    d("110.00"),
		TotalGroceryAmount: d("40.00"),
		TotalMonthlyAmount: d("150.00"),
		PriorBalance:       d("200.00"),
		GrandTotal:         d("350.00"),
		PriorPayments: []billing.PriorPayment{
			{Date: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), Amount: d("500.00"), Method: enum.PaymentMethodCash},
		},
	}
}

func TestRenderProducesPDF(t *testing.T) {
	data, err := Render(sampleStatement(), Options{BusinessName: "Shree Dairy"})
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderRejectsNilStatement(t *testing.T) {
	_, err := Render(nil, Options{})
	assert.Error(t, err)
}

func TestRenderRejectsMalformedStatement(t *testing.T) {
	st := sampleStatement()
	st.CustomerName = ""
	_, err := Render(st, Options{})
	assert.Error(t, err)

	st = sampleStatement()
	st.DaysInMonth = 0
	_, err = Render(st, Options{})
	assert.Error(t, err)
}

func TestRenderPaginatesLongMonths(t *testing.T) {
	st := sampleStatement()
	// A full month of two-slot days plus grocery sub-lines overflows
	// one A4 page and must spill onto a second without error.
	st.Days = nil
	for day := 1; day <= 31; day++ {
		entry := billing.DayEntry{
			Day:  day,
			Date: time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC),
			Slots: []billing.SlotEntry{
				{Slot: enum.TimeOfDayMorning, Quantity: d("1.5"), MilkAmount: d("82.50"),
					Groceries: []billing.GroceryLine{{Name: "Curd", Quantity: d("1"), Price: d("30.00")}}},
				{Slot: enum.TimeOfDayEvening, Quantity: d("1"), MilkAmount: d("55.00")},
			},
			Quantity:   d("2.5"),
			MilkAmount: d("137.50"),
			Total:      d("167.50"),
		}
		st.Days = append(st.Days, entry)
	}

	data, err := Render(st, Options{BusinessName: "Shree Dairy"})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
