package whatsapp

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmik200817/milkmate-api/internal/domain/billing"
)

func sampleStatement() *billing.Statement {
	return &billing.Statement{
		CustomerName:        "Ramesh",
		Year:                2025,
		Month:               time.March,
		PeriodLabel:         "March 2025",
		TotalMilk:           decimal.RequireFromString("62.5"),
		TotalMilkAmount:     decimal.RequireFromString("3437.50"),
		TotalGroceryAmount:  decimal.RequireFromString("240.00"),
		TotalMonthlyAmount:  decimal.RequireFromString("3677.50"),
		PriorBalance:        decimal.RequireFromString("200.00"),
		GrandTotal:          decimal.RequireFromString("3877.50"),
		MonthPayments:       decimal.RequireFromString("1000.00"),
		HasMonthPayment:     true,
		BalanceAfterPayment: decimal.RequireFromString("2877.50"),
	}
}

func TestComposeBillMessage(t *testing.T) {
	msg := ComposeBillMessage(sampleStatement(), "Shree Dairy", "http://localhost:8080/bills/Ramesh_March_2025.pdf")

	assert.Contains(t, msg, "*Shree Dairy*")
	assert.Contains(t, msg, "Milk bill for March 2025")
	assert.Contains(t, msg, "Customer: Ramesh")
	assert.Contains(t, msg, "Milk: 62.5 L = Rs. 3437.50")
	assert.Contains(t, msg, "Grocery: Rs. 240.00")
	assert.Contains(t, msg, "Previous balance: Rs. 200.00")
	// Headline rounds to a whole rupee even though line items keep paise.
	assert.Contains(t, msg, "*Total due: Rs. 3878*")
	assert.Contains(t, msg, "Payment received: Rs. 1000.00")
	assert.Contains(t, msg, "Balance after payment: Rs. 2877.50")
	assert.Contains(t, msg, "Full bill: http://localhost:8080/bills/Ramesh_March_2025.pdf")
}

func TestComposeBillMessageOmitsEmptySections(t *testing.T) {
	st := sampleStatement()
	st.TotalGroceryAmount = decimal.Zero
	st.PriorBalance = decimal.Zero
	st.HasMonthPayment = false

	msg := ComposeBillMessage(st, "Shree Dairy", "")

	assert.NotContains(t, msg, "Grocery:")
	assert.NotContains(t, msg, "Previous balance:")
	assert.NotContains(t, msg, "Payment received:")
	assert.NotContains(t, msg, "Full bill:")
}

func TestLink(t *testing.T) {
	link, err := Link("+91 98765-43210", "Total due: Rs. 350")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/919876543210?text=Total+due%3A+Rs.+350", link)
}

func TestLinkRejectsPhoneWithoutDigits(t *testing.T) {
	_, err := Link("n/a", "hello")
	assert.Error(t, err)
}
