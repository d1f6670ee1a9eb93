package billing

import (
	"fmt"
	"sort"
	"time"

	"github.com/dharmik200817/milkmate-api/internal/domain/entity"
	"github.com/dharmik200817/milkmate-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxPriorPayments is how many payments before the bill month are
// listed on the printed bill.
const maxPriorPayments = 5

// GroceryLine is one grocery item as it appears on a bill.
type GroceryLine struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit,omitempty"`
	Price    decimal.Decimal `json:"price"`
}

// SlotEntry is the combined delivery for one day and one time slot.
// Several source rows can land on the same day and slot; their
// quantities and amounts add, their grocery lines concatenate.
type SlotEntry struct {
	Slot          enum.TimeOfDay  `json:"slot"`
	Quantity      decimal.Decimal `json:"quantity"`
	MilkAmount    decimal.Decimal `json:"milk_amount"`
	GroceryAmount decimal.Decimal `json:"grocery_amount"`
	Groceries     []GroceryLine   `json:"groceries,omitempty"`
}

// DayEntry is one calendar day that had at least one delivery. Days
// without deliveries do not appear in the statement at all; a gap is
// not a zero entry.
type DayEntry struct {
	Day           int             `json:"day"`
	Date          time.Time       `json:"date"`
	Slots         []SlotEntry     `json:"slots"`
	Quantity      decimal.Decimal `json:"quantity"`
	MilkAmount    decimal.Decimal `json:"milk_amount"`
	GroceryAmount decimal.Decimal `json:"grocery_amount"`
	Total         decimal.Decimal `json:"total"`
}

// PriorPayment is a payment made before the bill month, shown on the
// bill's "previous payments" section.
type PriorPayment struct {
	Date   time.Time          `json:"date"`
	Amount decimal.Decimal    `json:"amount"`
	Method enum.PaymentMethod `json:"method"`
}

// Statement is the fully aggregated monthly bill for one customer.
// It is a pure function of its inputs: building it twice from the
// same rows yields an identical structure.
type Statement struct {
	CustomerID      uuid.UUID `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	CustomerAddress string    `json:"customer_address,omitempty"`
	CustomerPhone   string    `json:"customer_phone,omitempty"`

	Year        int        `json:"year"`
	Month       time.Month `json:"month"`
	PeriodLabel string     `json:"period_label"`
	DaysInMonth int        `json:"days_in_month"`

	Days []DayEntry `json:"days"`

	TotalMilk          decimal.Decimal `json:"total_milk"`
	TotalMilkAmount    decimal.Decimal `json:"total_milk_amount"`
	TotalGroceryAmount decimal.Decimal `json:"total_grocery_amount"`
	TotalMonthlyAmount decimal.Decimal `json:"total_monthly_amount"`

	PriorBalance decimal.Decimal `json:"prior_balance"`
	GrandTotal   decimal.Decimal `json:"grand_total"`

	MonthPayments       decimal.Decimal `json:"month_payments"`
	HasMonthPayment     bool            `json:"has_month_payment"`
	BalanceAfterPayment decimal.Decimal `json:"balance_after_payment"`

	PriorPayments []PriorPayment `json:"prior_payments,omitempty"`
}

// DayAt returns the entry for calendar day n, or nil if that day is a gap.
func (s *Statement) DayAt(n int) *DayEntry {
	for i := range s.Days {
		if s.Days[i].Day == n {
			return &s.Days[i]
		}
	}
	return nil
}

// MonthBounds returns the first day of the calendar month containing t
// and the first day of the following month, at day granularity in t's
// location. Billing months are local-date ranges, not timestamp ranges.
func MonthBounds(t time.Time) (start, next time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	next = start.AddDate(0, 1, 0)
	return start, next
}

// Pending is the outstanding balance given cumulative delivery charges
// and cumulative payments, floored at zero.
func Pending(deliveriesTotal, paymentsTotal decimal.Decimal) decimal.Decimal {
	pending := deliveriesTotal.Sub(paymentsTotal)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}

// Build aggregates one customer's delivery rows for the month of
// monthDate into a Statement. deliveries must be restricted to that
// month and carry their grocery items preloaded; monthPayments are the
// payments dated inside the month; priorPayments are payments strictly
// before the month (any order, trimmed to the most recent five);
// priorBalance is the pending amount carried in from earlier months.
func Build(
	customer *entity.Customer,
	monthDate time.Time,
	deliveries []entity.DeliveryRecord,
	monthPayments []entity.Payment,
	priorPayments []entity.Payment,
	priorBalance decimal.Decimal,
) (*Statement, error) {
	if customer == nil {
		return nil, fmt.Errorf("billing: customer is required")
	}

	start, next := MonthBounds(monthDate)
	daysInMonth := next.AddDate(0, 0, -1).Day()

	st := &Statement{
		CustomerID:      customer.ID,
		CustomerName:    customer.Name,
		CustomerAddress: customer.Address,
		Year:            start.Year(),
		Month:           start.Month(),
		PeriodLabel:     start.Format("January 2006"),
		DaysInMonth:     daysInMonth,
		PriorBalance:    priorBalance.Round(2),
	}
	if customer.Phone != nil {
		st.CustomerPhone = *customer.Phone
	}

	// Group source rows by (day, slot), summing within a group.
	type slotKey struct {
		day  int
		slot enum.TimeOfDay
	}
	slots := make(map[slotKey]*SlotEntry)
	dayNums := make(map[int]time.Time)

	for i := range deliveries {
		d := &deliveries[i]
		date := d.DeliveryDate
		if date.Before(start) || !date.Before(next) {
			return nil, fmt.Errorf("billing: delivery %s dated %s is outside %s",
				d.ID, date.Format("2006-01-02"), st.PeriodLabel)
		}

		key := slotKey{day: date.Day(), slot: d.TimeOfDay}
		entry, ok := slots[key]
		if !ok {
			entry = &SlotEntry{Slot: d.TimeOfDay}
			slots[key] = entry
			dayNums[key.day] = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		}

		entry.Quantity = entry.Quantity.Add(d.Quantity)
		entry.MilkAmount = entry.MilkAmount.Add(d.MilkAmount)
		entry.GroceryAmount = entry.GroceryAmount.Add(d.GroceryAmount)
		for _, item := range d.Items {
			entry.Groceries = append(entry.Groceries, GroceryLine{
				Name:     item.Name,
				Quantity: item.Quantity,
				Unit:     item.Unit,
				Price:    item.Price,
			})
		}
	}

	// Assemble per-day entries in calendar order, morning before evening.
	days := make([]int, 0, len(dayNums))
	for day := range dayNums {
		days = append(days, day)
	}
	sort.Ints(days)

	for _, day := range days {
		entry := DayEntry{Day: day, Date: dayNums[day]}
		for _, slot := range []enum.TimeOfDay{enum.TimeOfDayMorning, enum.TimeOfDayEvening} {
			se, ok := slots[slotKey{day: day, slot: slot}]
			if !ok {
				continue
			}
			entry.Slots = append(entry.Slots, *se)
			entry.Quantity = entry.Quantity.Add(se.Quantity)
			entry.MilkAmount = entry.MilkAmount.Add(se.MilkAmount)
			entry.GroceryAmount = entry.GroceryAmount.Add(se.GroceryAmount)
		}
		entry.Total = entry.MilkAmount.Add(entry.GroceryAmount)

		st.TotalMilk = st.TotalMilk.Add(entry.Quantity)
		st.TotalMilkAmount = st.TotalMilkAmount.Add(entry.MilkAmount)
		st.TotalGroceryAmount = st.TotalGroceryAmount.Add(entry.GroceryAmount)
		st.Days = append(st.Days, entry)
	}

	st.TotalMilkAmount = st.TotalMilkAmount.Round(2)
	st.TotalGroceryAmount = st.TotalGroceryAmount.Round(2)
	st.TotalMonthlyAmount = st.TotalMilkAmount.Add(st.TotalGroceryAmount)
	st.GrandTotal = st.TotalMonthlyAmount.Add(st.PriorBalance)

	for _, p := range monthPayments {
		st.MonthPayments = st.MonthPayments.Add(p.Amount)
	}
	st.MonthPayments = st.MonthPayments.Round(2)
	st.HasMonthPayment = len(monthPayments) > 0
	st.BalanceAfterPayment = Pending(st.GrandTotal, st.MonthPayments)

	st.PriorPayments = collectPriorPayments(priorPayments, start)

	return st, nil
}

// collectPriorPayments sorts payments latest-first and keeps the five
// most recent ones strictly before the month start.
func collectPriorPayments(payments []entity.Payment, monthStart time.Time) []PriorPayment {
	filtered := make([]entity.Payment, 0, len(payments))
	for _, p := range payments {
		if p.PaymentDate.Before(monthStart) {
			filtered = append(filtered, p)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].PaymentDate.After(filtered[j].PaymentDate)
	})
	if len(filtered) > maxPriorPayments {
		filtered = filtered[:maxPriorPayments]
	}

	out := make([]PriorPayment, 0, len(filtered))
	for _, p := range filtered {
		out = append(out, PriorPayment{
			Date:   p.PaymentDate,
			Amount: p.Amount,
			Method: p.Method,
		})
	}
	return out
}
