// Package billpdf renders a billing.Statement into a printable A4 PDF.
// Rendering is all-or-nothing: any failure returns an error and no
// bytes, never a truncated document.
package billpdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/dharmik200817/milkmate-api/internal/domain/billing"
	"github.com/dharmik200817/milkmate-api/internal/domain/enum"
)

// Page geometry in millimetres, A4 portrait.
const (
	marginLeft  = 12.0
	marginTop   = 12.0
	marginRight = 12.0
	pageBottom  = 282.0
	rowHeight   = 6.0
	subRowH     = 5.0
)

// Column widths for the day table. Sum fits inside the printable width.
var colWidths = []float64{26, 24, 24, 24, 24, 32, 32}

var colHeads = []string{"Date", "Morning (L)", "Evening (L)", "Total (L)", "Rate", "Milk Amt", "Grocery"}

// Options carries presentation settings that are not part of the
// statement itself.
type Options struct {
	BusinessName string
}

// Render produces the PDF bytes for one monthly statement.
func Render(st *billing.Statement, opts Options) ([]byte, error) {
	if st == nil {
		return nil, fmt.Errorf("billpdf: statement is required")
	}
	if st.CustomerName == "" {
		return nil, fmt.Errorf("billpdf: statement has no customer name")
	}
	if st.DaysInMonth < 28 || st.DaysInMonth > 31 {
		return nil, fmt.Errorf("billpdf: statement has invalid day count %d", st.DaysInMonth)
	}

	r := &renderer{pdf: gofpdf.New("P", "mm", "A4", ""), opts: opts}
	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(false, 0)

	r.pdf.AddPage()
	r.header(st)
	r.customerBlock(st)
	r.dayTable(st)
	r.priorPayments(st)
	r.summary(st)

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("billpdf: failed to render %s %s: %w", st.CustomerName, st.PeriodLabel, err)
	}
	return buf.Bytes(), nil
}

type renderer struct {
	pdf  *gofpdf.Fpdf
	opts Options
}

// ensureRoom starts a new page when the next block of the given height
// would run past the printable area. Table pages repeat the column
// header so every page reads standalone.
func (r *renderer) ensureRoom(height float64, inTable bool) {
	if r.pdf.GetY()+height <= pageBottom {
		return
	}
	r.pdf.AddPage()
	if inTable {
		r.tableHead()
	}
}

func (r *renderer) header(st *billing.Statement) {
	name := r.opts.BusinessName
	if name == "" {
		name = "Milk Bill"
	}
	r.pdf.SetFont("Helvetica", "B", 16)
	r.pdf.CellFormat(0, 9, name, "", 1, "C", false, 0, "")
	r.pdf.SetFont("Helvetica", "", 11)
	r.pdf.CellFormat(0, 6, "Monthly Bill - "+st.PeriodLabel, "", 1, "C", false, 0, "")
	r.pdf.Ln(3)
}

func (r *renderer) customerBlock(st *billing.Statement) {
	r.pdf.SetFont("Helvetica", "B", 11)
	r.pdf.CellFormat(0, 6, st.CustomerName, "", 1, "L", false, 0, "")
	r.pdf.SetFont("Helvetica", "", 9)
	if st.CustomerAddress != "" {
		r.pdf.CellFormat(0, 5, st.CustomerAddress, "", 1, "L", false, 0, "")
	}
	if st.CustomerPhone != "" {
		r.pdf.CellFormat(0, 5, "Phone: "+st.CustomerPhone, "", 1, "L", false, 0, "")
	}
	r.pdf.Ln(3)
}

func (r *renderer) tableHead() {
	r.pdf.SetFont("Helvetica", "B", 9)
	r.pdf.SetFillColor(235, 235, 235)
	for i, head := range colHeads {
		r.pdf.CellFormat(colWidths[i], rowHeight, head, "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)
	r.pdf.SetFont("Helvetica", "", 9)
}

func (r *renderer) dayTable(st *billing.Statement) {
	r.tableHead()

	for _, day := range st.Days {
		r.ensureRoom(rowHeight, true)
		r.dayRow(day)

		// Grocery items print as indented sub-lines under their day,
		// each checked for room on its own so long lists can continue
		// onto the next page.
		for _, slot := range day.Slots {
			for _, g := range slot.Groceries {
				r.ensureRoom(subRowH, true)
				r.groceryRow(g)
			}
		}
	}
	r.pdf.Ln(2)
}

func (r *renderer) dayRow(day billing.DayEntry) {
	var morning, evening decimal.Decimal
	for _, slot := range day.Slots {
		if slot.Slot == enum.TimeOfDayMorning {
			morning = morning.Add(slot.Quantity)
		} else {
			evening = evening.Add(slot.Quantity)
		}
	}

	cells := []string{
		day.Date.Format("02 Jan"),
		qty(morning),
		qty(evening),
		qty(day.Quantity),
		dayRate(day),
		day.MilkAmount.StringFixed(2),
		groceryCell(day.GroceryAmount),
	}
	for i, c := range cells {
		r.pdf.CellFormat(colWidths[i], rowHeight, c, "1", 0, "R", false, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *renderer) groceryRow(g billing.GroceryLine) {
	label := fmt.Sprintf("    %s x %s", g.Name, g.Quantity.String())
	if g.Unit != "" {
		label += " " + g.Unit
	}
	r.pdf.SetFont("Helvetica", "I", 8)
	r.pdf.CellFormat(colWidths[0]+colWidths[1]+colWidths[2]+colWidths[3]+colWidths[4], subRowH, label, "1", 0, "L", false, 0, "")
	r.pdf.CellFormat(colWidths[5], subRowH, "", "1", 0, "R", false, 0, "")
	r.pdf.CellFormat(colWidths[6], subRowH, g.Price.StringFixed(2), "1", 0, "R", false, 0, "")
	r.pdf.Ln(-1)
	r.pdf.SetFont("Helvetica", "", 9)
}

func (r *renderer) priorPayments(st *billing.Statement) {
	if len(st.PriorPayments) == 0 {
		return
	}
	r.ensureRoom(rowHeight*float64(len(st.PriorPayments)+2), false)

	r.pdf.SetFont("Helvetica", "B", 10)
	r.pdf.CellFormat(0, 6, "Previous Payments", "", 1, "L", false, 0, "")
	r.pdf.SetFont("Helvetica", "", 9)
	for _, p := range st.PriorPayments {
		line := fmt.Sprintf("%s    Rs. %s    (%s)", p.Date.Format("02 Jan 2006"), p.Amount.StringFixed(2), p.Method)
		r.pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	}
	r.pdf.Ln(2)
}

func (r *renderer) summary(st *billing.Statement) {
	lines := summaryLines(st)
	r.ensureRoom(rowHeight*float64(len(lines)+1), false)

	labelW := 110.0
	valueW := 58.0
	for _, line := range lines {
		r.pdf.SetFont("Helvetica", line.style, 10)
		r.pdf.CellFormat(labelW, rowHeight, line.label, "", 0, "R", false, 0, "")
		r.pdf.CellFormat(valueW, rowHeight, line.value, "T", 1, "R", false, 0, "")
	}
}

type summaryLine struct {
	label string
	value string
	style string
}

func summaryLines(st *billing.Statement) []summaryLine {
	lines := []summaryLine{
		{"Total milk (" + st.TotalMilk.String() + " L)", "Rs. " + st.TotalMilkAmount.StringFixed(2), ""},
	}
	if st.TotalGroceryAmount.IsPositive() {
		lines = append(lines, summaryLine{"Total grocery", "Rs. " + st.TotalGroceryAmount.StringFixed(2), ""})
	}
	lines = append(lines, summaryLine{"Month total", "Rs. " + st.TotalMonthlyAmount.StringFixed(2), ""})
	if st.PriorBalance.IsPositive() {
		lines = append(lines, summaryLine{"Previous outstanding", "Rs. " + st.PriorBalance.StringFixed(2), ""})
	}
	lines = append(lines, summaryLine{"Total outstanding", "Rs. " + st.GrandTotal.StringFixed(2), "B"})
	if st.HasMonthPayment {
		lines = append(lines,
			summaryLine{"Payment received", "Rs. " + st.MonthPayments.StringFixed(2), ""},
			summaryLine{"Balance after payment", "Rs. " + st.BalanceAfterPayment.StringFixed(2), "B"},
		)
	}
	return lines
}

func qty(d decimal.Decimal) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

// dayRate shows the effective per-liter rate for the day. Mixed milk
// types on one day average out, which is what the paper bills did.
func dayRate(day billing.DayEntry) string {
	if day.Quantity.IsZero() {
		return "-"
	}
	return day.MilkAmount.Div(day.Quantity).Round(2).String()
}

func groceryCell(amount decimal.Decimal) string {
	if amount.IsZero() {
		return "-"
	}
	return amount.StringFixed(2)
}
