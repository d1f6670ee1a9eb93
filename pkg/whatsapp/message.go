// Package whatsapp composes bill summary messages and click-to-chat
// links. Nothing is sent from the server; the operator opens the link
// on their own phone and hits send.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dharmik200817/milkmate-api/internal/domain/billing"
)

// Bill is the message plus the link that opens it in a chat with the
// customer.
type Bill struct {
	Message string `json:"message"`
	Link    string `json:"link"`
	PDFURL  string `json:"pdf_url"`
}

// ComposeBillMessage renders the fixed bill summary template. Line
// amounts keep two decimals; the headline total is rounded to a whole
// rupee, which is how the amount is asked for in person.
func ComposeBillMessage(st *billing.Statement, businessName, pdfURL string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*%s*\n", businessName)
	fmt.Fprintf(&b, "Milk bill for %s\n", st.PeriodLabel)
	fmt.Fprintf(&b, "Customer: %s\n\n", st.CustomerName)

	fmt.Fprintf(&b, "Milk: %s L = Rs. %s\n", st.TotalMilk.String(), st.TotalMilkAmount.StringFixed(2))
	if st.TotalGroceryAmount.IsPositive() {
		fmt.Fprintf(&b, "Grocery: Rs. %s\n", st.TotalGroceryAmount.StringFixed(2))
	}
	fmt.Fprintf(&b, "Month total: Rs. %s\n", st.TotalMonthlyAmount.StringFixed(2))
	if st.PriorBalance.IsPositive() {
		fmt.Fprintf(&b, "Previous balance: Rs. %s\n", st.PriorBalance.StringFixed(2))
	}
	fmt.Fprintf(&b, "\n*Total due: Rs. %s*\n", st.GrandTotal.Round(0).StringFixed(0))

	if st.HasMonthPayment {
		fmt.Fprintf(&b, "Payment received: Rs. %s\n", st.MonthPayments.StringFixed(2))
		fmt.Fprintf(&b, "Balance after payment: Rs. %s\n", st.BalanceAfterPayment.StringFixed(2))
	}

	if pdfURL != "" {
		fmt.Fprintf(&b, "\nFull bill: %s\n", pdfURL)
	}
	fmt.Fprintf(&b, "\nThank you!")

	return b.String()
}

// Link builds a wa.me click-to-chat URL for the given phone number and
// prefilled message. The phone is reduced to digits only; an empty
// result means the customer has no usable number.
func Link(phone, message string) (string, error) {
	digits := digitsOnly(phone)
	if digits == "" {
		return "", fmt.Errorf("whatsapp: phone number %q has no digits", phone)
	}
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(message), nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
