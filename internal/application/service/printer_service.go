package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dharmik200817/milkmate-api/internal/domain/repository"
	"github.com/dharmik200817/milkmate-api/pkg/apperror"
	"github.com/dharmik200817/milkmate-api/pkg/printer"
)

// PrinterService formats delivery receipts and sends them to the
// thermal printer at the door.
type PrinterService struct {
	printer      printer.Printer
	deliveryRepo repository.DeliveryRepository
	customerRepo repository.CustomerRepository
	balanceRepo  repository.BalanceRepository
	printerType  string
	businessName string
}

// NewPrinterService creates a new printer service
func NewPrinterService(
	p printer.Printer,
	deliveryRepo repository.DeliveryRepository,
	customerRepo repository.CustomerRepository,
	balanceRepo repository.BalanceRepository,
	printerType string,
	businessName string,
) *PrinterService {
	return &PrinterService{
		printer:      p,
		deliveryRepo: deliveryRepo,
		customerRepo: customerRepo,
		balanceRepo:  balanceRepo,
		printerType:  printerType,
		businessName: businessName,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// PrintDeliveryReceipt prints a slip for one delivery: the milk line,
// any grocery lines, the visit total, and the customer's pending
// balance after the visit.
func (s *PrinterService) PrintDeliveryReceipt(ctx context.Context, deliveryID uuid.UUID) error {
	delivery, err := s.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return err
	}
	if delivery == nil {
		return apperror.NewNotFoundError("Delivery record")
	}

	customer, err := s.customerRepo.GetByID(ctx, delivery.CustomerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}

	pending := decimal.Zero
	if balance, err := s.balanceRepo.GetByCustomer(ctx, delivery.CustomerID); err == nil && balance != nil {
		pending = balance.PendingAmount
	}

	doc := printer.NewDocument(32)
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(s.businessName).
		SetFontSize(printer.FontNormal).
		SetBold(false).
		Text("Delivery Receipt").
		LineFeed()

	doc.SetAlign(printer.AlignLeft).
		TextF("Customer: %s", customer.Name).
		TextF("Date: %s (%s)", delivery.DeliveryDate.Format("02 Jan 2006"), delivery.TimeOfDay).
		Separator('-')

	if delivery.Quantity.IsPositive() {
		milkName := "Milk"
		if delivery.MilkType != nil {
			milkName = delivery.MilkType.Name
		}
		doc.ItemLine(delivery.Quantity.String()+"L", milkName, delivery.MilkAmount.StringFixed(2))
	}
	for _, item := range delivery.Items {
		doc.ItemLine(item.Quantity.String()+"x", item.Name, item.Price.StringFixed(2))
	}

	doc.Separator('-').
		SetBold(true).
		KeyValue("Total", "Rs. "+delivery.TotalAmount.StringFixed(2)).
		SetBold(false).
		KeyValue("Pending balance", "Rs. "+pending.StringFixed(2)).
		FeedLines(3).
		Cut()

	if err := s.printer.Print(doc.Bytes()); err != nil {
		return fmt.Errorf("receipt print failed: %w", err)
	}

	return nil
}

// TestPrint sends a test slip to the printer.
func (s *PrinterService) TestPrint() error {
	doc := printer.NewDocument(32)
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text("PRINTER TEST").
		SetBold(false).
		Text(s.businessName).
		Separator('-').
		SetAlign(printer.AlignLeft).
		ItemLine("2L", "Test Milk", "110.00").
		KeyValue("Total", "Rs. 110.00").
		FeedLines(3).
		Cut()

	if err := s.printer.Print(doc.Bytes()); err != nil {
		return fmt.Errorf("test print failed: %w", err)
	}
	return nil
}
