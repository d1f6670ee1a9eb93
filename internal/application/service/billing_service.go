package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dharmik200817/milkmate-api/internal/domain/billing"
	"github.com/dharmik200817/milkmate-api/internal/domain/repository"
	"github.com/dharmik200817/milkmate-api/pkg/apperror"
	"github.com/dharmik200817/milkmate-api/pkg/billpdf"
	"github.com/dharmik200817/milkmate-api/pkg/email"
	"github.com/dharmik200817/milkmate-api/pkg/logger"
	"github.com/dharmik200817/milkmate-api/pkg/storage"
	"github.com/dharmik200817/milkmate-api/pkg/whatsapp"
)

// BillingService builds monthly statements and turns them into
// shareable artifacts: an archived PDF, a WhatsApp message with its
// link, or an email with the PDF attached.
type BillingService struct {
	customerRepo repository.CustomerRepository
	deliveryRepo repository.DeliveryRepository
	paymentRepo  repository.PaymentRepository
	balances     *BalanceService
	archive      *storage.BillArchive
	emailService *email.EmailService
	businessName string
}

// NewBillingService creates a new billing service
func NewBillingService(
	customerRepo repository.CustomerRepository,
	deliveryRepo repository.DeliveryRepository,
	paymentRepo repository.PaymentRepository,
	balances *BalanceService,
	archive *storage.BillArchive,
	emailService *email.EmailService,
	businessName string,
) *BillingService {
	return &BillingService{
		customerRepo: customerRepo,
		deliveryRepo: deliveryRepo,
		paymentRepo:  paymentRepo,
		balances:     balances,
		archive:      archive,
		emailService: emailService,
		businessName: businessName,
	}
}

// prior payments shown on the bill
const priorPaymentFetchLimit = 5

// GenerateStatement aggregates one customer's month into a statement.
func (s *BillingService) GenerateStatement(ctx context.Context, customerID uuid.UUID, monthDate time.Time) (*billing.Statement, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	start, next := billing.MonthBounds(monthDate)

	deliveries, err := s.deliveryRepo.ListForMonth(ctx, customerID, start, next)
	if err != nil {
		return nil, err
	}
	monthPayments, err := s.paymentRepo.ListForRange(ctx, customerID, start, next)
	if err != nil {
		return nil, err
	}
	priorPayments, err := s.paymentRepo.ListBefore(ctx, customerID, start, priorPaymentFetchLimit)
	if err != nil {
		return nil, err
	}
	priorBalance, err := s.balances.GetPendingBefore(ctx, customerID, start)
	if err != nil {
		return nil, err
	}

	return billing.Build(customer, monthDate, deliveries, monthPayments, priorPayments, priorBalance)
}

// RenderPDF renders a statement into PDF bytes without archiving it.
func (s *BillingService) RenderPDF(st *billing.Statement) ([]byte, error) {
	data, err := billpdf.Render(st, billpdf.Options{BusinessName: s.businessName})
	if err != nil {
		logger.Log.WithError(err).WithField("customer", st.CustomerName).Error("bill render failed")
		return nil, apperror.ErrBillRender
	}
	return data, nil
}

// PublishedBill is the result of publishing a month's bill: the
// statement itself, the archived PDF's URL, and the WhatsApp handoff.
type PublishedBill struct {
	Statement *billing.Statement `json:"statement"`
	PDFURL    string             `json:"pdf_url"`
	Message   string             `json:"message"`
	// WhatsAppLink is empty when the customer has no phone number.
	WhatsAppLink string `json:"whatsapp_link,omitempty"`
}

// PublishBill renders the bill, archives it under its deterministic
// name, and composes the WhatsApp message and link. A customer without
// a phone still gets an archived PDF; only the link is skipped.
func (s *BillingService) PublishBill(ctx context.Context, customerID uuid.UUID, monthDate time.Time) (*PublishedBill, error) {
	st, err := s.GenerateStatement(ctx, customerID, monthDate)
	if err != nil {
		return nil, err
	}

	data, err := s.RenderPDF(st)
	if err != nil {
		return nil, err
	}

	filename := storage.BillFileName(st.CustomerName, st.Month, st.Year)
	pdfURL, err := s.archive.Save(filename, data)
	if err != nil {
		return nil, err
	}

	message := whatsapp.ComposeBillMessage(st, s.businessName, pdfURL)

	result := &PublishedBill{
		Statement: st,
		PDFURL:    pdfURL,
		Message:   message,
	}

	if st.CustomerPhone != "" {
		link, err := whatsapp.Link(st.CustomerPhone, message)
		if err != nil {
			logger.Log.WithError(err).
				WithField("customer", st.CustomerName).
				Warn("WhatsApp link skipped")
		} else {
			result.WhatsAppLink = link
		}
	}

	logger.Log.WithField("customer", st.CustomerName).
		WithField("period", st.PeriodLabel).
		WithField("grand_total", st.GrandTotal.String()).
		Info("bill published")

	return result, nil
}

// EmailBill renders the bill and sends it to the given address with
// the PDF attached.
func (s *BillingService) EmailBill(ctx context.Context, customerID uuid.UUID, monthDate time.Time, toEmail string) error {
	if !s.emailService.Enabled() {
		return apperror.NewBadRequestError("Email is not configured")
	}

	st, err := s.GenerateStatement(ctx, customerID, monthDate)
	if err != nil {
		return err
	}

	data, err := s.RenderPDF(st)
	if err != nil {
		return err
	}

	filename := storage.BillFileName(st.CustomerName, st.Month, st.Year)
	return s.emailService.SendMonthlyBill(
		toEmail,
		st.CustomerName,
		st.PeriodLabel,
		st.GrandTotal.Round(0).StringFixed(0),
		filename,
		data,
	)
}
