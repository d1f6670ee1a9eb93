package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dharmik200817/milkmate-api/internal/domain/entity"
	"github.com/dharmik200817/milkmate-api/internal/domain/enum"
	"github.com/dharmik200817/milkmate-api/internal/domain/repository"
	"github.com/dharmik200817/milkmate-api/pkg/apperror"
)

// BulkEntryService drives the round-entry workflow: one pass over the
// active customer list for a delivery date, prompting for each
// customer in turn. The cursor is persisted so a reloaded page picks
// up exactly where it stopped.
type BulkEntryService struct {
	sessionRepo    repository.BulkEntryRepository
	customerRepo   repository.CustomerRepository
	deliveryRepo   repository.DeliveryRepository
	deliveries     *DeliveryService
	terminalPolicy enum.BulkEntryTerminalPolicy
}

// NewBulkEntryService creates a new bulk entry service
func NewBulkEntryService(
	sessionRepo repository.BulkEntryRepository,
	customerRepo repository.CustomerRepository,
	deliveryRepo repository.DeliveryRepository,
	deliveries *DeliveryService,
	terminalPolicy enum.BulkEntryTerminalPolicy,
) *BulkEntryService {
	if terminalPolicy == "" {
		terminalPolicy = enum.BulkEntryTerminalComplete
	}
	return &BulkEntryService{
		sessionRepo:    sessionRepo,
		customerRepo:   customerRepo,
		deliveryRepo:   deliveryRepo,
		deliveries:     deliveries,
		terminalPolicy: terminalPolicy,
	}
}

// Prompt is what the entry screen shows for the current customer: who
// they are plus a draft pre-filled from their most recent delivery.
type Prompt struct {
	Session  *entity.BulkEntrySession `json:"session"`
	Customer *entity.Customer         `json:"customer,omitempty"`
	Prefill  *PrefillDraft            `json:"prefill,omitempty"`
}

// PrefillDraft carries the suggested values for the current customer.
// Most customers take the same milk in the same quantity every day.
type PrefillDraft struct {
	MilkTypeID *uuid.UUID      `json:"milk_type_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	TimeOfDay  enum.TimeOfDay  `json:"time_of_day"`
}

// Start opens a new session over all active customers for the given
// delivery date. Any previous active session for the user is marked
// completed first; there is one cursor per operator.
func (s *BulkEntryService) Start(ctx context.Context, userID uuid.UUID, deliveryDate time.Time) (*Prompt, error) {
	existing, err := s.sessionRepo.GetActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Status = enum.BulkEntryStatusCompleted
		if err := s.sessionRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
	}

	customerIDs, err := s.customerRepo.ListActiveIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(customerIDs) == 0 {
		return nil, apperror.NewBadRequestError("There are no active customers to walk through")
	}

	session := &entity.BulkEntrySession{
		UserID:       userID,
		DeliveryDate: dateOnly(deliveryDate),
		CustomerIDs:  customerIDs,
		CurrentIndex: 0,
		Status:       enum.BulkEntryStatusActive,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return s.buildPrompt(ctx, session)
}

// Resume returns the user's open session, or a not-found error if none
// exists.
func (s *BulkEntryService) Resume(ctx context.Context, userID uuid.UUID) (*Prompt, error) {
	session, err := s.sessionRepo.GetActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Active bulk entry session")
	}
	return s.buildPrompt(ctx, session)
}

// EnterInput is the operator's answer for the current customer.
type EnterInput struct {
	UserID        uuid.UUID
	MilkTypeID    *uuid.UUID
	Quantity      decimal.Decimal
	TimeOfDay     *enum.TimeOfDay
	PriceOverride *decimal.Decimal
	Notes         string
	Items         []GroceryItemInput
}

// Enter records a delivery for the current customer and advances the
// cursor. The delivery goes through the normal create path, so the
// balance credit and amount snapshotting behave identically to a
// one-off entry.
func (s *BulkEntryService) Enter(ctx context.Context, input *EnterInput) (*Prompt, error) {
	session, err := s.activeSession(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	customerID := session.CurrentCustomerID()
	if customerID == uuid.Nil {
		return nil, apperror.NewBadRequestError("The session has no current customer")
	}

	_, err = s.deliveries.CreateDelivery(ctx, &CreateDeliveryInput{
		UserID:        input.UserID,
		CustomerID:    customerID,
		MilkTypeID:    input.MilkTypeID,
		DeliveryDate:  session.DeliveryDate,
		TimeOfDay:     input.TimeOfDay,
		Quantity:      input.Quantity,
		PriceOverride: input.PriceOverride,
		Notes:         input.Notes,
		Items:         input.Items,
	})
	if err != nil {
		return nil, err
	}

	session.Entered++
	return s.advance(ctx, session)
}

// Skip advances past the current customer without recording anything.
func (s *BulkEntryService) Skip(ctx context.Context, userID uuid.UUID) (*Prompt, error) {
	session, err := s.activeSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	session.Skipped++
	return s.advance(ctx, session)
}

// Previous moves the cursor back one customer so a wrong entry can be
// revisited. At the first customer it stays put.
func (s *BulkEntryService) Previous(ctx context.Context, userID uuid.UUID) (*Prompt, error) {
	session, err := s.activeSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	if session.CurrentIndex > 0 {
		session.CurrentIndex--
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	return s.buildPrompt(ctx, session)
}

// Finish closes the session early, before the list is exhausted.
func (s *BulkEntryService) Finish(ctx context.Context, userID uuid.UUID) (*entity.BulkEntrySession, error) {
	session, err := s.activeSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	session.Status = enum.BulkEntryStatusCompleted
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *BulkEntryService) activeSession(ctx context.Context, userID uuid.UUID) (*entity.BulkEntrySession, error) {
	session, err := s.sessionRepo.GetActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Active bulk entry session")
	}
	return session, nil
}

// advance moves the cursor forward and applies the terminal policy
// when it walks past the last customer.
func (s *BulkEntryService) advance(ctx context.Context, session *entity.BulkEntrySession) (*Prompt, error) {
	session.CurrentIndex++

	if session.Done() {
		switch s.terminalPolicy {
		case enum.BulkEntryTerminalWrap:
			session.CurrentIndex = 0
		default:
			session.Status = enum.BulkEntryStatusCompleted
		}
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	return s.buildPrompt(ctx, session)
}

// buildPrompt loads the current customer and pre-fills the draft from
// their latest delivery.
func (s *BulkEntryService) buildPrompt(ctx context.Context, session *entity.BulkEntrySession) (*Prompt, error) {
	prompt := &Prompt{Session: session}

	if session.Status != enum.BulkEntryStatusActive {
		return prompt, nil
	}

	customerID := session.CurrentCustomerID()
	if customerID == uuid.Nil {
		return prompt, nil
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	// A customer deleted mid-session shows as an empty prompt; the
	// operator skips past them.
	if customer == nil {
		return prompt, nil
	}
	prompt.Customer = customer

	latest, err := s.deliveryRepo.LatestForCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		prompt.Prefill = &PrefillDraft{
			MilkTypeID: latest.MilkTypeID,
			Quantity:   latest.Quantity,
			TimeOfDay:  latest.TimeOfDay,
		}
	}

	return prompt, nil
}
