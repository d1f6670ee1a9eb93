package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dharmik200817/milkmate-api/internal/domain/entity"
	"github.com/dharmik200817/milkmate-api/internal/domain/enum"
	"github.com/dharmik200817/milkmate-api/internal/domain/repository"
	"github.com/dharmik200817/milkmate-api/pkg/pagination"
)

// In-memory repositories for service tests. They mirror the gorm
// implementations' contract: nil for not-found, balance deltas applied
// on delivery and payment writes.

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (f *fakeCustomerRepo) add(name string) *entity.Customer {
	c := &entity.Customer{ID: uuid.New(), Name: name, IsActive: true, CreatedAt: time.Now()}
	f.customers[c.ID] = c
	return c
}

func (f *fakeCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return f.customers[id], nil
}

func (f *fakeCustomerRepo) GetByName(ctx context.Context, name string) (*entity.Customer, error) {
	for _, c := range f.customers {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.customers, id)
	return nil
}

func (f *fakeCustomerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	out := make([]entity.Customer, 0, len(f.customers))
	for _, c := range f.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCustomerRepo) ListWithCursor(ctx context.Context, params *pagination.CursorParams, search string) ([]entity.Customer, error) {
	out, _, err := f.List(ctx, nil, search)
	return out, err
}

func (f *fakeCustomerRepo) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	type pair struct {
		id   uuid.UUID
		name string
	}
	pairs := make([]pair, 0, len(f.customers))
	for _, c := range f.customers {
		if c.IsActive {
			pairs = append(pairs, pair{id: c.ID, name: c.Name})
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].name < pairs[j].name })
	ids := make([]uuid.UUID, 0, len(pairs))
	for _, p := range pairs {
		ids = append(ids, p.id)
	}
	return ids, nil
}

type fakeMilkTypeRepo struct {
	milkTypes map[uuid.UUID]*entity.MilkType
}

func newFakeMilkTypeRepo() *fakeMilkTypeRepo {
	return &fakeMilkTypeRepo{milkTypes: make(map[uuid.UUID]*entity.MilkType)}
}

func (f *fakeMilkTypeRepo) add(name string, price decimal.Decimal) *entity.MilkType {
	m := &entity.MilkType{ID: uuid.New(), Name: name, PricePerLiter: price}
	f.milkTypes[m.ID] = m
	return m
}

func (f *fakeMilkTypeRepo) Create(ctx context.Context, milkType *entity.MilkType) error {
	if milkType.ID == uuid.Nil {
		milkType.ID = uuid.New()
	}
	f.milkTypes[milkType.ID] = milkType
	return nil
}

func (f *fakeMilkTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.MilkType, error) {
	return f.milkTypes[id], nil
}

func (f *fakeMilkTypeRepo) GetByName(ctx context.Context, name string) (*entity.MilkType, error) {
	for _, m := range f.milkTypes {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMilkTypeRepo) Update(ctx context.Context, milkType *entity.MilkType) error {
	f.milkTypes[milkType.ID] = milkType
	return nil
}

func (f *fakeMilkTypeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.milkTypes, id)
	return nil
}

func (f *fakeMilkTypeRepo) List(ctx context.Context) ([]entity.MilkType, error) {
	out := make([]entity.MilkType, 0, len(f.milkTypes))
	for _, m := range f.milkTypes {
		out = append(out, *m)
	}
	return out, nil
}

type fakeDeliveryRepo struct {
	deliveries map[uuid.UUID]*entity.DeliveryRecord
	balances   map[uuid.UUID]decimal.Decimal
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{
		deliveries: make(map[uuid.UUID]*entity.DeliveryRecord),
		balances:   make(map[uuid.UUID]decimal.Decimal),
	}
}

func (f *fakeDeliveryRepo) applyDelta(customerID uuid.UUID, delta decimal.Decimal) {
	next := f.balances[customerID].Add(delta)
	if next.IsNegative() {
		next = decimal.Zero
	}
	f.balances[customerID] = next
}

func (f *fakeDeliveryRepo) Create(ctx context.Context, delivery *entity.DeliveryRecord) error {
	if delivery.ID == uuid.Nil {
		delivery.ID = uuid.New()
	}
	delivery.CreatedAt = time.Now()
	f.deliveries[delivery.ID] = delivery
	f.applyDelta(delivery.CustomerID, delivery.TotalAmount)
	return nil
}

func (f *fakeDeliveryRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.DeliveryRecord, error) {
	return f.deliveries[id], nil
}

func (f *fakeDeliveryRepo) Update(ctx context.Context, delivery *entity.DeliveryRecord, previousTotal decimal.Decimal) error {
	f.deliveries[delivery.ID] = delivery
	f.applyDelta(delivery.CustomerID, delivery.TotalAmount.Sub(previousTotal))
	return nil
}

func (f *fakeDeliveryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if d, ok := f.deliveries[id]; ok {
		f.applyDelta(d.CustomerID, d.TotalAmount.Neg())
		delete(f.deliveries, id)
	}
	return nil
}

func (f *fakeDeliveryRepo) List(ctx context.Context, filter repository.DeliveryFilter, params *pagination.PaginationParams) ([]entity.DeliveryRecord, int64, error) {
	out := make([]entity.DeliveryRecord, 0, len(f.deliveries))
	for _, d := range f.deliveries {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (f *fakeDeliveryRepo) ListForMonth(ctx context.Context, customerID uuid.UUID, from, to time.Time) ([]entity.DeliveryRecord, error) {
	var out []entity.DeliveryRecord
	for _, d := range f.deliveries {
		if d.CustomerID == customerID && !d.DeliveryDate.Before(from) && d.DeliveryDate.Before(to) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDeliveryRepo) LatestForCustomer(ctx context.Context, customerID uuid.UUID) (*entity.DeliveryRecord, error) {
	var latest *entity.DeliveryRecord
	for _, d := range f.deliveries {
		if d.CustomerID != customerID {
			continue
		}
		if latest == nil || d.DeliveryDate.After(latest.DeliveryDate) {
			latest = d
		}
	}
	return latest, nil
}

func (f *fakeDeliveryRepo) SumTotalBefore(ctx context.Context, customerID uuid.UUID, bound time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, d := range f.deliveries {
		if d.CustomerID == customerID && d.DeliveryDate.Before(bound) {
			sum = sum.Add(d.TotalAmount)
		}
	}
	return sum, nil
}

type fakePaymentRepo struct {
	payments map[uuid.UUID]*entity.Payment
	delivery *fakeDeliveryRepo // shares the balance map
}

func newFakePaymentRepo(delivery *fakeDeliveryRepo) *fakePaymentRepo {
	return &fakePaymentRepo{
		payments: make(map[uuid.UUID]*entity.Payment),
		delivery: delivery,
	}
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	f.payments[payment.ID] = payment
	f.delivery.applyDelta(payment.CustomerID, payment.Amount.Neg())
	return nil
}

func (f *fakePaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	return f.payments[id], nil
}

func (f *fakePaymentRepo) Update(ctx context.Context, payment *entity.Payment, previousAmount decimal.Decimal) error {
	f.payments[payment.ID] = payment
	f.delivery.applyDelta(payment.CustomerID, previousAmount.Sub(payment.Amount))
	return nil
}

func (f *fakePaymentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if p, ok := f.payments[id]; ok {
		f.delivery.applyDelta(p.CustomerID, p.Amount)
		delete(f.payments, id)
	}
	return nil
}

func (f *fakePaymentRepo) List(ctx context.Context, customerID *uuid.UUID, params *pagination.PaginationParams) ([]entity.Payment, int64, error) {
	out := make([]entity.Payment, 0, len(f.payments))
	for _, p := range f.payments {
		if customerID == nil || p.CustomerID == *customerID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakePaymentRepo) ListForRange(ctx context.Context, customerID uuid.UUID, from, to time.Time) ([]entity.Payment, error) {
	var out []entity.Payment
	for _, p := range f.payments {
		if p.CustomerID == customerID && !p.PaymentDate.Before(from) && p.PaymentDate.Before(to) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) ListBefore(ctx context.Context, customerID uuid.UUID, bound time.Time, limit int) ([]entity.Payment, error) {
	var out []entity.Payment
	for _, p := range f.payments {
		if p.CustomerID == customerID && p.PaymentDate.Before(bound) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentDate.After(out[j].PaymentDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePaymentRepo) SumBefore(ctx context.Context, customerID uuid.UUID, bound time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range f.payments {
		if p.CustomerID == customerID && p.PaymentDate.Before(bound) {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

type fakeBalanceRepo struct {
	delivery *fakeDeliveryRepo
}

func (f *fakeBalanceRepo) GetByCustomer(ctx context.Context, customerID uuid.UUID) (*entity.CustomerBalance, error) {
	amount, ok := f.delivery.balances[customerID]
	if !ok {
		return nil, nil
	}
	return &entity.CustomerBalance{CustomerID: customerID, PendingAmount: amount}, nil
}

func (f *fakeBalanceRepo) Set(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) error {
	f.delivery.balances[customerID] = amount
	return nil
}

func (f *fakeBalanceRepo) ListSummaries(ctx context.Context) ([]repository.CustomerBalanceSummary, error) {
	return nil, nil
}

type fakeBulkEntryRepo struct {
	sessions map[uuid.UUID]*entity.BulkEntrySession
}

func newFakeBulkEntryRepo() *fakeBulkEntryRepo {
	return &fakeBulkEntryRepo{sessions: make(map[uuid.UUID]*entity.BulkEntrySession)}
}

func (f *fakeBulkEntryRepo) Create(ctx context.Context, session *entity.BulkEntrySession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeBulkEntryRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.BulkEntrySession, error) {
	return f.sessions[id], nil
}

func (f *fakeBulkEntryRepo) GetActiveForUser(ctx context.Context, userID uuid.UUID) (*entity.BulkEntrySession, error) {
	for _, s := range f.sessions {
		if s.UserID == userID && s.Status == enum.BulkEntryStatusActive {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeBulkEntryRepo) Update(ctx context.Context, session *entity.BulkEntrySession) error {
	f.sessions[session.ID] = session
	return nil
}
