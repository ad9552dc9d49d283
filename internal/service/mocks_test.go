package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/pawn-ledger/internal/domain"
)

// In-memory repository stubs. IDs are sequential for deterministic tests.

type stubTicketRepo struct {
	tickets map[string]*domain.Ticket
	order   []string
	nextID  int
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *stubTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.nextID++
	ticket.ID = "ticket-" + strconv.Itoa(r.nextID)
	ticket.CreatedAt = time.Now()
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	r.order = append(r.order, ticket.ID)
	return nil
}

func (r *stubTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *stubTicketRepo) GetByBillNumber(_ context.Context, billNumber string) (*domain.Ticket, error) {
	for _, id := range r.order {
		if r.tickets[id].BillNumber == billNumber {
			copied := *r.tickets[id]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubTicketRepo) List(_ context.Context) ([]domain.Ticket, error) {
	result := make([]domain.Ticket, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, *r.tickets[id])
	}
	return result, nil
}

func (r *stubTicketRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, id := range r.order {
		if r.tickets[id].CustomerID == customerID {
			result = append(result, *r.tickets[id])
		}
	}
	return result, nil
}

func (r *stubTicketRepo) UpdateFinancials(_ context.Context, id string, pending, totalInterest decimal.Decimal, months int, lastPayment time.Time) error {
	ticket, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.PendingPrincipal = pending
	ticket.TotalInterestReceived = totalInterest
	ticket.InterestReceivedMonths = months
	ticket.LastPaymentDate = lastPayment
	return nil
}

func (r *stubTicketRepo) Close(_ context.Context, id string, closeDate time.Time) error {
	ticket, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.Status = domain.TicketStatusClosed
	ticket.CloseDate = &closeDate
	return nil
}

type stubCustomerRepo struct {
	customers map[string]*domain.Customer
	order     []string
	nextID    int
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[string]*domain.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	r.nextID++
	customer.ID = "customer-" + strconv.Itoa(r.nextID)
	customer.CreatedAt = time.Now()
	copied := *customer
	r.customers[customer.ID] = &copied
	r.order = append(r.order, customer.ID)
	return nil
}

func (r *stubCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	customer, ok := r.customers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *customer
	return &copied, nil
}

func (r *stubCustomerRepo) List(_ context.Context) ([]domain.Customer, error) {
	result := make([]domain.Customer, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, *r.customers[id])
	}
	return result, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	existing, ok := r.customers[customer.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Name = customer.Name
	existing.Phone = customer.Phone
	existing.Address = customer.Address
	existing.State = customer.State
	existing.City = customer.City
	existing.Pincode = customer.Pincode
	existing.IDProofType = customer.IDProofType
	existing.IDProofOtherName = customer.IDProofOtherName
	existing.IDProofNumber = customer.IDProofNumber
	return nil
}

func (r *stubCustomerRepo) UpdateStats(_ context.Context, id string, total, active int, outstanding decimal.Decimal) error {
	customer, ok := r.customers[id]
	if !ok {
		return pgx.ErrNoRows
	}
	customer.TotalTickets = total
	customer.ActiveTickets = active
	customer.TotalOutstanding = outstanding
	return nil
}

type stubPaymentRepo struct {
	payments []domain.Payment
	nextID   int
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{}
}

func (r *stubPaymentRepo) Create(_ context.Context, payment *domain.Payment) error {
	r.nextID++
	payment.ID = "payment-" + strconv.Itoa(r.nextID)
	r.payments = append(r.payments, *payment)
	return nil
}

func (r *stubPaymentRepo) List(_ context.Context) ([]domain.Payment, error) {
	return sortByDateDesc(append([]domain.Payment{}, r.payments...)), nil
}

func (r *stubPaymentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Payment, error) {
	var result []domain.Payment
	for _, payment := range r.payments {
		if payment.TicketID == ticketID {
			result = append(result, payment)
		}
	}
	return sortByDateDesc(result), nil
}

// sortByDateDesc mirrors the repository's ORDER BY date DESC. ISO-8601
// strings sort chronologically as text.
func sortByDateDesc(payments []domain.Payment) []domain.Payment {
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].Date > payments[j].Date
	})
	return payments
}

type stubAlertLogRepo struct {
	messages []domain.AlertMessage
	nextID   int
}

func newStubAlertLogRepo() *stubAlertLogRepo {
	return &stubAlertLogRepo{}
}

func (r *stubAlertLogRepo) Create(_ context.Context, message *domain.AlertMessage) error {
	r.nextID++
	message.ID = "alert-" + strconv.Itoa(r.nextID)
	message.CreatedAt = time.Now()
	r.messages = append(r.messages, *message)
	return nil
}

func (r *stubAlertLogRepo) List(_ context.Context) ([]domain.AlertMessage, error) {
	result := make([]domain.AlertMessage, len(r.messages))
	for i := range r.messages {
		result[len(r.messages)-1-i] = r.messages[i]
	}
	return result, nil
}

type stubAlertQueue struct {
	enqueued []domain.AlertMessage
	failWith error
}

func (q *stubAlertQueue) Enqueue(_ context.Context, message domain.AlertMessage) error {
	if q.failWith != nil {
		return q.failWith
	}
	q.enqueued = append(q.enqueued, message)
	return nil
}
