package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/pawn-ledger/internal/accrual"
	"github.com/spec-kit/pawn-ledger/internal/domain"
	"github.com/spec-kit/pawn-ledger/internal/events"
	"github.com/spec-kit/pawn-ledger/internal/repository"
	apperrors "github.com/spec-kit/pawn-ledger/pkg/util/errorutil"
)

var hundred = decimal.NewFromInt(100)

// TicketService coordinates the pawn ticket ledger: creation with
// first-month interest seeding, payment application, and closure. Ticket
// and customer stats are two separate documents updated in sequence, not
// atomically; a failure in between surfaces to the caller and leaves the
// stats stale until RebuildStats runs.
type TicketService struct {
	tickets    repository.TicketRepository
	payments   repository.PaymentRepository
	customers  repository.CustomerRepository
	aggregate  *CustomerService
	dispatcher events.Dispatcher
	clock      func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	PaymentRepo  repository.PaymentRepository
	CustomerRepo repository.CustomerRepository
	Aggregate    *CustomerService
	Dispatcher   events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		payments:   deps.PaymentRepo,
		customers:  deps.CustomerRepo,
		aggregate:  deps.Aggregate,
		dispatcher: deps.Dispatcher,
		clock:      time.Now,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	CustomerID         string
	BillNumber         string
	ArticleName        string
	ItemType           string
	GrossWeight        *float64
	NetWeight          *float64
	Principal          decimal.Decimal
	InterestPercentage decimal.Decimal
	StartDate          string
}

// PaymentInput describes a manual payment against a ticket.
type PaymentInput struct {
	InterestPaid  decimal.Decimal
	PrincipalPaid decimal.Decimal
	MonthsPaid    int
}

// TicketWithAccrual is a ticket plus its computed pending interest months.
type TicketWithAccrual struct {
	domain.Ticket
	InterestPendingMonths decimal.Decimal
}

// Create opens a new pawn ticket. The first month's interest is collected
// up front: the ticket starts with one interest-month received, and a seed
// payment row dated at the loan's start date records it for monthly
// reporting. The ticket's own lastPaymentDate is the creation instant so a
// fresh ticket sorts to the top of the activity feed.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*TicketWithAccrual, error) {
	billNumber := strings.TrimSpace(input.BillNumber)
	if !isDigits(billNumber) {
		return nil, apperrors.NewValidationError("bill number must contain only digits", nil)
	}
	if input.CustomerID == "" {
		return nil, apperrors.NewValidationError("customerId is required", nil)
	}
	if input.Principal.IsNegative() {
		return nil, apperrors.NewValidationError("principal must not be negative", nil)
	}
	if input.InterestPercentage.IsNegative() {
		return nil, apperrors.NewValidationError("interest percentage must not be negative", nil)
	}

	if _, err := s.tickets.GetByBillNumber(ctx, billNumber); err == nil {
		return nil, apperrors.NewValidationError("ticket with this bill number already exists",
			map[string]any{"billNumber": billNumber})
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	customer, err := s.customers.GetByID(ctx, input.CustomerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("customer", nil)
		}
		return nil, err
	}

	now := s.clock()
	startDate := strings.TrimSpace(input.StartDate)
	if startDate == "" {
		startDate = now.Format(time.RFC3339)
	}
	if _, err := accrual.ParseDate(startDate); err != nil {
		return nil, apperrors.NewValidationError("startDate is not a valid ISO-8601 date", nil)
	}

	itemType := input.ItemType
	if itemType == "" {
		itemType = "Silver"
	}

	firstMonthInterest := input.Principal.Mul(input.InterestPercentage).Div(hundred)

	ticket := &domain.Ticket{
		CustomerID:             customer.ID,
		CustomerName:           customer.Name,
		CustomerPhone:          customer.Phone,
		CustomerAddress:        customer.Address,
		BillNumber:             billNumber,
		ArticleName:            input.ArticleName,
		ItemType:               itemType,
		GrossWeight:            input.GrossWeight,
		NetWeight:              input.NetWeight,
		Principal:              input.Principal,
		PendingPrincipal:       input.Principal,
		InterestPercentage:     input.InterestPercentage,
		StartDate:              startDate,
		Status:                 domain.TicketStatusActive,
		CloseDate:              nil,
		TotalInterestReceived:  firstMonthInterest,
		InterestReceivedMonths: 1,
		LastPaymentDate:        now,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	// Seed payment attributed to the start month, not the creation instant.
	seedDate := startDate
	seed := &domain.Payment{
		TicketID:           ticket.ID,
		CustomerName:       customer.Name,
		Date:               seedDate,
		InterestPaid:       firstMonthInterest,
		InterestReceivedAt: &seedDate,
		PrincipalPaid:      decimal.Zero,
		MonthsPaid:         1,
		RemainingPrincipal: input.Principal,
	}
	if err := s.payments.Create(ctx, seed); err != nil {
		return nil, err
	}

	if err := s.aggregate.ApplyDelta(ctx, customer.ID, domain.StatsDelta{
		TotalTickets:  1,
		ActiveTickets: 1,
		Outstanding:   input.Principal,
	}); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			CustomerID:         customer.ID,
			BillNumber:         billNumber,
			Principal:          input.Principal,
			FirstMonthInterest: firstMonthInterest,
			StartDate:          startDate,
		},
	})
	return &TicketWithAccrual{
		Ticket:                *ticket,
		InterestPendingMonths: s.pendingMonths(*ticket, now),
	}, nil
}

// RecordPayment applies a manual payment to a ticket and appends the
// payment row. Pending principal is not floored here: an overpayment drives
// it negative, matching the ledger's observed behavior. Customer stats are
// deliberately untouched; outstanding totals catch up at close time.
func (s *TicketService) RecordPayment(ctx context.Context, ticketID string, input PaymentInput) (*domain.Payment, error) {
	if input.InterestPaid.IsNegative() || input.PrincipalPaid.IsNegative() {
		return nil, apperrors.NewValidationError("payment amounts must not be negative", nil)
	}
	if input.MonthsPaid < 0 {
		return nil, apperrors.NewValidationError("monthsPaid must not be negative", nil)
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	newPending := ticket.PendingPrincipal.Sub(input.PrincipalPaid)
	now := s.clock()
	nowStr := now.Format(time.RFC3339)

	customerName := "Unknown"
	if customer, err := s.customers.GetByID(ctx, ticket.CustomerID); err == nil {
		customerName = customer.Name
	}

	payment := &domain.Payment{
		TicketID:           ticket.ID,
		CustomerName:       customerName,
		Date:               nowStr,
		InterestPaid:       input.InterestPaid,
		PrincipalPaid:      input.PrincipalPaid,
		MonthsPaid:         input.MonthsPaid,
		RemainingPrincipal: newPending,
	}
	if input.InterestPaid.IsPositive() {
		payment.InterestReceivedAt = &nowStr
	}
	if input.PrincipalPaid.IsPositive() {
		payment.PrincipalReceivedAt = &nowStr
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	newTotalInterest := ticket.TotalInterestReceived.Add(input.InterestPaid)
	newMonths := ticket.InterestReceivedMonths + input.MonthsPaid
	if err := s.tickets.UpdateFinancials(ctx, ticket.ID, newPending, newTotalInterest, newMonths, now); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventPaymentRecorded,
		TicketID: ticket.ID,
		Payload: events.PaymentRecordedPayload{
			CustomerID:       ticket.CustomerID,
			InterestPaid:     input.InterestPaid,
			PrincipalPaid:    input.PrincipalPaid,
			MonthsPaid:       input.MonthsPaid,
			PendingPrincipal: newPending,
		},
	})
	return payment, nil
}

// Close transitions a ticket Active -> Closed and releases its pending
// principal from the customer's outstanding total. Closing an already
// closed ticket is a safe no-op; the second return value reports whether
// this call performed the close.
func (s *TicketService) Close(ctx context.Context, ticketID string) (*TicketWithAccrual, bool, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, false, err
	}
	now := s.clock()
	if !ticket.IsActive() {
		return &TicketWithAccrual{
			Ticket:                *ticket,
			InterestPendingMonths: s.pendingMonths(*ticket, now),
		}, false, nil
	}

	if err := s.tickets.Close(ctx, ticket.ID, now); err != nil {
		return nil, false, err
	}
	ticket.Status = domain.TicketStatusClosed
	ticket.CloseDate = &now

	pendingAtClose := ticket.PendingPrincipal
	if err := s.aggregate.ApplyDelta(ctx, ticket.CustomerID, domain.StatsDelta{
		ActiveTickets: -1,
		Outstanding:   pendingAtClose.Neg(),
	}); err != nil {
		return nil, false, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketClosed,
		TicketID: ticket.ID,
		Payload: events.TicketClosedPayload{
			CustomerID:     ticket.CustomerID,
			PendingAtClose: pendingAtClose,
		},
	})
	return &TicketWithAccrual{
		Ticket:                *ticket,
		InterestPendingMonths: s.pendingMonths(*ticket, now),
	}, true, nil
}

// List returns every ticket, newest activity first, each enriched with the
// fractional months of interest pending since its start date.
func (s *TicketService) List(ctx context.Context) ([]TicketWithAccrual, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	result := make([]TicketWithAccrual, 0, len(tickets))
	for _, ticket := range tickets {
		result = append(result, TicketWithAccrual{
			Ticket:                ticket,
			InterestPendingMonths: s.pendingMonths(ticket, now),
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LastPaymentDate.After(result[j].LastPaymentDate)
	})
	return result, nil
}

// Get fetches one ticket with its pending interest months.
func (s *TicketService) Get(ctx context.Context, ticketID string) (*TicketWithAccrual, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return &TicketWithAccrual{
		Ticket:                *ticket,
		InterestPendingMonths: s.pendingMonths(*ticket, s.clock()),
	}, nil
}

// ListPayments returns the append-only payment rows for one ticket.
func (s *TicketService) ListPayments(ctx context.Context, ticketID string) ([]domain.Payment, error) {
	if _, err := s.getTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	return s.payments.ListByTicket(ctx, ticketID)
}

// ListAllPayments returns the full payment log across every ticket.
func (s *TicketService) ListAllPayments(ctx context.Context) ([]domain.Payment, error) {
	return s.payments.List(ctx)
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	return ticket, nil
}

// pendingMonths computes the fractional accrual clock for display. A
// missing or malformed start date degrades to zero instead of failing the
// whole listing.
func (s *TicketService) pendingMonths(ticket domain.Ticket, now time.Time) decimal.Decimal {
	if ticket.StartDate == "" {
		return decimal.Zero
	}
	start, err := accrual.ParseDate(ticket.StartDate)
	if err != nil {
		return decimal.Zero
	}
	return accrual.CompletedMonths(start, now)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
