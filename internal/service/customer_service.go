package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/pawn-ledger/internal/domain"
	"github.com/spec-kit/pawn-ledger/internal/repository"
	apperrors "github.com/spec-kit/pawn-ledger/pkg/util/errorutil"
)

// CustomerService owns the customer aggregate: identity data plus the
// rolled-up ticket counters that the ticket ledger drives incrementally.
type CustomerService struct {
	customers repository.CustomerRepository
	tickets   repository.TicketRepository
	clock     func() time.Time
}

// NewCustomerService constructs the service.
func NewCustomerService(customers repository.CustomerRepository, tickets repository.TicketRepository) *CustomerService {
	return &CustomerService{
		customers: customers,
		tickets:   tickets,
		clock:     time.Now,
	}
}

// CustomerInput describes customer create/update payloads.
type CustomerInput struct {
	Name             string
	Phone            string
	Address          string
	State            string
	City             string
	Pincode          string
	IDProofType      string
	IDProofOtherName string
	IDProofNumber    string
}

// Create stores a new customer with zeroed stats.
func (s *CustomerService) Create(ctx context.Context, input CustomerInput) (*domain.Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}

	idProofType := input.IDProofType
	if idProofType == "" {
		idProofType = "Aadhar"
	}

	customer := &domain.Customer{
		Name:             strings.TrimSpace(input.Name),
		Phone:            strings.TrimSpace(input.Phone),
		Address:          input.Address,
		State:            input.State,
		City:             input.City,
		Pincode:          input.Pincode,
		IDProofType:      idProofType,
		IDProofOtherName: input.IDProofOtherName,
		IDProofNumber:    input.IDProofNumber,
		TotalOutstanding: decimal.Zero,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Get fetches a single customer.
func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("customer", nil)
		}
		return nil, err
	}
	return customer, nil
}

// List returns all customers with their rolled-up stats.
func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.List(ctx)
}

// Update replaces a customer's business data. Tickets keep the customer
// snapshot taken at their creation time; edits here do not flow back into
// existing tickets.
func (s *CustomerService) Update(ctx context.Context, id string, input CustomerInput) (*domain.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.Name = strings.TrimSpace(input.Name)
	customer.Phone = strings.TrimSpace(input.Phone)
	customer.Address = input.Address
	customer.State = input.State
	customer.City = input.City
	customer.Pincode = input.Pincode
	customer.IDProofType = input.IDProofType
	customer.IDProofOtherName = input.IDProofOtherName
	customer.IDProofNumber = input.IDProofNumber

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// ListTickets returns every ticket belonging to one customer.
func (s *CustomerService) ListTickets(ctx context.Context, customerID string) ([]domain.Ticket, error) {
	if _, err := s.Get(ctx, customerID); err != nil {
		return nil, err
	}
	return s.tickets.ListByCustomer(ctx, customerID)
}

// ApplyDelta adjusts a customer's rolled-up counters by the given amounts.
// The adjustment is a read-current-value-then-write; there is no
// compare-and-swap, so concurrent writers on the same customer can lose a
// delta. Acceptable for a single-operator shop; see DESIGN.md.
// activeTickets and totalOutstanding are clamped at zero on decrement.
func (s *CustomerService) ApplyDelta(ctx context.Context, customerID string, delta domain.StatsDelta) error {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("customer", nil)
		}
		return err
	}

	total := customer.TotalTickets + delta.TotalTickets
	active := customer.ActiveTickets + delta.ActiveTickets
	if active < 0 {
		active = 0
	}
	outstanding := customer.TotalOutstanding.Add(delta.Outstanding)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}

	return s.customers.UpdateStats(ctx, customerID, total, active, outstanding)
}

// RebuildStats recomputes every customer's counters from the full ticket
// set. The incremental deltas are not self-healing: a crash between the
// ticket write and the stats write leaves them stale until this runs.
func (s *CustomerService) RebuildStats(ctx context.Context) (int, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return 0, err
	}

	byCustomer := make(map[string][]domain.Ticket)
	for _, ticket := range tickets {
		byCustomer[ticket.CustomerID] = append(byCustomer[ticket.CustomerID], ticket)
	}

	customers, err := s.customers.List(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, customer := range customers {
		owned := byCustomer[customer.ID]

		total := len(owned)
		active := 0
		outstanding := decimal.Zero
		for _, ticket := range owned {
			if ticket.IsActive() {
				active++
				outstanding = outstanding.Add(ticket.PendingPrincipal)
			}
		}

		if err := s.customers.UpdateStats(ctx, customer.ID, total, active, outstanding); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
