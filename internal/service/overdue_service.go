package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/pawn-ledger/internal/accrual"
	"github.com/spec-kit/pawn-ledger/internal/domain"
	"github.com/spec-kit/pawn-ledger/internal/repository"
)

// DefaultOverdueThresholdMonths is the alerting cutoff when none is given.
const DefaultOverdueThresholdMonths = 12

// OverdueService scans active tickets for customers whose interest has
// gone unpaid too long. It classifies by whole calendar months since the
// start date, a deliberately coarser clock than the fractional billing
// one: a ticket started on Sep 30 is one month overdue on Oct 1.
type OverdueService struct {
	tickets repository.TicketRepository
	logger  *zap.Logger
	clock   func() time.Time
}

// NewOverdueService constructs the scanner.
func NewOverdueService(tickets repository.TicketRepository, logger *zap.Logger) *OverdueService {
	return &OverdueService{
		tickets: tickets,
		logger:  logger,
		clock:   time.Now,
	}
}

// FindOverdue returns customers holding active tickets at least
// thresholdMonths old, grouped in first-seen ticket order. Tickets without
// a parseable start date contribute nothing to the scan.
func (s *OverdueService) FindOverdue(ctx context.Context, thresholdMonths int) ([]domain.OverdueGroup, error) {
	if thresholdMonths <= 0 {
		thresholdMonths = DefaultOverdueThresholdMonths
	}

	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	groups := []domain.OverdueGroup{}
	indexByCustomer := map[string]int{}

	for _, ticket := range tickets {
		if !ticket.IsActive() {
			continue
		}
		if ticket.StartDate == "" {
			continue
		}
		start, err := accrual.ParseDate(ticket.StartDate)
		if err != nil {
			s.logger.Warn("skipping ticket with unparseable start date",
				zap.String("ticket_id", ticket.ID),
				zap.String("start_date", ticket.StartDate),
				zap.Error(err))
			continue
		}

		monthsPassed := accrual.WholeMonthsBetween(start, now)
		if monthsPassed < thresholdMonths {
			continue
		}

		overdue := domain.OverdueTicket{
			ID:                 ticket.ID,
			ArticleName:        ticket.ArticleName,
			Principal:          ticket.Principal,
			PendingPrincipal:   ticket.PendingPrincipal,
			InterestPercentage: ticket.InterestPercentage,
			StartDate:          ticket.StartDate,
			MonthsPending:      monthsPassed,
			Status:             ticket.Status,
		}

		if idx, ok := indexByCustomer[ticket.CustomerID]; ok {
			groups[idx].Tickets = append(groups[idx].Tickets, overdue)
			continue
		}
		indexByCustomer[ticket.CustomerID] = len(groups)
		groups = append(groups, domain.OverdueGroup{
			CustomerID:      ticket.CustomerID,
			CustomerName:    ticket.CustomerName,
			CustomerPhone:   ticket.CustomerPhone,
			CustomerAddress: ticket.CustomerAddress,
			Tickets:         []domain.OverdueTicket{overdue},
		})
	}

	for i := range groups {
		groups[i].TicketCount = len(groups[i].Tickets)
	}
	return groups, nil
}
