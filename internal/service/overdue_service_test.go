package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/pawn-ledger/internal/domain"
)

func newOverdueFixture(tickets *stubTicketRepo, now time.Time) *OverdueService {
	svc := NewOverdueService(tickets, zap.NewNop())
	svc.clock = func() time.Time { return now }
	return svc
}

func seedOverdueTicket(t *testing.T, repo *stubTicketRepo, customerID, name, startDate string, status domain.TicketStatus) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		CustomerID:       customerID,
		CustomerName:     name,
		BillNumber:       startDate + customerID,
		ArticleName:      "Chain",
		Principal:        money("1000"),
		PendingPrincipal: money("1000"),
		StartDate:        startDate,
		Status:           status,
	}
	require.NoError(t, repo.Create(context.Background(), ticket))
	return ticket
}

func TestFindOverdueUsesWholeMonthClock(t *testing.T) {
	repo := newStubTicketRepo()
	now := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	svc := newOverdueFixture(repo, now)

	// Started Dec 2024: exactly 12 whole months regardless of day.
	seedOverdueTicket(t, repo, "customer-1", "Ravi", "2024-12-31", domain.TicketStatusActive)
	// Started Jan 2025: 11 whole months, under the threshold.
	seedOverdueTicket(t, repo, "customer-2", "Sita", "2025-01-01", domain.TicketStatusActive)

	groups, err := svc.FindOverdue(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "customer-1", groups[0].CustomerID)
	assert.Equal(t, 12, groups[0].Tickets[0].MonthsPending)
}

func TestFindOverdueGroupsByCustomer(t *testing.T) {
	repo := newStubTicketRepo()
	now := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	svc := newOverdueFixture(repo, now)

	seedOverdueTicket(t, repo, "customer-1", "Ravi", "2024-01-10", domain.TicketStatusActive)
	seedOverdueTicket(t, repo, "customer-2", "Sita", "2024-02-10", domain.TicketStatusActive)
	seedOverdueTicket(t, repo, "customer-1", "Ravi", "2024-03-10", domain.TicketStatusActive)

	groups, err := svc.FindOverdue(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "customer-1", groups[0].CustomerID)
	assert.Equal(t, 2, groups[0].TicketCount)
	assert.Equal(t, "customer-2", groups[1].CustomerID)
	assert.Equal(t, 1, groups[1].TicketCount)
}

func TestFindOverdueSkipsClosedAndMalformed(t *testing.T) {
	repo := newStubTicketRepo()
	now := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	svc := newOverdueFixture(repo, now)

	seedOverdueTicket(t, repo, "customer-1", "Ravi", "2023-01-01", domain.TicketStatusClosed)
	seedOverdueTicket(t, repo, "customer-2", "Sita", "01/01/2023", domain.TicketStatusActive)
	seedOverdueTicket(t, repo, "customer-3", "Gita", "", domain.TicketStatusActive)

	groups, err := svc.FindOverdue(context.Background(), 12)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestFindOverdueDefaultsThreshold(t *testing.T) {
	repo := newStubTicketRepo()
	now := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	svc := newOverdueFixture(repo, now)

	seedOverdueTicket(t, repo, "customer-1", "Ravi", "2025-06-01", domain.TicketStatusActive)

	// Zero threshold falls back to the 12 month default; a 6 month old
	// ticket stays out.
	groups, err := svc.FindOverdue(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, groups)
}
