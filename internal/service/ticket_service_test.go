package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pawn-ledger/internal/domain"
	"github.com/spec-kit/pawn-ledger/internal/events"
)

type ledgerFixture struct {
	tickets   *stubTicketRepo
	payments  *stubPaymentRepo
	customers *stubCustomerRepo
	svc       *TicketService
	aggregate *CustomerService
	now       time.Time
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	tickets := newStubTicketRepo()
	payments := newStubPaymentRepo()
	customers := newStubCustomerRepo()

	aggregate := NewCustomerService(customers, tickets)
	svc := NewTicketService(TicketDependencies{
		TicketRepo:   tickets,
		PaymentRepo:  payments,
		CustomerRepo: customers,
		Aggregate:    aggregate,
		Dispatcher:   events.NewInMemoryDispatcher(),
	})

	now := time.Date(2025, time.December, 1, 10, 0, 0, 0, time.UTC)
	svc.clock = func() time.Time { return now }
	aggregate.clock = svc.clock

	return &ledgerFixture{
		tickets:   tickets,
		payments:  payments,
		customers: customers,
		svc:       svc,
		aggregate: aggregate,
		now:       now,
	}
}

func (f *ledgerFixture) seedCustomer(t *testing.T) *domain.Customer {
	t.Helper()
	customer, err := f.aggregate.Create(context.Background(), CustomerInput{
		Name:  "Lakshmi Devi",
		Phone: "9876543210",
	})
	require.NoError(t, err)
	return customer
}

func money(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestCreateTicketSeedsFirstMonthInterest(t *testing.T) {
	f := newLedgerFixture(t)
	customer := f.seedCustomer(t)

	ticket, err := f.svc.Create(context.Background(), TicketCreateInput{
		CustomerID:         customer.ID,
		BillNumber:         "1042",
		ArticleName:        "Gold chain",
		ItemType:           "Gold",
		Principal:          money("20000"),
		InterestPercentage: money("2"),
		StartDate:          "2025-11-08",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusActive, ticket.Status)
	assert.True(t, ticket.PendingPrincipal.Equal(money("20000")))
	assert.True(t, ticket.TotalInterestReceived.Equal(money("400")))
	assert.Equal(t, 1, ticket.InterestReceivedMonths)
	assert.Equal(t, f.now, ticket.LastPaymentDate)

	// Seed payment row carries the start date so monthly reports attribute
	// the first month's interest to November, not December.
	payments, err := f.payments.ListByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "2025-11-08", payments[0].Date)
	assert.True(t, payments[0].InterestPaid.Equal(money("400")))
	assert.Equal(t, 1, payments[0].MonthsPaid)
	require.NotNil(t, payments[0].InterestReceivedAt)
	assert.Equal(t, "2025-11-08", *payments[0].InterestReceivedAt)

	updated, err := f.customers.GetByID(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.TotalTickets)
	assert.Equal(t, 1, updated.ActiveTickets)
	assert.True(t, updated.TotalOutstanding.Equal(money("20000")))
}

func TestCreateTicketRejectsDuplicateBillNumber(t *testing.T) {
	f := newLedgerFixture(t)
	customer := f.seedCustomer(t)

	input := TicketCreateInput{
		CustomerID:         customer.ID,
		BillNumber:         "77",
		ArticleName:        "Silver anklet",
		Principal:          money("5000"),
		InterestPercentage: money("3"),
	}
	_, err := f.svc.Create(context.Background(), input)
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateTicketRejectsNonNumericBillNumber(t *testing.T) {
	f := newLedgerFixture(t)
	customer := f.seedCustomer(t)

	_, err := f.svc.Create(context.Background(), TicketCreateInput{
		CustomerID:         customer.ID,
		BillNumber:         "AB-12",
		ArticleName:        "Bangle",
		Principal:          money("1000"),
		InterestPercentage: money("2"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "digits")
}

func TestCreateTicketUnknownCustomer(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.svc.Create(context.Background(), TicketCreateInput{
		CustomerID:         "customer-404",
		BillNumber:         "5",
		ArticleName:        "Ring",
		Principal:          money("1000"),
		InterestPercentage: money("2"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRecordPaymentReducesPending(t *testing.T) {
	f := newLedgerFixture(t)
	customer := f.seedCustomer(t)

	created, err := f.svc.Create(context.Background(), TicketCreateInput{
		CustomerID:         customer.ID,
		BillNumber:         "9",
		ArticleName:        "Gold ring",
		Principal:          money("20000"),
		InterestPercentage: money("2"),
		StartDate:          "2025-11-08",
	})
	require.NoError(t, err)

	payment, err := f.svc.RecordPayment(context.Background(), created.ID, PaymentInput{
		InterestPaid:  money("400"),
		PrincipalPaid: money("5000"),
		MonthsPaid:    1,
	})
	require.NoError(t, err)

	assert.True(t, payment.RemainingPrincipal.Equal(money("15000")))
	require.NotNil(t, payment.InterestReceivedAt)
	require.NotNil(t, payment.PrincipalReceivedAt)
	assert.Equal(t, "Lakshmi Devi", payment.CustomerName)

	ticket, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, ticket.PendingPrincipal.Equal(money("15000")))
	assert.True(t, ticket.TotalInterestReceived.Equal(money("800")))
	assert.Equal(t, 2, ticket.InterestReceivedMonths)

	all, err := f.svc.ListAllPayments(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest first: the manual payment precedes the seed row.
	assert.True(t, all[0].PrincipalPaid.Equal(money("5000")))
	assert.True(t, all[1].PrincipalPaid.Equal(decimal.Zero))
}

func TestRecordPaymentAllowsOverpayment(t *testing.T) {
	f := newLedgerFixture(t)
	customer := f.seedCustomer(t)

	created, err := f.svc.Create(context.Background(), TicketCreateInput{
		CustomerID:         customer.ID,
		BillNumber:         "10",
		ArticleName:        "Chain",
		Principal:          money("1000"),
		InterestPercentage: money("2"),
	})
	require.NoError(t, err)

	// Principal overpayment is not floored; the ledger records the excess
	// as negative pending principal.
	payment, err := f.svc.RecordPayment(context.Background(), created.ID, PaymentInput{
		PrincipalPaid: money("1500"),
	})
	require.NoError(t, err)
	assert.True(t, payment.RemainingPrincipal.Equal(money("-500")))
	assert.Nil(t, payment.InterestReceivedAt)
	require.NotNil(t, payment.PrincipalReceivedAt)
}

func TestRecordPaymentRejectsNegativeAmounts(t *testing.T) {
	f := newLedgerFixture(t)
	customer := f.seedCustomer(t)

	created, err := f.svc.Create(context.Background(), TicketCreateInput{
		CustomerID:         customer.ID,
		BillNumber:         "11",
		ArticleName:        "Coin",
		Principal:          money("1000"),
		InterestPercentage: money("2"),
	})
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(context.Background(), created.ID, PaymentInput{
		PrincipalPaid: money("-5"),
	})
	require.Error(t, err)
}

func TestCloseTicketReleasesOutstanding(t *testing.T) {
	f := newLedgerFixture(t)
	customer := f.seedCustomer(t)

	created, err := f.svc.Create(context.Background(), TicketCreateInput{
		CustomerID:         customer.ID,
		BillNumber:         "21",
		ArticleName:        "Necklace",
		Principal:          money("8000"),
		InterestPercentage: money("2"),
	})
	require.NoError(t, err)

	closed, closedNow, err := f.svc.Close(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, closedNow)
	assert.Equal(t, domain.TicketStatusClosed, closed.Status)
	require.NotNil(t, closed.CloseDate)

	updated, err := f.customers.GetByID(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.TotalTickets)
	assert.Equal(t, 0, updated.ActiveTickets)
	assert.True(t, updated.TotalOutstanding.IsZero())
}

func TestCloseTicketIsIdempotent(t *testing.T) {
	f := newLedgerFixture(t)
	customer := f.seedCustomer(t)

	created, err := f.svc.Create(context.Background(), TicketCreateInput{
		CustomerID:         customer.ID,
		BillNumber:         "22",
		ArticleName:        "Bracelet",
		Principal:          money("3000"),
		InterestPercentage: money("2"),
	})
	require.NoError(t, err)

	_, closedNow, err := f.svc.Close(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, closedNow)

	again, closedNow, err := f.svc.Close(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, closedNow)
	assert.Equal(t, domain.TicketStatusClosed, again.Status)

	// Stats are not decremented a second time.
	updated, err := f.customers.GetByID(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.ActiveTickets)
}

func TestListEnrichesWithPendingMonths(t *testing.T) {
	f := newLedgerFixture(t)
	customer := f.seedCustomer(t)

	_, err := f.svc.Create(context.Background(), TicketCreateInput{
		CustomerID:         customer.ID,
		BillNumber:         "31",
		ArticleName:        "Chain",
		Principal:          money("1000"),
		InterestPercentage: money("2"),
		StartDate:          "2025-11-08",
	})
	require.NoError(t, err)

	listed, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	// Nov 8 -> Dec 1: the anniversary month is incomplete, 1 elapsed day
	// past the month boundary counts as half a month.
	assert.True(t, listed[0].InterestPendingMonths.Equal(money("0.5")),
		"got %s", listed[0].InterestPendingMonths)
}

func TestListSkipsAccrualForMalformedStartDate(t *testing.T) {
	f := newLedgerFixture(t)
	customer := f.seedCustomer(t)

	created, err := f.svc.Create(context.Background(), TicketCreateInput{
		CustomerID:         customer.ID,
		BillNumber:         "32",
		ArticleName:        "Ring",
		Principal:          money("1000"),
		InterestPercentage: money("2"),
	})
	require.NoError(t, err)

	// Corrupt the stored date the way legacy rows sometimes are.
	f.tickets.tickets[created.ID].StartDate = "08/11/2025"

	listed, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].InterestPendingMonths.IsZero())
}
