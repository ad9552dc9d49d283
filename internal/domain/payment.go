package domain

import "github.com/shopspring/decimal"

// Payment is one append-only row in the global payment log. A row is
// written for each ticket creation (the seeded first-month interest) and
// for each manual payment. Rows are never mutated.
type Payment struct {
	ID           string
	TicketID     string
	CustomerName string

	// Date attributes the payment to a reporting month. The seed payment
	// carries the ticket's startDate; manual payments carry the instant
	// they were recorded. ISO-8601 string, same formats as Ticket.StartDate.
	Date string

	InterestPaid        decimal.Decimal
	InterestReceivedAt  *string
	PrincipalPaid       decimal.Decimal
	PrincipalReceivedAt *string

	MonthsPaid int

	// RemainingPrincipal snapshots the ticket's pendingPrincipal after this
	// payment was applied.
	RemainingPrincipal decimal.Decimal
}
