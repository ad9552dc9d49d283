package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TicketStatus enumerates lifecycle states for pawn tickets.
type TicketStatus string

const (
	TicketStatusActive TicketStatus = "Active"
	TicketStatusClosed TicketStatus = "Closed"
)

// Ticket is the aggregate for a single pawn loan.
type Ticket struct {
	ID         string
	CustomerID string

	// Customer snapshot cached at creation time. Not re-synced when the
	// customer record is edited later.
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string

	BillNumber  string
	ArticleName string
	ItemType    string
	GrossWeight *float64
	NetWeight   *float64

	Principal          decimal.Decimal
	PendingPrincipal   decimal.Decimal
	InterestPercentage decimal.Decimal

	// StartDate marks when interest starts accruing. Kept as an ISO-8601
	// string; both YYYY-MM-DD and full date-times occur in stored data.
	StartDate string

	Status    TicketStatus
	CloseDate *time.Time

	TotalInterestReceived  decimal.Decimal
	InterestReceivedMonths int

	LastPaymentDate time.Time
	CreatedAt       time.Time
}

// IsActive reports whether the ticket still accrues interest.
func (t *Ticket) IsActive() bool {
	return t.Status == TicketStatusActive
}
