package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a borrower plus rolled-up ticket statistics.
type Customer struct {
	ID      string
	Name    string
	Phone   string
	Address string
	State   string
	City    string
	Pincode string

	IDProofType      string
	IDProofOtherName string
	IDProofNumber    string

	// Rolled-up stats, maintained incrementally by ticket events. They are
	// never recomputed on the read path; RebuildStats is the repair tool.
	TotalTickets     int
	ActiveTickets    int
	TotalOutstanding decimal.Decimal

	CreatedAt time.Time
}

// StatsDelta describes an incremental adjustment to a customer's
// rolled-up counters. Negative deltas decrement.
type StatsDelta struct {
	TotalTickets  int
	ActiveTickets int
	Outstanding   decimal.Decimal
}
