package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/pawn-ledger/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventPaymentRecorded EventType = "payment_recorded"
	EventTicketClosed    EventType = "ticket_closed"
	EventAlertQueued     EventType = "alert_queued"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CustomerID         string          `json:"customer_id"`
	BillNumber         string          `json:"bill_number"`
	Principal          decimal.Decimal `json:"principal"`
	FirstMonthInterest decimal.Decimal `json:"first_month_interest"`
	StartDate          string          `json:"start_date"`
}

// PaymentRecordedPayload payload.
type PaymentRecordedPayload struct {
	CustomerID       string          `json:"customer_id"`
	InterestPaid     decimal.Decimal `json:"interest_paid"`
	PrincipalPaid    decimal.Decimal `json:"principal_paid"`
	MonthsPaid       int             `json:"months_paid"`
	PendingPrincipal decimal.Decimal `json:"pending_principal"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	CustomerID     string          `json:"customer_id"`
	PendingAtClose decimal.Decimal `json:"pending_at_close"`
}

// AlertQueuedPayload payload.
type AlertQueuedPayload struct {
	CustomerID  string              `json:"customer_id"`
	Channel     domain.AlertChannel `json:"channel"`
	PhoneNumber string              `json:"phone_number"`
}
