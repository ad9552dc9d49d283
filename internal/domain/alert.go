package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertChannel enumerates outbound notification channels.
type AlertChannel string

const (
	AlertChannelSMS      AlertChannel = "sms"
	AlertChannelWhatsApp AlertChannel = "whatsapp"
	AlertChannelEmail    AlertChannel = "email"
)

// AlertStatus tracks the lifecycle of an outbound message.
type AlertStatus string

const (
	AlertStatusQueued               AlertStatus = "queued"
	AlertStatusSent                 AlertStatus = "sent"
	AlertStatusPendingConfiguration AlertStatus = "pending_configuration"
)

// AlertMessage is a log entry for an outbound customer notification.
type AlertMessage struct {
	ID           string
	CustomerID   string
	CustomerName string
	PhoneNumber  string
	Channel      AlertChannel
	Message      string
	Status       AlertStatus
	Note         string
	CreatedAt    time.Time
}

// OverdueTicket is the per-ticket view handed to the alerting boundary.
type OverdueTicket struct {
	ID                 string
	ArticleName        string
	Principal          decimal.Decimal
	PendingPrincipal   decimal.Decimal
	InterestPercentage decimal.Decimal
	StartDate          string
	MonthsPending      int
	Status             TicketStatus
}

// OverdueGroup collects a customer's overdue tickets for alert dispatch.
type OverdueGroup struct {
	CustomerID      string
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	TicketCount     int
	Tickets         []OverdueTicket
}
