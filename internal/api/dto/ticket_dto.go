package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/pawn-ledger/internal/domain"
	"github.com/spec-kit/pawn-ledger/internal/service"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	CustomerID         string          `json:"customer_id" validate:"required"`
	BillNumber         string          `json:"bill_number" validate:"required,numeric"`
	ArticleName        string          `json:"article_name" validate:"required"`
	ItemType           string          `json:"item_type" validate:"omitempty,oneof=Gold Silver Other"`
	GrossWeight        *float64        `json:"gross_weight" validate:"omitempty,gte=0"`
	NetWeight          *float64        `json:"net_weight" validate:"omitempty,gte=0"`
	Principal          decimal.Decimal `json:"principal" validate:"required"`
	InterestPercentage decimal.Decimal `json:"interest_percentage" validate:"required"`
	StartDate          string          `json:"start_date"`
}

// ToInput maps the request onto the service input.
func (r CreateTicketRequest) ToInput() service.TicketCreateInput {
	return service.TicketCreateInput{
		CustomerID:         r.CustomerID,
		BillNumber:         r.BillNumber,
		ArticleName:        r.ArticleName,
		ItemType:           r.ItemType,
		GrossWeight:        r.GrossWeight,
		NetWeight:          r.NetWeight,
		Principal:          r.Principal,
		InterestPercentage: r.InterestPercentage,
		StartDate:          r.StartDate,
	}
}

// RecordPaymentRequest payload.
type RecordPaymentRequest struct {
	InterestPaid  decimal.Decimal `json:"interest_paid"`
	PrincipalPaid decimal.Decimal `json:"principal_paid"`
	MonthsPaid    int             `json:"months_paid" validate:"gte=0"`
}

// TicketResponse is the full ticket view.
type TicketResponse struct {
	ID                     string              `json:"id"`
	CustomerID             string              `json:"customer_id"`
	CustomerName           string              `json:"customer_name"`
	CustomerPhone          string              `json:"customer_phone"`
	CustomerAddress        string              `json:"customer_address"`
	BillNumber             string              `json:"bill_number"`
	ArticleName            string              `json:"article_name"`
	ItemType               string              `json:"item_type"`
	GrossWeight            *float64            `json:"gross_weight"`
	NetWeight              *float64            `json:"net_weight"`
	Principal              decimal.Decimal     `json:"principal"`
	PendingPrincipal       decimal.Decimal     `json:"pending_principal"`
	InterestPercentage     decimal.Decimal     `json:"interest_percentage"`
	StartDate              string              `json:"start_date"`
	Status                 domain.TicketStatus `json:"status"`
	CloseDate              *time.Time          `json:"close_date"`
	TotalInterestReceived  decimal.Decimal     `json:"total_interest_received"`
	InterestReceivedMonths int                 `json:"interest_received_months"`
	InterestPendingMonths  decimal.Decimal     `json:"interest_pending_months"`
	LastPaymentDate        time.Time           `json:"last_payment_date"`
	CreatedAt              time.Time           `json:"created_at"`
}

// NewTicketResponse maps a ticket with its accrued months.
func NewTicketResponse(ticket domain.Ticket, pendingMonths decimal.Decimal) TicketResponse {
	return TicketResponse{
		ID:                     ticket.ID,
		CustomerID:             ticket.CustomerID,
		CustomerName:           ticket.CustomerName,
		CustomerPhone:          ticket.CustomerPhone,
		CustomerAddress:        ticket.CustomerAddress,
		BillNumber:             ticket.BillNumber,
		ArticleName:            ticket.ArticleName,
		ItemType:               ticket.ItemType,
		GrossWeight:            ticket.GrossWeight,
		NetWeight:              ticket.NetWeight,
		Principal:              ticket.Principal,
		PendingPrincipal:       ticket.PendingPrincipal,
		InterestPercentage:     ticket.InterestPercentage,
		StartDate:              ticket.StartDate,
		Status:                 ticket.Status,
		CloseDate:              ticket.CloseDate,
		TotalInterestReceived:  ticket.TotalInterestReceived,
		InterestReceivedMonths: ticket.InterestReceivedMonths,
		InterestPendingMonths:  pendingMonths,
		LastPaymentDate:        ticket.LastPaymentDate,
		CreatedAt:              ticket.CreatedAt,
	}
}

// PaymentResponse is one payment log row.
type PaymentResponse struct {
	ID                  string          `json:"id"`
	TicketID            string          `json:"ticket_id"`
	CustomerName        string          `json:"customer_name"`
	Date                string          `json:"date"`
	InterestPaid        decimal.Decimal `json:"interest_paid"`
	InterestReceivedAt  *string         `json:"interest_received_at"`
	PrincipalPaid       decimal.Decimal `json:"principal_paid"`
	PrincipalReceivedAt *string         `json:"principal_received_at"`
	MonthsPaid          int             `json:"months_paid"`
	RemainingPrincipal  decimal.Decimal `json:"remaining_principal"`
}

// NewPaymentResponse maps a payment row.
func NewPaymentResponse(payment domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                  payment.ID,
		TicketID:            payment.TicketID,
		CustomerName:        payment.CustomerName,
		Date:                payment.Date,
		InterestPaid:        payment.InterestPaid,
		InterestReceivedAt:  payment.InterestReceivedAt,
		PrincipalPaid:       payment.PrincipalPaid,
		PrincipalReceivedAt: payment.PrincipalReceivedAt,
		MonthsPaid:          payment.MonthsPaid,
		RemainingPrincipal:  payment.RemainingPrincipal,
	}
}
