package dto

import (
	"time"

	"github.com/spec-kit/pawn-ledger/internal/domain"
)

// SendAlertRequest payload.
type SendAlertRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	Message    string `json:"message" validate:"required"`
	Method     string `json:"method" validate:"required,oneof=sms whatsapp email"`
}

// AlertLogResponse is one outbound message log row.
type AlertLogResponse struct {
	ID           string              `json:"id"`
	CustomerID   string              `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	PhoneNumber  string              `json:"phone_number"`
	Channel      domain.AlertChannel `json:"channel"`
	Message      string              `json:"message"`
	Status       domain.AlertStatus  `json:"status"`
	Note         string              `json:"note,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// NewAlertLogResponse maps a log row.
func NewAlertLogResponse(message domain.AlertMessage) AlertLogResponse {
	return AlertLogResponse{
		ID:           message.ID,
		CustomerID:   message.CustomerID,
		CustomerName: message.CustomerName,
		PhoneNumber:  message.PhoneNumber,
		Channel:      message.Channel,
		Message:      message.Message,
		Status:       message.Status,
		Note:         message.Note,
		CreatedAt:    message.CreatedAt,
	}
}

// OverdueGroupResponse is one customer's overdue tickets.
type OverdueGroupResponse struct {
	CustomerID      string                  `json:"customer_id"`
	CustomerName    string                  `json:"customer_name"`
	CustomerPhone   string                  `json:"customer_phone"`
	CustomerAddress string                  `json:"customer_address"`
	TicketCount     int                     `json:"ticket_count"`
	Tickets         []OverdueTicketResponse `json:"tickets"`
}

// OverdueTicketResponse is the per-ticket overdue view.
type OverdueTicketResponse struct {
	ID                 string              `json:"id"`
	ArticleName        string              `json:"article_name"`
	Principal          string              `json:"principal"`
	PendingPrincipal   string              `json:"pending_principal"`
	InterestPercentage string              `json:"interest_percentage"`
	StartDate          string              `json:"start_date"`
	MonthsPending      int                 `json:"months_pending"`
	Status             domain.TicketStatus `json:"status"`
}

// NewOverdueGroupResponse maps an overdue group.
func NewOverdueGroupResponse(group domain.OverdueGroup) OverdueGroupResponse {
	tickets := make([]OverdueTicketResponse, 0, len(group.Tickets))
	for _, ticket := range group.Tickets {
		tickets = append(tickets, OverdueTicketResponse{
			ID:                 ticket.ID,
			ArticleName:        ticket.ArticleName,
			Principal:          ticket.Principal.String(),
			PendingPrincipal:   ticket.PendingPrincipal.String(),
			InterestPercentage: ticket.InterestPercentage.String(),
			StartDate:          ticket.StartDate,
			MonthsPending:      ticket.MonthsPending,
			Status:             ticket.Status,
		})
	}
	return OverdueGroupResponse{
		CustomerID:      group.CustomerID,
		CustomerName:    group.CustomerName,
		CustomerPhone:   group.CustomerPhone,
		CustomerAddress: group.CustomerAddress,
		TicketCount:     group.TicketCount,
		Tickets:         tickets,
	}
}
