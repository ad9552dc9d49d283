package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/pawn-ledger/internal/domain"
	"github.com/spec-kit/pawn-ledger/internal/service"
)

// CustomerRequest payload for create and update.
type CustomerRequest struct {
	Name             string `json:"name" validate:"required"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	State            string `json:"state"`
	City             string `json:"city"`
	Pincode          string `json:"pincode" validate:"omitempty,numeric"`
	IDProofType      string `json:"id_proof_type"`
	IDProofOtherName string `json:"id_proof_other_name"`
	IDProofNumber    string `json:"id_proof_number"`
}

// ToInput maps the request onto the service input.
func (r CustomerRequest) ToInput() service.CustomerInput {
	return service.CustomerInput{
		Name:             r.Name,
		Phone:            r.Phone,
		Address:          r.Address,
		State:            r.State,
		City:             r.City,
		Pincode:          r.Pincode,
		IDProofType:      r.IDProofType,
		IDProofOtherName: r.IDProofOtherName,
		IDProofNumber:    r.IDProofNumber,
	}
}

// CustomerResponse is the customer view with rolled-up stats.
type CustomerResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Phone            string          `json:"phone"`
	Address          string          `json:"address"`
	State            string          `json:"state"`
	City             string          `json:"city"`
	Pincode          string          `json:"pincode"`
	IDProofType      string          `json:"id_proof_type"`
	IDProofOtherName string          `json:"id_proof_other_name"`
	IDProofNumber    string          `json:"id_proof_number"`
	TotalTickets     int             `json:"total_tickets"`
	ActiveTickets    int             `json:"active_tickets"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	CreatedAt        time.Time       `json:"created_at"`
}

// NewCustomerResponse maps a customer.
func NewCustomerResponse(customer domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:               customer.ID,
		Name:             customer.Name,
		Phone:            customer.Phone,
		Address:          customer.Address,
		State:            customer.State,
		City:             customer.City,
		Pincode:          customer.Pincode,
		IDProofType:      customer.IDProofType,
		IDProofOtherName: customer.IDProofOtherName,
		IDProofNumber:    customer.IDProofNumber,
		TotalTickets:     customer.TotalTickets,
		ActiveTickets:    customer.ActiveTickets,
		TotalOutstanding: customer.TotalOutstanding,
		CreatedAt:        customer.CreatedAt,
	}
}
