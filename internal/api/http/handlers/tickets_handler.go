package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pawn-ledger/internal/api/dto"
	"github.com/spec-kit/pawn-ledger/internal/service"
)

// TicketsHandler exposes the pawn ticket ledger endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets}
}

// Create handles POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ticket, err := h.tickets.Create(c.UserContext(), req.ToInput())
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewTicketResponse(ticket.Ticket, ticket.InterestPendingMonths),
	})
}

// List handles GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	tickets, err := h.tickets.List(c.UserContext())
	if err != nil {
		return err
	}

	responses := make([]dto.TicketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		responses = append(responses, dto.NewTicketResponse(ticket.Ticket, ticket.InterestPendingMonths))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Get handles GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.tickets.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.NewTicketResponse(ticket.Ticket, ticket.InterestPendingMonths),
	})
}

// RecordPayment handles POST /tickets/:id/payments.
func (h *TicketsHandler) RecordPayment(c *fiber.Ctx) error {
	var req dto.RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	payment, err := h.tickets.RecordPayment(c.UserContext(), c.Params("id"), service.PaymentInput{
		InterestPaid:  req.InterestPaid,
		PrincipalPaid: req.PrincipalPaid,
		MonthsPaid:    req.MonthsPaid,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewPaymentResponse(*payment),
	})
}

// ListPayments handles GET /tickets/:id/payments.
func (h *TicketsHandler) ListPayments(c *fiber.Ctx) error {
	payments, err := h.tickets.ListPayments(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	responses := make([]dto.PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		responses = append(responses, dto.NewPaymentResponse(payment))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// ListAllPayments handles GET /payments.
func (h *TicketsHandler) ListAllPayments(c *fiber.Ctx) error {
	payments, err := h.tickets.ListAllPayments(c.UserContext())
	if err != nil {
		return err
	}

	responses := make([]dto.PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		responses = append(responses, dto.NewPaymentResponse(payment))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Close handles POST /tickets/:id/close.
func (h *TicketsHandler) Close(c *fiber.Ctx) error {
	ticket, closedNow, err := h.tickets.Close(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"ticket":     dto.NewTicketResponse(ticket.Ticket, ticket.InterestPendingMonths),
			"closed_now": closedNow,
		},
	})
}
