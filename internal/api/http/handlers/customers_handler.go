package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/pawn-ledger/internal/accrual"
	"github.com/spec-kit/pawn-ledger/internal/api/dto"
	"github.com/spec-kit/pawn-ledger/internal/service"
)

// CustomersHandler exposes customer endpoints.
type CustomersHandler struct {
	customers *service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customers *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{customers: customers}
}

// Create handles POST /customers.
func (h *CustomersHandler) Create(c *fiber.Ctx) error {
	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	customer, err := h.customers.Create(c.UserContext(), req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewCustomerResponse(*customer),
	})
}

// List handles GET /customers.
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	customers, err := h.customers.List(c.UserContext())
	if err != nil {
		return err
	}

	responses := make([]dto.CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		responses = append(responses, dto.NewCustomerResponse(customer))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Get handles GET /customers/:id.
func (h *CustomersHandler) Get(c *fiber.Ctx) error {
	customer, err := h.customers.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerResponse(*customer)})
}

// Update handles PUT /customers/:id.
func (h *CustomersHandler) Update(c *fiber.Ctx) error {
	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	customer, err := h.customers.Update(c.UserContext(), c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerResponse(*customer)})
}

// ListTickets handles GET /customers/:id/tickets.
func (h *CustomersHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.customers.ListTickets(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	now := time.Now()
	responses := make([]dto.TicketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		pending := decimal.Zero
		if start, err := accrual.ParseDate(ticket.StartDate); err == nil {
			pending = accrual.CompletedMonths(start, now)
		}
		responses = append(responses, dto.NewTicketResponse(ticket, pending))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// RebuildStats handles POST /customers/rebuild-stats.
func (h *CustomersHandler) RebuildStats(c *fiber.Ctx) error {
	updated, err := h.customers.RebuildStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"customers_updated": updated}})
}
