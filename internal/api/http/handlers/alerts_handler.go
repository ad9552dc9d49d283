package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pawn-ledger/internal/api/dto"
	"github.com/spec-kit/pawn-ledger/internal/domain"
	"github.com/spec-kit/pawn-ledger/internal/service"
)

// AlertsHandler exposes overdue detection and outbound messaging.
type AlertsHandler struct {
	overdue       *service.OverdueService
	alerts        *service.AlertService
	defaultMonths int
}

// NewAlertsHandler constructs handler.
func NewAlertsHandler(overdue *service.OverdueService, alerts *service.AlertService, defaultMonths int) *AlertsHandler {
	if defaultMonths <= 0 {
		defaultMonths = service.DefaultOverdueThresholdMonths
	}
	return &AlertsHandler{overdue: overdue, alerts: alerts, defaultMonths: defaultMonths}
}

// Overdue handles GET /alerts/overdue?months=N.
func (h *AlertsHandler) Overdue(c *fiber.Ctx) error {
	months := h.defaultMonths
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return fiber.NewError(http.StatusBadRequest, "months must be a positive integer")
		}
		months = parsed
	}

	groups, err := h.overdue.FindOverdue(c.UserContext(), months)
	if err != nil {
		return err
	}

	responses := make([]dto.OverdueGroupResponse, 0, len(groups))
	for _, group := range groups {
		responses = append(responses, dto.NewOverdueGroupResponse(group))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Send handles POST /alerts/send.
func (h *AlertsHandler) Send(c *fiber.Ctx) error {
	var req dto.SendAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	result, err := h.alerts.SendMessage(c.UserContext(), req.CustomerID, req.Message, domain.AlertChannel(req.Method))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// History handles GET /alerts/history.
func (h *AlertsHandler) History(c *fiber.Ctx) error {
	messages, err := h.alerts.MessageHistory(c.UserContext())
	if err != nil {
		return err
	}

	responses := make([]dto.AlertLogResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, dto.NewAlertLogResponse(message))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Setup handles GET /alerts/setup.
func (h *AlertsHandler) Setup(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.alerts.SetupStatus()})
}
