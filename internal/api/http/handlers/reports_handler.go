package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pawn-ledger/internal/service"
)

// ReportsHandler exposes the reporting and CSV export endpoints.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// MonthlyInterest handles GET /reports/monthly-interest?month=YYYY-MM.
func (h *ReportsHandler) MonthlyInterest(c *fiber.Ctx) error {
	report, err := h.reports.MonthlyInterest(c.UserContext(), c.Query("month"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// OutstandingLoans handles GET /reports/outstanding.
func (h *ReportsHandler) OutstandingLoans(c *fiber.Ctx) error {
	report, err := h.reports.OutstandingLoans(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// ExportPayments handles GET /reports/export/payments.
// Query: type=all|month|range, month=YYYY-MM, start_month, end_month.
func (h *ReportsHandler) ExportPayments(c *fiber.Ctx) error {
	filter := service.ExportFilter{
		Type:       c.Query("type", "all"),
		Month:      c.Query("month"),
		StartMonth: c.Query("start_month"),
		EndMonth:   c.Query("end_month"),
	}

	content, filename, err := h.reports.ExportPaymentReport(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return sendCSV(c, content, filename)
}

// ExportOutstanding handles GET /reports/export/outstanding.
func (h *ReportsHandler) ExportOutstanding(c *fiber.Ctx) error {
	content, filename, err := h.reports.ExportOutstandingLoans(c.UserContext())
	if err != nil {
		return err
	}
	return sendCSV(c, content, filename)
}

func sendCSV(c *fiber.Ctx, content []byte, filename string) error {
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Status(http.StatusOK).Send(content)
}
