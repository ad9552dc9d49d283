package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/pawn-ledger/internal/accrual"
	"github.com/spec-kit/pawn-ledger/internal/domain"
	"github.com/spec-kit/pawn-ledger/internal/repository"
	apperrors "github.com/spec-kit/pawn-ledger/pkg/util/errorutil"
)

// ReportService builds reporting views over the append-only payment log
// and the ticket set.
type ReportService struct {
	tickets  repository.TicketRepository
	payments repository.PaymentRepository
	clock    func() time.Time
}

// NewReportService constructs the service.
func NewReportService(tickets repository.TicketRepository, payments repository.PaymentRepository) *ReportService {
	return &ReportService{
		tickets:  tickets,
		payments: payments,
		clock:    time.Now,
	}
}

// PaymentLine is one payment inside a monthly report.
type PaymentLine struct {
	ID            string          `json:"id"`
	Date          string          `json:"date"`
	CustomerName  string          `json:"customerName"`
	InterestPaid  decimal.Decimal `json:"interestPaid"`
	PrincipalPaid decimal.Decimal `json:"principalPaid"`
}

// MonthlyInterestReport totals the payments attributed to one month.
type MonthlyInterestReport struct {
	Month          string          `json:"month"`
	TotalInterest  decimal.Decimal `json:"totalInterest"`
	TotalPrincipal decimal.Decimal `json:"totalPrincipal"`
	PaymentCount   int             `json:"paymentCount"`
	Payments       []PaymentLine   `json:"payments"`
}

// OutstandingTicket is one ticket still carrying pending principal.
type OutstandingTicket struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	ArticleName        string              `json:"articleName"`
	Principal          decimal.Decimal     `json:"principal"`
	PendingPrincipal   decimal.Decimal     `json:"pendingPrincipal"`
	InterestPercentage decimal.Decimal     `json:"interestPercentage"`
	StartDate          string              `json:"startDate"`
	Status             domain.TicketStatus `json:"status"`
}

// OutstandingLoansReport lists all tickets with money still owed.
type OutstandingLoansReport struct {
	TotalOutstanding decimal.Decimal     `json:"totalOutstanding"`
	Tickets          []OutstandingTicket `json:"tickets"`
}

// MonthlyInterest sums interest and principal received in the given month
// ("2006-01" format; empty means the current month). A payment belongs to
// the month its Date field falls in, which for seed payments is the
// ticket's start month rather than the creation instant.
func (s *ReportService) MonthlyInterest(ctx context.Context, month string) (*MonthlyInterestReport, error) {
	startOfMonth, err := s.monthStart(month)
	if err != nil {
		return nil, err
	}
	endOfMonth := startOfMonth.AddDate(0, 1, 0)

	payments, err := s.payments.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &MonthlyInterestReport{
		Month:          startOfMonth.Format("2006-01"),
		TotalInterest:  decimal.Zero,
		TotalPrincipal: decimal.Zero,
		Payments:       []PaymentLine{},
	}
	for _, payment := range payments {
		date, err := accrual.ParseDate(payment.Date)
		if err != nil {
			continue
		}
		if date.Before(startOfMonth) || !date.Before(endOfMonth) {
			continue
		}
		report.TotalInterest = report.TotalInterest.Add(payment.InterestPaid)
		report.TotalPrincipal = report.TotalPrincipal.Add(payment.PrincipalPaid)
		report.PaymentCount++
		report.Payments = append(report.Payments, PaymentLine{
			ID:            payment.ID,
			Date:          payment.Date,
			CustomerName:  payment.CustomerName,
			InterestPaid:  payment.InterestPaid,
			PrincipalPaid: payment.PrincipalPaid,
		})
	}
	return report, nil
}

// OutstandingLoans lists every ticket whose pending principal is positive.
func (s *ReportService) OutstandingLoans(ctx context.Context) (*OutstandingLoansReport, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &OutstandingLoansReport{
		TotalOutstanding: decimal.Zero,
		Tickets:          []OutstandingTicket{},
	}
	for _, ticket := range tickets {
		if !ticket.PendingPrincipal.IsPositive() {
			continue
		}
		report.Tickets = append(report.Tickets, OutstandingTicket{
			ID:                 ticket.ID,
			Name:               ticket.CustomerName,
			ArticleName:        ticket.ArticleName,
			Principal:          ticket.Principal,
			PendingPrincipal:   ticket.PendingPrincipal,
			InterestPercentage: ticket.InterestPercentage,
			StartDate:          ticket.StartDate,
			Status:             ticket.Status,
		})
		report.TotalOutstanding = report.TotalOutstanding.Add(ticket.PendingPrincipal)
	}
	return report, nil
}

// ExportFilter selects the window for a payment export.
type ExportFilter struct {
	Type       string // "all", "month", or "range"
	Month      string // 2006-01, when Type == "month"
	StartMonth string // 2006-01, when Type == "range"
	EndMonth   string // 2006-01, inclusive, when Type == "range"
}

type exportRow struct {
	date          time.Time
	dateRaw       string
	customerName  string
	kind          string
	interestPaid  decimal.Decimal
	principalPaid decimal.Decimal
}

// ExportPaymentReport renders the combined money-movement CSV: ticket
// principals go out as "Invested" rows dated at the start date, payments
// come back as "Received" rows, newest first, with a summary footer.
// Returns the CSV bytes and a suggested file name.
func (s *ReportService) ExportPaymentReport(ctx context.Context, filter ExportFilter) ([]byte, string, error) {
	var windowStart, windowEnd time.Time
	switch filter.Type {
	case "", "all":
		filter.Type = "all"
	case "month":
		start, err := s.monthStart(filter.Month)
		if err != nil {
			return nil, "", err
		}
		windowStart, windowEnd = start, start.AddDate(0, 1, 0)
	case "range":
		if filter.StartMonth == "" || filter.EndMonth == "" {
			return nil, "", apperrors.NewValidationError("startMonth and endMonth are required for range filter", nil)
		}
		start, err := parseMonth(filter.StartMonth)
		if err != nil {
			return nil, "", err
		}
		end, err := parseMonth(filter.EndMonth)
		if err != nil {
			return nil, "", err
		}
		windowStart, windowEnd = start, end.AddDate(0, 1, 0)
	default:
		return nil, "", apperrors.NewValidationError("filterType must be all, month, or range", nil)
	}

	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, "", err
	}
	payments, err := s.payments.List(ctx)
	if err != nil {
		return nil, "", err
	}

	inWindow := func(t time.Time) bool {
		if filter.Type == "all" {
			return true
		}
		return !t.Before(windowStart) && t.Before(windowEnd)
	}

	rows := []exportRow{}
	for _, ticket := range tickets {
		date, err := accrual.ParseDate(ticket.StartDate)
		if err != nil || !inWindow(date) {
			continue
		}
		rows = append(rows, exportRow{
			date:          date,
			dateRaw:       ticket.StartDate,
			customerName:  ticket.CustomerName,
			kind:          "Invested",
			interestPaid:  decimal.Zero,
			principalPaid: ticket.Principal,
		})
	}
	for _, payment := range payments {
		date, err := accrual.ParseDate(payment.Date)
		if err != nil || !inWindow(date) {
			continue
		}
		rows = append(rows, exportRow{
			date:          date,
			dateRaw:       payment.Date,
			customerName:  payment.CustomerName,
			kind:          "Received",
			interestPaid:  payment.InterestPaid,
			principalPaid: payment.PrincipalPaid,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].date.After(rows[j].date) })

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write([]string{"Date", "Customer Name", "Type", "Interest Paid", "Principal Amount"})

	totalInterest := decimal.Zero
	totalPrincipalReceived := decimal.Zero
	totalPrincipalInvested := decimal.Zero
	for _, row := range rows {
		_ = writer.Write([]string{
			row.date.Format("2006-01-02 15:04:05"),
			row.customerName,
			row.kind,
			row.interestPaid.StringFixed(2),
			row.principalPaid.StringFixed(2),
		})
		totalInterest = totalInterest.Add(row.interestPaid)
		if row.kind == "Received" {
			totalPrincipalReceived = totalPrincipalReceived.Add(row.principalPaid)
		} else {
			totalPrincipalInvested = totalPrincipalInvested.Add(row.principalPaid)
		}
	}

	_ = writer.Write([]string{})
	_ = writer.Write([]string{"Summary"})
	_ = writer.Write([]string{"Total Principal Invested", "", "", "", totalPrincipalInvested.StringFixed(2)})
	_ = writer.Write([]string{"Total Interest Received", "", "", totalInterest.StringFixed(2), ""})
	_ = writer.Write([]string{"Total Principal Received", "", "", "", totalPrincipalReceived.StringFixed(2)})
	_ = writer.Write([]string{"Number of Transactions", "", strconv.Itoa(len(rows)), "", ""})
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("payment_report_%s_%s.csv", filter.Type, s.clock().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

// ExportOutstandingLoans renders the outstanding-loans CSV, largest
// pending principal first.
func (s *ReportService) ExportOutstandingLoans(ctx context.Context) ([]byte, string, error) {
	report, err := s.OutstandingLoans(ctx)
	if err != nil {
		return nil, "", err
	}

	tickets := append([]OutstandingTicket{}, report.Tickets...)
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].PendingPrincipal.GreaterThan(tickets[j].PendingPrincipal)
	})

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write([]string{
		"Ticket ID", "Customer Name", "Article Name", "Original Principal",
		"Pending Principal", "Interest Rate (%)", "Start Date", "Status",
	})
	for _, ticket := range tickets {
		startDate := ticket.StartDate
		if parsed, err := accrual.ParseDate(ticket.StartDate); err == nil {
			startDate = parsed.Format("2006-01-02")
		}
		_ = writer.Write([]string{
			ticket.ID,
			ticket.Name,
			ticket.ArticleName,
			ticket.Principal.StringFixed(2),
			ticket.PendingPrincipal.StringFixed(2),
			ticket.InterestPercentage.StringFixed(2),
			startDate,
			string(ticket.Status),
		})
	}
	_ = writer.Write([]string{})
	_ = writer.Write([]string{"Summary"})
	_ = writer.Write([]string{"Total Outstanding Principal", "", "", "", report.TotalOutstanding.StringFixed(2), "", "", ""})
	_ = writer.Write([]string{"Number of Outstanding Tickets", "", strconv.Itoa(len(tickets)), "", "", "", "", ""})
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("outstanding_loans_%s.csv", s.clock().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func (s *ReportService) monthStart(month string) (time.Time, error) {
	if month == "" {
		now := s.clock()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	return parseMonth(month)
}

func parseMonth(month string) (time.Time, error) {
	parsed, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("month must be in YYYY-MM format", nil)
	}
	return time.Date(parsed.Year(), parsed.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}
