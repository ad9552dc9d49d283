package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/pawn-ledger/internal/domain"
)

// TicketRepository encapsulates pawn ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByBillNumber(ctx context.Context, billNumber string) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Ticket, error)
	UpdateFinancials(ctx context.Context, id string, pending, totalInterest decimal.Decimal, months int, lastPayment time.Time) error
	Close(ctx context.Context, id string, closeDate time.Time) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, customer_id, customer_name, customer_phone, customer_address,
               bill_number, article_name, item_type, gross_weight, net_weight,
               principal, pending_principal, interest_percentage, start_date,
               status, close_date, total_interest_received, interest_received_months,
               last_payment_date, created_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (customer_id, customer_name, customer_phone, customer_address,
            bill_number, article_name, item_type, gross_weight, net_weight,
            principal, pending_principal, interest_percentage, start_date,
            status, close_date, total_interest_received, interest_received_months, last_payment_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.CustomerID,
		ticket.CustomerName,
		ticket.CustomerPhone,
		ticket.CustomerAddress,
		ticket.BillNumber,
		ticket.ArticleName,
		ticket.ItemType,
		ticket.GrossWeight,
		ticket.NetWeight,
		ticket.Principal,
		ticket.PendingPrincipal,
		ticket.InterestPercentage,
		ticket.StartDate,
		ticket.Status,
		ticket.CloseDate,
		ticket.TotalInterestReceived,
		ticket.InterestReceivedMonths,
		ticket.LastPaymentDate,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByBillNumber(ctx context.Context, billNumber string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE bill_number=$1`
	return r.fetchSingle(ctx, query, billNumber)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := scanTicket(r.pool.QueryRow(ctx, query, arg), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets ORDER BY last_payment_date DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE customer_id=$1 ORDER BY last_payment_date DESC`
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) UpdateFinancials(ctx context.Context, id string, pending, totalInterest decimal.Decimal, months int, lastPayment time.Time) error {
	const query = `
        UPDATE tickets SET pending_principal=$1, total_interest_received=$2,
            interest_received_months=$3, last_payment_date=$4
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query, pending, totalInterest, months, lastPayment, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Close(ctx context.Context, id string, closeDate time.Time) error {
	const query = `UPDATE tickets SET status=$1, close_date=$2 WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, domain.TicketStatusClosed, closeDate, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.CustomerID,
		&ticket.CustomerName,
		&ticket.CustomerPhone,
		&ticket.CustomerAddress,
		&ticket.BillNumber,
		&ticket.ArticleName,
		&ticket.ItemType,
		&ticket.GrossWeight,
		&ticket.NetWeight,
		&ticket.Principal,
		&ticket.PendingPrincipal,
		&ticket.InterestPercentage,
		&ticket.StartDate,
		&ticket.Status,
		&ticket.CloseDate,
		&ticket.TotalInterestReceived,
		&ticket.InterestReceivedMonths,
		&ticket.LastPaymentDate,
		&ticket.CreatedAt,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
