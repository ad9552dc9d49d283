package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pawn-ledger/internal/domain"
)

// PaymentRepository is the append-only payment log. Rows are created once
// and never updated or deleted.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	List(ctx context.Context) ([]domain.Payment, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Payment, error)
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository instantiates repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

const paymentColumns = `id, ticket_id, customer_name, date, interest_paid, interest_received_at,
               principal_paid, principal_received_at, months_paid, remaining_principal`

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	const query = `
        INSERT INTO payments (ticket_id, customer_name, date, interest_paid, interest_received_at,
            principal_paid, principal_received_at, months_paid, remaining_principal)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		payment.TicketID,
		payment.CustomerName,
		payment.Date,
		payment.InterestPaid,
		payment.InterestReceivedAt,
		payment.PrincipalPaid,
		payment.PrincipalReceivedAt,
		payment.MonthsPaid,
		payment.RemainingPrincipal,
	).Scan(&payment.ID)
}

func (r *paymentRepository) List(ctx context.Context) ([]domain.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments ORDER BY date DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (r *paymentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE ticket_id=$1 ORDER BY date DESC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func scanPayments(rows pgx.Rows) ([]domain.Payment, error) {
	var result []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.TicketID,
			&payment.CustomerName,
			&payment.Date,
			&payment.InterestPaid,
			&payment.InterestReceivedAt,
			&payment.PrincipalPaid,
			&payment.PrincipalReceivedAt,
			&payment.MonthsPaid,
			&payment.RemainingPrincipal,
		); err != nil {
			return nil, err
		}
		result = append(result, payment)
	}
	return result, rows.Err()
}
