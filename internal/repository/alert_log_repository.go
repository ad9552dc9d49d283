package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pawn-ledger/internal/domain"
)

// AlertLogRepository stores the outbound alert message history.
type AlertLogRepository interface {
	Create(ctx context.Context, message *domain.AlertMessage) error
	List(ctx context.Context) ([]domain.AlertMessage, error)
}

type alertLogRepository struct {
	pool *pgxpool.Pool
}

// NewAlertLogRepository instantiates repository.
func NewAlertLogRepository(pool *pgxpool.Pool) AlertLogRepository {
	return &alertLogRepository{pool: pool}
}

func (r *alertLogRepository) Create(ctx context.Context, message *domain.AlertMessage) error {
	const query = `
        INSERT INTO alert_messages (customer_id, customer_name, phone_number, channel, message, status, note)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		message.CustomerID,
		message.CustomerName,
		message.PhoneNumber,
		message.Channel,
		message.Message,
		message.Status,
		message.Note,
	).Scan(&message.ID, &message.CreatedAt)
}

func (r *alertLogRepository) List(ctx context.Context) ([]domain.AlertMessage, error) {
	const query = `
        SELECT id, customer_id, customer_name, phone_number, channel, message, status, note, created_at
        FROM alert_messages ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AlertMessage
	for rows.Next() {
		var message domain.AlertMessage
		if err := rows.Scan(
			&message.ID,
			&message.CustomerID,
			&message.CustomerName,
			&message.PhoneNumber,
			&message.Channel,
			&message.Message,
			&message.Status,
			&message.Note,
			&message.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, message)
	}
	return result, rows.Err()
}
