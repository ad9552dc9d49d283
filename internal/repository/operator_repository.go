package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pawn-ledger/internal/domain"
)

// OperatorRepository encapsulates operator account persistence.
type OperatorRepository interface {
	Create(ctx context.Context, operator *domain.Operator) error
	GetByID(ctx context.Context, id string) (*domain.Operator, error)
	GetByUsername(ctx context.Context, username string) (*domain.Operator, error)
	RecordLogin(ctx context.Context, id string, at time.Time) error
}

type operatorRepository struct {
	pool *pgxpool.Pool
}

// NewOperatorRepository instantiates repository.
func NewOperatorRepository(pool *pgxpool.Pool) OperatorRepository {
	return &operatorRepository{pool: pool}
}

const operatorColumns = `id, username, password_hash, name, email, role, is_active, last_login, created_at`

func (r *operatorRepository) Create(ctx context.Context, operator *domain.Operator) error {
	const query = `
        INSERT INTO operators (username, password_hash, name, email, role, is_active)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		operator.Username,
		operator.PasswordHash,
		operator.Name,
		operator.Email,
		operator.Role,
		operator.IsActive,
	).Scan(&operator.ID, &operator.CreatedAt)
}

func (r *operatorRepository) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	const query = `SELECT ` + operatorColumns + ` FROM operators WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *operatorRepository) GetByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	const query = `SELECT ` + operatorColumns + ` FROM operators WHERE username=$1`
	return r.fetchSingle(ctx, query, username)
}

func (r *operatorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Operator, error) {
	var operator domain.Operator
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&operator.ID,
		&operator.Username,
		&operator.PasswordHash,
		&operator.Name,
		&operator.Email,
		&operator.Role,
		&operator.IsActive,
		&operator.LastLogin,
		&operator.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &operator, nil
}

func (r *operatorRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE operators SET last_login=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
