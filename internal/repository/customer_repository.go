package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/pawn-ledger/internal/domain"
)

// CustomerRepository encapsulates customer persistence.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	UpdateStats(ctx context.Context, id string, total, active int, outstanding decimal.Decimal) error
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository instantiates repository.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

const customerColumns = `id, name, phone, address, state, city, pincode,
               id_proof_type, id_proof_other_name, id_proof_number,
               total_tickets, active_tickets, total_outstanding, created_at`

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	const query = `
        INSERT INTO customers (name, phone, address, state, city, pincode,
            id_proof_type, id_proof_other_name, id_proof_number,
            total_tickets, active_tickets, total_outstanding)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		customer.Name,
		customer.Phone,
		customer.Address,
		customer.State,
		customer.City,
		customer.Pincode,
		customer.IDProofType,
		customer.IDProofOtherName,
		customer.IDProofNumber,
		customer.TotalTickets,
		customer.ActiveTickets,
		customer.TotalOutstanding,
	).Scan(&customer.ID, &customer.CreatedAt)
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers WHERE id=$1`
	var customer domain.Customer
	if err := scanCustomer(r.pool.QueryRow(ctx, query, id), &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Customer
	for rows.Next() {
		var customer domain.Customer
		if err := scanCustomer(rows, &customer); err != nil {
			return nil, err
		}
		result = append(result, customer)
	}
	return result, rows.Err()
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	const query = `
        UPDATE customers SET name=$1, phone=$2, address=$3, state=$4, city=$5, pincode=$6,
            id_proof_type=$7, id_proof_other_name=$8, id_proof_number=$9
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		customer.Name,
		customer.Phone,
		customer.Address,
		customer.State,
		customer.City,
		customer.Pincode,
		customer.IDProofType,
		customer.IDProofOtherName,
		customer.IDProofNumber,
		customer.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) UpdateStats(ctx context.Context, id string, total, active int, outstanding decimal.Decimal) error {
	const query = `
        UPDATE customers SET total_tickets=$1, active_tickets=$2, total_outstanding=$3
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, total, active, outstanding, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanCustomer(row rowScanner, customer *domain.Customer) error {
	return row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Phone,
		&customer.Address,
		&customer.State,
		&customer.City,
		&customer.Pincode,
		&customer.IDProofType,
		&customer.IDProofOtherName,
		&customer.IDProofNumber,
		&customer.TotalTickets,
		&customer.ActiveTickets,
		&customer.TotalOutstanding,
		&customer.CreatedAt,
	)
}
