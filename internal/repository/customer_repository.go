package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielmoisemontezima/zw-payment-gateway/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerRepository mirrors remotely created customers in the customers
// table for merchant-side lookups.
type CustomerRepository struct {
	db Queryable
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: pool}
}

func (r *CustomerRepository) Create(ctx context.Context, rec *model.CustomerRecord) error {
	if rec.RemoteID == "" {
		return errors.New("customer record requires a remote id")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	sql := `
        INSERT INTO customers (id, remote_id, first_name, last_name, email)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (remote_id) DO NOTHING`

	_, err := r.db.Exec(ctx, sql, rec.ID, rec.RemoteID, rec.FirstName, rec.LastName, rec.Email)
	return err
}

func (r *CustomerRepository) FindByRemoteID(ctx context.Context, remoteID string) (*model.CustomerRecord, error) {
	sql := `SELECT id, remote_id, first_name, last_name, email, created_at
        FROM customers WHERE remote_id = $1`

	var rec model.CustomerRecord
	err := r.db.QueryRow(ctx, sql, remoteID).Scan(
		&rec.ID,
		&rec.RemoteID,
		&rec.FirstName,
		&rec.LastName,
		&rec.Email,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting customer: %w", err)
	}
	return &rec, nil
}
