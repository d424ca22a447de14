package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielmoisemontezima/zw-payment-gateway/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queryable combines the pgx query interfaces the repositories need.
type Queryable interface {
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
}

// TransactionRepository persists the transaction history in the
// transactions table.
type TransactionRepository struct {
	db Queryable
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: pool}
}

func (r *TransactionRepository) Create(ctx context.Context, rec *model.TransactionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	var (
		fields []string
		values []interface{}
		params []string
		pos    = 1
	)

	add := func(field string, value interface{}) {
		fields = append(fields, field)
		values = append(values, value)
		params = append(params, fmt.Sprintf("$%d", pos))
		pos++
	}

	add("id", rec.ID)
	add("payment_id", rec.PaymentID)
	add("tx_type", rec.TxType)
	add("amount", rec.Amount)
	add("currency", rec.Currency)
	add("tx_status", rec.TxStatus)

	if rec.OrderID != "" {
		add("order_id", rec.OrderID)
	}
	if rec.ResourceID != "" {
		add("resource_id", rec.ResourceID)
	}
	if rec.ErrorCode != "" {
		add("error_code", rec.ErrorCode)
	}

	query := fmt.Sprintf(`
        INSERT INTO transactions (%s)
        VALUES (%s)`,
		strings.Join(fields, ", "),
		strings.Join(params, ", "),
	)

	_, err := r.db.Exec(ctx, query, values...)
	return err
}

const transactionColumns = `id, payment_id, order_id, tx_type, resource_id, amount, currency, tx_status, error_code, created_at, updated_at`

func scanTransaction(row pgx.Row) (*model.TransactionRecord, error) {
	var rec model.TransactionRecord
	err := row.Scan(
		&rec.ID,
		&rec.PaymentID,
		&rec.OrderID,
		&rec.TxType,
		&rec.ResourceID,
		&rec.Amount,
		&rec.Currency,
		&rec.TxStatus,
		&rec.ErrorCode,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning transaction: %w", err)
	}
	return &rec, nil
}

func (r *TransactionRepository) FindByPaymentID(ctx context.Context, paymentID string) ([]model.TransactionRecord, error) {
	sql := `SELECT ` + transactionColumns + `
        FROM transactions
        WHERE payment_id = $1
        ORDER BY created_at`

	rows, err := r.db.Query(ctx, sql, paymentID)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions by payment: %w", err)
	}
	defer rows.Close()

	var records []model.TransactionRecord
	for rows.Next() {
		rec, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return records, nil
}
