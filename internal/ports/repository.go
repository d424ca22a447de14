package ports

import (
	"context"

	"github.com/danielmoisemontezima/zw-payment-gateway/internal/model"
)

// Transaction history states.
const (
	TxSuccess = "success"
	TxPending = "pending"
	TxError   = "error"
)

type ITransactionRepository interface {
	Create(ctx context.Context, rec *model.TransactionRecord) error
	FindByPaymentID(ctx context.Context, paymentID string) ([]model.TransactionRecord, error)
}

type ICustomerRepository interface {
	Create(ctx context.Context, rec *model.CustomerRecord) error
	FindByRemoteID(ctx context.Context, remoteID string) (*model.CustomerRecord, error)
}
