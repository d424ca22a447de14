package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction kinds as stored in the history table.
const (
	RecordAuthorize       = "authorize"
	RecordCharge          = "charge"
	RecordCancelAuthorize = "cancel-authorize"
	RecordCancelCharge    = "cancel-charge"
	RecordPayout          = "payout"
)

// TransactionRecord is one row of the transaction history. The remote
// response stays authoritative; the history exists for reconciliation and
// support lookups.
type TransactionRecord struct {
	ID         string
	PaymentID  string
	OrderID    string
	TxType     string
	ResourceID string
	Amount     decimal.Decimal
	Currency   string
	TxStatus   string
	ErrorCode  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CustomerRecord mirrors a remotely created customer for lookups by the
// merchant side.
type CustomerRecord struct {
	ID        string
	RemoteID  string
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
}
