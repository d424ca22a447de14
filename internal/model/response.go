package model

import (
	"github.com/shopspring/decimal"
)

// AmountDetails is the amount block of a remote response. The fields are
// pointers so that a partial block can be told apart from zero values; the
// ledger only adopts a block with all four fields present.
type AmountDetails struct {
	Total     *decimal.Decimal `json:"total,omitempty"`
	Charged   *decimal.Decimal `json:"charged,omitempty"`
	Canceled  *decimal.Decimal `json:"canceled,omitempty"`
	Remaining *decimal.Decimal `json:"remaining,omitempty"`
}

func (d *AmountDetails) complete() bool {
	return d.Total != nil && d.Charged != nil && d.Canceled != nil && d.Remaining != nil
}

// ResourcesResponse carries the linkage ids of a remote response.
type ResourcesResponse struct {
	PaymentID  string `json:"paymentId,omitempty"`
	CustomerID string `json:"customerId,omitempty"`
	BasketID   string `json:"basketId,omitempty"`
	TypeID     string `json:"typeId,omitempty"`
}

// StateResponse is the state block of a payment response.
type StateResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TransactionResponse is the remote response for a created or fetched
// resource. Customers and baskets only populate the id field.
type TransactionResponse struct {
	ID            string             `json:"id,omitempty"`
	UniqueID      string             `json:"uniqueId,omitempty"`
	ShortID       string             `json:"shortId,omitempty"`
	IsError       bool               `json:"isError,omitempty"`
	IsPending     bool               `json:"isPending,omitempty"`
	IsSuccess     bool               `json:"isSuccess,omitempty"`
	Amount        *decimal.Decimal   `json:"amount,omitempty"`
	PaymentAmount *AmountDetails     `json:"paymentAmount,omitempty"`
	Currency      string             `json:"currency,omitempty"`
	ReturnURL     string             `json:"returnUrl,omitempty"`
	RedirectURL   string             `json:"redirectUrl,omitempty"`
	Resources     *ResourcesResponse `json:"resources,omitempty"`
}

// TransactionSummary is one entry of the transaction list of a fetched payment.
type TransactionSummary struct {
	Type   string          `json:"type"`
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	// ParentID links cancel entries to the transaction they reversed.
	ParentID string `json:"parentId,omitempty"`
	Date     string `json:"date,omitempty"`
}

// PaymentResponse is the remote response for a fetched payment.
type PaymentResponse struct {
	ID           string               `json:"id"`
	State        *StateResponse       `json:"state,omitempty"`
	Amount       *AmountDetails       `json:"amount,omitempty"`
	Currency     string               `json:"currency,omitempty"`
	OrderID      string               `json:"orderId,omitempty"`
	Resources    *ResourcesResponse   `json:"resources,omitempty"`
	Transactions []TransactionSummary `json:"transactions,omitempty"`
}
