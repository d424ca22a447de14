package model

import (
	"github.com/shopspring/decimal"
)

// AuthorizeRequest is the merchant-facing payload for creating a payment via
// authorization. TypeID references a payment type created by the front end
// directly against the remote API.
type AuthorizeRequest struct {
	TypeID     string          `json:"type_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	ReturnURL  string          `json:"return_url"`
	OrderID    string          `json:"order_id,omitempty"`
	CustomerID string          `json:"customer_id,omitempty"`
	BasketID   string          `json:"basket_id,omitempty"`
}

// ChargeRequest charges an existing payment. A nil amount charges the full
// remaining amount of the authorization.
type ChargeRequest struct {
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Currency  string           `json:"currency,omitempty"`
	ReturnURL string           `json:"return_url,omitempty"`
}

// DirectChargeRequest creates a payment and charges it in one step.
type DirectChargeRequest struct {
	TypeID     string          `json:"type_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	ReturnURL  string          `json:"return_url,omitempty"`
	OrderID    string          `json:"order_id,omitempty"`
	CustomerID string          `json:"customer_id,omitempty"`
}

// CancelRequest reverses a payment, an authorization or a single charge.
// A nil amount means a full cancel.
type CancelRequest struct {
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	ReasonCode       string           `json:"reason_code,omitempty"`
	PaymentReference string           `json:"payment_reference,omitempty"`
	AmountNet        *decimal.Decimal `json:"amount_net,omitempty"`
	AmountVat        *decimal.Decimal `json:"amount_vat,omitempty"`
}

// PayoutRequest credits money to the payment type of an existing payment.
type PayoutRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	ReturnURL string          `json:"return_url,omitempty"`
}
