package model

import (
	"context"

	"github.com/shopspring/decimal"
)

// Payout credits money back to the payment type outside of a refund, for
// example a goodwill credit. It reuses the transaction machinery but is
// create-only: a payout cannot be canceled.
type Payout struct {
	transaction

	Amount    decimal.Decimal
	ReturnURL string
}

func NewPayout(amount decimal.Decimal, currency, returnURL string) *Payout {
	po := &Payout{Amount: amount, ReturnURL: returnURL}
	po.Currency = currency
	return po
}

func (po *Payout) ResourcePath() string {
	if po.payment != nil && po.payment.ID != "" {
		return "payments/" + po.payment.ID + "/payouts"
	}
	return "payments/payouts"
}

func (po *Payout) RequestBody() (any, error) {
	p := po.payment
	if p == nil {
		return nil, &MissingResourceError{Resource: "payment"}
	}
	pt, err := p.PaymentType()
	if err != nil {
		return nil, err
	}
	body := map[string]any{
		"amount":    po.Amount,
		"currency":  po.Currency,
		"resources": map[string]string{"typeId": pt.ResourceID()},
	}
	if po.ReturnURL != "" {
		body["returnUrl"] = po.ReturnURL
	}
	if p.OrderID != "" {
		body["orderId"] = p.OrderID
	}
	return body, nil
}

func (po *Payout) HandleResponse(r *TransactionResponse) error {
	return po.applyResponse(r)
}

// Payout submits a payout transaction against the payment type.
func (p *Payment) Payout(ctx context.Context, amount decimal.Decimal, currency, returnURL string) (*Payout, error) {
	if _, err := p.PaymentType(); err != nil {
		return nil, err
	}
	payout := NewPayout(amount, currency, returnURL)
	payout.payment = p
	if err := p.client.CreateResource(ctx, payout); err != nil {
		return nil, err
	}
	return payout, nil
}
