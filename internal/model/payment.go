package model

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Payment is the aggregate root tying one authorization and any number of
// charges to a payment type and customer. It is created implicitly when the
// first authorization or charge is submitted against a payment type, and is
// mutated by every transaction response. A Payment is not safe for concurrent
// mutation; callers must serialize access to a given instance.
type Payment struct {
	ID          string
	OrderID     string
	RedirectURL string
	Currency    string
	State       State
	Amount      Amount

	authorization *Authorization
	charges       map[string]*Charge
	chargeIDs     []string
	customer      *Customer
	basket        *Basket
	paymentType   PaymentType

	client ResourceClient
}

func NewPayment(client ResourceClient, paymentType PaymentType) *Payment {
	return &Payment{
		charges:     make(map[string]*Charge),
		paymentType: paymentType,
		client:      client,
	}
}

// PaymentType returns the payment type or a MissingResourceError when none
// has been set.
func (p *Payment) PaymentType() (PaymentType, error) {
	if p.paymentType == nil {
		return nil, &MissingResourceError{Resource: "paymentType"}
	}
	return p.paymentType, nil
}

func (p *Payment) SetPaymentType(pt PaymentType) { p.paymentType = pt }

func (p *Payment) Authorization() *Authorization { return p.authorization }

// SetAuthorization stores the authorization and wires its back reference.
// A payment supports at most one logical authorization; setting a new one
// replaces the stored reference.
func (p *Payment) SetAuthorization(a *Authorization) {
	a.payment = p
	p.authorization = a
}

// Charges returns the charges in the order they were added.
func (p *Payment) Charges() []*Charge {
	out := make([]*Charge, 0, len(p.chargeIDs))
	for _, id := range p.chargeIDs {
		out = append(out, p.charges[id])
	}
	return out
}

func (p *Payment) ChargeByID(id string) *Charge { return p.charges[id] }

// AddCharge inserts a charge into the mapping keyed by its remote-assigned id.
// A charge without an id must never be inserted, the keys would collide.
func (p *Payment) AddCharge(c *Charge) error {
	if c.ID == "" {
		return &MissingResourceError{Resource: "charge id"}
	}
	c.payment = p
	if _, ok := p.charges[c.ID]; !ok {
		p.chargeIDs = append(p.chargeIDs, c.ID)
	}
	p.charges[c.ID] = c
	return nil
}

func (p *Payment) Customer() *Customer     { return p.customer }
func (p *Payment) SetCustomer(c *Customer) { p.customer = c }

func (p *Payment) Basket() *Basket     { return p.basket }
func (p *Payment) SetBasket(b *Basket) { p.basket = b }

// Authorize reserves the given amount on the payment type. The payment type
// must be authorizable; the check happens before any network call.
func (p *Payment) Authorize(ctx context.Context, amount decimal.Decimal, currency, returnURL string) (*Authorization, error) {
	pt, err := p.PaymentType()
	if err != nil {
		return nil, err
	}
	if !pt.Authorizable() {
		return nil, &IllegalTransactionTypeError{Operation: "authorize", PaymentType: pt.Name()}
	}

	authorization := NewAuthorization(amount, currency, returnURL)
	p.SetAuthorization(authorization)
	if err := p.client.CreateResource(ctx, authorization); err != nil {
		return nil, err
	}
	return authorization, nil
}

// Charge debits the payment type. A nil amount performs a full charge of the
// remaining authorized amount, which requires an existing authorization.
func (p *Payment) Charge(ctx context.Context, amount *decimal.Decimal, currency, returnURL string) (*Charge, error) {
	pt, err := p.PaymentType()
	if err != nil {
		return nil, err
	}
	if !pt.Chargeable() {
		return nil, &IllegalTransactionTypeError{Operation: "charge", PaymentType: pt.Name()}
	}

	if amount == nil {
		return p.fullCharge(ctx, returnURL)
	}

	charge := NewCharge(*amount, currency, returnURL)
	charge.payment = p
	if err := p.client.CreateResource(ctx, charge); err != nil {
		return nil, err
	}
	// the remote id is the mapping key, so the charge is added only now
	if err := p.AddCharge(charge); err != nil {
		return nil, err
	}
	return charge, nil
}

func (p *Payment) fullCharge(ctx context.Context, returnURL string) (*Charge, error) {
	if p.authorization == nil {
		return nil, &MissingResourceError{Resource: "authorization"}
	}
	remaining := p.Amount.Remaining
	return p.Charge(ctx, &remaining, p.Currency, returnURL)
}

// Cancel reverses the payment. A nil amount cancels it in full. A non-nil
// amount is accepted but performs no decomposition at this level; partial
// cancels across authorization and charges are the cancel service's job.
func (p *Payment) Cancel(ctx context.Context, amount *decimal.Decimal) error {
	pt, err := p.PaymentType()
	if err != nil {
		return err
	}
	if !pt.Cancelable() {
		return &IllegalTransactionTypeError{Operation: "cancel", PaymentType: pt.Name()}
	}

	if amount == nil {
		return p.fullCancel(ctx)
	}
	return nil
}

// fullCancel reverses the authorization when the payment has not completed;
// before capture that releases the whole payment. Otherwise every charge is
// refunded in full.
func (p *Payment) fullCancel(ctx context.Context) error {
	if p.authorization != nil && !p.Amount.Completed() {
		_, err := p.authorization.Cancel(ctx, nil)
		return err
	}
	return p.cancelAllCharges(ctx)
}

// cancelAllCharges refunds every charge independently. A failing charge does
// not stop the others; the collected errors are returned at the end.
func (p *Payment) cancelAllCharges(ctx context.Context) error {
	var errs []error
	for _, charge := range p.Charges() {
		if _, err := charge.Cancel(ctx, CancelOptions{}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HandleResponse adopts a fetched payment response into the aggregate.
func (p *Payment) HandleResponse(r *PaymentResponse) error {
	if p.ID != "" && r.ID != "" && p.ID != r.ID {
		return &ReferenceMismatchError{Expected: p.ID, Got: r.ID}
	}
	if r.ID != "" {
		p.ID = r.ID
	}
	if r.State != nil {
		p.State = State(r.State.ID)
	}
	p.Amount.adopt(r.Amount)
	if r.Currency != "" {
		p.Currency = r.Currency
	}
	if r.OrderID != "" {
		p.OrderID = r.OrderID
	}
	if r.Resources != nil && r.Resources.PaymentID != "" {
		p.ID = r.Resources.PaymentID
	}
	return nil
}
