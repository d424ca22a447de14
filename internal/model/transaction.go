package model

import (
	"context"

	"github.com/shopspring/decimal"
)

// transaction holds the fields shared by all transaction types and the
// response adoption rules. The owning payment is a back reference only;
// ownership always stays with the Payment aggregate.
type transaction struct {
	ID       string
	UniqueID string
	ShortID  string
	Currency string
	Pending  bool

	payment *Payment
}

func (t *transaction) Payment() *Payment { return t.payment }

// applyResponse adopts a remote transaction response. Order matters: the
// resource reference is verified first, then the payment ledger is updated
// (only from a complete amount block), then state, currency and linkage ids.
func (t *transaction) applyResponse(r *TransactionResponse) error {
	if t.ID != "" && r.ID != "" && t.ID != r.ID {
		return &ReferenceMismatchError{Expected: t.ID, Got: r.ID}
	}
	if r.ID != "" {
		t.ID = r.ID
	}
	if r.UniqueID != "" {
		t.UniqueID = r.UniqueID
	}
	if r.ShortID != "" {
		t.ShortID = r.ShortID
	}

	if p := t.payment; p != nil {
		p.Amount.adopt(r.PaymentAmount)
		if r.Resources != nil && r.Resources.PaymentID != "" {
			p.ID = r.Resources.PaymentID
		}
		if r.RedirectURL != "" {
			p.RedirectURL = r.RedirectURL
		}
	}

	t.Pending = r.IsPending
	if r.Currency != "" {
		t.Currency = r.Currency
	}
	return nil
}

func (t *transaction) client() (ResourceClient, error) {
	if t.payment == nil || t.payment.client == nil {
		return nil, &MissingResourceError{Resource: "payment"}
	}
	return t.payment.client, nil
}

// cancelable is shared bookkeeping for transactions that own cancellations.
type cancelable struct {
	Cancellations []*Cancellation
	CancelState   TxState
}

// recordCancellation appends a committed cancellation and advances the cancel
// state machine: open -> partially canceled -> fully canceled.
func (c *cancelable) recordCancellation(cn *Cancellation, total decimal.Decimal) {
	c.Cancellations = append(c.Cancellations, cn)
	if cn.Amount == nil {
		c.CancelState = TxStateFullyCanceled
		return
	}
	canceled := decimal.Zero
	for _, cl := range c.Cancellations {
		canceled = canceled.Add(cl.CanceledAmount())
	}
	if canceled.Cmp(total) >= 0 {
		c.CancelState = TxStateFullyCanceled
	} else {
		c.CancelState = TxStatePartiallyCanceled
	}
}

// Authorization reserves funds on a payment type. There is at most one per
// payment; its amount is fixed at creation.
type Authorization struct {
	transaction
	cancelable

	Amount    decimal.Decimal
	ReturnURL string
}

func NewAuthorization(amount decimal.Decimal, currency, returnURL string) *Authorization {
	a := &Authorization{Amount: amount, ReturnURL: returnURL}
	a.Currency = currency
	a.CancelState = TxStateOpen
	return a
}

func (a *Authorization) ResourcePath() string {
	return "payments/authorize"
}

func (a *Authorization) RequestBody() (any, error) {
	p := a.payment
	if p == nil {
		return nil, &MissingResourceError{Resource: "payment"}
	}
	pt, err := p.PaymentType()
	if err != nil {
		return nil, err
	}
	body := map[string]any{
		"amount":    a.Amount,
		"currency":  a.Currency,
		"returnUrl": a.ReturnURL,
		"resources": a.linkedResources(pt),
	}
	if p.OrderID != "" {
		body["orderId"] = p.OrderID
	}
	return body, nil
}

func (a *Authorization) linkedResources(pt PaymentType) map[string]string {
	resources := map[string]string{"typeId": pt.ResourceID()}
	if c := a.payment.Customer(); c != nil && c.ID != "" {
		resources["customerId"] = c.ID
	}
	if b := a.payment.Basket(); b != nil && b.ID != "" {
		resources["basketId"] = b.ID
	}
	return resources
}

func (a *Authorization) HandleResponse(r *TransactionResponse) error {
	return a.applyResponse(r)
}

// Cancel reverses the authorization. A nil amount reverses it in full.
func (a *Authorization) Cancel(ctx context.Context, amount *decimal.Decimal) (*Cancellation, error) {
	client, err := a.client()
	if err != nil {
		return nil, err
	}
	cn := newCancellation(amount, CancelOptions{})
	cn.payment = a.payment
	cn.parentAuthorization = a
	if err := client.CreateResource(ctx, cn); err != nil {
		return nil, err
	}
	a.recordCancellation(cn, a.Amount)
	return cn, nil
}

// Charge debits a payment type, against an authorization or directly.
type Charge struct {
	transaction
	cancelable

	Amount    decimal.Decimal
	ReturnURL string
}

func NewCharge(amount decimal.Decimal, currency, returnURL string) *Charge {
	c := &Charge{Amount: amount, ReturnURL: returnURL}
	c.Currency = currency
	c.CancelState = TxStateOpen
	return c
}

func (c *Charge) ResourcePath() string {
	if c.payment != nil && c.payment.ID != "" {
		return "payments/" + c.payment.ID + "/charges"
	}
	return "payments/charges"
}

func (c *Charge) RequestBody() (any, error) {
	p := c.payment
	if p == nil {
		return nil, &MissingResourceError{Resource: "payment"}
	}
	body := map[string]any{
		"amount":   c.Amount,
		"currency": c.Currency,
	}
	if c.ReturnURL != "" {
		body["returnUrl"] = c.ReturnURL
	}
	// A direct charge creates the payment on the remote side and must carry
	// the linked resources; a charge on an existing payment must not.
	if p.ID == "" {
		pt, err := p.PaymentType()
		if err != nil {
			return nil, err
		}
		resources := map[string]string{"typeId": pt.ResourceID()}
		if cu := p.Customer(); cu != nil && cu.ID != "" {
			resources["customerId"] = cu.ID
		}
		body["resources"] = resources
		if p.OrderID != "" {
			body["orderId"] = p.OrderID
		}
	}
	return body, nil
}

func (c *Charge) HandleResponse(r *TransactionResponse) error {
	return c.applyResponse(r)
}

// TotalAmount is the charged amount minus everything already canceled on it.
func (c *Charge) TotalAmount() decimal.Decimal {
	total := c.Amount
	for _, cn := range c.Cancellations {
		if cn.Amount == nil {
			return decimal.Zero
		}
		total = total.Sub(cn.CanceledAmount())
	}
	return total
}

// Cancel refunds the charge. A nil amount in opts refunds it in full.
func (c *Charge) Cancel(ctx context.Context, opts CancelOptions) (*Cancellation, error) {
	client, err := c.client()
	if err != nil {
		return nil, err
	}
	cn := newCancellation(opts.Amount, opts)
	cn.payment = c.payment
	cn.parentCharge = c
	if err := client.CreateResource(ctx, cn); err != nil {
		return nil, err
	}
	c.recordCancellation(cn, c.Amount)
	return cn, nil
}

// CancelOptions carries the optional parameters of a cancel transaction.
type CancelOptions struct {
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	ReasonCode       string           `json:"reasonCode,omitempty"`
	PaymentReference string           `json:"paymentReference,omitempty"`
	AmountNet        *decimal.Decimal `json:"amountNet,omitempty"`
	AmountVat        *decimal.Decimal `json:"amountVat,omitempty"`
}

// Cancel reason codes accepted by the remote system.
const (
	ReasonCodeCancel = "CANCEL"
	ReasonCodeReturn = "RETURN"
	ReasonCodeCredit = "CREDIT"
)

// ValidReasonCode reports whether the remote system accepts the reason code.
// The check happens before any network call; the remote rejection for an
// unknown code is not tolerated and would abort a running decomposition.
func ValidReasonCode(code string) bool {
	switch code {
	case ReasonCodeCancel, ReasonCodeReturn, ReasonCodeCredit:
		return true
	}
	return false
}

// Cancellation reverses its parent transaction, fully or partially. It is a
// child of exactly one authorization or one charge, never both.
type Cancellation struct {
	transaction

	// Amount is nil when the entire remaining amount of the parent is
	// being canceled; it is filled in from the remote response.
	Amount           *decimal.Decimal
	ReasonCode       string
	PaymentReference string
	AmountNet        *decimal.Decimal
	AmountVat        *decimal.Decimal

	parentAuthorization *Authorization
	parentCharge        *Charge
}

func newCancellation(amount *decimal.Decimal, opts CancelOptions) *Cancellation {
	return &Cancellation{
		Amount:           amount,
		ReasonCode:       opts.ReasonCode,
		PaymentReference: opts.PaymentReference,
		AmountNet:        opts.AmountNet,
		AmountVat:        opts.AmountVat,
	}
}

// ParentAuthorization returns the parent when this cancellation reverses an
// authorization, nil otherwise.
func (c *Cancellation) ParentAuthorization() *Authorization { return c.parentAuthorization }

// ParentCharge returns the parent when this cancellation refunds a charge,
// nil otherwise.
func (c *Cancellation) ParentCharge() *Charge { return c.parentCharge }

func (c *Cancellation) ResourcePath() string {
	paymentID := ""
	if c.payment != nil {
		paymentID = c.payment.ID
	}
	if c.parentCharge != nil {
		return "payments/" + paymentID + "/charges/" + c.parentCharge.ID + "/cancels"
	}
	return "payments/" + paymentID + "/authorize/cancels"
}

func (c *Cancellation) RequestBody() (any, error) {
	body := map[string]any{}
	if c.Amount != nil {
		body["amount"] = *c.Amount
	}
	if c.ReasonCode != "" {
		body["reasonCode"] = c.ReasonCode
	}
	if c.PaymentReference != "" {
		body["paymentReference"] = c.PaymentReference
	}
	if c.AmountNet != nil {
		body["amountNet"] = *c.AmountNet
	}
	if c.AmountVat != nil {
		body["amountVat"] = *c.AmountVat
	}
	return body, nil
}

func (c *Cancellation) HandleResponse(r *TransactionResponse) error {
	if err := c.applyResponse(r); err != nil {
		return err
	}
	if r.Amount != nil {
		amount := *r.Amount
		c.Amount = &amount
	}
	return nil
}

// CanceledAmount is the amount confirmed by the remote system, or zero when
// the response did not carry one.
func (c *Cancellation) CanceledAmount() decimal.Decimal {
	if c.Amount == nil {
		return decimal.Zero
	}
	return *c.Amount
}
