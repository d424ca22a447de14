package model

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyClient records created resources and plays the remote side: it assigns
// ids and feeds a canned response back into the resource.
type spyClient struct {
	calls int
	err   error
}

func (s *spyClient) CreateResource(ctx context.Context, res Resource) error {
	s.calls++
	if s.err != nil {
		return s.err
	}

	switch r := res.(type) {
	case *Authorization:
		return r.HandleResponse(&TransactionResponse{
			ID:        fmt.Sprintf("s-aut-%d", s.calls),
			UniqueID:  "uniq-aut",
			ShortID:   "short-aut",
			Resources: &ResourcesResponse{PaymentID: "s-pay-1"},
		})
	case *Charge:
		return r.HandleResponse(&TransactionResponse{
			ID:        fmt.Sprintf("s-chg-%d", s.calls),
			Resources: &ResourcesResponse{PaymentID: "s-pay-1"},
		})
	case *Payout:
		return r.HandleResponse(&TransactionResponse{
			ID: fmt.Sprintf("s-out-%d", s.calls),
		})
	case *Cancellation:
		amount := decimal.Zero
		if r.Amount != nil {
			amount = *r.Amount
		} else if a := r.ParentAuthorization(); a != nil {
			amount = a.Amount
		} else if c := r.ParentCharge(); c != nil {
			amount = c.TotalAmount()
		}
		return r.HandleResponse(&TransactionResponse{
			ID:     fmt.Sprintf("s-cnl-%d", s.calls),
			Amount: &amount,
		})
	}
	return nil
}

func TestAuthorizeRequiresAuthorizableType(t *testing.T) {
	spy := &spyClient{}
	p := NewPayment(spy, NewSepaDirectDebit("s-sdd-1"))

	_, err := p.Authorize(context.Background(), d(100), "EUR", "https://shop.example/return")

	var illegalErr *IllegalTransactionTypeError
	require.ErrorAs(t, err, &illegalErr)
	assert.Equal(t, "authorize", illegalErr.Operation)
	assert.Zero(t, spy.calls, "capability check must fail before any network call")
}

func TestChargeRequiresChargeableType(t *testing.T) {
	spy := &spyClient{}
	p := NewPayment(spy, NewPaylaterInvoice("s-piv-1"))

	_, err := p.Charge(context.Background(), dp(50), "EUR", "")

	var illegalErr *IllegalTransactionTypeError
	require.ErrorAs(t, err, &illegalErr)
	assert.Zero(t, spy.calls)
}

func TestAuthorizeStoresSingleAuthorization(t *testing.T) {
	spy := &spyClient{}
	p := NewPayment(spy, NewCard("s-crd-1"))

	first, err := p.Authorize(context.Background(), d(100), "EUR", "https://shop.example/return")
	require.NoError(t, err)
	assert.Equal(t, first, p.Authorization())
	assert.Equal(t, "s-pay-1", p.ID, "payment id adopted from the response linkage")

	// authorizing again replaces the stored reference
	second, err := p.Authorize(context.Background(), d(80), "EUR", "https://shop.example/return")
	require.NoError(t, err)
	assert.Equal(t, second, p.Authorization())
	assert.NotEqual(t, first, p.Authorization())
}

func TestChargeInsertsUnderRemoteID(t *testing.T) {
	spy := &spyClient{}
	p := NewPayment(spy, NewCard("s-crd-1"))

	charge, err := p.Charge(context.Background(), dp(50), "EUR", "")
	require.NoError(t, err)
	require.NotEmpty(t, charge.ID)
	assert.Equal(t, charge, p.ChargeByID(charge.ID))

	for _, c := range p.Charges() {
		assert.NotEmpty(t, c.ID, "a charge must never be mapped under an empty id")
	}
}

func TestAddChargeRejectsEmptyID(t *testing.T) {
	p := NewPayment(&spyClient{}, NewCard("s-crd-1"))

	err := p.AddCharge(NewCharge(d(10), "EUR", ""))
	var missingErr *MissingResourceError
	require.ErrorAs(t, err, &missingErr)
	assert.Empty(t, p.Charges())
}

func TestFullChargeRequiresAuthorization(t *testing.T) {
	spy := &spyClient{}
	p := NewPayment(spy, NewCard("s-crd-1"))

	_, err := p.Charge(context.Background(), nil, "", "")

	var missingErr *MissingResourceError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "authorization", missingErr.Resource)
	assert.Zero(t, spy.calls)
}

func TestFullChargeTakesRemainingAmount(t *testing.T) {
	spy := &spyClient{}
	p := NewPayment(spy, NewCard("s-crd-1"))
	p.Currency = "EUR"
	p.Amount = Amount{Total: d(100), Remaining: d(100)}
	a := NewAuthorization(d(100), "EUR", "")
	a.ID = "s-aut-1"
	p.SetAuthorization(a)

	charge, err := p.Charge(context.Background(), nil, "", "")
	require.NoError(t, err)
	assert.True(t, charge.Amount.Equal(d(100)))
	assert.Equal(t, "EUR", charge.Currency)
}

func TestCancelRequiresCancelableType(t *testing.T) {
	spy := &spyClient{}
	p := NewPayment(spy, &noCancelType{})

	err := p.Cancel(context.Background(), nil)
	var illegalErr *IllegalTransactionTypeError
	require.ErrorAs(t, err, &illegalErr)
	assert.Zero(t, spy.calls)
}

type noCancelType struct{}

func (*noCancelType) Chargeable() bool   { return true }
func (*noCancelType) Authorizable() bool { return true }
func (*noCancelType) Cancelable() bool   { return false }
func (*noCancelType) ResourceID() string { return "s-tst-1" }
func (*noCancelType) Name() string       { return "test" }

func TestFullCancelReversesAuthorizationBeforeCapture(t *testing.T) {
	spy := &spyClient{}
	p := NewPayment(spy, NewCard("s-crd-1"))
	p.ID = "s-pay-1"
	p.Amount = Amount{Total: d(100), Remaining: d(100)}
	a := NewAuthorization(d(100), "EUR", "")
	a.ID = "s-aut-1"
	p.SetAuthorization(a)

	require.NoError(t, p.Cancel(context.Background(), nil))
	assert.Equal(t, 1, spy.calls, "only the authorization reversal goes out")
	require.Len(t, a.Cancellations, 1)
	assert.Equal(t, TxStateFullyCanceled, a.CancelState)
}

func TestFullCancelRefundsChargesWhenCompleted(t *testing.T) {
	spy := &spyClient{}
	p := NewPayment(spy, NewCard("s-crd-1"))
	p.ID = "s-pay-1"
	p.Amount = Amount{Total: d(100), Charged: d(100)} // remaining 0: completed

	c1 := NewCharge(d(40), "EUR", "")
	c1.ID = "s-chg-1"
	require.NoError(t, p.AddCharge(c1))
	c2 := NewCharge(d(60), "EUR", "")
	c2.ID = "s-chg-2"
	require.NoError(t, p.AddCharge(c2))

	require.NoError(t, p.Cancel(context.Background(), nil))
	assert.Equal(t, 2, spy.calls)
	assert.Len(t, c1.Cancellations, 1)
	assert.Len(t, c2.Cancellations, 1)
}

func TestPaymentCancelWithAmountIsAThinEntryPoint(t *testing.T) {
	spy := &spyClient{}
	p := NewPayment(spy, NewCard("s-crd-1"))
	a := NewAuthorization(d(100), "EUR", "")
	a.ID = "s-aut-1"
	p.SetAuthorization(a)

	// partial decomposition lives in the cancel service, not here
	require.NoError(t, p.Cancel(context.Background(), dp(50)))
	assert.Zero(t, spy.calls)
}

func TestPayoutSubmitsTransaction(t *testing.T) {
	spy := &spyClient{}
	p := NewPayment(spy, NewCard("s-crd-1"))
	p.ID = "s-pay-1"

	payout, err := p.Payout(context.Background(), d(25), "EUR", "https://shop.example/return")
	require.NoError(t, err)
	assert.Equal(t, "s-out-1", payout.ID)
	assert.True(t, payout.Amount.Equal(d(25)))
	assert.Equal(t, "payments/s-pay-1/payouts", payout.ResourcePath())
	assert.Equal(t, 1, spy.calls)
}

func TestPayoutRequiresPaymentType(t *testing.T) {
	spy := &spyClient{}
	p := NewPayment(spy, nil)

	_, err := p.Payout(context.Background(), d(25), "EUR", "")
	var missingErr *MissingResourceError
	require.ErrorAs(t, err, &missingErr)
	assert.Zero(t, spy.calls)
}

func TestPaymentHandleResponse(t *testing.T) {
	p := NewPayment(&spyClient{}, NewCard("s-crd-1"))
	p.ID = "s-pay-1"

	err := p.HandleResponse(&PaymentResponse{ID: "s-pay-2"})
	var refErr *ReferenceMismatchError
	require.ErrorAs(t, err, &refErr)

	require.NoError(t, p.HandleResponse(&PaymentResponse{
		ID:       "s-pay-1",
		State:    &StateResponse{ID: 1, Name: "completed"},
		Amount:   &AmountDetails{Total: dp(100), Charged: dp(100), Canceled: dp(0), Remaining: dp(0)},
		Currency: "EUR",
	}))
	assert.Equal(t, StateCompleted, p.State)
	assert.Equal(t, "EUR", p.Currency)
	assert.True(t, p.Amount.Completed())
}
