package service_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielmoisemontezima/zw-payment-gateway/internal/core"
	"github.com/danielmoisemontezima/zw-payment-gateway/internal/model"
	"github.com/danielmoisemontezima/zw-payment-gateway/internal/service"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func dp(v int64) *decimal.Decimal {
	out := decimal.NewFromInt(v)
	return &out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeGateway plays the remote side for cancel decomposition tests. Cancels
// against a parent listed in failWith return the scripted error; everything
// else settles with the requested (or full) amount.
type fakeGateway struct {
	created      []model.Resource
	failWith     map[string]error
	payments     map[string]*model.Payment
	authorizeErr error
	nextID       int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		failWith: make(map[string]error),
		payments: make(map[string]*model.Payment),
	}
}

func (f *fakeGateway) CreateResource(ctx context.Context, res model.Resource) error {
	switch r := res.(type) {
	case *model.Cancellation:
		parentID := ""
		full := decimal.Zero
		if a := r.ParentAuthorization(); a != nil {
			parentID = a.ID
			full = a.Amount
		} else if c := r.ParentCharge(); c != nil {
			parentID = c.ID
			full = c.TotalAmount()
		}
		if err := f.failWith[parentID]; err != nil {
			return err
		}

		f.created = append(f.created, res)
		f.nextID++
		amount := full
		if r.Amount != nil {
			amount = *r.Amount
		}
		return r.HandleResponse(&model.TransactionResponse{
			ID:     fmt.Sprintf("s-cnl-%d", f.nextID),
			Amount: &amount,
		})
	case *model.Authorization:
		if f.authorizeErr != nil {
			return f.authorizeErr
		}
		f.created = append(f.created, res)
		f.nextID++
		return r.HandleResponse(&model.TransactionResponse{
			ID:        fmt.Sprintf("s-aut-%d", f.nextID),
			Resources: &model.ResourcesResponse{PaymentID: "s-pay-1"},
		})
	case *model.Payout:
		f.created = append(f.created, res)
		f.nextID++
		return r.HandleResponse(&model.TransactionResponse{
			ID: fmt.Sprintf("s-out-%d", f.nextID),
		})
	case *model.Basket:
		f.created = append(f.created, res)
		f.nextID++
		return r.HandleResponse(&model.TransactionResponse{
			ID: fmt.Sprintf("s-bsk-%d", f.nextID),
		})
	default:
		f.created = append(f.created, res)
		return nil
	}
}

func (f *fakeGateway) FetchPayment(ctx context.Context, id string) (*model.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, &model.APIError{Code: core.CodeResourceNotFound, MerchantMessage: "payment not found"}
	}
	return p, nil
}

func (f *fakeGateway) FetchAuthorization(ctx context.Context, payment *model.Payment) (*model.Authorization, error) {
	if payment.Authorization() == nil {
		return nil, &model.MissingResourceError{Resource: "authorization"}
	}
	return payment.Authorization(), nil
}

func (f *fakeGateway) FetchChargeByID(ctx context.Context, payment *model.Payment, chargeID string) (*model.Charge, error) {
	if c := payment.ChargeByID(chargeID); c != nil {
		return c, nil
	}
	return nil, &model.APIError{Code: core.CodeResourceNotFound, MerchantMessage: "charge not found"}
}

func (f *fakeGateway) cancellations() []*model.Cancellation {
	var out []*model.Cancellation
	for _, res := range f.created {
		if cn, ok := res.(*model.Cancellation); ok {
			out = append(out, cn)
		}
	}
	return out
}

func paymentWith(gw *fakeGateway, authAmount *decimal.Decimal, chargeAmounts ...int64) *model.Payment {
	p := model.NewPayment(gw, model.NewCard("s-crd-1"))
	p.ID = "s-pay-1"
	p.Currency = "EUR"

	if authAmount != nil {
		p.Amount = model.Amount{Total: *authAmount, Remaining: *authAmount}
		a := model.NewAuthorization(*authAmount, "EUR", "")
		a.ID = "s-aut-1"
		p.SetAuthorization(a)
	}
	for i, amount := range chargeAmounts {
		c := model.NewCharge(d(amount), "EUR", "")
		c.ID = fmt.Sprintf("s-chg-%d", i+1)
		if err := p.AddCharge(c); err != nil {
			panic(err)
		}
	}
	gw.payments[p.ID] = p
	return p
}

func TestCancelPaymentFullReversesAuthorizationOnly(t *testing.T) {
	gw := newFakeGateway()
	p := paymentWith(gw, dp(100))

	cancellations, err := service.NewCancelService(gw, nil, testLogger()).
		CancelPayment(context.Background(), p, model.CancelRequest{})
	require.NoError(t, err)

	require.Len(t, cancellations, 1)
	assert.True(t, cancellations[0].CanceledAmount().Equal(d(100)))
	assert.Equal(t, p.Authorization(), cancellations[0].ParentAuthorization())
	assert.Len(t, gw.cancellations(), 1, "no charge cancels may be attempted")
}

func TestCancelPaymentPartialSatisfiedByAuthorization(t *testing.T) {
	gw := newFakeGateway()
	p := paymentWith(gw, dp(100), 40, 80)

	cancellations, err := service.NewCancelService(gw, nil, testLogger()).
		CancelPayment(context.Background(), p, model.CancelRequest{Amount: dp(50)})
	require.NoError(t, err)

	// min(50, remaining authorized 100) cancels 50 on the authorization;
	// the charges must never be touched.
	require.Len(t, cancellations, 1)
	assert.True(t, cancellations[0].CanceledAmount().Equal(d(50)))
	require.Len(t, gw.cancellations(), 1)
	assert.NotNil(t, gw.cancellations()[0].ParentAuthorization())
}

func TestCancelPaymentPartialSpillsAcrossCharges(t *testing.T) {
	gw := newFakeGateway()
	p := paymentWith(gw, nil, 40, 80, 20)

	cancellations, err := service.NewCancelService(gw, nil, testLogger()).
		CancelPayment(context.Background(), p, model.CancelRequest{Amount: dp(50)})
	require.NoError(t, err)

	// 40 is taken in full from the first charge, the remaining 10 from the
	// second; the third charge is never considered.
	require.Len(t, cancellations, 2)
	assert.True(t, cancellations[0].CanceledAmount().Equal(d(40)))
	assert.True(t, cancellations[1].CanceledAmount().Equal(d(10)))
	require.Len(t, gw.cancellations(), 2)
	assert.Equal(t, "s-chg-1", gw.cancellations()[0].ParentCharge().ID)
	assert.Equal(t, "s-chg-2", gw.cancellations()[1].ParentCharge().ID)
}

func TestCancelPaymentSkipsAuthorizationWithNothingLeft(t *testing.T) {
	gw := newFakeGateway()
	p := paymentWith(gw, dp(100), 100)
	p.Amount = model.Amount{Total: d(100), Charged: d(100)} // remaining 0

	cancellations, err := service.NewCancelService(gw, nil, testLogger()).
		CancelPayment(context.Background(), p, model.CancelRequest{Amount: dp(60)})
	require.NoError(t, err)

	// nothing left on the authorization, so the whole 60 comes out of the charge
	require.Len(t, cancellations, 1)
	assert.True(t, cancellations[0].CanceledAmount().Equal(d(60)))
	assert.NotNil(t, cancellations[0].ParentCharge())
}

func TestCancelPaymentToleratesSettledCharge(t *testing.T) {
	gw := newFakeGateway()
	p := paymentWith(gw, nil, 40, 80)
	gw.failWith["s-chg-1"] = &model.APIError{Code: core.CodeAlreadyCanceled, MerchantMessage: "already canceled"}

	cancellations, err := service.NewCancelService(gw, nil, testLogger()).
		CancelPayment(context.Background(), p, model.CancelRequest{})
	require.NoError(t, err)

	// the settled charge is skipped without an entry, the next one succeeds
	require.Len(t, cancellations, 1)
	assert.Equal(t, "s-chg-2", cancellations[0].ParentCharge().ID)
}

func TestCancelPaymentToleratedCodes(t *testing.T) {
	tolerated := []string{
		core.CodeAlreadyCanceled,
		core.CodeAlreadyCharged,
		core.CodeTransactionCancelNotAllowed,
		core.CodeAlreadyChargedBack,
	}
	for _, code := range tolerated {
		gw := newFakeGateway()
		p := paymentWith(gw, nil, 40)
		gw.failWith["s-chg-1"] = &model.APIError{Code: code}

		cancellations, err := service.NewCancelService(gw, nil, testLogger()).
			CancelPayment(context.Background(), p, model.CancelRequest{})
		require.NoError(t, err, "code %s must be tolerated", code)
		assert.Empty(t, cancellations)
	}
}

func TestCancelPaymentAbortsOnOtherAPIError(t *testing.T) {
	gw := newFakeGateway()
	p := paymentWith(gw, nil, 40, 80)
	gw.failWith["s-chg-1"] = &model.APIError{Code: core.CodeInsufficientFunds, MerchantMessage: "insufficient funds"}

	_, err := service.NewCancelService(gw, nil, testLogger()).
		CancelPayment(context.Background(), p, model.CancelRequest{})

	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, core.CodeInsufficientFunds, apiErr.Code)
	assert.Empty(t, gw.cancellations(), "no further charges may be processed after the abort")
}

func TestCancelPaymentToleratesSettledAuthorization(t *testing.T) {
	gw := newFakeGateway()
	p := paymentWith(gw, dp(100), 40)
	gw.failWith["s-aut-1"] = &model.APIError{Code: core.CodeAlreadyChargedBack}

	cancellations, err := service.NewCancelService(gw, nil, testLogger()).
		CancelPayment(context.Background(), p, model.CancelRequest{})
	require.NoError(t, err)

	// no authorization entry, the charge is still refunded (full cancel)
	require.Len(t, cancellations, 1)
	assert.NotNil(t, cancellations[0].ParentCharge())
}

func TestCancelPaymentWithoutAnythingCancelable(t *testing.T) {
	gw := newFakeGateway()
	p := paymentWith(gw, nil)

	cancellations, err := service.NewCancelService(gw, nil, testLogger()).
		CancelPayment(context.Background(), p, model.CancelRequest{})
	require.NoError(t, err)
	assert.Empty(t, cancellations)
}

func TestCancelPaymentByIDResolvesThroughGateway(t *testing.T) {
	gw := newFakeGateway()
	paymentWith(gw, dp(100))

	cancellations, err := service.NewCancelService(gw, nil, testLogger()).
		CancelPaymentByID(context.Background(), "s-pay-1", model.CancelRequest{})
	require.NoError(t, err)
	require.Len(t, cancellations, 1)

	_, err = service.NewCancelService(gw, nil, testLogger()).
		CancelPaymentByID(context.Background(), "s-pay-unknown", model.CancelRequest{})
	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
}

func TestCancelChargeByID(t *testing.T) {
	gw := newFakeGateway()
	paymentWith(gw, nil, 40)

	cn, err := service.NewCancelService(gw, nil, testLogger()).
		CancelChargeByID(context.Background(), "s-pay-1", "s-chg-1", model.CancelOptions{Amount: dp(15), ReasonCode: model.ReasonCodeReturn})
	require.NoError(t, err)
	assert.True(t, cn.CanceledAmount().Equal(d(15)))
	assert.Equal(t, model.ReasonCodeReturn, cn.ReasonCode)
}

func TestCancelPaymentRejectsUnknownReasonCode(t *testing.T) {
	gw := newFakeGateway()
	p := paymentWith(gw, dp(100))

	_, err := service.NewCancelService(gw, nil, testLogger()).
		CancelPayment(context.Background(), p, model.CancelRequest{ReasonCode: "REFUND"})
	require.Error(t, err)
	assert.Empty(t, gw.cancellations(), "an unknown reason code must fail before any network call")
}

func TestCancelPaymentAcceptsKnownReasonCodes(t *testing.T) {
	codes := []string{model.ReasonCodeCancel, model.ReasonCodeReturn, model.ReasonCodeCredit}
	for _, code := range codes {
		gw := newFakeGateway()
		p := paymentWith(gw, nil, 40)

		cancellations, err := service.NewCancelService(gw, nil, testLogger()).
			CancelPayment(context.Background(), p, model.CancelRequest{ReasonCode: code})
		require.NoError(t, err, code)
		require.Len(t, cancellations, 1)
		assert.Equal(t, code, cancellations[0].ReasonCode)
	}
}

func TestCancelChargeByIDRejectsUnknownReasonCode(t *testing.T) {
	gw := newFakeGateway()
	paymentWith(gw, nil, 40)

	_, err := service.NewCancelService(gw, nil, testLogger()).
		CancelChargeByID(context.Background(), "s-pay-1", "s-chg-1", model.CancelOptions{ReasonCode: "REFUND"})
	require.Error(t, err)
}

func TestCancelAuthorizationByPaymentDoesNotTolerate(t *testing.T) {
	gw := newFakeGateway()
	paymentWith(gw, dp(100))
	gw.failWith["s-aut-1"] = &model.APIError{Code: core.CodeAlreadyCanceled}

	// the direct entry points surface every API error, the tolerance is
	// payment-level decomposition behavior only
	_, err := service.NewCancelService(gw, nil, testLogger()).
		CancelAuthorizationByPayment(context.Background(), "s-pay-1", nil)
	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, core.CodeAlreadyCanceled, apiErr.Code)
}
