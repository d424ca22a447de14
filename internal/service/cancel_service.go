package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielmoisemontezima/zw-payment-gateway/internal/core"
	"github.com/danielmoisemontezima/zw-payment-gateway/internal/model"
	"github.com/danielmoisemontezima/zw-payment-gateway/internal/ports"
	"github.com/shopspring/decimal"
)

// Response codes after which a cancel attempt is dropped instead of aborting
// the batch: the target transaction is already in a terminal state that is
// compatible with the requested cancel.
var toleratedCancelCodes = map[string]bool{
	core.CodeAlreadyCanceled:             true,
	core.CodeAlreadyCharged:              true,
	core.CodeTransactionCancelNotAllowed: true,
	core.CodeAlreadyChargedBack:          true,
}

// CancelService decomposes payment-level cancel requests across the
// authorization and charges of a payment. It is stateless; every call issues
// its sub-cancels strictly in sequence because each step's eligibility
// depends on the outcome of the previous one.
type CancelService struct {
	gateway      ports.IResourceGateway
	transactions ports.ITransactionRepository
	logger       *slog.Logger
}

func NewCancelService(gateway ports.IResourceGateway, transactions ports.ITransactionRepository, logger *slog.Logger) *CancelService {
	return &CancelService{gateway: gateway, transactions: transactions, logger: logger}
}

// CancelPayment cancels up to req.Amount of the payment, authorization first,
// then charges in mapping order, stopping as soon as the requested amount is
// satisfied. A nil amount cancels the whole payment. The returned slice holds
// the cancellations actually created; on a non-tolerated error the call
// aborts and partial progress against the remote system is not returned
// (and not rolled back).
func (s *CancelService) CancelPayment(ctx context.Context, payment *model.Payment, req model.CancelRequest) ([]*model.Cancellation, error) {
	if payment == nil {
		return nil, &model.MissingResourceError{Resource: "payment"}
	}
	if req.ReasonCode == "" {
		req.ReasonCode = model.ReasonCodeCancel
	} else if !model.ValidReasonCode(req.ReasonCode) {
		return nil, fmt.Errorf("unknown reason code %q", req.ReasonCode)
	}

	remaining := req.Amount
	cancelWholePayment := remaining == nil
	var cancellations []*model.Cancellation

	if cancelWholePayment || remaining.IsPositive() {
		cancellation, err := s.CancelPaymentAuthorization(ctx, payment, remaining)
		if err != nil {
			return nil, err
		}
		if cancellation != nil {
			cancellations = append(cancellations, cancellation)
			remaining = updateCancelAmount(remaining, cancellation.CanceledAmount())
		}
	}

	if !cancelWholePayment && remaining.Sign() <= 0 {
		return cancellations, nil
	}

	chargeCancels, err := s.CancelPaymentCharges(ctx, payment, remaining, req)
	if err != nil {
		return nil, err
	}
	return append(cancellations, chargeCancels...), nil
}

// CancelPaymentByID resolves the payment id through the gateway first, then
// decomposes the cancel.
func (s *CancelService) CancelPaymentByID(ctx context.Context, paymentID string, req model.CancelRequest) ([]*model.Cancellation, error) {
	payment, err := s.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return s.CancelPayment(ctx, payment, req)
}

// CancelPaymentAuthorization cancels up to amount on the payment's
// authorization. A nil amount cancels the authorization in full. It returns
// nil without error when there is no authorization, when nothing is left to
// cancel, or when the remote already settled the reversal (tolerated codes).
func (s *CancelService) CancelPaymentAuthorization(ctx context.Context, payment *model.Payment, amount *decimal.Decimal) (*model.Cancellation, error) {
	authorization := payment.Authorization()
	if authorization == nil {
		return nil, nil
	}

	var cancelAmount *decimal.Decimal
	if amount != nil {
		remainingAuthorized := payment.Amount.Remaining
		v := decimal.Min(*amount, remainingAuthorized)
		// nothing left to cancel on the authorization
		if v.IsZero() {
			return nil, nil
		}
		cancelAmount = &v
	}

	cancellation, err := authorization.Cancel(ctx, cancelAmount)
	if err != nil {
		if isToleratedCancelError(err) {
			s.logger.Info("authorization already settled, skipping cancel",
				"payment_id", payment.ID, "authorization_id", authorization.ID)
			return nil, nil
		}
		return nil, err
	}
	s.recordCancellation(ctx, payment, cancellation)
	return cancellation, nil
}

// CancelPaymentCharges refunds the payment's charges in mapping order until
// remaining is satisfied. A nil remaining refunds every charge in full. A
// charge already settled on the remote side (tolerated codes) is skipped;
// any other error aborts, abandoning the remaining charges.
func (s *CancelService) CancelPaymentCharges(ctx context.Context, payment *model.Payment, remaining *decimal.Decimal, req model.CancelRequest) ([]*model.Cancellation, error) {
	cancelWholePayment := remaining == nil
	var cancellations []*model.Cancellation

	for _, charge := range payment.Charges() {
		var cancelAmount *decimal.Decimal
		if !cancelWholePayment && remaining.Cmp(charge.TotalAmount()) <= 0 {
			v := *remaining
			cancelAmount = &v
		}

		cancellation, err := charge.Cancel(ctx, model.CancelOptions{
			Amount:           cancelAmount,
			ReasonCode:       req.ReasonCode,
			PaymentReference: req.PaymentReference,
			AmountNet:        req.AmountNet,
			AmountVat:        req.AmountVat,
		})
		if err != nil {
			if isToleratedCancelError(err) {
				s.logger.Info("charge already settled, skipping cancel",
					"payment_id", payment.ID, "charge_id", charge.ID)
				continue
			}
			return nil, err
		}

		cancellations = append(cancellations, cancellation)
		remaining = updateCancelAmount(remaining, cancellation.CanceledAmount())
		s.recordCancellation(ctx, payment, cancellation)

		// stop once the requested amount has been canceled
		if !cancelWholePayment && remaining.Sign() <= 0 {
			break
		}
	}
	return cancellations, nil
}

// CancelAuthorization reverses an authorization directly, without the
// tolerance of the payment-level decomposition.
func (s *CancelService) CancelAuthorization(ctx context.Context, authorization *model.Authorization, amount *decimal.Decimal) (*model.Cancellation, error) {
	cancellation, err := authorization.Cancel(ctx, amount)
	if err != nil {
		return nil, err
	}
	s.recordCancellation(ctx, authorization.Payment(), cancellation)
	return cancellation, nil
}

// CancelAuthorizationByPayment resolves the payment's authorization through
// the gateway, then reverses it.
func (s *CancelService) CancelAuthorizationByPayment(ctx context.Context, paymentID string, amount *decimal.Decimal) (*model.Cancellation, error) {
	payment, err := s.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	authorization, err := s.gateway.FetchAuthorization(ctx, payment)
	if err != nil {
		return nil, err
	}
	return s.CancelAuthorization(ctx, authorization, amount)
}

// CancelCharge refunds a single charge directly.
func (s *CancelService) CancelCharge(ctx context.Context, charge *model.Charge, opts model.CancelOptions) (*model.Cancellation, error) {
	if opts.ReasonCode != "" && !model.ValidReasonCode(opts.ReasonCode) {
		return nil, fmt.Errorf("unknown reason code %q", opts.ReasonCode)
	}
	cancellation, err := charge.Cancel(ctx, opts)
	if err != nil {
		return nil, err
	}
	s.recordCancellation(ctx, charge.Payment(), cancellation)
	return cancellation, nil
}

// CancelChargeByID resolves the charge through the gateway, then refunds it.
func (s *CancelService) CancelChargeByID(ctx context.Context, paymentID, chargeID string, opts model.CancelOptions) (*model.Cancellation, error) {
	payment, err := s.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	charge, err := s.gateway.FetchChargeByID(ctx, payment, chargeID)
	if err != nil {
		return nil, err
	}
	return s.CancelCharge(ctx, charge, opts)
}

// recordCancellation writes the settled cancellation to the transaction
// history. The remote response stays authoritative, so a failing insert is
// logged, not surfaced.
func (s *CancelService) recordCancellation(ctx context.Context, payment *model.Payment, cancellation *model.Cancellation) {
	if s.transactions == nil || payment == nil {
		return
	}
	txType := model.RecordCancelAuthorize
	if cancellation.ParentCharge() != nil {
		txType = model.RecordCancelCharge
	}
	rec := &model.TransactionRecord{
		PaymentID:  payment.ID,
		OrderID:    payment.OrderID,
		TxType:     txType,
		ResourceID: cancellation.ID,
		Amount:     cancellation.CanceledAmount(),
		Currency:   cancellation.Currency,
		TxStatus:   ports.TxSuccess,
	}
	if err := s.transactions.Create(ctx, rec); err != nil {
		s.logger.Warn("recording cancellation failed", "payment_id", payment.ID, "error", err)
	}
}

// updateCancelAmount reduces the remaining amount to cancel by what was just
// canceled. A nil remaining means the whole payment is being canceled and
// stays nil throughout.
func updateCancelAmount(remaining *decimal.Decimal, canceled decimal.Decimal) *decimal.Decimal {
	if remaining == nil {
		return nil
	}
	v := remaining.Sub(canceled)
	return &v
}

func isToleratedCancelError(err error) bool {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return toleratedCancelCodes[apiErr.Code]
}
