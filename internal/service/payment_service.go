package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danielmoisemontezima/zw-payment-gateway/internal/core"
	"github.com/danielmoisemontezima/zw-payment-gateway/internal/model"
	"github.com/danielmoisemontezima/zw-payment-gateway/internal/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentService carries the authorize/charge/payout entry points of the
// merchant API and records every settled transaction in the history table.
type PaymentService struct {
	gateway      ports.IResourceGateway
	registry     *core.TypeRegistry
	transactions ports.ITransactionRepository
	customers    ports.ICustomerRepository
	logger       *slog.Logger
}

func NewPaymentService(
	gateway ports.IResourceGateway,
	registry *core.TypeRegistry,
	transactions ports.ITransactionRepository,
	customers ports.ICustomerRepository,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		gateway:      gateway,
		registry:     registry,
		transactions: transactions,
		customers:    customers,
		logger:       logger,
	}
}

// newPayment builds the local aggregate for a payment type resource id,
// defaulting the merchant order id when the caller supplied none.
func (s *PaymentService) newPayment(typeID, orderID, customerID string) (*model.Payment, error) {
	pt, err := s.registry.FromResourceID(typeID)
	if err != nil {
		return nil, err
	}
	p := model.NewPayment(s.gateway, pt)
	p.OrderID = orderID
	if p.OrderID == "" {
		p.OrderID = uuid.NewString()
	}
	if customerID != "" {
		p.SetCustomer(&model.Customer{ID: customerID})
	}
	return p, nil
}

// Authorize creates a payment via an authorization on the given payment type.
func (s *PaymentService) Authorize(ctx context.Context, req model.AuthorizeRequest) (*model.Payment, error) {
	p, err := s.newPayment(req.TypeID, req.OrderID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if req.BasketID != "" {
		p.SetBasket(&model.Basket{ID: req.BasketID})
	}

	authorization, err := p.Authorize(ctx, req.Amount, req.Currency, req.ReturnURL)
	if err != nil {
		s.recordFailure(ctx, p, model.RecordAuthorize, req.Amount, req.Currency, err)
		return nil, err
	}
	s.record(ctx, p, model.RecordAuthorize, authorization.ID, authorization.Amount, authorization.Currency, authorization.Pending)
	return p, nil
}

// Charge charges an existing payment. A nil amount captures the full
// remaining amount of its authorization.
func (s *PaymentService) Charge(ctx context.Context, paymentID string, req model.ChargeRequest) (*model.Charge, error) {
	p, err := s.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	charge, err := p.Charge(ctx, req.Amount, req.Currency, req.ReturnURL)
	if err != nil {
		amount := decimal.Zero
		if req.Amount != nil {
			amount = *req.Amount
		}
		s.recordFailure(ctx, p, model.RecordCharge, amount, req.Currency, err)
		return nil, err
	}
	s.record(ctx, p, model.RecordCharge, charge.ID, charge.Amount, charge.Currency, charge.Pending)
	return charge, nil
}

// DirectCharge creates a payment and charges it in one step; the remote side
// creates the payment implicitly on the first transaction.
func (s *PaymentService) DirectCharge(ctx context.Context, req model.DirectChargeRequest) (*model.Payment, error) {
	p, err := s.newPayment(req.TypeID, req.OrderID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	amount := req.Amount
	charge, err := p.Charge(ctx, &amount, req.Currency, req.ReturnURL)
	if err != nil {
		s.recordFailure(ctx, p, model.RecordCharge, req.Amount, req.Currency, err)
		return nil, err
	}
	s.record(ctx, p, model.RecordCharge, charge.ID, charge.Amount, charge.Currency, charge.Pending)
	return p, nil
}

// Payout credits money to the payment type of an existing payment.
func (s *PaymentService) Payout(ctx context.Context, paymentID string, req model.PayoutRequest) (*model.Payout, error) {
	p, err := s.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	payout, err := p.Payout(ctx, req.Amount, req.Currency, req.ReturnURL)
	if err != nil {
		s.recordFailure(ctx, p, model.RecordPayout, req.Amount, req.Currency, err)
		return nil, err
	}
	s.record(ctx, p, model.RecordPayout, payout.ID, payout.Amount, payout.Currency, payout.Pending)
	return payout, nil
}

// GetPayment resolves a payment id to the live aggregate.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	return s.gateway.FetchPayment(ctx, paymentID)
}

// TransactionHistory returns the recorded transactions of a payment for
// reconciliation and support lookups.
func (s *PaymentService) TransactionHistory(ctx context.Context, paymentID string) ([]model.TransactionRecord, error) {
	if s.transactions == nil {
		return nil, nil
	}
	return s.transactions.FindByPaymentID(ctx, paymentID)
}

// CreateBasket creates the basket resource remotely. The returned basket
// carries the remote id used to link it into authorize and charge requests.
func (s *PaymentService) CreateBasket(ctx context.Context, basket *model.Basket) (*model.Basket, error) {
	if err := s.gateway.CreateResource(ctx, basket); err != nil {
		return nil, err
	}
	return basket, nil
}

// GetCustomer looks up the local mirror of a remotely created customer. A nil
// record without error means the customer is unknown on the merchant side.
func (s *PaymentService) GetCustomer(ctx context.Context, remoteID string) (*model.CustomerRecord, error) {
	if s.customers == nil {
		return nil, nil
	}
	return s.customers.FindByRemoteID(ctx, remoteID)
}

// CreateCustomer creates the customer resource remotely and mirrors it in the
// customer table for merchant-side lookups.
func (s *PaymentService) CreateCustomer(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	if err := s.gateway.CreateResource(ctx, customer); err != nil {
		return nil, err
	}
	if s.customers != nil {
		rec := &model.CustomerRecord{
			RemoteID:  customer.ID,
			FirstName: customer.FirstName,
			LastName:  customer.LastName,
			Email:     customer.Email,
		}
		if err := s.customers.Create(ctx, rec); err != nil {
			s.logger.Warn("recording customer failed", "customer_id", customer.ID, "error", err)
		}
	}
	return customer, nil
}

// record writes a settled transaction to the history table, best effort: the
// remote response is authoritative, so an insert failure is logged only.
func (s *PaymentService) record(ctx context.Context, p *model.Payment, txType, resourceID string, amount decimal.Decimal, currency string, pending bool) {
	if s.transactions == nil {
		return
	}
	status := ports.TxSuccess
	if pending {
		status = ports.TxPending
	}
	rec := &model.TransactionRecord{
		PaymentID:  p.ID,
		OrderID:    p.OrderID,
		TxType:     txType,
		ResourceID: resourceID,
		Amount:     amount,
		Currency:   currency,
		TxStatus:   status,
	}
	if err := s.transactions.Create(ctx, rec); err != nil {
		s.logger.Warn("recording transaction failed", "payment_id", p.ID, "tx_type", txType, "error", err)
	}
}

// recordFailure stores a transaction the remote system rejected, keeping the
// API code for support lookups. Transport failures carry no code and are not
// recorded.
func (s *PaymentService) recordFailure(ctx context.Context, p *model.Payment, txType string, amount decimal.Decimal, currency string, cause error) {
	var apiErr *model.APIError
	if s.transactions == nil || !errors.As(cause, &apiErr) {
		return
	}
	rec := &model.TransactionRecord{
		PaymentID: p.ID,
		OrderID:   p.OrderID,
		TxType:    txType,
		Amount:    amount,
		Currency:  currency,
		TxStatus:  ports.TxError,
		ErrorCode: apiErr.Code,
	}
	if err := s.transactions.Create(ctx, rec); err != nil {
		s.logger.Warn("recording rejected transaction failed", "payment_id", p.ID, "tx_type", txType, "error", err)
	}
}
