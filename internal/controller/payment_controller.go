package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/danielmoisemontezima/zw-payment-gateway/internal/model"
	"github.com/danielmoisemontezima/zw-payment-gateway/internal/service"
	"github.com/danielmoisemontezima/zw-payment-gateway/pkg/utils"
	"github.com/go-chi/chi/v5"
)

// PaymentController exposes the payment operations over HTTP.
type PaymentController struct {
	payments *service.PaymentService
	cancels  *service.CancelService
}

func NewPaymentController(payments *service.PaymentService, cancels *service.CancelService) *PaymentController {
	return &PaymentController{payments: payments, cancels: cancels}
}

func requestContext(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeout)
}

// respondError maps the typed domain errors to HTTP statuses. The customer
// message of an API error is what the merchant front end shows to the payer;
// the merchant message stays in the body for logs.
func respondError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		utils.RespondWithJSON(w, http.StatusBadGateway, map[string]string{
			"code":             apiErr.Code,
			"merchant_message": apiErr.MerchantMessage,
			"customer_message": apiErr.CustomerMessage,
		})
		return
	}

	var illegalErr *model.IllegalTransactionTypeError
	var missingErr *model.MissingResourceError
	switch {
	case errors.As(err, &illegalErr):
		utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &missingErr):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	}
}

type paymentView struct {
	ID          string       `json:"id"`
	OrderID     string       `json:"order_id,omitempty"`
	State       string       `json:"state"`
	Currency    string       `json:"currency,omitempty"`
	Amount      model.Amount `json:"amount"`
	RedirectURL string       `json:"redirect_url,omitempty"`
	ChargeIDs   []string     `json:"charge_ids,omitempty"`
}

func viewOf(p *model.Payment) paymentView {
	v := paymentView{
		ID:          p.ID,
		OrderID:     p.OrderID,
		State:       p.State.String(),
		Currency:    p.Currency,
		Amount:      p.Amount,
		RedirectURL: p.RedirectURL,
	}
	for _, c := range p.Charges() {
		v.ChargeIDs = append(v.ChargeIDs, c.ID)
	}
	return v
}

func (c *PaymentController) Authorize(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r, 10*time.Second)
	defer cancel()

	var req model.AuthorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	p, err := c.payments.Authorize(ctx, req)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, viewOf(p))
}

func (c *PaymentController) Charge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r, 10*time.Second)
	defer cancel()

	var req model.ChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	charge, err := c.payments.Charge(ctx, chi.URLParam(r, "paymentID"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"id":       charge.ID,
		"amount":   charge.Amount,
		"currency": charge.Currency,
	})
}

func (c *PaymentController) DirectCharge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r, 10*time.Second)
	defer cancel()

	var req model.DirectChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	p, err := c.payments.DirectCharge(ctx, req)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, viewOf(p))
}

func cancellationViews(cancellations []*model.Cancellation) []map[string]any {
	out := make([]map[string]any, 0, len(cancellations))
	for _, cn := range cancellations {
		entry := map[string]any{"id": cn.ID}
		if cn.Amount != nil {
			entry["amount"] = *cn.Amount
		}
		out = append(out, entry)
	}
	return out
}

func (c *PaymentController) CancelPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r, 30*time.Second)
	defer cancel()

	var req model.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	cancellations, err := c.cancels.CancelPaymentByID(ctx, chi.URLParam(r, "paymentID"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"cancellations": cancellationViews(cancellations),
	})
}

func (c *PaymentController) CancelAuthorization(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r, 10*time.Second)
	defer cancel()

	var req model.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	cancellation, err := c.cancels.CancelAuthorizationByPayment(ctx, chi.URLParam(r, "paymentID"), req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cancellationViews([]*model.Cancellation{cancellation})[0])
}

func (c *PaymentController) CancelCharge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r, 10*time.Second)
	defer cancel()

	var req model.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	cancellation, err := c.cancels.CancelChargeByID(ctx,
		chi.URLParam(r, "paymentID"), chi.URLParam(r, "chargeID"),
		model.CancelOptions{
			Amount:           req.Amount,
			ReasonCode:       req.ReasonCode,
			PaymentReference: req.PaymentReference,
			AmountNet:        req.AmountNet,
			AmountVat:        req.AmountVat,
		})
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cancellationViews([]*model.Cancellation{cancellation})[0])
}

func (c *PaymentController) Payout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r, 10*time.Second)
	defer cancel()

	var req model.PayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	payout, err := c.payments.Payout(ctx, chi.URLParam(r, "paymentID"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"id":       payout.ID,
		"amount":   payout.Amount,
		"currency": payout.Currency,
	})
}

func (c *PaymentController) GetPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	p, err := c.payments.GetPayment(ctx, chi.URLParam(r, "paymentID"))
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, viewOf(p))
}

func (c *PaymentController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	var customer model.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	created, err := c.payments.CreateCustomer(ctx, &customer)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (c *PaymentController) GetTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	records, err := c.payments.TransactionHistory(ctx, chi.URLParam(r, "paymentID"))
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"transactions": records})
}

func (c *PaymentController) CreateBasket(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	var basket model.Basket
	if err := json.NewDecoder(r.Body).Decode(&basket); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	created, err := c.payments.CreateBasket(ctx, &basket)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (c *PaymentController) GetCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	rec, err := c.payments.GetCustomer(ctx, chi.URLParam(r, "customerID"))
	if err != nil {
		respondError(w, err)
		return
	}
	if rec == nil {
		utils.RespondWithError(w, http.StatusNotFound, "customer not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rec)
}

func (c *PaymentController) GetHealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
