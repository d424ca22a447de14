package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielmoisemontezima/zw-payment-gateway/internal/core"
	"github.com/danielmoisemontezima/zw-payment-gateway/internal/model"
	"github.com/shopspring/decimal"
)

const apiVersion = "v1"

// RestGateway talks to the remote payment API. It creates resources and
// resolves string ids to live resource objects; all state interpretation
// stays in the model.
type RestGateway struct {
	baseURL    string
	privateKey string
	httpClient *http.Client
	registry   *core.TypeRegistry
	logger     *slog.Logger
}

func NewRestGateway(baseURL, privateKey string, registry *core.TypeRegistry, logger *slog.Logger) *RestGateway {
	return &RestGateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		privateKey: privateKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		registry:   registry,
		logger:     logger,
	}
}

// apiErrorResponse is the error payload shape of the remote API.
type apiErrorResponse struct {
	URL       string `json:"url"`
	Timestamp string `json:"timestamp"`
	Errors    []struct {
		Code            string `json:"code"`
		MerchantMessage string `json:"merchantMessage"`
		CustomerMessage string `json:"customerMessage"`
	} `json:"errors"`
}

func (g *RestGateway) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	url := g.baseURL + "/" + apiVersion + "/" + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.SetBasicAuth(g.privateKey, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return g.decodeAPIError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response of %s %s: %w", method, path, err)
		}
	}
	return nil
}

func (g *RestGateway) decodeAPIError(resp *http.Response) error {
	var payload apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload.Errors) == 0 {
		return &model.APIError{
			StatusCode:      resp.StatusCode,
			MerchantMessage: fmt.Sprintf("unexpected gateway response status %d", resp.StatusCode),
		}
	}
	first := payload.Errors[0]
	apiErr := &model.APIError{
		StatusCode:      resp.StatusCode,
		Code:            first.Code,
		MerchantMessage: first.MerchantMessage,
		CustomerMessage: first.CustomerMessage,
	}
	g.logger.Debug("gateway rejected request",
		"status", resp.StatusCode, "code", apiErr.Code, "merchant_message", apiErr.MerchantMessage)
	return apiErr
}

// CreateResource submits a resource for creation and hands the decoded
// response back to it.
func (g *RestGateway) CreateResource(ctx context.Context, res model.Resource) error {
	payload, err := res.RequestBody()
	if err != nil {
		return err
	}
	var tr model.TransactionResponse
	if err := g.do(ctx, http.MethodPost, res.ResourcePath(), payload, &tr); err != nil {
		return err
	}
	return res.HandleResponse(&tr)
}

// FetchPayment resolves a payment id to a live aggregate, rebuilding the
// authorization, charges and their cancellations from the transaction list.
func (g *RestGateway) FetchPayment(ctx context.Context, id string) (*model.Payment, error) {
	var pr model.PaymentResponse
	if err := g.do(ctx, http.MethodGet, "payments/"+id, nil, &pr); err != nil {
		return nil, err
	}

	p := model.NewPayment(g, nil)
	if err := p.HandleResponse(&pr); err != nil {
		return nil, err
	}
	if pr.Resources != nil && pr.Resources.TypeID != "" {
		pt, err := g.registry.FromResourceID(pr.Resources.TypeID)
		if err != nil {
			return nil, err
		}
		p.SetPaymentType(pt)
	}
	if pr.Resources != nil && pr.Resources.CustomerID != "" {
		p.SetCustomer(&model.Customer{ID: pr.Resources.CustomerID})
	}
	if err := g.restoreTransactions(p, &pr); err != nil {
		return nil, err
	}
	return p, nil
}

func (g *RestGateway) restoreTransactions(p *model.Payment, pr *model.PaymentResponse) error {
	for _, t := range pr.Transactions {
		switch t.Type {
		case "authorize":
			a := model.NewAuthorization(t.Amount, pr.Currency, "")
			a.ID = t.ID
			p.SetAuthorization(a)
		case "charge":
			c := model.NewCharge(t.Amount, pr.Currency, "")
			c.ID = t.ID
			if err := p.AddCharge(c); err != nil {
				return err
			}
		case "cancel-authorize":
			if a := p.Authorization(); a != nil {
				a.RestoreCancellation(t.ID, t.Amount)
			}
		case "cancel-charge":
			if c := p.ChargeByID(t.ParentID); c != nil {
				c.RestoreCancellation(t.ID, t.Amount)
			}
		case "chargeback":
			// a chargeback puts the charge in a terminal state; any further
			// cancel against it is rejected remotely
			if c := p.ChargeByID(t.ParentID); c != nil {
				c.CancelState = model.TxStateChargedBack
			}
		default:
			g.logger.Debug("skipping unknown transaction type", "type", t.Type, "id", t.ID)
		}
	}
	return nil
}

// FetchAuthorization resolves the authorization of a payment, attaching it to
// the aggregate.
func (g *RestGateway) FetchAuthorization(ctx context.Context, payment *model.Payment) (*model.Authorization, error) {
	var tr model.TransactionResponse
	if err := g.do(ctx, http.MethodGet, "payments/"+payment.ID+"/authorize", nil, &tr); err != nil {
		return nil, err
	}
	a := payment.Authorization()
	if a == nil {
		amount := decimal.Zero
		if tr.Amount != nil {
			amount = *tr.Amount
		}
		a = model.NewAuthorization(amount, tr.Currency, tr.ReturnURL)
		payment.SetAuthorization(a)
	}
	if err := a.HandleResponse(&tr); err != nil {
		return nil, err
	}
	return a, nil
}

// FetchChargeByID resolves a single charge of a payment by its id.
func (g *RestGateway) FetchChargeByID(ctx context.Context, payment *model.Payment, chargeID string) (*model.Charge, error) {
	var tr model.TransactionResponse
	if err := g.do(ctx, http.MethodGet, "payments/"+payment.ID+"/charges/"+chargeID, nil, &tr); err != nil {
		return nil, err
	}
	c := payment.ChargeByID(chargeID)
	if c == nil {
		amount := decimal.Zero
		if tr.Amount != nil {
			amount = *tr.Amount
		}
		c = model.NewCharge(amount, tr.Currency, tr.ReturnURL)
		c.ID = chargeID
		if err := payment.AddCharge(c); err != nil {
			return nil, err
		}
	}
	if err := c.HandleResponse(&tr); err != nil {
		return nil, err
	}
	return c, nil
}
