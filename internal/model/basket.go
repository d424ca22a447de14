package model

import (
	"github.com/shopspring/decimal"
)

// Basket itemizes what a payment pays for. It is created as its own resource
// and linked into authorize and charge transactions by id.
type Basket struct {
	ID                  string           `json:"id,omitempty"`
	OrderID             string           `json:"orderId"`
	AmountTotal         decimal.Decimal  `json:"amountTotal"`
	AmountTotalDiscount *decimal.Decimal `json:"amountTotalDiscount,omitempty"`
	CurrencyCode        string           `json:"currencyCode"`
	Note                string           `json:"note,omitempty"`
	Items               []BasketItem     `json:"basketItems"`
}

// BasketItem is one line of a basket.
type BasketItem struct {
	Title          string           `json:"title"`
	Quantity       int              `json:"quantity"`
	AmountPerUnit  decimal.Decimal  `json:"amountPerUnit"`
	AmountNet      *decimal.Decimal `json:"amountNet,omitempty"`
	AmountVat      *decimal.Decimal `json:"amountVat,omitempty"`
	AmountDiscount *decimal.Decimal `json:"amountDiscount,omitempty"`
}

func (b *Basket) ItemCount() int { return len(b.Items) }

func (b *Basket) ResourcePath() string { return "baskets" }

func (b *Basket) RequestBody() (any, error) { return b, nil }

func (b *Basket) HandleResponse(r *TransactionResponse) error {
	if b.ID != "" && r.ID != "" && b.ID != r.ID {
		return &ReferenceMismatchError{Expected: b.ID, Got: r.ID}
	}
	if r.ID != "" {
		b.ID = r.ID
	}
	if r.Resources != nil && r.Resources.BasketID != "" {
		b.ID = r.Resources.BasketID
	}
	return nil
}
