package model

import (
	"github.com/shopspring/decimal"
)

// Amount is the ledger of a payment. All four fields come from the remote
// system; the service never computes them speculatively before a round trip
// has completed.
type Amount struct {
	Total     decimal.Decimal `json:"total"`
	Charged   decimal.Decimal `json:"charged"`
	Canceled  decimal.Decimal `json:"canceled"`
	Remaining decimal.Decimal `json:"remaining"`
}

// Completed reports whether nothing is left to capture on the payment.
func (a *Amount) Completed() bool {
	return a.Remaining.IsZero()
}

// adopt takes over a remote amount snapshot. The snapshot is applied only if
// all four fields were present together; a partial snapshot is discarded.
func (a *Amount) adopt(d *AmountDetails) {
	if d == nil || !d.complete() {
		return
	}
	a.Total = *d.Total
	a.Charged = *d.Charged
	a.Canceled = *d.Canceled
	a.Remaining = *d.Remaining
}
