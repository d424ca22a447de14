package model

import (
	"github.com/shopspring/decimal"
)

// Restore helpers rebuild aggregate children from a fetched payment without a
// remote round trip per child. They go through the same bookkeeping as live
// transactions.

// RestoreCancellation attaches an already-settled cancellation to the
// authorization.
func (a *Authorization) RestoreCancellation(id string, amount decimal.Decimal) *Cancellation {
	cn := &Cancellation{Amount: &amount}
	cn.ID = id
	cn.payment = a.payment
	cn.parentAuthorization = a
	a.recordCancellation(cn, a.Amount)
	return cn
}

// RestoreCancellation attaches an already-settled cancellation to the charge.
func (c *Charge) RestoreCancellation(id string, amount decimal.Decimal) *Cancellation {
	cn := &Cancellation{Amount: &amount}
	cn.ID = id
	cn.payment = c.payment
	cn.parentCharge = c
	c.recordCancellation(cn, c.Amount)
	return cn
}
