package core

import (
	"fmt"
	"strings"

	"github.com/danielmoisemontezima/zw-payment-gateway/internal/model"
)

// TypeFactory builds a payment type wrapper around a remote type resource id.
type TypeFactory func(id string) model.PaymentType

// TypeRegistry resolves remote type resource ids to their capability-bearing
// payment types. Ids are prefixed with the type short code, e.g.
// "s-crd-9wmri5mdlqps" for a card.
type TypeRegistry struct {
	factories map[string]TypeFactory
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		factories: make(map[string]TypeFactory),
	}
}

func (r *TypeRegistry) Register(shortCode string, factory TypeFactory) {
	r.factories[shortCode] = factory
}

// FromResourceID resolves a type resource id like "s-crd-..." to a payment
// type instance carrying its capability flags.
func (r *TypeRegistry) FromResourceID(id string) (model.PaymentType, error) {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed type resource id %q", id)
	}
	factory, exists := r.factories[parts[1]]
	if !exists {
		return nil, fmt.Errorf("payment type %q not configured", parts[1])
	}
	return factory(id), nil
}

// DefaultTypeRegistry registers the payment types this service mediates.
func DefaultTypeRegistry() *TypeRegistry {
	r := NewTypeRegistry()
	r.Register("crd", func(id string) model.PaymentType { return model.NewCard(id) })
	r.Register("sdd", func(id string) model.PaymentType { return model.NewSepaDirectDebit(id) })
	r.Register("piv", func(id string) model.PaymentType { return model.NewPaylaterInvoice(id) })
	return r
}
