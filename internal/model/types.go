package model

// PaymentType describes the capabilities of a remote payment type resource.
// The type itself is created by the merchant front end directly against the
// remote API; this service only sees its resource id.
type PaymentType interface {
	Chargeable() bool
	Authorizable() bool
	Cancelable() bool
	ResourceID() string
	Name() string
}

type baseType struct {
	id           string
	name         string
	chargeable   bool
	authorizable bool
	cancelable   bool
}

func (t *baseType) Chargeable() bool   { return t.chargeable }
func (t *baseType) Authorizable() bool { return t.authorizable }
func (t *baseType) Cancelable() bool   { return t.cancelable }
func (t *baseType) ResourceID() string { return t.id }
func (t *baseType) Name() string       { return t.name }

// Card supports the full transaction set.
type Card struct{ baseType }

func NewCard(id string) *Card {
	return &Card{baseType{id: id, name: "card", chargeable: true, authorizable: true, cancelable: true}}
}

// SepaDirectDebit is charged directly, without a prior authorization.
type SepaDirectDebit struct{ baseType }

func NewSepaDirectDebit(id string) *SepaDirectDebit {
	return &SepaDirectDebit{baseType{id: id, name: "sepa-direct-debit", chargeable: true, cancelable: true}}
}

// PaylaterInvoice is authorize-only; the capture happens through charges
// against the authorization.
type PaylaterInvoice struct{ baseType }

func NewPaylaterInvoice(id string) *PaylaterInvoice {
	return &PaylaterInvoice{baseType{id: id, name: "paylater-invoice", authorizable: true, cancelable: true}}
}
