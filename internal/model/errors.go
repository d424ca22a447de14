package model

import (
	"fmt"
)

// IllegalTransactionTypeError is returned when an operation is requested on a
// payment type that does not support it. It fails before any network call.
type IllegalTransactionTypeError struct {
	Operation   string
	PaymentType string
}

func (e *IllegalTransactionTypeError) Error() string {
	return fmt.Sprintf("transaction type %q is not allowed for payment type %q", e.Operation, e.PaymentType)
}

// MissingResourceError is returned when a related resource required for the
// operation has not been set or created.
type MissingResourceError struct {
	Resource string
}

func (e *MissingResourceError) Error() string {
	return fmt.Sprintf("required resource %q is not set", e.Resource)
}

// ReferenceMismatchError indicates a remote response referring to a different
// resource than the one being updated. This is a wiring defect and always fatal.
type ReferenceMismatchError struct {
	Expected string
	Got      string
}

func (e *ReferenceMismatchError) Error() string {
	return fmt.Sprintf("response resource id %q does not match local resource id %q", e.Got, e.Expected)
}

// APIError is a rejection by the remote payment system. Code is machine
// readable; MerchantMessage is meant for logs, CustomerMessage for end users.
type APIError struct {
	StatusCode      int
	Code            string
	MerchantMessage string
	CustomerMessage string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s: %s", e.Code, e.MerchantMessage)
}
