package model

// State is the payment state as reported by the remote system.
type State int

const (
	StatePending State = iota
	StateCompleted
	StateCanceled
	StatePartly
	StatePaymentReview
	StateChargeback
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCompleted:
		return "completed"
	case StateCanceled:
		return "canceled"
	case StatePartly:
		return "partly"
	case StatePaymentReview:
		return "payment review"
	case StateChargeback:
		return "chargeback"
	}
	return "unknown"
}

// TxState tracks how far a cancelable transaction has been reversed.
type TxState string

const (
	TxStateOpen              TxState = "open"
	TxStatePartiallyCanceled TxState = "partially_canceled"
	TxStateFullyCanceled     TxState = "fully_canceled"
	// TxStateChargedBack is terminal and only ever set from a remote response.
	TxStateChargedBack TxState = "charged_back"
)

// Terminal reports whether no further cancel may succeed against the
// transaction. The remote system rejects such attempts with one of the
// tolerated response codes.
func (s TxState) Terminal() bool {
	return s == TxStateFullyCanceled || s == TxStateChargedBack
}
