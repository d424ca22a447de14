package core

// Machine-readable response codes of the remote payment API that the
// services branch on. The remote system ships many more; only the ones with
// local meaning are named here.
const (
	CodeAlreadyCanceled             = "API.340.100.018"
	CodeAlreadyCharged              = "API.340.100.019"
	CodeTransactionCancelNotAllowed = "API.340.100.020"
	CodeAlreadyChargedBack          = "API.340.100.021"

	CodeInsufficientFunds = "API.320.200.145"
	CodeResourceNotFound  = "API.310.100.003"
)
