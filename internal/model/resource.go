package model

import (
	"context"
)

// Resource is anything that can be submitted to the remote API for creation.
type Resource interface {
	// ResourcePath is the path of the resource below the API version root.
	ResourcePath() string
	// RequestBody returns the JSON-serializable creation payload.
	RequestBody() (any, error)
	// HandleResponse adopts the remote response into the resource.
	HandleResponse(res *TransactionResponse) error
}

// ResourceClient is the narrow gateway capability the domain model needs to
// submit transactions. The full gateway interface lives in the ports package.
type ResourceClient interface {
	CreateResource(ctx context.Context, res Resource) error
}
