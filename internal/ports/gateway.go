package ports

import (
	"context"

	"github.com/danielmoisemontezima/zw-payment-gateway/internal/model"
)

// IResourceGateway is the full surface of the remote payment API as the
// services consume it: create any resource, resolve string ids to live
// resource objects.
type IResourceGateway interface {
	CreateResource(ctx context.Context, res model.Resource) error
	FetchPayment(ctx context.Context, id string) (*model.Payment, error)
	FetchAuthorization(ctx context.Context, payment *model.Payment) (*model.Authorization, error)
	FetchChargeByID(ctx context.Context, payment *model.Payment, chargeID string) (*model.Charge, error)
}
