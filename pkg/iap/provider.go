package iap

import (
	"context"

	"ghibli-backend/domain"
)

// Provider is the in-app purchase side of the coin flow: the store-side
// catalog, a consumable purchase and purchase restoration. The production
// build talks to the platform store; tests and development use the mock.
type Provider interface {
	GetProducts(ctx context.Context) ([]domain.CoinPackage, error)
	Purchase(ctx context.Context, packageID string) (bool, error)
	RestorePurchases(ctx context.Context) error
}
