package iap

import (
	"context"

	"ghibli-backend/domain"

	"github.com/gofiber/fiber/v2/log"
)

// mockProvider approves every purchase, mirroring the client's stub store
// integration. Swap for a real platform provider before shipping billing.
type mockProvider struct{}

func NewMockProvider() Provider {
	return &mockProvider{}
}

func (p *mockProvider) GetProducts(_ context.Context) ([]domain.CoinPackage, error) {
	return domain.CoinPackages, nil
}

func (p *mockProvider) Purchase(_ context.Context, packageID string) (bool, error) {
	log.Infof("mock purchase approved for product %s", packageID)
	return true, nil
}

func (p *mockProvider) RestorePurchases(_ context.Context) error {
	log.Info("mock restore purchases: nothing to restore")
	return nil
}
