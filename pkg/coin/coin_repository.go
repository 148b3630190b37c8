package coin

import (
	"context"
	"errors"

	"ghibli-backend/entities"

	"gorm.io/gorm"
)

type (
	// CoinRepository persists purchase orders for the Midtrans path. The
	// coin balance itself lives in the snapshot store, not here.
	CoinRepository interface {
		CreatePurchaseOrder(ctx context.Context, order *entities.PurchaseOrder) error
		GetPurchaseOrderByID(ctx context.Context, id string) (*entities.PurchaseOrder, error)
		UpdatePurchaseOrderStatus(ctx context.Context, id string, status string) error
	}

	coinRepository struct {
		db *gorm.DB
	}
)

func NewCoinRepository(db *gorm.DB) CoinRepository {
	return &coinRepository{
		db: db,
	}
}

func (r *coinRepository) CreatePurchaseOrder(ctx context.Context, order *entities.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *coinRepository) GetPurchaseOrderByID(ctx context.Context, id string) (*entities.PurchaseOrder, error) {
	var order entities.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, err
	}
	return &order, nil
}

func (r *coinRepository) UpdatePurchaseOrderStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).
		Model(&entities.PurchaseOrder{}).
		Where("id = ?", id).
		Update("status", status).Error
}
