package repository

import (
	"context"

	"app/internal/domain/model"
)

// 注文×店舗リンク
type OrderStoreRepository interface {
	CreateBulk(ctx context.Context, orderID int64, links []model.OrderStore) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStore, error)
}

// 注文×商品の集計行
type OrderProductRepository interface {
	CreateBulk(ctx context.Context, orderID int64, rows []model.OrderProduct) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderProduct, error)
}

// 店舗×商品の内訳行
type OrderStoreProductRepository interface {
	CreateBulk(ctx context.Context, orderID int64, rows []model.OrderStoreProduct) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStoreProduct, error)
}
