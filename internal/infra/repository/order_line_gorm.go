package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type OrderStoreGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderStoreGormRepository(db *gorm.DB) *OrderStoreGormRepository {
	return &OrderStoreGormRepository{db: db}
}

func (r *OrderStoreGormRepository) CreateBulk(ctx context.Context, orderID int64, links []model.OrderStore) error {
	if len(links) == 0 {
		return nil
	}
	rows := make([]model.OrderStore, 0, len(links))
	for _, l := range links {
		l.OrderID = orderID
		rows = append(rows, l)
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *OrderStoreGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStore, error) {
	var rows []model.OrderStore
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&rows).Error; err != nil {
		return []model.OrderStore{}, err
	}
	return rows, nil
}

type OrderProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderProductGormRepository(db *gorm.DB) *OrderProductGormRepository {
	return &OrderProductGormRepository{db: db}
}

func (r *OrderProductGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderProduct) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]model.OrderProduct, 0, len(items))
	for _, it := range items {
		it.OrderID = orderID
		rows = append(rows, it)
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *OrderProductGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderProduct, error) {
	var rows []model.OrderProduct
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&rows).Error; err != nil {
		return []model.OrderProduct{}, err
	}
	return rows, nil
}

type OrderStoreProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderStoreProductGormRepository(db *gorm.DB) *OrderStoreProductGormRepository {
	return &OrderStoreProductGormRepository{db: db}
}

func (r *OrderStoreProductGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderStoreProduct) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]model.OrderStoreProduct, 0, len(items))
	for _, it := range items {
		it.OrderID = orderID
		rows = append(rows, it)
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *OrderStoreProductGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStoreProduct, error) {
	var rows []model.OrderStoreProduct
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&rows).Error; err != nil {
		return []model.OrderStoreProduct{}, err
	}
	return rows, nil
}
