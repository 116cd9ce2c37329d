package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ProductModelGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductModelGormRepository(db *gorm.DB) *ProductModelGormRepository {
	return &ProductModelGormRepository{db: db}
}

// 名前の完全一致で引く
func (r *ProductModelGormRepository) FindByName(ctx context.Context, name string) (model.ProductModel, error) {
	var m model.ProductModel
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductModel{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductModel{}, err
	}
	return m, nil
}

func (r *ProductModelGormRepository) Create(ctx context.Context, m model.ProductModel) (model.ProductModel, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.ProductModel{}, err
	}
	return m, nil
}
