package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type PhotoGormRepository struct {
	db *gorm.DB
}

// DI
func NewPhotoGormRepository(db *gorm.DB) *PhotoGormRepository {
	return &PhotoGormRepository{db: db}
}

func (r *PhotoGormRepository) Create(ctx context.Context, p model.Photo) (model.Photo, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Photo{}, err
	}
	return p, nil
}

func (r *PhotoGormRepository) FindByID(ctx context.Context, id int64) (model.Photo, error) {
	var p model.Photo
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Photo{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Photo{}, err
	}
	return p, nil
}

func (r *PhotoGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.Photo, error) {
	var photos []model.Photo
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at asc").Find(&photos).Error; err != nil {
		return []model.Photo{}, err
	}
	return photos, nil
}

func (r *PhotoGormRepository) DeleteByID(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Photo{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
