package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type EmailGormRepository struct {
	db *gorm.DB
}

// DI
func NewEmailGormRepository(db *gorm.DB) *EmailGormRepository {
	return &EmailGormRepository{db: db}
}

func (r *EmailGormRepository) Create(ctx context.Context, rec model.EmailRecord) (model.EmailRecord, error) {
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return model.EmailRecord{}, err
	}
	return rec, nil
}

func (r *EmailGormRepository) FindByID(ctx context.Context, id int64) (model.EmailRecord, error) {
	var rec model.EmailRecord
	err := r.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.EmailRecord{}, repo.ErrNotFound
	}
	if err != nil {
		return model.EmailRecord{}, err
	}
	return rec, nil
}

func (r *EmailGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.EmailRecord, error) {
	var recs []model.EmailRecord
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at asc").Find(&recs).Error; err != nil {
		return []model.EmailRecord{}, err
	}
	return recs, nil
}

func (r *EmailGormRepository) Update(ctx context.Context, rec model.EmailRecord) error {
	res := r.db.WithContext(ctx).Model(&model.EmailRecord{}).Where("id = ?", rec.ID).Updates(map[string]interface{}{
		"reply_status":     rec.ReplyStatus,
		"reply_note":       rec.ReplyNote,
		"next_followup_at": rec.NextFollowupAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
