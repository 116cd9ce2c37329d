package repository

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// active商品のみを、検索/カテゴリ/ページング付きで返す。
func (r *ProductGormRepository) ListActive(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Product{})
	tx = tx.Where("is_active = ?", true)

	if strings.TrimSpace(q.Category) != "" {
		tx = tx.Where("category = ?", strings.TrimSpace(q.Category))
	}

	// q はname/referenceを対象
	if strings.TrimSpace(q.Q) != "" {
		like := "%" + strings.TrimSpace(q.Q) + "%"
		tx = tx.Where("name ILIKE ? OR reference ILIKE ?", like, like)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Order("name asc").Order("id asc").Offset(offset).Limit(q.Limit).Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return products, total, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// referenceだけで引く（サンプル系以外のカテゴリ用）
func (r *ProductGormRepository) FindByReference(ctx context.Context, category string, reference string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("category = ? AND reference = ?", category, reference).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// (reference, model)で引く（サンプル系カテゴリ用）
func (r *ProductGormRepository) FindByReferenceAndModel(ctx context.Context, category string, reference string, modelID int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("category = ? AND reference = ? AND model_id = ?", category, reference, modelID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":              p.Name,
		"reference":         p.Reference,
		"description":       p.Description,
		"model_id":          p.ModelID,
		"fabric_range":      p.FabricRange,
		"type":              p.Type,
		"color":             p.Color,
		"removable_cover":   p.RemovableCover,
		"collection_status": p.CollectionStatus,
		"is_active":         p.IsActive,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// インポートで触れなかったactive商品をアーカイブする
func (r *ProductGormRepository) ArchiveMissing(ctx context.Context, category string, keepIDs []int64) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("category = ? AND is_active = ?", category, true)

	if len(keepIDs) > 0 {
		tx = tx.Where("id NOT IN ?", keepIDs)
	}

	res := tx.Update("is_active", false)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
