package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Page     int
	Limit    int
	Q        string
	Category string
}

// 商品の永続化だけを約束。
// upsertの判定（reference単独か reference+model か）はusecase側
type ProductRepository interface {
	ListActive(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindByReference(ctx context.Context, category string, reference string) (model.Product, error)
	FindByReferenceAndModel(ctx context.Context, category string, reference string, modelID int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error

	// カテゴリ内でkeepIDs以外のactive商品をアーカイブし、件数を返す
	ArchiveMissing(ctx context.Context, category string, keepIDs []int64) (int64, error)
}

// 親「モデル」エンティティ
type ProductModelRepository interface {
	FindByName(ctx context.Context, name string) (model.ProductModel, error)
	Create(ctx context.Context, m model.ProductModel) (model.ProductModel, error)
}
