package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders             repo.OrderRepository
	orderStores        repo.OrderStoreRepository
	orderProducts      repo.OrderProductRepository
	orderStoreProducts repo.OrderStoreProductRepository
	products           repo.ProductRepository
	productModels      repo.ProductModelRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository                         { return r.orders }
func (r *txReposGorm) OrderStores() repo.OrderStoreRepository               { return r.orderStores }
func (r *txReposGorm) OrderProducts() repo.OrderProductRepository           { return r.orderProducts }
func (r *txReposGorm) OrderStoreProducts() repo.OrderStoreProductRepository { return r.orderStoreProducts }
func (r *txReposGorm) Products() repo.ProductRepository                     { return r.products }
func (r *txReposGorm) ProductModels() repo.ProductModelRepository           { return r.productModels }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:             NewOrderGormRepository(tx),
			orderStores:        NewOrderStoreGormRepository(tx),
			orderProducts:      NewOrderProductGormRepository(tx),
			orderStoreProducts: NewOrderStoreProductGormRepository(tx),
			products:           NewProductGormRepository(tx),
			productModels:      NewProductModelGormRepository(tx),
		}
		return fn(r)
	})
}
