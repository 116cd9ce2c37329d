package repository

import (
	"app/internal/domain/model"
	"context"
)

type StoreRepository interface {
	List(ctx context.Context) ([]model.Store, error)
	FindByID(ctx context.Context, id int64) (model.Store, error)
	Create(ctx context.Context, s model.Store) (model.Store, error)
}
