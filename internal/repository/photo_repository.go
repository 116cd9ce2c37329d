package repository

import (
	"context"

	"app/internal/domain/model"
)

type PhotoRepository interface {
	Create(ctx context.Context, p model.Photo) (model.Photo, error)
	FindByID(ctx context.Context, id int64) (model.Photo, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.Photo, error)
	DeleteByID(ctx context.Context, id int64) error
}
