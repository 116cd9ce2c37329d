package repository

import (
	"context"

	"app/internal/domain/model"
)

type EmailRepository interface {
	Create(ctx context.Context, rec model.EmailRecord) (model.EmailRecord, error)
	FindByID(ctx context.Context, id int64) (model.EmailRecord, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.EmailRecord, error)
	Update(ctx context.Context, rec model.EmailRecord) error
}
