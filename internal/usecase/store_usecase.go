package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type StoreUsecase struct {
	storeRepo repo.StoreRepository
}

// DI
func NewStoreUsecase(storeRepo repo.StoreRepository) *StoreUsecase {
	return &StoreUsecase{storeRepo: storeRepo}
}

type CreateStoreInput struct {
	Name string
	Code string
	City string
}

func (u *StoreUsecase) ListStores(ctx context.Context) ([]model.Store, error) {
	stores, err := u.storeRepo.List(ctx)
	if err != nil {
		return []model.Store{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return stores, nil
}

func (u *StoreUsecase) CreateStore(ctx context.Context, in CreateStoreInput) (model.Store, error) {
	name := strings.TrimSpace(in.Name)
	code := strings.TrimSpace(in.Code)
	if name == "" || code == "" {
		return model.Store{}, NewHTTPError(http.StatusBadRequest, "name and code are required")
	}

	s, err := u.storeRepo.Create(ctx, model.Store{
		Name: name,
		Code: code,
		City: strings.TrimSpace(in.City),
	})
	if err != nil {
		return model.Store{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}
