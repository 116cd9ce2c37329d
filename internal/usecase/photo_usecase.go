package usecase

import (
	"context"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// キー付きblobストアへの約束（GCS実装はinfra側）
type PhotoStorage interface {
	Upload(ctx context.Context, objectKey string, contentType string, body io.Reader) error
	Delete(ctx context.Context, objectKey string) error
	PublicURL(objectKey string) string
}

// PhotoUsecaseは注文写真の管理。
// storageはnil可：バケット未設定の環境では写真APIは503を返す
type PhotoUsecase struct {
	photoRepo repo.PhotoRepository
	orderRepo repo.OrderRepository
	storage   PhotoStorage
	idGen     IDGenerator
}

// DI
func NewPhotoUsecase(
	photoRepo repo.PhotoRepository,
	orderRepo repo.OrderRepository,
	storage PhotoStorage,
	idGen IDGenerator,
) *PhotoUsecase {
	return &PhotoUsecase{
		photoRepo: photoRepo,
		orderRepo: orderRepo,
		storage:   storage,
		idGen:     idGen,
	}
}

var photoContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Uploadはストレージに上げてからphotos行を作る
func (u *PhotoUsecase) Upload(ctx context.Context, orderID int64, filename string, contentType string, body io.Reader) (model.Photo, error) {
	if u.storage == nil {
		return model.Photo{}, NewHTTPError(http.StatusServiceUnavailable, "photo storage not configured")
	}
	if orderID <= 0 {
		return model.Photo{}, NewHTTPError(http.StatusBadRequest, "invalid order_id")
	}
	if !photoContentTypes[contentType] {
		return model.Photo{}, NewHTTPError(http.StatusBadRequest, "unsupported file type")
	}

	if _, err := u.orderRepo.FindByID(ctx, orderID); err != nil {
		if err == repo.ErrNotFound {
			return model.Photo{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Photo{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	ext := strings.ToLower(path.Ext(filename))
	objectKey := path.Join("orders", strconv.FormatInt(orderID, 10), u.idGen.NewID()+ext)

	if err := u.storage.Upload(ctx, objectKey, contentType, body); err != nil {
		return model.Photo{}, NewHTTPError(http.StatusBadGateway, "upload failed")
	}

	p, err := u.photoRepo.Create(ctx, model.Photo{
		OrderID:   orderID,
		ObjectKey: objectKey,
		URL:       u.storage.PublicURL(objectKey),
	})
	if err != nil {
		return model.Photo{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *PhotoUsecase) ListByOrder(ctx context.Context, orderID int64) ([]model.Photo, error) {
	if orderID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid order_id")
	}

	photos, err := u.photoRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return photos, nil
}

// Deleteはオブジェクトを先に消し、次に行を消す
func (u *PhotoUsecase) Delete(ctx context.Context, photoID int64) error {
	if u.storage == nil {
		return NewHTTPError(http.StatusServiceUnavailable, "photo storage not configured")
	}
	if photoID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.photoRepo.FindByID(ctx, photoID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.storage.Delete(ctx, p.ObjectKey); err != nil {
		return NewHTTPError(http.StatusBadGateway, "delete failed")
	}

	if err := u.photoRepo.DeleteByID(ctx, photoID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
