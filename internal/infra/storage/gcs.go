package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// 注文写真用のGCSストレージ。
// キー→オブジェクトの素朴なblobストアとしてだけ使う
type GCSPhotoStorage struct {
	bucket string
}

func NewGCSPhotoStorage() (*GCSPhotoStorage, error) {
	bucket := os.Getenv("GCS_BUCKET")
	if bucket == "" {
		return nil, errors.New("GCS_BUCKET is required")
	}
	return &GCSPhotoStorage{bucket: bucket}, nil
}

// ADC優先。ローカルではGCS_CREDENTIALS_JSONで明示できる
func newClient(ctx context.Context) (*storage.Client, error) {
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		return storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
	}
	return storage.NewClient(ctx)
}

func (s *GCSPhotoStorage) Upload(ctx context.Context, objectKey string, contentType string, body io.Reader) error {
	client, err := newClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	wc := client.Bucket(s.bucket).Object(objectKey).NewWriter(ctx)
	wc.ContentType = contentType
	wc.Metadata = map[string]string{
		"x-goog-acl": "public-read",
	}

	if _, err := io.Copy(wc, body); err != nil {
		return fmt.Errorf("upload %s: %w", objectKey, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close writer %s: %w", objectKey, err)
	}
	return nil
}

func (s *GCSPhotoStorage) Delete(ctx context.Context, objectKey string) error {
	client, err := newClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	return client.Bucket(s.bucket).Object(objectKey).Delete(ctx)
}

// 公開URL
func (s *GCSPhotoStorage) PublicURL(objectKey string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectKey)
}
