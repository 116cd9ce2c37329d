package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/xuri/excelize/v2"
)

// サンプル系カテゴリ（親モデル必須、7列の行）
var sampleCategories = map[string]bool{
	"echantillons": true,
	"tissus":       true,
}

func IsSampleCategory(category string) bool {
	return sampleCategories[strings.ToLower(strings.TrimSpace(category))]
}

type CatalogueUsecase struct {
	productRepo repo.ProductRepository
	modelRepo   repo.ProductModelRepository
}

// DI
func NewCatalogueUsecase(productRepo repo.ProductRepository, modelRepo repo.ProductModelRepository) *CatalogueUsecase {
	return &CatalogueUsecase{productRepo: productRepo, modelRepo: modelRepo}
}

type ImportInput struct {
	Category       string
	ArchiveMissing bool
}

// インポート結果（JSONのキー名はAPI契約）
type ImportSummary struct {
	Models   int64 `json:"models"`
	Produits int64 `json:"produits"`
	Archived int64 `json:"archived"`
	Erreurs  int64 `json:"erreurs"`
}

// Importは.xlsxを読んで行単位でupsertする。
// 行のエラーは数えるだけで、バッチは続行する
func (u *CatalogueUsecase) Import(ctx context.Context, r io.Reader, in ImportInput) (ImportSummary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportSummary{}, NewHTTPError(http.StatusBadRequest, "invalid file")
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return ImportSummary{}, NewHTTPError(http.StatusBadRequest, "unable to read sheet")
	}
	if len(rows) < 1 {
		return ImportSummary{}, NewHTTPError(http.StatusBadRequest, "empty sheet")
	}

	// 1行目はヘッダ
	return u.ImportRows(ctx, rows[1:], in)
}

func (u *CatalogueUsecase) ImportRows(ctx context.Context, rows [][]string, in ImportInput) (ImportSummary, error) {
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return ImportSummary{}, NewHTTPError(http.StatusBadRequest, "category is required")
	}

	logger := config.GetLogger()

	var summary ImportSummary
	touched := make([]int64, 0, len(rows))

	for idx, row := range rows {
		var productID int64
		var err error

		if IsSampleCategory(category) {
			productID, err = u.importSampleRow(ctx, category, row, &summary)
		} else {
			productID, err = u.importPlainRow(ctx, category, row)
		}

		if err != nil {
			summary.Erreurs++
			config.LogError(logger, "catalogue", "ImportRows", fmt.Sprintf("row %d", idx+2), err)
			continue
		}

		summary.Produits++
		touched = append(touched, productID)
	}

	if in.ArchiveMissing {
		archived, err := u.productRepo.ArchiveMissing(ctx, category, touched)
		if err != nil {
			return summary, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		summary.Archived = archived
	}

	return summary, nil
}

// サンプル系の行：[model, fabricRange, reference, type, color, removableCover, collectionStatus]
// 親モデルを名前の完全一致で解決し、無ければ作る。upsertは(reference, model)キー
func (u *CatalogueUsecase) importSampleRow(ctx context.Context, category string, row []string, summary *ImportSummary) (int64, error) {
	if len(row) < 3 {
		return 0, errors.New("missing required columns")
	}

	modelName := strings.TrimSpace(col(row, 0))
	fabricRange := strings.TrimSpace(col(row, 1))
	reference := strings.TrimSpace(col(row, 2))
	if modelName == "" || reference == "" {
		return 0, errors.New("model and reference are required")
	}

	pm, err := u.modelRepo.FindByName(ctx, modelName)
	if err == repo.ErrNotFound {
		pm, err = u.modelRepo.Create(ctx, model.ProductModel{Name: modelName})
		if err != nil {
			return 0, err
		}
		summary.Models++
	} else if err != nil {
		return 0, err
	}

	name := strings.TrimSpace(modelName + " " + fabricRange)

	existing, err := u.productRepo.FindByReferenceAndModel(ctx, category, reference, pm.ID)
	if err == repo.ErrNotFound {
		p, err := u.productRepo.Create(ctx, model.Product{
			Name:             name,
			Reference:        reference,
			Category:         category,
			ModelID:          &pm.ID,
			FabricRange:      fabricRange,
			Type:             strings.TrimSpace(col(row, 3)),
			Color:            strings.TrimSpace(col(row, 4)),
			RemovableCover:   strings.TrimSpace(col(row, 5)),
			CollectionStatus: strings.TrimSpace(col(row, 6)),
			IsActive:         true,
		})
		if err != nil {
			return 0, err
		}
		return p.ID, nil
	}
	if err != nil {
		return 0, err
	}

	// upsertはアーカイブ済みでも必ず再activeにする
	existing.Name = name
	existing.FabricRange = fabricRange
	existing.Type = strings.TrimSpace(col(row, 3))
	existing.Color = strings.TrimSpace(col(row, 4))
	existing.RemovableCover = strings.TrimSpace(col(row, 5))
	existing.CollectionStatus = strings.TrimSpace(col(row, 6))
	existing.IsActive = true

	if err := u.productRepo.Update(ctx, existing); err != nil {
		return 0, err
	}
	return existing.ID, nil
}

// その他カテゴリの行：[name, reference, description]。upsertはreference単独キー
func (u *CatalogueUsecase) importPlainRow(ctx context.Context, category string, row []string) (int64, error) {
	if len(row) < 2 {
		return 0, errors.New("missing required columns")
	}

	name := strings.TrimSpace(col(row, 0))
	reference := strings.TrimSpace(col(row, 1))
	if name == "" || reference == "" {
		return 0, errors.New("name and reference are required")
	}

	existing, err := u.productRepo.FindByReference(ctx, category, reference)
	if err == repo.ErrNotFound {
		p, err := u.productRepo.Create(ctx, model.Product{
			Name:        name,
			Reference:   reference,
			Category:    category,
			Description: strings.TrimSpace(col(row, 2)),
			IsActive:    true,
		})
		if err != nil {
			return 0, err
		}
		return p.ID, nil
	}
	if err != nil {
		return 0, err
	}

	existing.Name = name
	existing.Description = strings.TrimSpace(col(row, 2))
	existing.IsActive = true

	if err := u.productRepo.Update(ctx, existing); err != nil {
		return 0, err
	}
	return existing.ID, nil
}

// 行の列を安全に読む。短い行は空文字
func col(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
