package usecase

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Repository mocks (Catalogue向け：衝突回避)
// =====================

type CatalogueProductRepoMock struct{ mock.Mock }

func (m *CatalogueProductRepoMock) ListActive(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	panic("not used in CatalogueUsecase tests")
}

func (m *CatalogueProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	panic("not used in CatalogueUsecase tests")
}

func (m *CatalogueProductRepoMock) FindByReference(ctx context.Context, category string, reference string) (model.Product, error) {
	args := m.Called(ctx, category, reference)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CatalogueProductRepoMock) FindByReferenceAndModel(ctx context.Context, category string, reference string, modelID int64) (model.Product, error) {
	args := m.Called(ctx, category, reference, modelID)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CatalogueProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *CatalogueProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *CatalogueProductRepoMock) ArchiveMissing(ctx context.Context, category string, keepIDs []int64) (int64, error) {
	args := m.Called(ctx, category, keepIDs)
	return args.Get(0).(int64), args.Error(1)
}

type CatalogueModelRepoMock struct{ mock.Mock }

func (m *CatalogueModelRepoMock) FindByName(ctx context.Context, name string) (model.ProductModel, error) {
	args := m.Called(ctx, name)
	pm, _ := args.Get(0).(model.ProductModel)
	return pm, args.Error(1)
}

func (m *CatalogueModelRepoMock) Create(ctx context.Context, pm model.ProductModel) (model.ProductModel, error) {
	args := m.Called(ctx, pm)
	created, _ := args.Get(0).(model.ProductModel)
	return created, args.Error(1)
}

func TestCatalogueImportRows_SampleCategory_CreatesModelAndProduct(t *testing.T) {
	productRepo := new(CatalogueProductRepoMock)
	modelRepo := new(CatalogueModelRepoMock)

	modelRepo.On("FindByName", mock.Anything, "Oslo").
		Return(model.ProductModel{}, repo.ErrNotFound)
	modelRepo.On("Create", mock.Anything, model.ProductModel{Name: "Oslo"}).
		Return(model.ProductModel{ID: 3, Name: "Oslo"}, nil)

	productRepo.On("FindByReferenceAndModel", mock.Anything, "tissus", "T-100", int64(3)).
		Return(model.Product{}, repo.ErrNotFound)
	productRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Name == "Oslo Gamme A" &&
			p.Reference == "T-100" &&
			p.Category == "tissus" &&
			p.ModelID != nil && *p.ModelID == 3 &&
			p.FabricRange == "Gamme A" &&
			p.Color == "bleu" &&
			p.IsActive
	})).Return(model.Product{ID: 11}, nil)

	uc := NewCatalogueUsecase(productRepo, modelRepo)

	rows := [][]string{
		{"Oslo", "Gamme A", "T-100", "velours", "bleu", "oui", "collection"},
	}
	summary, err := uc.ImportRows(context.Background(), rows, ImportInput{Category: "tissus"})

	assert.NoError(t, err)
	assert.Equal(t, ImportSummary{Models: 1, Produits: 1}, summary)
	productRepo.AssertExpectations(t)
	modelRepo.AssertExpectations(t)
}

func TestCatalogueImportRows_UpsertReactivatesArchivedProduct(t *testing.T) {
	productRepo := new(CatalogueProductRepoMock)
	modelRepo := new(CatalogueModelRepoMock)

	// アーカイブ済みの既存行に再インポート
	productRepo.On("FindByReference", mock.Anything, "accessoires", "A-7").
		Return(model.Product{ID: 5, Reference: "A-7", Category: "accessoires", IsActive: false}, nil)
	productRepo.On("Update", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.ID == 5 && p.Name == "Plaid" && p.IsActive
	})).Return(nil)

	uc := NewCatalogueUsecase(productRepo, modelRepo)

	summary, err := uc.ImportRows(context.Background(),
		[][]string{{"Plaid", "A-7", "plaid en laine"}},
		ImportInput{Category: "accessoires"})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), summary.Produits)
	assert.Equal(t, int64(0), summary.Models)
	productRepo.AssertExpectations(t)
}

func TestCatalogueImportRows_ArchiveMissing(t *testing.T) {
	productRepo := new(CatalogueProductRepoMock)
	modelRepo := new(CatalogueModelRepoMock)

	productRepo.On("FindByReference", mock.Anything, "accessoires", "A-7").
		Return(model.Product{ID: 5, Reference: "A-7", Category: "accessoires"}, nil)
	productRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	// ファイルに無かったactive商品がアーカイブされる
	productRepo.On("ArchiveMissing", mock.Anything, "accessoires", []int64{5}).
		Return(int64(2), nil)

	uc := NewCatalogueUsecase(productRepo, modelRepo)

	summary, err := uc.ImportRows(context.Background(),
		[][]string{{"Plaid", "A-7", ""}},
		ImportInput{Category: "accessoires", ArchiveMissing: true})

	assert.NoError(t, err)
	assert.Equal(t, int64(2), summary.Archived)
	productRepo.AssertExpectations(t)
}

func TestCatalogueImportRows_RowErrorsCountedAndBatchContinues(t *testing.T) {
	productRepo := new(CatalogueProductRepoMock)
	modelRepo := new(CatalogueModelRepoMock)

	productRepo.On("FindByReference", mock.Anything, "accessoires", "A-8").
		Return(model.Product{}, repo.ErrNotFound)
	productRepo.On("Create", mock.Anything, mock.Anything).
		Return(model.Product{ID: 6}, nil)

	uc := NewCatalogueUsecase(productRepo, modelRepo)

	rows := [][]string{
		{"", "A-1", "nameが空"},
		{"seulement un champ"},
		{"Coussin", "A-8", "ok"},
	}
	summary, err := uc.ImportRows(context.Background(), rows, ImportInput{Category: "accessoires"})

	assert.NoError(t, err)
	assert.Equal(t, int64(2), summary.Erreurs)
	assert.Equal(t, int64(1), summary.Produits)
}

func TestCatalogueImportRows_CategoryRequired(t *testing.T) {
	uc := NewCatalogueUsecase(new(CatalogueProductRepoMock), new(CatalogueModelRepoMock))

	_, err := uc.ImportRows(context.Background(), [][]string{}, ImportInput{Category: "  "})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestIsSampleCategory(t *testing.T) {
	assert.True(t, IsSampleCategory("tissus"))
	assert.True(t, IsSampleCategory(" Echantillons "))
	assert.False(t, IsSampleCategory("accessoires"))
}
