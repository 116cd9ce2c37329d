package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"app/internal/cart"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.Repos)
}

type TxReposMock struct {
	orders             repo.OrderRepository
	orderStores        repo.OrderStoreRepository
	orderProducts      repo.OrderProductRepository
	orderStoreProducts repo.OrderStoreProductRepository
	products           repo.ProductRepository
	productModels      repo.ProductModelRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository                     { return r.orders }
func (r *TxReposMock) OrderStores() repo.OrderStoreRepository           { return r.orderStores }
func (r *TxReposMock) OrderProducts() repo.OrderProductRepository       { return r.orderProducts }
func (r *TxReposMock) OrderStoreProducts() repo.OrderStoreProductRepository {
	return r.orderStoreProducts
}
func (r *TxReposMock) Products() repo.ProductRepository           { return r.products }
func (r *TxReposMock) ProductModels() repo.ProductModelRepository { return r.productModels }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type OrderStoreRepoMock struct{ mock.Mock }

func (m *OrderStoreRepoMock) CreateBulk(ctx context.Context, orderID int64, links []model.OrderStore) error {
	args := m.Called(ctx, orderID, links)
	return args.Error(0)
}

func (m *OrderStoreRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStore, error) {
	args := m.Called(ctx, orderID)
	links, _ := args.Get(0).([]model.OrderStore)
	return links, args.Error(1)
}

type OrderProductRepoMock struct{ mock.Mock }

func (m *OrderProductRepoMock) CreateBulk(ctx context.Context, orderID int64, rows []model.OrderProduct) error {
	args := m.Called(ctx, orderID, rows)
	return args.Error(0)
}

func (m *OrderProductRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderProduct, error) {
	args := m.Called(ctx, orderID)
	rows, _ := args.Get(0).([]model.OrderProduct)
	return rows, args.Error(1)
}

type OrderStoreProductRepoMock struct{ mock.Mock }

func (m *OrderStoreProductRepoMock) CreateBulk(ctx context.Context, orderID int64, rows []model.OrderStoreProduct) error {
	args := m.Called(ctx, orderID, rows)
	return args.Error(0)
}

func (m *OrderStoreProductRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStoreProduct, error) {
	args := m.Called(ctx, orderID)
	rows, _ := args.Get(0).([]model.OrderStoreProduct)
	return rows, args.Error(1)
}

type StoreRepoMock struct{ mock.Mock }

func (m *StoreRepoMock) List(ctx context.Context) ([]model.Store, error) {
	args := m.Called(ctx)
	stores, _ := args.Get(0).([]model.Store)
	return stores, args.Error(1)
}

func (m *StoreRepoMock) FindByID(ctx context.Context, id int64) (model.Store, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Store)
	return s, args.Error(1)
}

func (m *StoreRepoMock) Create(ctx context.Context, s model.Store) (model.Store, error) {
	panic("not used in OrderUsecase tests")
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListActive(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByReference(ctx context.Context, category string, reference string) (model.Product, error) {
	panic("not used in OrderUsecase tests")
}

func (m *ProductRepoMock) FindByReferenceAndModel(ctx context.Context, category string, reference string, modelID int64) (model.Product, error) {
	panic("not used in OrderUsecase tests")
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used in OrderUsecase tests")
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	panic("not used in OrderUsecase tests")
}

func (m *ProductRepoMock) ArchiveMissing(ctx context.Context, category string, keepIDs []int64) (int64, error) {
	panic("not used in OrderUsecase tests")
}

// =====================
// 固定ID/固定時刻
// =====================

type fixedIDGen struct{ id string }

func (g *fixedIDGen) NewID() string { return g.id }

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func newOrderUsecaseForTest(
	sessions *cart.SessionStore,
	orderRepo *OrderRepoMock,
	osRepo *OrderStoreRepoMock,
	opRepo *OrderProductRepoMock,
	ospRepo *OrderStoreProductRepoMock,
	storeRepo *StoreRepoMock,
	productRepo *ProductRepoMock,
	now time.Time,
) *OrderUsecase {
	tx := &TxManagerMock{Repos: &TxReposMock{
		orders:             orderRepo,
		orderStores:        osRepo,
		orderProducts:      opRepo,
		orderStoreProducts: ospRepo,
		products:           productRepo,
	}}
	return NewOrderUsecase(tx, sessions, orderRepo, storeRepo, productRepo,
		&fixedIDGen{id: "fixed-uuid"}, &fixedClock{t: now})
}

func TestOrderSubmit_FlattensCartIntoWriteSets(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	storeA := model.Store{ID: 1, Name: "Paris", Code: "PAR"}
	storeB := model.Store{ID: 2, Name: "Lyon", Code: "LYO"}
	p1 := model.Product{ID: 10, Name: "Canapé", Reference: "REF-10", IsActive: true}
	p2 := model.Product{ID: 20, Name: "Fauteuil", Reference: "REF-20", IsActive: true}

	sessions := cart.NewSessionStore()
	c := sessions.Get(7)
	c.SetStores([]model.Store{storeA, storeB})
	c.AddProduct(p1)
	c.AddProduct(p2)
	// {P1: {A:2, B:0}, P2: {A:0, B:3}}
	c.SetQuantity(10, 1, 2)
	c.SetQuantity(10, 2, 0)
	c.SetQuantity(20, 1, 0)
	c.SetQuantity(20, 2, 3)

	orderRepo := new(OrderRepoMock)
	osRepo := new(OrderStoreRepoMock)
	opRepo := new(OrderProductRepoMock)
	ospRepo := new(OrderStoreProductRepoMock)
	storeRepo := new(StoreRepoMock)
	productRepo := new(ProductRepoMock)

	var createdOrder model.Order
	var createdStores []model.OrderStore
	var createdProducts []model.OrderProduct
	var createdCells []model.OrderStoreProduct

	orderRepo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { createdOrder = args.Get(1).(model.Order) }).
		Return(int64(99), nil)
	osRepo.On("CreateBulk", mock.Anything, int64(99), mock.Anything).
		Run(func(args mock.Arguments) { createdStores = args.Get(2).([]model.OrderStore) }).
		Return(nil)
	opRepo.On("CreateBulk", mock.Anything, int64(99), mock.Anything).
		Run(func(args mock.Arguments) { createdProducts = args.Get(2).([]model.OrderProduct) }).
		Return(nil)
	ospRepo.On("CreateBulk", mock.Anything, int64(99), mock.Anything).
		Run(func(args mock.Arguments) { createdCells = args.Get(2).([]model.OrderStoreProduct) }).
		Return(nil)

	// 確定後の詳細取得
	orderRepo.On("FindByID", mock.Anything, int64(99)).
		Return(model.Order{ID: 99, Reference: "CMD-fixed-uuid", UserID: 7, Status: model.OrderStatusSubmitted, CreatedAt: now}, nil)
	osRepo.On("ListByOrderID", mock.Anything, int64(99)).
		Return([]model.OrderStore{{OrderID: 99, StoreID: 1}, {OrderID: 99, StoreID: 2}}, nil)
	opRepo.On("ListByOrderID", mock.Anything, int64(99)).
		Return([]model.OrderProduct{{OrderID: 99, ProductID: 10, Quantity: 2}, {OrderID: 99, ProductID: 20, Quantity: 3}}, nil)
	ospRepo.On("ListByOrderID", mock.Anything, int64(99)).
		Return([]model.OrderStoreProduct{
			{OrderID: 99, StoreID: 1, ProductID: 10, Quantity: 2},
			{OrderID: 99, StoreID: 2, ProductID: 20, Quantity: 3},
		}, nil)
	storeRepo.On("FindByID", mock.Anything, int64(1)).Return(storeA, nil)
	storeRepo.On("FindByID", mock.Anything, int64(2)).Return(storeB, nil)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(p1, nil)
	productRepo.On("FindByID", mock.Anything, int64(20)).Return(p2, nil)

	uc := newOrderUsecaseForTest(sessions, orderRepo, osRepo, opRepo, ospRepo, storeRepo, productRepo, now)

	out, err := uc.Submit(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(99), out.ID)
	assert.Equal(t, "CMD-fixed-uuid", out.Reference)
	assert.Equal(t, string(model.OrderStatusSubmitted), out.Status)

	// ヘッダ
	assert.Equal(t, "CMD-fixed-uuid", createdOrder.Reference)
	assert.Equal(t, int64(7), createdOrder.UserID)
	assert.Equal(t, model.OrderStatusSubmitted, createdOrder.Status)

	// 店舗リンクは選択2店舗ぶん
	linkedStoreIDs := make([]int64, 0, len(createdStores))
	for _, l := range createdStores {
		linkedStoreIDs = append(linkedStoreIDs, l.StoreID)
	}
	assert.ElementsMatch(t, []int64{1, 2}, linkedStoreIDs)

	// 集計行は合計>0の商品だけ
	productTotals := make(map[int64]int64, len(createdProducts))
	for _, row := range createdProducts {
		productTotals[row.ProductID] = row.Quantity
	}
	assert.Equal(t, map[int64]int64{10: 2, 20: 3}, productTotals)

	// 内訳は数量0のセルを含まない
	assert.Len(t, createdCells, 2)
	cells := make(map[[2]int64]int64, len(createdCells))
	for _, cell := range createdCells {
		cells[[2]int64{cell.StoreID, cell.ProductID}] = cell.Quantity
	}
	assert.Equal(t, map[[2]int64]int64{{1, 10}: 2, {2, 20}: 3}, cells)

	// 確定成功後はカートが破棄される
	assert.Equal(t, 0, sessions.Get(7).ItemCount())
}

func TestOrderSubmit_NoStoreSelected(t *testing.T) {
	now := time.Now()
	sessions := cart.NewSessionStore()
	c := sessions.Get(7)
	c.AddProduct(model.Product{ID: 10, Name: "Canapé"})

	uc := newOrderUsecaseForTest(sessions,
		new(OrderRepoMock), new(OrderStoreRepoMock), new(OrderProductRepoMock),
		new(OrderStoreProductRepoMock), new(StoreRepoMock), new(ProductRepoMock), now)

	_, err := uc.Submit(context.Background(), 7)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "no store selected", he.Message)

	// 失敗してもカートは残る
	assert.Equal(t, 1, sessions.Get(7).ItemCount())
}

func TestOrderSubmit_NoQuantity(t *testing.T) {
	now := time.Now()
	sessions := cart.NewSessionStore()
	c := sessions.Get(7)
	c.SetStores([]model.Store{{ID: 1, Name: "Paris", Code: "PAR"}})
	c.AddProduct(model.Product{ID: 10, Name: "Canapé"})
	c.SetQuantity(10, 1, 0)

	uc := newOrderUsecaseForTest(sessions,
		new(OrderRepoMock), new(OrderStoreRepoMock), new(OrderProductRepoMock),
		new(OrderStoreProductRepoMock), new(StoreRepoMock), new(ProductRepoMock), now)

	_, err := uc.Submit(context.Background(), 7)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "no quantity specified", he.Message)
}

func TestOrderGetOrder_MissingStoreTolerated(t *testing.T) {
	now := time.Now()
	orderRepo := new(OrderRepoMock)
	osRepo := new(OrderStoreRepoMock)
	opRepo := new(OrderProductRepoMock)
	ospRepo := new(OrderStoreProductRepoMock)
	storeRepo := new(StoreRepoMock)
	productRepo := new(ProductRepoMock)

	orderRepo.On("FindByID", mock.Anything, int64(5)).
		Return(model.Order{ID: 5, Reference: "CMD-x", UserID: 1, Status: model.OrderStatusSubmitted}, nil)
	osRepo.On("ListByOrderID", mock.Anything, int64(5)).
		Return([]model.OrderStore{{OrderID: 5, StoreID: 42}}, nil)
	storeRepo.On("FindByID", mock.Anything, int64(42)).
		Return(model.Store{}, repo.ErrNotFound)
	opRepo.On("ListByOrderID", mock.Anything, int64(5)).
		Return([]model.OrderProduct{}, nil)
	ospRepo.On("ListByOrderID", mock.Anything, int64(5)).
		Return([]model.OrderStoreProduct{}, nil)

	uc := newOrderUsecaseForTest(cart.NewSessionStore(), orderRepo, osRepo, opRepo, ospRepo, storeRepo, productRepo, now)

	out, err := uc.GetOrder(context.Background(), 5)

	assert.NoError(t, err)
	// 店舗が消えていてもリンクはIDだけで返る
	assert.Len(t, out.Stores, 1)
	assert.Equal(t, int64(42), out.Stores[0].StoreID)
	assert.Empty(t, out.Stores[0].Name)
}

func TestOrderUpdateStatus_InvalidStatus(t *testing.T) {
	uc := newOrderUsecaseForTest(cart.NewSessionStore(),
		new(OrderRepoMock), new(OrderStoreRepoMock), new(OrderProductRepoMock),
		new(OrderStoreProductRepoMock), new(StoreRepoMock), new(ProductRepoMock), time.Now())

	err := uc.UpdateStatus(context.Background(), 5, "SHIPPED")

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestOrderUpdateStatus_OK(t *testing.T) {
	orderRepo := new(OrderRepoMock)
	orderRepo.On("UpdateStatus", mock.Anything, int64(5), model.OrderStatusConfirmed).Return(nil)

	uc := newOrderUsecaseForTest(cart.NewSessionStore(),
		orderRepo, new(OrderStoreRepoMock), new(OrderProductRepoMock),
		new(OrderStoreProductRepoMock), new(StoreRepoMock), new(ProductRepoMock), time.Now())

	err := uc.UpdateStatus(context.Background(), 5, "CONFIRMED")

	assert.NoError(t, err)
	orderRepo.AssertExpectations(t)
}
