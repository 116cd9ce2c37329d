package usecase

import (
	"context"
	"net/http"
	"sort"

	"app/internal/cart"
	"app/internal/domain/model"
	repo "app/internal/repository"
)

// CartUsecaseは発注作成セッションのカート操作。
// カートはユーザー専有のインメモリ状態で、確定まで永続化しない
type CartUsecase struct {
	sessions    *cart.SessionStore
	productRepo repo.ProductRepository
	storeRepo   repo.StoreRepository
}

// DI
func NewCartUsecase(
	sessions *cart.SessionStore,
	productRepo repo.ProductRepository,
	storeRepo repo.StoreRepository,
) *CartUsecase {
	return &CartUsecase{
		sessions:    sessions,
		productRepo: productRepo,
		storeRepo:   storeRepo,
	}
}

type CartLineView struct {
	ProductID  int64           `json:"product_id"`
	Name       string          `json:"name"`
	Reference  string          `json:"reference"`
	Quantities map[int64]int64 `json:"quantities"`
	Total      int64           `json:"total"`
}

type CartStoreView struct {
	StoreID int64  `json:"store_id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Total   int64  `json:"total"`
}

type CartView struct {
	Stores     []CartStoreView `json:"stores"`
	Lines      []CartLineView  `json:"lines"`
	GrandTotal int64           `json:"grand_total"`
	ItemCount  int             `json:"item_count"`
}

func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartView, error) {
	if userID <= 0 {
		return CartView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return buildCartView(u.sessions.Get(userID)), nil
}

// 商品をカートへ追加（active商品のみ）。既にあれば何も変えない
func (u *CartUsecase) AddProduct(ctx context.Context, userID int64, productID int64) (CartView, error) {
	if userID <= 0 {
		return CartView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid")
	}
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid")
	}

	c := u.sessions.Get(userID)
	c.AddProduct(p)
	return buildCartView(c), nil
}

// 商品をカートから外す。無ければ何もしない
func (u *CartUsecase) RemoveProduct(ctx context.Context, userID int64, productID int64) (CartView, error) {
	if userID <= 0 {
		return CartView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	c := u.sessions.Get(userID)
	c.RemoveProduct(productID)
	return buildCartView(c), nil
}

// セルの数量を設定。負数は0に丸まる。行が無い場合は何も変えない。
// 選択されていない店舗の列は作らせない
func (u *CartUsecase) SetQuantity(ctx context.Context, userID int64, productID int64, storeID int64, qty int64) (CartView, error) {
	if userID <= 0 {
		return CartView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 || storeID <= 0 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	c := u.sessions.Get(userID)
	if !c.IsStoreSelected(storeID) {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "store not selected")
	}
	c.SetQuantity(productID, storeID, qty)
	return buildCartView(c), nil
}

// 選択中の全店舗に同じ数量を入れる一括編集
func (u *CartUsecase) SetQuantityAll(ctx context.Context, userID int64, productID int64, qty int64) (CartView, error) {
	if userID <= 0 {
		return CartView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	c := u.sessions.Get(userID)
	c.SetQuantityAll(productID, qty)
	return buildCartView(c), nil
}

// 店舗の選択/解除
func (u *CartUsecase) ToggleStore(ctx context.Context, userID int64, storeID int64) (CartView, error) {
	if userID <= 0 {
		return CartView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if storeID <= 0 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid store_id")
	}

	s, err := u.storeRepo.FindByID(ctx, storeID)
	if err == repo.ErrNotFound {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid")
	}
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	c := u.sessions.Get(userID)
	c.ToggleStore(s)
	return buildCartView(c), nil
}

// 選択店舗を丸ごと入れ替え
func (u *CartUsecase) SetStores(ctx context.Context, userID int64, storeIDs []int64) (CartView, error) {
	if userID <= 0 {
		return CartView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	list := make([]int64, 0, len(storeIDs))
	seen := map[int64]bool{}
	for _, id := range storeIDs {
		if id <= 0 {
			return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid store_id")
		}
		if !seen[id] {
			seen[id] = true
			list = append(list, id)
		}
	}

	c := u.sessions.Get(userID)
	resolved := make([]model.Store, 0, len(list))
	for _, id := range list {
		s, err := u.storeRepo.FindByID(ctx, id)
		if err == repo.ErrNotFound {
			return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid")
		}
		if err != nil {
			return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		resolved = append(resolved, s)
	}
	c.SetStores(resolved)
	return buildCartView(c), nil
}

// 行を全て消す（選択店舗は残る）
func (u *CartUsecase) Reset(ctx context.Context, userID int64) (CartView, error) {
	if userID <= 0 {
		return CartView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	c := u.sessions.Get(userID)
	c.Clear()
	return buildCartView(c), nil
}

// 表示用にカートを組み立てる
func buildCartView(c *cart.Cart) CartView {
	stores := c.SelectedStores()
	sort.Slice(stores, func(i, j int) bool { return stores[i].ID < stores[j].ID })

	storeViews := make([]CartStoreView, 0, len(stores))
	for _, s := range stores {
		storeViews = append(storeViews, CartStoreView{
			StoreID: s.ID,
			Name:    s.Name,
			Code:    s.Code,
			Total:   c.TotalForStore(s.ID),
		})
	}

	lines := c.Lines()
	sort.Slice(lines, func(i, j int) bool { return lines[i].Product.ID < lines[j].Product.ID })

	lineViews := make([]CartLineView, 0, len(lines))
	for _, l := range lines {
		quantities := make(map[int64]int64, len(stores))
		for _, s := range stores {
			quantities[s.ID] = l.Quantity(s.ID)
		}
		lineViews = append(lineViews, CartLineView{
			ProductID:  l.Product.ID,
			Name:       l.Product.Name,
			Reference:  l.Product.Reference,
			Quantities: quantities,
			Total:      c.TotalForProduct(l.Product.ID),
		})
	}

	return CartView{
		Stores:     storeViews,
		Lines:      lineViews,
		GrandTotal: c.GrandTotal(),
		ItemCount:  c.ItemCount(),
	}
}
