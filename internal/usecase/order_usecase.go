package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/cart"
	"app/internal/domain/model"
	"app/internal/export"
	repo "app/internal/repository"
)

// UUID等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type OrderUsecase struct {
	tx          repo.TransactionManager
	sessions    *cart.SessionStore
	orderRepo   repo.OrderRepository
	storeRepo   repo.StoreRepository
	productRepo repo.ProductRepository
	idGen       IDGenerator
	clock       Clock
}

// DI
func NewOrderUsecase(
	tx repo.TransactionManager,
	sessions *cart.SessionStore,
	orderRepo repo.OrderRepository,
	storeRepo repo.StoreRepository,
	productRepo repo.ProductRepository,
	idGen IDGenerator,
	clock Clock,
) *OrderUsecase {
	return &OrderUsecase{
		tx:          tx,
		sessions:    sessions,
		orderRepo:   orderRepo,
		storeRepo:   storeRepo,
		productRepo: productRepo,
		idGen:       idGen,
		clock:       clock,
	}
}

type OrderStoreOutput struct {
	StoreID int64  `json:"store_id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
}

type OrderProductOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Reference string `json:"reference"`
	Quantity  int64  `json:"quantity"`
}

type OrderCellOutput struct {
	StoreID   int64 `json:"store_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type OrderOutput struct {
	ID        int64                `json:"id"`
	Reference string               `json:"reference"`
	UserID    int64                `json:"user_id"`
	Status    string               `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	Stores    []OrderStoreOutput   `json:"stores,omitempty"`
	Products  []OrderProductOutput `json:"products,omitempty"`
	Cells     []OrderCellOutput    `json:"cells,omitempty"`
}

// Submitはカートを平坦化して4つの書き込み
// （ヘッダ→店舗リンク→商品集計→内訳）を1トランザクションで行う。
// 成功した場合のみセッションのカートを破棄する
func (u *OrderUsecase) Submit(ctx context.Context, userID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	c := u.sessions.Get(userID)

	reference := "CMD-" + u.idGen.NewID()
	commit, err := c.BuildCommit(userID, reference, u.clock.Now())
	if err == cart.ErrNoStoreSelected {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "no store selected")
	}
	if err == cart.ErrNoQuantity {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "no quantity specified")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var orderID int64

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		id, err := r.Orders().Create(ctx, commit.Order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		orderID = id

		if err := r.OrderStores().CreateBulk(ctx, id, commit.Stores); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.OrderProducts().CreateBulk(ctx, id, commit.Products); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.OrderStoreProducts().CreateBulk(ctx, id, commit.StoreProducts); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	// 確定が済んだセッションは破棄
	u.sessions.Drop(userID)

	return u.GetOrder(ctx, orderID)
}

type ListOrdersInput struct {
	Page   int
	Limit  int
	Status string
	From   *time.Time
	To     *time.Time
}

type ListOrdersOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *OrderUsecase) ListOrders(ctx context.Context, in ListOrdersInput) (ListOrdersOutput, error) {
	if in.Page < 1 {
		return ListOrdersOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ListOrdersOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	orders, total, err := u.orderRepo.List(ctx, repo.OrderListFilter{
		Page:   in.Page,
		Limit:  in.Limit,
		Status: in.Status,
		From:   in.From,
		To:     in.To,
	})
	if err != nil {
		return ListOrdersOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items = append(items, OrderOutput{
			ID:        o.ID,
			Reference: o.Reference,
			UserID:    o.UserID,
			Status:    string(o.Status),
			CreatedAt: o.CreatedAt,
		})
	}

	return ListOrdersOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// 注文詳細（ヘッダ＋店舗＋商品集計＋内訳）
func (u *OrderUsecase) GetOrder(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = OrderOutput{
			ID:        o.ID,
			Reference: o.Reference,
			UserID:    o.UserID,
			Status:    string(o.Status),
			CreatedAt: o.CreatedAt,
		}

		links, err := r.OrderStores().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, l := range links {
			s, err := u.storeRepo.FindByID(ctx, l.StoreID)
			if err != nil {
				// 店舗が消えていてもリンクは返す
				out.Stores = append(out.Stores, OrderStoreOutput{StoreID: l.StoreID})
				continue
			}
			out.Stores = append(out.Stores, OrderStoreOutput{StoreID: s.ID, Name: s.Name, Code: s.Code})
		}

		rows, err := r.OrderProducts().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, row := range rows {
			op := OrderProductOutput{ProductID: row.ProductID, Quantity: row.Quantity}
			if p, err := u.productRepo.FindByID(ctx, row.ProductID); err == nil {
				op.Name = p.Name
				op.Reference = p.Reference
			}
			out.Products = append(out.Products, op)
		}

		cells, err := r.OrderStoreProducts().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, cell := range cells {
			out.Cells = append(out.Cells, OrderCellOutput{
				StoreID:   cell.StoreID,
				ProductID: cell.ProductID,
				Quantity:  cell.Quantity,
			})
		}

		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// ステータス変更（スタッフ操作）
func (u *OrderUsecase) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	switch model.OrderStatus(status) {
	case model.OrderStatusSubmitted, model.OrderStatusConfirmed, model.OrderStatusCanceled:
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	err := u.orderRepo.UpdateStatus(ctx, orderID, model.OrderStatus(status))
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// CSVエクスポート用の行。一覧と同じフィルタを適用する
func (u *OrderUsecase) ExportRows(ctx context.Context, in ListOrdersInput) ([]export.OrderRow, error) {
	out, err := u.ListOrders(ctx, in)
	if err != nil {
		return nil, err
	}

	rows := make([]export.OrderRow, 0, len(out.Items))
	for _, o := range out.Items {
		detail, err := u.GetOrder(ctx, o.ID)
		if err != nil {
			return nil, err
		}

		var totalQty int64
		for _, p := range detail.Products {
			totalQty += p.Quantity
		}

		rows = append(rows, export.OrderRow{
			Reference:     detail.Reference,
			Status:        detail.Status,
			CreatedAt:     detail.CreatedAt,
			StoreCount:    len(detail.Stores),
			ProductCount:  len(detail.Products),
			TotalQuantity: totalQty,
		})
	}
	return rows, nil
}
