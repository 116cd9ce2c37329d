package cart

import (
	"errors"
	"time"

	"app/internal/domain/model"
)

var (
	// 店舗未選択のまま確定しようとした
	ErrNoStoreSelected = errors.New("no store selected")
	// 数量が全て0のまま確定しようとした
	ErrNoQuantity = errors.New("no quantity specified")
)

// Lineは商品1つ分の行。quantitiesは店舗ID→数量の疎な行列行
type Line struct {
	Product    model.Product
	quantities map[int64]int64
}

// 店舗の数量を返す。キーが無ければ0
func (l *Line) Quantity(storeID int64) int64 {
	return l.quantities[storeID]
}

// Cartは発注作成セッション1つ分のインメモリ状態。
// 永続化はされない。確定時にBuildCommitで書き込みセットへ平坦化する。
type Cart struct {
	stores map[int64]model.Store
	lines  map[int64]*Line
}

func New() *Cart {
	return &Cart{
		stores: make(map[int64]model.Store),
		lines:  make(map[int64]*Line),
	}
}

// 商品を追加。既にあれば何もしない（数量はマージしない）
func (c *Cart) AddProduct(p model.Product) {
	if _, ok := c.lines[p.ID]; ok {
		return
	}

	q := make(map[int64]int64, len(c.stores))
	for sid := range c.stores {
		q[sid] = 1
	}
	c.lines[p.ID] = &Line{Product: p, quantities: q}
}

// 商品を削除。無ければ何もしない
func (c *Cart) RemoveProduct(productID int64) {
	delete(c.lines, productID)
}

func (c *Cart) Contains(productID int64) bool {
	_, ok := c.lines[productID]
	return ok
}

// セルの数量を設定。負数は0に丸める。行が無ければ何もしない
func (c *Cart) SetQuantity(productID int64, storeID int64, qty int64) {
	line, ok := c.lines[productID]
	if !ok {
		return
	}
	if qty < 0 {
		qty = 0
	}
	line.quantities[storeID] = qty
}

// 選択中の全店舗に同じ数量を設定する一括編集
func (c *Cart) SetQuantityAll(productID int64, qty int64) {
	line, ok := c.lines[productID]
	if !ok {
		return
	}
	if qty < 0 {
		qty = 0
	}
	for sid := range c.stores {
		line.quantities[sid] = qty
	}
}

// 店舗の選択/解除を切り替える。
// 選択時は既存行に0の列を作る。解除時は列を消さない（集計から外れるだけ）
func (c *Cart) ToggleStore(s model.Store) {
	if _, ok := c.stores[s.ID]; ok {
		delete(c.stores, s.ID)
		return
	}

	c.stores[s.ID] = s
	for _, line := range c.lines {
		if _, ok := line.quantities[s.ID]; !ok {
			line.quantities[s.ID] = 0
		}
	}
}

// 選択店舗を丸ごと入れ替える。
// 新しい店舗分は0列を補う。外れた店舗の列はメモリ上に残る
func (c *Cart) SetStores(stores []model.Store) {
	c.stores = make(map[int64]model.Store, len(stores))
	for _, s := range stores {
		c.stores[s.ID] = s
	}

	for _, line := range c.lines {
		for sid := range c.stores {
			if _, ok := line.quantities[sid]; !ok {
				line.quantities[sid] = 0
			}
		}
	}
}

func (c *Cart) IsStoreSelected(storeID int64) bool {
	_, ok := c.stores[storeID]
	return ok
}

// 行を全て消す。選択店舗はそのまま
func (c *Cart) Clear() {
	c.lines = make(map[int64]*Line)
}

// 商品の合計（選択中店舗のみ）。行が無ければ0
func (c *Cart) TotalForProduct(productID int64) int64 {
	line, ok := c.lines[productID]
	if !ok {
		return 0
	}

	var total int64
	for sid := range c.stores {
		total += line.quantities[sid]
	}
	return total
}

// 店舗の合計（全行）
func (c *Cart) TotalForStore(storeID int64) int64 {
	var total int64
	for _, line := range c.lines {
		total += line.quantities[storeID]
	}
	return total
}

// 全体合計
func (c *Cart) GrandTotal() int64 {
	var total int64
	for pid := range c.lines {
		total += c.TotalForProduct(pid)
	}
	return total
}

// 行数（数量が全て0でも数える）
func (c *Cart) ItemCount() int {
	return len(c.lines)
}

// 選択中の店舗一覧
func (c *Cart) SelectedStores() []model.Store {
	out := make([]model.Store, 0, len(c.stores))
	for _, s := range c.stores {
		out = append(out, s)
	}
	return out
}

// 行の一覧
func (c *Cart) Lines() []*Line {
	out := make([]*Line, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, l)
	}
	return out
}

// Commitはカートを平坦化した書き込みセット。
// 集計行のQuantityは、同じ商品の内訳行の合計と一致する（構成上保証）
type Commit struct {
	Order         model.Order
	Stores        []model.OrderStore
	Products      []model.OrderProduct
	StoreProducts []model.OrderStoreProduct
}

// BuildCommitは確定用の書き込みセットを作る。
// 合計0の商品と数量0のセルは出力しない
func (c *Cart) BuildCommit(userID int64, reference string, now time.Time) (Commit, error) {
	if len(c.stores) == 0 {
		return Commit{}, ErrNoStoreSelected
	}
	if c.GrandTotal() == 0 {
		return Commit{}, ErrNoQuantity
	}

	out := Commit{
		Order: model.Order{
			Reference: reference,
			UserID:    userID,
			Status:    model.OrderStatusSubmitted,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	for sid := range c.stores {
		out.Stores = append(out.Stores, model.OrderStore{StoreID: sid, CreatedAt: now})
	}

	for pid, line := range c.lines {
		total := c.TotalForProduct(pid)
		if total == 0 {
			continue
		}
		out.Products = append(out.Products, model.OrderProduct{
			ProductID: pid,
			Quantity:  total,
			CreatedAt: now,
		})

		for sid := range c.stores {
			qty := line.quantities[sid]
			if qty == 0 {
				continue
			}
			out.StoreProducts = append(out.StoreProducts, model.OrderStoreProduct{
				StoreID:   sid,
				ProductID: pid,
				Quantity:  qty,
				CreatedAt: now,
			})
		}
	}

	return out, nil
}
