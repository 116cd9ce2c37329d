package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// エクスポート1行分
type OrderRow struct {
	Reference     string
	Status        string
	CreatedAt     time.Time
	StoreCount    int
	ProductCount  int
	TotalQuantity int64
}

var header = []string{"Référence", "Statut", "Date", "Magasins", "Produits", "Quantité totale"}

// WriteOrdersはフィルタ済みの行をそのままCSVにする。
// セミコロン区切り、UTF-8 BOM付き（Excelで開くため）
func WriteOrders(w io.Writer, rows []OrderRow) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			r.Reference,
			r.Status,
			r.CreatedAt.Format("2006-01-02"),
			strconv.Itoa(r.StoreCount),
			strconv.Itoa(r.ProductCount),
			strconv.FormatInt(r.TotalQuantity, 10),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
