package model

import "time"

// 注文と店舗のリンク（選択された店舗ごとに1行）
type OrderStore struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"order_id"`
	StoreID   int64     `gorm:"not null;index" json:"store_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
