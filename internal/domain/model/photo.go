package model

import "time"

// 注文写真。本体はオブジェクトストレージ側、ここはキーとURLのみ
type Photo struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"order_id"`
	ObjectKey string    `gorm:"type:varchar(512);not null" json:"object_key"`
	URL       string    `gorm:"type:varchar(1024);not null" json:"url"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
