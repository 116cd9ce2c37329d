package model

import "time"

// カタログの親「モデル」エンティティ（サンプル系カテゴリのみ）
type ProductModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (ProductModel) TableName() string { return "models" }

// カタログ商品。廃番はIsActive=falseにするだけ（履歴のため行は残す）
type Product struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string    `gorm:"type:varchar(255);not null" json:"name"`
	Reference        string    `gorm:"type:varchar(100);not null;index" json:"reference"`
	Description      string    `gorm:"type:text" json:"description"`
	Category         string    `gorm:"type:varchar(100);not null;index" json:"category"`
	ModelID          *int64    `gorm:"index" json:"model_id"`
	FabricRange      string    `gorm:"type:varchar(255)" json:"fabric_range"`
	Type             string    `gorm:"type:varchar(100)" json:"type"`
	Color            string    `gorm:"type:varchar(100)" json:"color"`
	RemovableCover   string    `gorm:"type:varchar(100)" json:"removable_cover"`
	CollectionStatus string    `gorm:"type:varchar(100)" json:"collection_status"`
	IsActive         bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
