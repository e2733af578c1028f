package model

import (
	"time"

	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

// 建設資材の商品。SellerIDの出品者が所有する。
type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerID    int64  `gorm:"not null;index" json:"seller_id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"type:varchar(100);not null;index" json:"category"`

	//販売単位（piece / bag / ton / cft など）
	Unit string `gorm:"type:varchar(30);not null" json:"unit"`

	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Stock     int64           `gorm:"not null" json:"stock"`
	IsActive  bool            `gorm:"not null;default:false" json:"is_active"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}
