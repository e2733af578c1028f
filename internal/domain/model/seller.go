package model

import "time"

// 出品者プロフィール。SELLERロールのユーザーに1件。
type Seller struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;uniqueIndex" json:"user_id"`

	BusinessName string `gorm:"type:varchar(255);not null" json:"business_name"`

	//扱う資材（bricks / cement / sand など）
	Category string `gorm:"type:varchar(100);not null" json:"category"`

	Phone   string `gorm:"type:varchar(30)" json:"phone"`
	City    string `gorm:"type:varchar(255);not null" json:"city"`
	Pincode string `gorm:"type:varchar(20)" json:"pincode"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
