package model

import "time"

// 注文ステータスの監査履歴（追記専用）。
// 「いつ」「誰が」「どのステータスに」変えたかを1遷移=1行で残す。
// 一度書いた行は更新・削除しない（親注文のcascade削除だけが例外）。
type OrderStateHistory struct {
	ID      int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64       `gorm:"not null;index" json:"order_id"`
	Status  OrderStatus `gorm:"type:varchar(30);not null" json:"status"`

	// システム起因の遷移はnull
	ActorUserID *int64 `gorm:"index" json:"actor_user_id"`

	// reject_reason > seller_response > buyer_response の優先で入る
	Note *string `gorm:"type:text" json:"note"`

	CreatedAt time.Time `gorm:"not null;index;autoCreateTime" json:"created_at"`
}
