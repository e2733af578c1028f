package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentKind string

const (
	PaymentKindFull       PaymentKind = "full"
	PaymentKindPrepayment PaymentKind = "prepayment"
	PaymentKindRefund     PaymentKind = "refund"
)

// 決済プロバイダとの個々のトランザクション。注文1件に0件以上。
// Statusはプロバイダの返す文字列をそのまま入れる（閉じた列挙ではない）。
type Payment struct {
	ID      int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64           `gorm:"not null;index" json:"order_id"`
	Kind    PaymentKind     `gorm:"type:varchar(20);not null" json:"kind"`
	Amount  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status  string          `gorm:"type:varchar(50);not null" json:"status"`

	// プロバイダ側の取引ID
	ProviderTxnID string `gorm:"type:varchar(255)" json:"provider_txn_id"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
