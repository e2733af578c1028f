package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodCOD    PaymentMethod = "cod"
)

type OrderPaymentStatus string

const (
	PaymentStatusPending        OrderPaymentStatus = "pending"
	PaymentStatusPartialPending OrderPaymentStatus = "partial_pending"
	PaymentStatusPartialPaid    OrderPaymentStatus = "partial_paid"
	PaymentStatusPaid           OrderPaymentStatus = "paid"
	PaymentStatusFailed         OrderPaymentStatus = "failed"
	PaymentStatusRefunded       OrderPaymentStatus = "refunded"
)

// 注文ステータスとは別の閉じた列挙
func (s OrderPaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartialPending, PaymentStatusPartialPaid,
		PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// 注文本体。金額・明細・住所は作成時のスナップショットで以後再計算しない。
// 不変条件: Total = Subtotal + DeliveryCharges
type Order struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64       `gorm:"not null;index" json:"customer_id"`
	SellerID   int64       `gorm:"not null;index" json:"seller_id"`
	Status     OrderStatus `gorm:"type:varchar(30);not null;index" json:"status"`

	Subtotal        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	DeliveryCharges decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"delivery_charges"`
	Total           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`

	PaymentMethod PaymentMethod      `gorm:"type:varchar(10);not null" json:"payment_method"`
	PaymentStatus OrderPaymentStatus `gorm:"type:varchar(20);not null" json:"payment_status"`

	// codのときだけ入る（total×20%）
	PrepaymentAmount *decimal.Decimal `gorm:"type:numeric(12,2)" json:"prepayment_amount"`

	SellerResponse  string `gorm:"type:text" json:"seller_response"`
	BuyerResponse   string `gorm:"type:text" json:"buyer_response"`
	RejectReason    string `gorm:"type:text" json:"reject_reason"`
	ContactAttempts int    `gorm:"not null;default:0" json:"contact_attempts"`

	// 検証した管理者（seller_contactedへ進めたとき入る）
	VerifiedByAdminID *int64 `gorm:"index" json:"verified_by_admin_id"`

	// 配送先スナップショット
	ShipName    string `gorm:"type:varchar(255);not null" json:"ship_name"`
	ShipPhone   string `gorm:"type:varchar(30)" json:"ship_phone"`
	ShipLine1   string `gorm:"type:varchar(255);not null" json:"ship_line1"`
	ShipLine2   string `gorm:"type:varchar(255)" json:"ship_line2"`
	ShipCity    string `gorm:"type:varchar(255);not null" json:"ship_city"`
	ShipState   string `gorm:"type:varchar(100);not null" json:"ship_state"`
	ShipPincode string `gorm:"type:varchar(20);not null" json:"ship_pincode"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
