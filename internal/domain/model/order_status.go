package model

// 注文ステータス（13値・閉じた列挙）
type OrderStatus string

const (
	OrderStatusCreated             OrderStatus = "created"
	OrderStatusPendingVerification OrderStatus = "pending_verification"
	OrderStatusSellerContacted     OrderStatus = "seller_contacted"
	OrderStatusSellerAccepted      OrderStatus = "seller_accepted"
	OrderStatusSellerRejected      OrderStatus = "seller_rejected"
	OrderStatusBuyerContacted      OrderStatus = "buyer_contacted"
	OrderStatusBuyerConfirmed      OrderStatus = "buyer_confirmed"
	OrderStatusBuyerRejected       OrderStatus = "buyer_rejected"
	OrderStatusConfirmed           OrderStatus = "confirmed"
	OrderStatusOutForDelivery      OrderStatus = "out_for_delivery"
	OrderStatusDelivered           OrderStatus = "delivered"
	OrderStatusCompleted           OrderStatus = "completed"
	OrderStatusRejected            OrderStatus = "rejected"
)

// 現在ステータス→遷移できる次ステータスの表。
// ここに無い遷移は全部不正。
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusCreated:             {OrderStatusPendingVerification},
	OrderStatusPendingVerification: {OrderStatusSellerContacted, OrderStatusRejected},
	OrderStatusSellerContacted:     {OrderStatusSellerAccepted, OrderStatusSellerRejected, OrderStatusRejected},
	OrderStatusSellerAccepted:      {OrderStatusBuyerContacted, OrderStatusRejected},
	OrderStatusSellerRejected:      {OrderStatusRejected},
	OrderStatusBuyerContacted:      {OrderStatusBuyerConfirmed, OrderStatusBuyerRejected, OrderStatusRejected},
	OrderStatusBuyerConfirmed:      {OrderStatusConfirmed, OrderStatusRejected},
	OrderStatusBuyerRejected:       {OrderStatusRejected},
	OrderStatusConfirmed:           {OrderStatusOutForDelivery},
	OrderStatusOutForDelivery:      {OrderStatusDelivered},
	OrderStatusDelivered:           {OrderStatusCompleted},
	OrderStatusCompleted:           {},
	OrderStatusRejected:            {},
}

// 列挙に含まれる値かどうか
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusTransitions[s]
	return ok
}

// sからnextへ遷移できるか
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, t := range orderStatusTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// これ以上遷移できない終端ステータスか
func (s OrderStatus) IsTerminal() bool {
	return s.Valid() && len(orderStatusTransitions[s]) == 0
}

// sから出られる遷移先の一覧（コピーを返す）
func (s OrderStatus) NextStatuses() []OrderStatus {
	next := orderStatusTransitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// 管理者の注文一覧のデフォルト絞り込み（審査中の4ステータス）
var InReviewStatuses = []OrderStatus{
	OrderStatusPendingVerification,
	OrderStatusSellerContacted,
	OrderStatusSellerAccepted,
	OrderStatusBuyerContacted,
}
