package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page  int
	Limit int

	//空なら審査中の4ステータス（model.InReviewStatuses）
	Statuses   []model.OrderStatus
	CustomerID *int64
	SellerID   *int64
	From       *time.Time
	To         *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	//FOR UPDATEで行ロックして取得。同一注文の同時遷移を直列化する。
	//トランザクション内でのみ使う。
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)

	Create(ctx context.Context, order model.Order) (int64, error)

	//ロードした注文の可変フィールドを保存する
	Save(ctx context.Context, order *model.Order) error

	ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error)
	ListBySellerID(ctx context.Context, sellerID int64, page int, limit int) ([]model.Order, int64, error)

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
