package repository

import (
	"context"

	"app/internal/domain/model"
)

// 追記と読み出しだけの約束。UpdateもDeleteも無い。
type OrderStateHistoryRepository interface {
	//履歴を1行追記する。注文の更新と同じトランザクションで呼ぶこと。
	Append(ctx context.Context, h model.OrderStateHistory) error

	//新しい順（created_at降順）で最大limit件
	ListByOrderID(ctx context.Context, orderID int64, limit int) ([]model.OrderStateHistory, error)
}
