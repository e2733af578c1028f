package repository

import "context"

// 在庫の増減。orders側のトランザクションから呼ばれる。
type InventoryRepository interface {
	//在庫が足りれば減らしてtrue、足りなければ何もせずfalse
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	//在庫戻し（注文がrejectedになったとき）
	IncreaseStock(ctx context.Context, productID int64, qty int64) error
}
