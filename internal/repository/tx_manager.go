package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	OrderHistory() OrderStateHistoryRepository
	Payments() PaymentRepository
	Products() ProductRepository
	Inventory() InventoryRepository
	Addresses() AddressRepository
	Sellers() SellerRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがerrorを返したら全部ロールバック。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
