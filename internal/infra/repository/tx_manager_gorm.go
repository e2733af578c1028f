package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders       repo.OrderRepository
	orderItems   repo.OrderItemRepository
	orderHistory repo.OrderStateHistoryRepository
	payments     repo.PaymentRepository
	products     repo.ProductRepository
	inventory    repo.InventoryRepository
	addresses    repo.AddressRepository
	sellers      repo.SellerRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository                    { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository            { return r.orderItems }
func (r *txReposGorm) OrderHistory() repo.OrderStateHistoryRepository  { return r.orderHistory }
func (r *txReposGorm) Payments() repo.PaymentRepository                { return r.payments }
func (r *txReposGorm) Products() repo.ProductRepository                { return r.products }
func (r *txReposGorm) Inventory() repo.InventoryRepository             { return r.inventory }
func (r *txReposGorm) Addresses() repo.AddressRepository               { return r.addresses }
func (r *txReposGorm) Sellers() repo.SellerRepository                  { return r.sellers }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:       NewOrderGormRepository(tx),
			orderItems:   NewOrderItemGormRepository(tx),
			orderHistory: NewOrderStateHistoryGormRepository(tx),
			payments:     NewPaymentGormRepository(tx),
			products:     NewProductGormRepository(tx),
			inventory:    NewInventoryGormRepository(tx),
			addresses:    NewAddressGormRepository(tx),
			sellers:      NewSellerGormRepository(tx),
		}
		return fn(r)
	})
}
