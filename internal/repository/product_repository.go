package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

type ProductListFilter struct {
	Page     int
	Limit    int
	Q        string
	Category string
	SellerID *int64

	//trueなら公開中（is_active）だけ
	OnlyActive bool
}

type ProductRepository interface {
	FindByID(ctx context.Context, productID int64) (model.Product, error)
	List(ctx context.Context, f ProductListFilter) ([]model.Product, int64, error)
	Create(ctx context.Context, p model.Product) (int64, error)
	Update(ctx context.Context, p *model.Product) error

	//論理削除
	Delete(ctx context.Context, productID int64) error
}
