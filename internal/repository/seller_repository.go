package repository

import (
	"context"

	"app/internal/domain/model"
)

type SellerRepository interface {
	Create(ctx context.Context, s model.Seller) (int64, error)
	FindByID(ctx context.Context, sellerID int64) (model.Seller, error)

	//ユーザー1人に出品者プロフィールは1件
	FindByUserID(ctx context.Context, userID int64) (model.Seller, error)
	Update(ctx context.Context, s *model.Seller) error
}
