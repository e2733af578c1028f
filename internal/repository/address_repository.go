package repository

import (
	"context"

	"app/internal/domain/model"
)

type AddressRepository interface {
	Create(ctx context.Context, a model.Address) (int64, error)
	FindByID(ctx context.Context, addressID int64) (model.Address, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Address, error)
	Update(ctx context.Context, a *model.Address) error
	Delete(ctx context.Context, addressID int64) error
}
