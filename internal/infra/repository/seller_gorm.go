package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type sellerGormRepository struct {
	db *gorm.DB
}

func NewSellerGormRepository(db *gorm.DB) repo.SellerRepository {
	return &sellerGormRepository{db: db}
}

func (r *sellerGormRepository) Create(ctx context.Context, s model.Seller) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return 0, err
	}
	return s.ID, nil
}

func (r *sellerGormRepository) FindByID(ctx context.Context, sellerID int64) (model.Seller, error) {
	var s model.Seller
	err := r.db.WithContext(ctx).Where("id = ?", sellerID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Seller{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Seller{}, err
	}
	return s, nil
}

func (r *sellerGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Seller, error) {
	var s model.Seller
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Seller{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Seller{}, err
	}
	return s, nil
}

func (r *sellerGormRepository) Update(ctx context.Context, s *model.Seller) error {
	res := r.db.WithContext(ctx).Save(s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
