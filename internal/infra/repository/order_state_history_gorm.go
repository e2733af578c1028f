package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type orderStateHistoryGormRepository struct {
	db *gorm.DB
}

func NewOrderStateHistoryGormRepository(db *gorm.DB) repo.OrderStateHistoryRepository {
	return &orderStateHistoryGormRepository{db: db}
}

func (r *orderStateHistoryGormRepository) Append(ctx context.Context, h model.OrderStateHistory) error {
	if err := r.db.WithContext(ctx).Create(&h).Error; err != nil {
		return err
	}
	return nil
}

func (r *orderStateHistoryGormRepository) ListByOrderID(ctx context.Context, orderID int64, limit int) ([]model.OrderStateHistory, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var rows []model.OrderStateHistory
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		//新しい順。同時刻はidで安定させる。
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
