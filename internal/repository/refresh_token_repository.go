package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, rt *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)

	//ローテーション時に使用済みへ
	MarkUsed(ctx context.Context, id string, usedAt time.Time) error
	Revoke(ctx context.Context, id string, revokedAt time.Time) error
}
