package repository

import (
	"context"

	"yoolivery/internal/domain/model"
)

type OrderRepository interface {
	// 明細ごと保存
	Create(ctx context.Context, order *model.Order) error
	// created_at降順、同時刻は後に入れたものが先
	ListByUserID(ctx context.Context, userID string) ([]model.Order, error)
	// 他人の注文はErrNotFound
	FindForUser(ctx context.Context, userID string, orderID string) (model.Order, error)

	//検索（同じキーなら同じ結果を返す）
	FindByIdempotencyKey(ctx context.Context, userID string, key string) (model.Order, bool, error)
}
