package repository

import (
	"context"

	"yoolivery/internal/domain/model"
)

type CartRepository interface {
	// Productを埋めた明細を返す。カタログから消えた商品の行は返さない
	ListLines(ctx context.Context, userID string) ([]model.CartLine, error)
	// 明細を丸ごと置き換える（後勝ち）
	Save(ctx context.Context, userID string, lines []model.CartLine) error
	Clear(ctx context.Context, userID string) error
}
