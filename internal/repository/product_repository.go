package repository

import (
	"context"
	"errors"

	"yoolivery/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")
	// unique制約違反（email重複など）
	ErrDuplicate = errors.New("duplicate")
)

// 一覧検索
type ProductListQuery struct {
	Page     int
	Limit    int
	Category model.Category // 空なら全カテゴリ
	Search   string         // 名前・ブランドの部分一致（大文字小文字を区別しない）
}

// 商品カタログの読み取りだけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id string) (model.Product, error)
	CountByCategory(ctx context.Context) (map[model.Category]int64, error)
}
