package repository

import (
	"context"

	"yoolivery/internal/domain/model"
	repo "yoolivery/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

var _ repo.CartRepository = (*CartGormRepository)(nil)

// 明細を商品付きで取得。商品が消えた行はjoinで落ちる
func (r *CartGormRepository) ListLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	var lines []model.CartLine

	if err := r.db.WithContext(ctx).
		Joins("Product").
		Where("cart_lines.user_id = ?", userID).
		Order("cart_lines.created_at asc").
		Find(&lines).Error; err != nil {
		return []model.CartLine{}, err
	}

	out := lines[:0]
	for _, l := range lines {
		if l.Product.ID == "" {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// 明細を丸ごと置き換える（削除→作成）
func (r *CartGormRepository) Save(ctx context.Context, userID string, lines []model.CartLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.CartLine{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}

		rows := make([]model.CartLine, 0, len(lines))
		for _, l := range lines {
			rows = append(rows, model.CartLine{
				UserID:    userID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
			})
		}
		// 商品はカタログ側なので一緒に保存しない
		return tx.Omit(clause.Associations).Create(&rows).Error
	})
}

// 指定ユーザーの明細を全削除
func (r *CartGormRepository) Clear(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartLine{}).Error
}
