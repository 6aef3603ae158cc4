package repository

import (
	"context"
	"errors"
	"math"
	"strings"

	"yoolivery/internal/domain/model"
	repo "yoolivery/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

var _ repo.ProductRepository = (*ProductGormRepository)(nil)

// カテゴリ・検索・ページング付きで返す。並びは名前順。
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Product{})

	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}

	// q name/brandを対象
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("name ILIKE ? OR brand ILIKE ?", like, like)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	tx = tx.Order("name asc").Order("id asc")
	if q.Limit > 0 {
		page := q.Page
		if page <= 0 {
			page = 1
		}
		// offsetがintに収まらないページは空
		if page-1 > math.MaxInt32/q.Limit {
			return []model.Product{}, total, nil
		}
		tx = tx.Offset((page - 1) * q.Limit).Limit(q.Limit)
	}
	if err := tx.Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return products, total, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) CountByCategory(ctx context.Context) (map[model.Category]int64, error) {
	var rows []struct {
		Category model.Category
		Count    int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select("category, count(*) as count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.Category]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}

// 無い商品だけ入れる。既存の行は触らない
func (r *ProductGormRepository) EnsureSeeded(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&products).Error
}
