package catalog

import (
	"context"
	"sort"
	"strings"

	"yoolivery/internal/domain/model"
	repo "yoolivery/internal/repository"
)

// メモリ上の読み取り専用カタログ（ローカル動作用）。
type StaticRepository struct {
	products []model.Product
	byID     map[string]model.Product
}

func NewStaticRepository(products []model.Product) *StaticRepository {
	sorted := make([]model.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	byID := make(map[string]model.Product, len(sorted))
	for _, p := range sorted {
		byID[p.ID] = p
	}
	return &StaticRepository{products: sorted, byID: byID}
}

var _ repo.ProductRepository = (*StaticRepository)(nil)

func (r *StaticRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	matched := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Brand), search) {
			continue
		}
		matched = append(matched, p)
	}

	total := int64(len(matched))
	if q.Limit <= 0 {
		return matched, total, nil
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	// 掛け算の前に比べる（大きいpageでのオーバーフロー防止）
	if len(matched) == 0 || page-1 > (len(matched)-1)/q.Limit {
		return []model.Product{}, total, nil
	}
	start := (page - 1) * q.Limit
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *StaticRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r *StaticRepository) CountByCategory(ctx context.Context) (map[model.Category]int64, error) {
	counts := make(map[model.Category]int64, len(model.Categories))
	for _, p := range r.products {
		counts[p.Category]++
	}
	return counts, nil
}
