package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"yoolivery/internal/domain/model"
	repo "yoolivery/internal/repository"
)

const (
	defaultProductLimit = 20
	maxProductLimit     = 100
	maxProductPage      = 100000 // offsetが溢れない範囲
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Category string // 空か"All"なら絞り込まない
	Search   string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type CategoryOutput struct {
	Name  model.Category `json:"name"`
	Count int64          `json:"count"`
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	// 0はデフォルト
	if in.Page == 0 {
		in.Page = 1
	}
	if in.Limit == 0 {
		in.Limit = defaultProductLimit
	}
	if in.Page < 1 || in.Page > maxProductPage {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > maxProductLimit {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	search := strings.TrimSpace(in.Search)
	if len(search) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid search")
	}

	var category model.Category
	if c := strings.TrimSpace(in.Category); c != "" && !strings.EqualFold(c, "All") {
		category = model.Category(c)
		if !category.Valid() {
			return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid category")
		}
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Category: category,
		Search:   search,
	})
	if err != nil {
		return ProductListOutput{}, errDB
	}
	if items == nil {
		items = []model.Product{}
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, id string) (model.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return model.Product{}, errDB
	}
	return p, nil
}

// 全カテゴリを表示順で。商品が無いカテゴリは0件
func (u *ProductUsecase) ListCategories(ctx context.Context) ([]CategoryOutput, error) {
	counts, err := u.productRepo.CountByCategory(ctx)
	if err != nil {
		return nil, errDB
	}

	out := make([]CategoryOutput, 0, len(model.Categories))
	for _, c := range model.Categories {
		out = append(out, CategoryOutput{Name: c, Count: counts[c]})
	}
	return out, nil
}
