package kvrepo

import (
	"context"
	"errors"

	"yoolivery/internal/domain/model"
	"yoolivery/internal/infra/kvstore"
	repo "yoolivery/internal/repository"
)

// 保存するのは商品IDと数量だけ。商品情報は読むときにカタログから引く
type storedLine struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

type CartKVRepository struct {
	kv       kvstore.Accessor
	products repo.ProductRepository
}

func NewCartKVRepository(kv kvstore.Accessor, products repo.ProductRepository) *CartKVRepository {
	return &CartKVRepository{kv: kv, products: products}
}

var _ repo.CartRepository = (*CartKVRepository)(nil)

func (r *CartKVRepository) ListLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	var stored []storedLine
	if _, err := r.kv.Load(ctx, cartKey(userID), &stored); err != nil {
		return nil, err
	}

	lines := make([]model.CartLine, 0, len(stored))
	for _, s := range stored {
		p, err := r.products.FindByID(ctx, s.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, model.CartLine{
			UserID:    userID,
			ProductID: s.ProductID,
			Product:   p,
			Quantity:  s.Quantity,
		})
	}
	return lines, nil
}

func (r *CartKVRepository) Save(ctx context.Context, userID string, lines []model.CartLine) error {
	if len(lines) == 0 {
		return r.Clear(ctx, userID)
	}
	stored := make([]storedLine, 0, len(lines))
	for _, l := range lines {
		stored = append(stored, storedLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return r.kv.Save(ctx, cartKey(userID), stored)
}

func (r *CartKVRepository) Clear(ctx context.Context, userID string) error {
	return r.kv.Delete(ctx, cartKey(userID))
}
