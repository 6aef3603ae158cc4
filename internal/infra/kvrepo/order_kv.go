package kvrepo

import (
	"context"

	"yoolivery/internal/domain/model"
	"yoolivery/internal/infra/kvstore"
	repo "yoolivery/internal/repository"
)

// orders.<userID> に新しい順のスライスで保存する
type OrderKVRepository struct {
	kv kvstore.Accessor
}

func NewOrderKVRepository(kv kvstore.Accessor) *OrderKVRepository {
	return &OrderKVRepository{kv: kv}
}

var _ repo.OrderRepository = (*OrderKVRepository)(nil)

func (r *OrderKVRepository) load(ctx context.Context, userID string) ([]model.Order, error) {
	orders := []model.Order{}
	if _, err := r.kv.Load(ctx, ordersKey(userID), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// 先頭に追加（新しい順を保つ）
func (r *OrderKVRepository) Create(ctx context.Context, order *model.Order) error {
	orders, err := r.load(ctx, order.UserID)
	if err != nil {
		return err
	}
	for _, o := range orders {
		if o.ID == order.ID {
			return repo.ErrDuplicate
		}
		if order.IdempotencyKey != nil && o.IdempotencyKey != nil && *o.IdempotencyKey == *order.IdempotencyKey {
			return repo.ErrDuplicate
		}
	}

	next := make([]model.Order, 0, len(orders)+1)
	next = append(next, *order)
	next = append(next, orders...)
	return r.kv.Save(ctx, ordersKey(order.UserID), next)
}

func (r *OrderKVRepository) ListByUserID(ctx context.Context, userID string) ([]model.Order, error) {
	return r.load(ctx, userID)
}

func (r *OrderKVRepository) FindForUser(ctx context.Context, userID string, orderID string) (model.Order, error) {
	orders, err := r.load(ctx, userID)
	if err != nil {
		return model.Order{}, err
	}
	for _, o := range orders {
		if o.ID == orderID {
			return o, nil
		}
	}
	return model.Order{}, repo.ErrNotFound
}

func (r *OrderKVRepository) FindByIdempotencyKey(ctx context.Context, userID string, key string) (model.Order, bool, error) {
	orders, err := r.load(ctx, userID)
	if err != nil {
		return model.Order{}, false, err
	}
	for _, o := range orders {
		if o.IdempotencyKey != nil && *o.IdempotencyKey == key {
			return o, true, nil
		}
	}
	return model.Order{}, false, nil
}
