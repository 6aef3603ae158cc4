package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"yoolivery/internal/domain/model"
	repo "yoolivery/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
// 読み込み→集約で変更→保存を1トランザクションで行う（後勝ち）。
type CartUsecase struct {
	tx          repo.TransactionManager
	productRepo repo.ProductRepository
}

func NewCartUsecase(tx repo.TransactionManager, productRepo repo.ProductRepository) *CartUsecase {
	return &CartUsecase{tx: tx, productRepo: productRepo}
}

type CartItemOutput struct {
	ProductID      string        `json:"product_id"`
	Product        model.Product `json:"product"`
	Quantity       int64         `json:"quantity"`
	LineTotalPaise int64         `json:"line_total_paise"`
}

// 合計は読むたびに計算し直す
type CartOutput struct {
	Items           []CartItemOutput `json:"items"`
	TotalQuantity   int64            `json:"total_quantity"`
	TotalPricePaise int64            `json:"total_price_paise"`
}

type AddCartItemInput struct {
	ProductID string
	Quantity  int64 // 0以下は1
}

type SetCartQuantityInput struct {
	ProductID string
	Quantity  int64 // 0以下は削除
}

func (u *CartUsecase) GetCart(ctx context.Context, userID string) (CartOutput, error) {
	if userID == "" {
		return CartOutput{}, errUnauthorized
	}
	var out CartOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := loadCart(ctx, r, userID)
		if err != nil {
			return err
		}
		out = toCartOutput(cart)
		return nil
	})
	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

// 同じ商品は数量を足す
func (u *CartUsecase) AddItem(ctx context.Context, userID string, in AddCartItemInput) (CartOutput, error) {
	if userID == "" {
		return CartOutput{}, errUnauthorized
	}
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return CartOutput{}, errDB
	}

	return u.mutate(ctx, userID, func(c *model.Cart) {
		c.AddItem(p, in.Quantity)
	})
}

// カートに無い商品なら何もしない
func (u *CartUsecase) RemoveItem(ctx context.Context, userID string, productID string) (CartOutput, error) {
	if userID == "" {
		return CartOutput{}, errUnauthorized
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	return u.mutate(ctx, userID, func(c *model.Cart) {
		c.RemoveItem(productID)
	})
}

func (u *CartUsecase) SetQuantity(ctx context.Context, userID string, in SetCartQuantityInput) (CartOutput, error) {
	if userID == "" {
		return CartOutput{}, errUnauthorized
	}
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	return u.mutate(ctx, userID, func(c *model.Cart) {
		c.SetQuantity(productID, in.Quantity)
	})
}

func (u *CartUsecase) Clear(ctx context.Context, userID string) (CartOutput, error) {
	if userID == "" {
		return CartOutput{}, errUnauthorized
	}
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Carts().Clear(ctx, userID); err != nil {
			return errDB
		}
		return nil
	})
	if err != nil {
		return CartOutput{}, err
	}
	return toCartOutput(model.Cart{}), nil
}

func (u *CartUsecase) mutate(ctx context.Context, userID string, fn func(c *model.Cart)) (CartOutput, error) {
	var out CartOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := loadCart(ctx, r, userID)
		if err != nil {
			return err
		}

		fn(&cart)

		if err := r.Carts().Save(ctx, userID, cart.Lines()); err != nil {
			return errDB
		}
		out = toCartOutput(cart)
		return nil
	})
	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

func loadCart(ctx context.Context, r repo.TxRepos, userID string) (model.Cart, error) {
	lines, err := r.Carts().ListLines(ctx, userID)
	if err != nil {
		return model.Cart{}, errDB
	}
	return model.NewCart(lines...), nil
}

func toCartOutput(c model.Cart) CartOutput {
	lines := c.Lines()
	items := make([]CartItemOutput, 0, len(lines))
	for _, l := range lines {
		items = append(items, CartItemOutput{
			ProductID:      l.ProductID,
			Product:        l.Product,
			Quantity:       l.Quantity,
			LineTotalPaise: l.Quantity * l.Product.PricePaise,
		})
	}
	return CartOutput{
		Items:           items,
		TotalQuantity:   c.TotalQuantity(),
		TotalPricePaise: c.TotalPricePaise(),
	}
}
