package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"yoolivery/internal/domain/model"
	repo "yoolivery/internal/repository"
)

type OrderUsecase struct {
	tx    repo.TransactionManager
	idGen IDGenerator
	clock Clock
}

func NewOrderUsecase(tx repo.TransactionManager, idGen IDGenerator, clock Clock) *OrderUsecase {
	return &OrderUsecase{tx: tx, idGen: idGen, clock: clock}
}

type PlaceOrderInput struct {
	Address        string
	PaymentMethod  string // 空ならCOD
	IdempotencyKey string // 任意。空なら毎回新しい注文
}

type OrderItemOutput struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Brand          string `json:"brand"`
	VolumeMl       int64  `json:"volume_ml"`
	UnitPricePaise int64  `json:"unit_price_paise"`
	Quantity       int64  `json:"quantity"`
}

type OrderOutput struct {
	ID              string            `json:"id"`
	Status          string            `json:"status"`
	PaymentMethod   string            `json:"payment_method"`
	Address         string            `json:"address"`
	TotalPricePaise int64             `json:"total_price_paise"`
	CreatedAt       time.Time         `json:"created_at"`
	Items           []OrderItemOutput `json:"items"`
}

// カートを注文にして、カートを空にする。
// 注文の作成とカートのクリアは同じトランザクション。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (OrderOutput, error) {
	if userID == "" {
		return OrderOutput{}, errUnauthorized
	}
	address := strings.TrimSpace(in.Address)
	if address == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "Delivery address is required")
	}
	method := strings.ToUpper(strings.TrimSpace(in.PaymentMethod))
	if method != "" && model.PaymentMethod(method) != model.PaymentMethodCOD {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "Only cash on delivery is supported")
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if len(key) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}

	var out OrderOutput

	//注文処理はトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		if key != "" {
			existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
			if err != nil {
				return errDB
			}
			if found {
				out = toOrderOutput(existing)
				return nil
			}
		}

		cart, err := loadCart(ctx, r, userID)
		if err != nil {
			return err
		}

		order, err := model.NewOrder(u.idGen.NewID(), userID, cart, address, u.clock.Now())
		if errors.Is(err, model.ErrEmptyCart) {
			return NewHTTPError(http.StatusBadRequest, "Cart is empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if key != "" {
			order.IdempotencyKey = &key
		}

		if err := r.Orders().Create(ctx, &order); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return NewHTTPError(http.StatusConflict, "order already placed")
			}
			return errDB
		}

		//作成できたらカートを空に
		if err := r.Carts().Clear(ctx, userID); err != nil {
			return errDB
		}

		out = toOrderOutput(order)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 新しい順
func (u *OrderUsecase) ListOrders(ctx context.Context, userID string) ([]OrderOutput, error) {
	if userID == "" {
		return []OrderOutput{}, errUnauthorized
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID)
		if err != nil {
			return errDB
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			outs = append(outs, toOrderOutput(o))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, userID string, orderID string) (OrderOutput, error) {
	if userID == "" {
		return OrderOutput{}, errUnauthorized
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindForUser(ctx, userID, orderID)
		//他人の注文は「存在しない扱い」にする
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			return errDB
		}

		out = toOrderOutput(o)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(o.Items))
	for _, it := range o.Items {
		outItems = append(outItems, OrderItemOutput{
			ProductID:      it.ProductID,
			Name:           it.NameSnapshot,
			Brand:          it.BrandSnapshot,
			VolumeMl:       it.VolumeMl,
			UnitPricePaise: it.UnitPricePaise,
			Quantity:       it.Quantity,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		Status:          string(o.Status),
		PaymentMethod:   string(o.PaymentMethod),
		Address:         o.Address,
		TotalPricePaise: o.TotalPricePaise,
		CreatedAt:       o.CreatedAt,
		Items:           outItems,
	}
}
