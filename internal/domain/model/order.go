package model

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "PLACED"
	OrderStatusDelivering OrderStatus = "DELIVERING"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
)

// 前進のみ。戻る・飛ばす遷移は無い。
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPlaced:
		return next == OrderStatusDelivering
	case OrderStatusDelivering:
		return next == OrderStatusDelivered
	default:
		return false
	}
}

type PaymentMethod string

// 代引きのみ
const PaymentMethodCOD PaymentMethod = "COD"

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrEmptyAddress = errors.New("delivery address is required")
)

// 注文。作成後に変わるのはstatusだけ。
type Order struct {
	ID              string        `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Seq             int64         `gorm:"autoIncrement;not null;index" json:"-"` // 同じcreated_atのときの挿入順
	UserID          string        `gorm:"type:varchar(64);not null;index;uniqueIndex:idx_orders_user_idem" json:"user_id"`
	Items           []OrderItem   `gorm:"foreignKey:OrderID" json:"items"`
	TotalPricePaise int64         `gorm:"not null" json:"total_price_paise"`
	Address         string        `gorm:"type:text;not null" json:"address"`
	PaymentMethod   PaymentMethod `gorm:"type:varchar(10);not null" json:"payment_method"`
	Status          OrderStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	IdempotencyKey  *string       `gorm:"type:varchar(255);uniqueIndex:idx_orders_user_idem" json:"idempotency_key,omitempty"`
	CreatedAt       time.Time     `gorm:"not null;index" json:"created_at"`
}

// カートのスナップショットから注文を組み立てる。
// 合計はコピーした明細から計算し直す。
func NewOrder(id string, userID string, cart Cart, address string, now time.Time) (Order, error) {
	if cart.IsEmpty() {
		return Order{}, ErrEmptyCart
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return Order{}, ErrEmptyAddress
	}

	items := cart.Snapshot()
	var total int64
	for i := range items {
		items[i].OrderID = id
		total += items[i].UnitPricePaise * items[i].Quantity
	}

	return Order{
		ID:              id,
		UserID:          userID,
		Items:           items,
		TotalPricePaise: total,
		Address:         address,
		PaymentMethod:   PaymentMethodCOD,
		Status:          OrderStatusPlaced,
		CreatedAt:       now,
	}, nil
}
