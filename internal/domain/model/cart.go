package model

import "time"

// カートの明細（1商品につき1行）。
// DBには user_id + product_id の複合主キーで保存する。
type CartLine struct {
	UserID    string    `gorm:"primaryKey;type:varchar(64)" json:"-"`
	ProductID string    `gorm:"primaryKey;type:varchar(64)" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}

// Cart は1セッション分のカート集約。
// 明細の追加・削除・数量変更はこの型のメソッドだけで行う。
type Cart struct {
	lines []CartLine
}

// 既存の明細からカートを組み立てる。
// 同じ商品が複数あれば数量をまとめ、数量0以下の行は捨てる。
func NewCart(lines ...CartLine) Cart {
	var c Cart
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		c.AddItem(l.Product, l.Quantity)
	}
	return c
}

// 同じ商品があれば数量を足し、無ければ行を追加する。
// 数量0以下はデフォルトの1として扱う。
func (c *Cart) AddItem(p Product, quantity int64) {
	if quantity <= 0 {
		quantity = 1
	}
	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity += quantity
		return
	}
	c.lines = append(c.lines, CartLine{
		ProductID: p.ID,
		Product:   p,
		Quantity:  quantity,
	})
}

// 無ければ何もしない
func (c *Cart) RemoveItem(productID string) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	next := make([]CartLine, 0, len(c.lines)-1)
	next = append(next, c.lines[:i]...)
	c.lines = append(next, c.lines[i+1:]...)
}

// 0以下は削除と同じ。カートに無い商品は何もしない。
func (c *Cart) SetQuantity(productID string, quantity int64) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.lines[i].Quantity = quantity
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// 明細のコピーを返す
func (c Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c Cart) TotalQuantity() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

func (c Cart) TotalPricePaise() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Quantity * l.Product.PricePaise
	}
	return total
}

// 注文確定時点のスナップショット。カートとは何も共有しない。
func (c Cart) Snapshot() []OrderItem {
	items := make([]OrderItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, OrderItem{
			ProductID:      l.ProductID,
			NameSnapshot:   l.Product.Name,
			BrandSnapshot:  l.Product.Brand,
			VolumeMl:       l.Product.VolumeMl,
			UnitPricePaise: l.Product.PricePaise,
			Quantity:       l.Quantity,
		})
	}
	return items
}

func (c Cart) index(productID string) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
