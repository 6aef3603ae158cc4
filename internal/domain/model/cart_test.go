package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	kingfisher = Product{ID: "beer-kingfisher-650", Name: "Kingfisher Strong 650ml", Brand: "Kingfisher", Category: CategoryBeer, VolumeMl: 650, PricePaise: 19000}
	oldMonk    = Product{ID: "rum-oldmonk-750", Name: "Old Monk 750ml", Brand: "Old Monk", Category: CategoryRum, VolumeMl: 750, PricePaise: 56000}
	hills      = Product{ID: "brandy-hills-750", Name: "Hills Brandy 750ml", Brand: "Hills Distillers", Category: CategoryBrandy, VolumeMl: 750, PricePaise: 64000}
)

func TestCart_AddSameProductTwice_OneLine(t *testing.T) {
	var c Cart
	c.AddItem(kingfisher, 1)
	c.AddItem(kingfisher, 1)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].Quantity)
}

func TestCart_AddItem_NonPositiveQuantityDefaultsToOne(t *testing.T) {
	var c Cart
	c.AddItem(oldMonk, 0)
	c.AddItem(oldMonk, -3)

	assert.Equal(t, int64(2), c.TotalQuantity())
}

func TestCart_Totals(t *testing.T) {
	var c Cart
	c.AddItem(kingfisher, 2)
	c.AddItem(oldMonk, 1)

	assert.Equal(t, int64(3), c.TotalQuantity())
	//₹190×2 + ₹560 = ₹940
	assert.Equal(t, int64(94000), c.TotalPricePaise())
}

func TestCart_SetQuantity(t *testing.T) {
	var c Cart
	c.AddItem(kingfisher, 1)

	c.SetQuantity(kingfisher.ID, 5)
	assert.Equal(t, int64(5), c.TotalQuantity())

	//カートに無い商品は何もしない
	c.SetQuantity(oldMonk.ID, 3)
	assert.Len(t, c.Lines(), 1)

	c.SetQuantity(oldMonk.ID, 0)
	assert.Len(t, c.Lines(), 1)
}

func TestCart_SetQuantityZeroEqualsRemove(t *testing.T) {
	for _, p := range []Product{kingfisher, oldMonk, hills} {
		var a, b Cart
		for _, c := range []*Cart{&a, &b} {
			c.AddItem(kingfisher, 2)
			c.AddItem(oldMonk, 1)
		}

		a.SetQuantity(p.ID, 0)
		b.RemoveItem(p.ID)

		assert.Equal(t, b.Lines(), a.Lines(), "product %s", p.ID)
	}
}

func TestCart_RemoveAbsentIsNoop(t *testing.T) {
	var c Cart
	c.AddItem(kingfisher, 1)
	c.RemoveItem("nope")
	assert.Len(t, c.Lines(), 1)
}

func TestCart_Clear(t *testing.T) {
	var c Cart
	c.AddItem(kingfisher, 1)
	c.AddItem(oldMonk, 4)
	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Equal(t, int64(0), c.TotalQuantity())
	assert.Equal(t, int64(0), c.TotalPricePaise())
}

func TestNewCart_MergesDuplicatesAndDropsZero(t *testing.T) {
	c := NewCart(
		CartLine{ProductID: kingfisher.ID, Product: kingfisher, Quantity: 1},
		CartLine{ProductID: kingfisher.ID, Product: kingfisher, Quantity: 2},
		CartLine{ProductID: oldMonk.ID, Product: oldMonk, Quantity: 0},
	)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(3), lines[0].Quantity)
}

// ランダムな操作列でも「1商品1行」と合計の一致が崩れない
func TestCart_RandomOperationsKeepOneLinePerProduct(t *testing.T) {
	products := []Product{kingfisher, oldMonk, hills}
	rng := rand.New(rand.NewSource(46))

	for run := 0; run < 200; run++ {
		var c Cart
		for step := 0; step < 30; step++ {
			p := products[rng.Intn(len(products))]
			switch rng.Intn(3) {
			case 0:
				c.AddItem(p, int64(rng.Intn(5)))
			case 1:
				c.RemoveItem(p.ID)
			case 2:
				c.SetQuantity(p.ID, int64(rng.Intn(7)-2))
			}

			seen := map[string]bool{}
			var qty, price int64
			for _, l := range c.Lines() {
				require.False(t, seen[l.ProductID], "duplicate line for %s", l.ProductID)
				seen[l.ProductID] = true
				require.Positive(t, l.Quantity)
				qty += l.Quantity
				price += l.Quantity * l.Product.PricePaise
			}
			require.Equal(t, qty, c.TotalQuantity())
			require.Equal(t, price, c.TotalPricePaise())
		}
	}
}

func TestCart_LinesIsACopy(t *testing.T) {
	var c Cart
	c.AddItem(kingfisher, 1)

	lines := c.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, int64(1), c.TotalQuantity())
}
