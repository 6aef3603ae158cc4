package kvrepo

import (
	"context"

	"yoolivery/internal/infra/kvstore"
	repo "yoolivery/internal/repository"
)

type txReposKV struct {
	orders   repo.OrderRepository
	carts    repo.CartRepository
	products repo.ProductRepository
}

func (r *txReposKV) Orders() repo.OrderRepository     { return r.orders }
func (r *txReposKV) Carts() repo.CartRepository       { return r.carts }
func (r *txReposKV) Products() repo.ProductRepository { return r.products }

type TxManagerKV struct {
	store    *kvstore.Store
	products repo.ProductRepository
}

// カタログは読み取り専用なのでtxの外のものをそのまま使う
func NewTxManagerKV(store *kvstore.Store, products repo.ProductRepository) *TxManagerKV {
	return &TxManagerKV{store: store, products: products}
}

func (tm *TxManagerKV) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.store.WithinTx(ctx, func(tx *kvstore.Tx) error {
		//repoはtxで作り直す
		r := &txReposKV{
			orders:   NewOrderKVRepository(tx),
			carts:    NewCartKVRepository(tx, tm.products),
			products: tm.products,
		}
		return fn(r)
	})
}
