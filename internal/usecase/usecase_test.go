package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"yoolivery/internal/catalog"
	"yoolivery/internal/domain/model"
	"yoolivery/internal/infra/kvrepo"
	"yoolivery/internal/infra/kvstore"
	repo "yoolivery/internal/repository"
	"yoolivery/internal/usecase"
)

// =====================
// 固定のClock / IDGenerator
// =====================

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqIDs struct {
	ids []string
	i   int
}

func (g *seqIDs) NewID() string {
	id := g.ids[g.i]
	g.i++
	return id
}

// =====================
// kvstore上に組んだ本物の依存
// =====================

type fixture struct {
	store    *kvstore.Store
	products *catalog.StaticRepository
	tx       *kvrepo.TxManagerKV
	carts    *usecase.CartUsecase
	orders   *usecase.OrderUsecase
	catalog  *usecase.ProductUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := kvstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	products := catalog.NewStaticRepository(catalog.Default())
	tx := kvrepo.NewTxManagerKV(s, products)
	clock := fixedClock{now: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)}
	ids := &seqIDs{ids: []string{"order-1", "order-2", "order-3", "order-4"}}

	return &fixture{
		store:    s,
		products: products,
		tx:       tx,
		carts:    usecase.NewCartUsecase(tx, products),
		orders:   usecase.NewOrderUsecase(tx, ids, clock),
		catalog:  usecase.NewProductUsecase(products),
	}
}

// =====================
// TxManager / TxRepos mocks
// =====================

type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders   repo.OrderRepository
	carts    repo.CartRepository
	products repo.ProductRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository     { return r.orders }
func (r *TxReposMock) Carts() repo.CartRepository       { return r.carts }
func (r *TxReposMock) Products() repo.ProductRepository { return r.products }

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID string) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	o, _ := args.Get(0).([]model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindForUser(ctx context.Context, userID string, orderID string) (model.Order, error) {
	args := m.Called(ctx, userID, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, userID string, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) ListLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	args := m.Called(ctx, userID)
	l, _ := args.Get(0).([]model.CartLine)
	return l, args.Error(1)
}

func (m *CartRepoMock) Save(ctx context.Context, userID string, lines []model.CartLine) error {
	args := m.Called(ctx, userID, lines)
	return args.Error(0)
}

func (m *CartRepoMock) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var (
	_ repo.OrderRepository    = (*OrderRepoMock)(nil)
	_ repo.CartRepository     = (*CartRepoMock)(nil)
	_ repo.TransactionManager = (*TxManagerMock)(nil)
)
