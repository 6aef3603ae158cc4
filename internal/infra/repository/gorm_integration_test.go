package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"yoolivery/internal/catalog"
	"yoolivery/internal/domain/model"
	"yoolivery/internal/infra/db"
	repo "yoolivery/internal/repository"
)

// TEST_DATABASE_URL があるときだけ実DBで動かす
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	gdb, err := db.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	require.NoError(t, NewProductGormRepository(gdb).EnsureSeeded(context.Background(), catalog.Default()))
	return gdb
}

func createUser(t *testing.T, gdb *gorm.DB) string {
	t.Helper()
	id := uuid.NewString()
	err := NewUserGormRepository(gdb).Create(context.Background(), &model.User{
		ID:           id,
		Name:         "Tomba",
		Email:        id + "@example.com",
		PasswordHash: "x",
		DOB:          "2000-01-01",
		AadhaarLast4: "1234",
	})
	require.NoError(t, err)
	return id
}

func TestProductGorm_ListAndSeedIsIdempotent(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	r := NewProductGormRepository(gdb)

	require.NoError(t, r.EnsureSeeded(ctx, catalog.Default()))

	items, _, err := r.List(ctx, repo.ProductListQuery{Search: "MONK", Page: 1, Limit: 20})
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Equal(t, "rum-oldmonk-750", items[0].ID)

	_, err = r.FindByID(ctx, "no-such-product")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestUserGorm_DuplicateEmailIgnoresCase(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	r := NewUserGormRepository(gdb)

	email := uuid.NewString() + "@Example.com"
	require.NoError(t, r.Create(ctx, &model.User{ID: uuid.NewString(), Name: "A", Email: email, PasswordHash: "x", DOB: "2000-01-01", AadhaarLast4: "1234"}))
	err := r.Create(ctx, &model.User{ID: uuid.NewString(), Name: "B", Email: " " + email, PasswordHash: "x", DOB: "2000-01-01", AadhaarLast4: "1234"})
	assert.ErrorIs(t, err, repo.ErrDuplicate)
}

func TestTxManagerGorm_PlaceAndRollback(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	userID := createUser(t, gdb)
	products := NewProductGormRepository(gdb)
	carts := NewCartGormRepository(gdb)
	orders := NewOrderGormRepository(gdb)
	tm := NewTxManagerGorm(gdb)

	kf, err := products.FindByID(ctx, "beer-kingfisher-650")
	require.NoError(t, err)
	var c model.Cart
	c.AddItem(kf, 2)
	require.NoError(t, carts.Save(ctx, userID, c.Lines()))

	//失敗したらカートは残る
	boom := errors.New("boom")
	err = tm.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := model.NewOrder(uuid.NewString(), userID, c, "Imphal", time.Now())
		if err != nil {
			return err
		}
		if err := r.Orders().Create(ctx, &o); err != nil {
			return err
		}
		if err := r.Carts().Clear(ctx, userID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	lines, err := carts.ListLines(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	//同時刻でも後に入れた注文が先
	now := time.Now().UTC().Truncate(time.Microsecond)
	var ids []string
	for i := 0; i < 2; i++ {
		o, err := model.NewOrder(uuid.NewString(), userID, c, "Imphal", now)
		require.NoError(t, err)
		require.NoError(t, orders.Create(ctx, &o))
		ids = append(ids, o.ID)
	}
	list, err := orders.ListByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[1], list[0].ID)
	assert.Equal(t, ids[0], list[1].ID)
	require.Len(t, list[0].Items, 1)
	assert.Equal(t, int64(38000), list[0].TotalPricePaise)
}
