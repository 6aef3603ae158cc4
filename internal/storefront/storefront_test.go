package storefront_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"yoolivery/internal/app"
	"yoolivery/internal/catalog"
	"yoolivery/internal/config"
	"yoolivery/internal/infra/kvstore"
	"yoolivery/internal/server"
	"yoolivery/internal/storefront"
	"yoolivery/internal/usecase"
	auth "yoolivery/internal/usecase/auth_usecase"
)

func openStore(t *testing.T) *kvstore.Store {
	t.Helper()
	store, err := kvstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newUsecases(store *kvstore.Store) (app.Repos, app.Usecases) {
	repos := app.NewKVRepos(store, catalog.NewStaticRepository(catalog.Default()))
	return repos, app.NewUsecases(repos, app.Options{
		JWTSecret:      "test-secret",
		AccessTokenTTL: time.Hour,
		BcryptCost:     bcrypt.MinCost,
	})
}

func newLocal(t *testing.T) (*storefront.Local, *kvstore.Store) {
	t.Helper()
	store := openStore(t)
	_, uc := newUsecases(store)
	return storefront.NewLocal(store, uc), store
}

// サーバー側のデータとクライアントのセッションは別のストア
func newRemote(t *testing.T) (*storefront.Remote, *kvstore.Store) {
	t.Helper()
	repos, uc := newUsecases(openStore(t))
	cfg := config.Config{JWTSecret: "test-secret", FEURL: "http://localhost:3000"}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(server.New(cfg, log, repos.Users, app.NewHandlers(uc)))
	t.Cleanup(ts.Close)

	session := openStore(t)
	return storefront.NewRemote(ts.URL+"/api", ts.Client(), session), session
}

func tomba(email string) auth.RegisterUserInput {
	return auth.RegisterUserInput{
		Name:         "Tomba Singh",
		Email:        email,
		Password:     "secret1",
		Address:      "Imphal West",
		DOB:          "2000-01-01",
		AadhaarLast4: "1234",
	}
}

// LocalでもRemoteでも同じ結果になる流れ
func runCheckoutScenario(t *testing.T, b storefront.Backend) {
	ctx := context.Background()

	_, err := b.Cart(ctx)
	require.Error(t, err)
	assert.Equal(t, storefront.ActionRelogin, storefront.ActionFor(err))

	cats, err := b.ListCategories(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, cats)

	list, err := b.ListProducts(ctx, usecase.ListProductsInput{Search: "KING"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "beer-kingfisher-650", list.Items[0].ID)

	_, err = b.GetProduct(ctx, "nope")
	assert.Equal(t, usecase.KindNotFound, usecase.KindOf(err))

	young := tomba("young@example.com")
	young.DOB = time.Now().AddDate(-21, 0, 1).Format("2006-01-02")
	_, err = b.Register(ctx, young)
	require.Error(t, err)
	assert.Equal(t, storefront.ActionShowMessage, storefront.ActionFor(err))
	assert.Equal(t, "You must be at least 21 years old", storefront.Message(err))

	user, err := b.Register(ctx, tomba("tomba@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "tomba@example.com", user.Email)

	_, err = b.AddItem(ctx, "beer-kingfisher-650", 1)
	require.NoError(t, err)
	_, err = b.AddItem(ctx, "beer-kingfisher-650", 1)
	require.NoError(t, err)
	cart, err := b.AddItem(ctx, "rum-oldmonk-750", 0)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, int64(94000), cart.TotalPricePaise)

	cart, err = b.SetQuantity(ctx, "rum-oldmonk-750", 0)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	_, err = b.AddItem(ctx, "rum-oldmonk-750", 1)
	require.NoError(t, err)

	order, err := b.Checkout(ctx, usecase.PlaceOrderInput{Address: "Imphal West", IdempotencyKey: "k-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(94000), order.TotalPricePaise)
	require.Len(t, order.Items, 2)

	cart, err = b.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = b.Checkout(ctx, usecase.PlaceOrderInput{Address: "Imphal West"})
	assert.Equal(t, "Cart is empty", storefront.Message(err))

	orders, err := b.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	got, err := b.Order(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.TotalPricePaise, got.TotalPricePaise)

	phone := "9876543210"
	p, err := b.UpdateProfile(ctx, auth.UpdateProfileInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, p.Phone)
	assert.Equal(t, "2000-01-01", p.DOB)

	require.NoError(t, b.Logout(ctx))
	_, err = b.Profile(ctx)
	assert.Equal(t, storefront.ActionRelogin, storefront.ActionFor(err))

	ok, err := b.Login(ctx, "TOMBA@example.com", "wrong-password")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = b.Login(ctx, "TOMBA@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, ok)

	orders, err = b.Orders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestLocal_CheckoutScenario(t *testing.T) {
	b, _ := newLocal(t)
	runCheckoutScenario(t, b)
}

func TestRemote_CheckoutScenario(t *testing.T) {
	b, _ := newRemote(t)
	runCheckoutScenario(t, b)
}

func TestLocal_SessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	b, store := newLocal(t)

	_, err := b.Register(ctx, tomba("tomba@example.com"))
	require.NoError(t, err)
	_, err = b.AddItem(ctx, "brandy-hills-750", 2)
	require.NoError(t, err)

	//同じストアで作り直してもログインとカートが残る
	_, uc := newUsecases(store)
	again := storefront.NewLocal(store, uc)
	cart, err := again.Cart(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(128000), cart.TotalPricePaise)

	var userID string
	found, err := store.Load(ctx, storefront.KeyCurrentUser, &userID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.NotEmpty(t, userID)
}

func TestLocal_FailedCheckoutKeepsCart(t *testing.T) {
	ctx := context.Background()
	b, _ := newLocal(t)

	_, err := b.Register(ctx, tomba("tomba@example.com"))
	require.NoError(t, err)
	_, err = b.AddItem(ctx, "whisky-mc-750", 1)
	require.NoError(t, err)

	_, err = b.Checkout(ctx, usecase.PlaceOrderInput{Address: "   "})
	assert.Equal(t, "Delivery address is required", storefront.Message(err))

	cart, err := b.Cart(ctx)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	orders, err := b.Orders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestRemote_RevokedTokenNeedsRelogin(t *testing.T) {
	ctx := context.Background()
	b, session := newRemote(t)

	_, err := b.Register(ctx, tomba("tomba@example.com"))
	require.NoError(t, err)
	var oldToken string
	_, err = session.Load(ctx, storefront.KeyToken, &oldToken)
	require.NoError(t, err)
	require.NotEmpty(t, oldToken)

	require.NoError(t, b.Logout(ctx))
	found, err := session.Load(ctx, storefront.KeyToken, new(string))
	require.NoError(t, err)
	assert.False(t, found)

	//ログアウト前のトークンはサーバーが拒否する
	require.NoError(t, session.Save(ctx, storefront.KeyToken, oldToken))
	_, err = b.Cart(ctx)
	assert.Equal(t, storefront.ActionRelogin, storefront.ActionFor(err))
	assert.Equal(t, "Token revoked", storefront.Message(err))
}

func TestRemote_UnreachableServerIsTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	base := ts.URL
	ts.Close()

	b := storefront.NewRemote(base+"/api", nil, openStore(t))
	_, err := b.ListCategories(context.Background())
	require.Error(t, err)
	assert.Equal(t, usecase.KindTransport, usecase.KindOf(err))
	assert.Equal(t, storefront.ActionRetry, storefront.ActionFor(err))
}

func TestActionFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want storefront.Action
	}{
		{"nil", nil, storefront.ActionNone},
		{"unauthorized", usecase.NewHTTPError(http.StatusUnauthorized, "x"), storefront.ActionRelogin},
		{"forbidden", usecase.NewHTTPError(http.StatusForbidden, "x"), storefront.ActionRelogin},
		{"bad request", usecase.NewHTTPError(http.StatusBadRequest, "x"), storefront.ActionShowMessage},
		{"not found", usecase.NewHTTPError(http.StatusNotFound, "x"), storefront.ActionRetry},
		{"conflict", usecase.NewHTTPError(http.StatusConflict, "x"), storefront.ActionRetry},
		{"transport", usecase.NewTransportError(errors.New("dial")), storefront.ActionRetry},
		{"plain", errors.New("boom"), storefront.ActionRetry},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, storefront.ActionFor(tc.err))
		})
	}
}

// 不正な入力はLocalでもRemoteでも同じステータス・同じ文言になる
func TestBackends_SameAnswerForBadInput(t *testing.T) {
	type result struct {
		ok     bool
		status int
		msg    string
	}
	outcome := func(ok bool, err error) result {
		if err == nil {
			return result{ok: ok}
		}
		he, isHTTP := usecase.AsHTTPError(err)
		if !isHTTP {
			return result{ok: ok, msg: err.Error()}
		}
		return result{ok: ok, status: he.Status, msg: he.Message}
	}

	longPassword := tomba("long@example.com")
	longPassword.Password = strings.Repeat("p", 73)
	signedAadhaar := tomba("sign@example.com")
	signedAadhaar.AadhaarLast4 = "+123"
	longName := strings.Repeat("n", 101)

	steps := []struct {
		name string
		run  func(ctx context.Context, b storefront.Backend) result
	}{
		{"login malformed email", func(ctx context.Context, b storefront.Backend) result {
			return outcome(b.Login(ctx, "not-an-email", "secret1"))
		}},
		{"login empty password", func(ctx context.Context, b storefront.Backend) result {
			return outcome(b.Login(ctx, "tomba@example.com", ""))
		}},
		{"login unknown user", func(ctx context.Context, b storefront.Backend) result {
			return outcome(b.Login(ctx, "nobody@example.com", "secret1"))
		}},
		{"register long password", func(ctx context.Context, b storefront.Backend) result {
			_, err := b.Register(ctx, longPassword)
			return outcome(false, err)
		}},
		{"register signed aadhaar", func(ctx context.Context, b storefront.Backend) result {
			_, err := b.Register(ctx, signedAadhaar)
			return outcome(false, err)
		}},
		{"register ok", func(ctx context.Context, b storefront.Backend) result {
			_, err := b.Register(ctx, tomba("tomba@example.com"))
			return outcome(true, err)
		}},
		{"profile long name", func(ctx context.Context, b storefront.Backend) result {
			_, err := b.UpdateProfile(ctx, auth.UpdateProfileInput{Name: &longName})
			return outcome(false, err)
		}},
		{"add unknown product", func(ctx context.Context, b storefront.Backend) result {
			_, err := b.AddItem(ctx, "nope", 1)
			return outcome(false, err)
		}},
	}

	ctx := context.Background()
	local, _ := newLocal(t)
	remote, _ := newRemote(t)
	for _, st := range steps {
		t.Run(st.name, func(t *testing.T) {
			assert.Equal(t, st.run(ctx, local), st.run(ctx, remote))
		})
	}

	ok, err := remote.Login(ctx, "not-an-email", "secret1")
	assert.False(t, ok)
	assert.Equal(t, storefront.ActionShowMessage, storefront.ActionFor(err))
}
