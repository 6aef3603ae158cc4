package storefront

import (
	"context"

	"yoolivery/internal/app"
	"yoolivery/internal/domain/model"
	"yoolivery/internal/infra/kvstore"
	"yoolivery/internal/usecase"
	auth "yoolivery/internal/usecase/auth_usecase"
)

// 同じプロセスでusecaseを呼ぶ。
// ログイン中のユーザーIDは auth.currentUser に保存する
type Local struct {
	store *kvstore.Store
	uc    app.Usecases
}

var _ Backend = (*Local)(nil)

// ucはstoreの上に組み立てたもの（app.NewKVRepos）
func NewLocal(store *kvstore.Store, uc app.Usecases) *Local {
	return &Local{store: store, uc: uc}
}

func (l *Local) ListProducts(ctx context.Context, in usecase.ListProductsInput) (usecase.ProductListOutput, error) {
	return l.uc.Products.ListProducts(ctx, in)
}

func (l *Local) GetProduct(ctx context.Context, id string) (model.Product, error) {
	return l.uc.Products.GetProduct(ctx, id)
}

func (l *Local) ListCategories(ctx context.Context) ([]usecase.CategoryOutput, error) {
	return l.uc.Products.ListCategories(ctx)
}

func (l *Local) Register(ctx context.Context, in auth.RegisterUserInput) (auth.ProfileOutput, error) {
	out, err := l.uc.Register.Execute(ctx, in)
	if err != nil {
		return auth.ProfileOutput{}, err
	}
	if err := l.store.Save(ctx, KeyCurrentUser, out.User.ID); err != nil {
		return auth.ProfileOutput{}, err
	}
	return out.User, nil
}

func (l *Local) Login(ctx context.Context, email string, password string) (bool, error) {
	out, err := l.uc.Login.Execute(ctx, auth.LoginInput{Email: email, Password: password})
	if ok, err := loginResult(err); !ok {
		return false, err
	}
	if err := l.store.Save(ctx, KeyCurrentUser, out.User.ID); err != nil {
		return false, err
	}
	return true, nil
}

// 発行済みトークンも無効にしてからセッションを消す
func (l *Local) Logout(ctx context.Context) error {
	userID, err := l.currentUser(ctx)
	if err != nil {
		return err
	}
	if err := l.uc.Logout.Execute(ctx, userID); err != nil && usecase.KindOf(err) != usecase.KindAuth {
		return err
	}
	return l.store.Delete(ctx, KeyCurrentUser)
}

func (l *Local) Profile(ctx context.Context) (auth.ProfileOutput, error) {
	userID, err := l.currentUser(ctx)
	if err != nil {
		return auth.ProfileOutput{}, err
	}
	return l.uc.Profile.Get(ctx, userID)
}

func (l *Local) UpdateProfile(ctx context.Context, in auth.UpdateProfileInput) (auth.ProfileOutput, error) {
	userID, err := l.currentUser(ctx)
	if err != nil {
		return auth.ProfileOutput{}, err
	}
	return l.uc.Profile.Update(ctx, userID, in)
}

func (l *Local) Cart(ctx context.Context) (usecase.CartOutput, error) {
	userID, err := l.currentUser(ctx)
	if err != nil {
		return usecase.CartOutput{}, err
	}
	return l.uc.Carts.GetCart(ctx, userID)
}

func (l *Local) AddItem(ctx context.Context, productID string, quantity int64) (usecase.CartOutput, error) {
	userID, err := l.currentUser(ctx)
	if err != nil {
		return usecase.CartOutput{}, err
	}
	return l.uc.Carts.AddItem(ctx, userID, usecase.AddCartItemInput{ProductID: productID, Quantity: quantity})
}

func (l *Local) SetQuantity(ctx context.Context, productID string, quantity int64) (usecase.CartOutput, error) {
	userID, err := l.currentUser(ctx)
	if err != nil {
		return usecase.CartOutput{}, err
	}
	return l.uc.Carts.SetQuantity(ctx, userID, usecase.SetCartQuantityInput{ProductID: productID, Quantity: quantity})
}

func (l *Local) RemoveItem(ctx context.Context, productID string) (usecase.CartOutput, error) {
	userID, err := l.currentUser(ctx)
	if err != nil {
		return usecase.CartOutput{}, err
	}
	return l.uc.Carts.RemoveItem(ctx, userID, productID)
}

func (l *Local) ClearCart(ctx context.Context) (usecase.CartOutput, error) {
	userID, err := l.currentUser(ctx)
	if err != nil {
		return usecase.CartOutput{}, err
	}
	return l.uc.Carts.Clear(ctx, userID)
}

func (l *Local) Checkout(ctx context.Context, in usecase.PlaceOrderInput) (usecase.OrderOutput, error) {
	userID, err := l.currentUser(ctx)
	if err != nil {
		return usecase.OrderOutput{}, err
	}
	return l.uc.Orders.PlaceOrder(ctx, userID, in)
}

func (l *Local) Orders(ctx context.Context) ([]usecase.OrderOutput, error) {
	userID, err := l.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return l.uc.Orders.ListOrders(ctx, userID)
}

func (l *Local) Order(ctx context.Context, id string) (usecase.OrderOutput, error) {
	userID, err := l.currentUser(ctx)
	if err != nil {
		return usecase.OrderOutput{}, err
	}
	return l.uc.Orders.GetOrder(ctx, userID, id)
}

func (l *Local) currentUser(ctx context.Context) (string, error) {
	var userID string
	found, err := l.store.Load(ctx, KeyCurrentUser, &userID)
	if err != nil {
		return "", err
	}
	if !found || userID == "" {
		return "", ErrNotSignedIn
	}
	return userID, nil
}
