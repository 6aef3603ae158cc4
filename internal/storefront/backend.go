// Package storefront はCLIから見た店の操作。
// 同じプロセスで動かす Local と、REST APIを呼ぶ Remote がある。
package storefront

import (
	"context"
	"errors"
	"net/http"

	"yoolivery/internal/domain/model"
	"yoolivery/internal/usecase"
	auth "yoolivery/internal/usecase/auth_usecase"
)

// セッションを保存するキー
const (
	KeyCurrentUser = "auth.currentUser"
	KeyToken       = "auth.token"
)

// ログインしていない
var ErrNotSignedIn = usecase.NewHTTPError(http.StatusUnauthorized, "Please log in")

// 1セッション分の操作。LocalとRemoteは同じDTOを返す
type Backend interface {
	ListProducts(ctx context.Context, in usecase.ListProductsInput) (usecase.ProductListOutput, error)
	GetProduct(ctx context.Context, id string) (model.Product, error)
	ListCategories(ctx context.Context) ([]usecase.CategoryOutput, error)

	// 成功したらそのままログイン状態
	Register(ctx context.Context, in auth.RegisterUserInput) (auth.ProfileOutput, error)
	// メール・パスワード違いは (false, nil)
	Login(ctx context.Context, email string, password string) (bool, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (auth.ProfileOutput, error)
	UpdateProfile(ctx context.Context, in auth.UpdateProfileInput) (auth.ProfileOutput, error)

	Cart(ctx context.Context) (usecase.CartOutput, error)
	AddItem(ctx context.Context, productID string, quantity int64) (usecase.CartOutput, error)
	SetQuantity(ctx context.Context, productID string, quantity int64) (usecase.CartOutput, error)
	RemoveItem(ctx context.Context, productID string) (usecase.CartOutput, error)
	ClearCart(ctx context.Context) (usecase.CartOutput, error)

	Checkout(ctx context.Context, in usecase.PlaceOrderInput) (usecase.OrderOutput, error)
	Orders(ctx context.Context) ([]usecase.OrderOutput, error)
	Order(ctx context.Context, id string) (usecase.OrderOutput, error)
}

// エラーを受けたクライアントがすること
type Action int

const (
	ActionNone Action = iota
	ActionRelogin
	ActionShowMessage
	ActionRetry
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionRelogin:
		return "relogin"
	case ActionShowMessage:
		return "show_message"
	default:
		return "retry"
	}
}

// 401/403は再ログイン、400はメッセージ表示、それ以外は再試行
func ActionFor(err error) Action {
	if err == nil {
		return ActionNone
	}
	switch usecase.KindOf(err) {
	case usecase.KindAuth:
		return ActionRelogin
	case usecase.KindValidation:
		return ActionShowMessage
	default:
		return ActionRetry
	}
}

// 利用者に見せる文言
func Message(err error) string {
	if he, ok := usecase.AsHTTPError(err); ok {
		return he.Message
	}
	return err.Error()
}

// ログイン失敗を (false, nil) にする
func loginResult(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return false, nil
	}
	if he, ok := usecase.AsHTTPError(err); ok && he.Status == http.StatusUnauthorized {
		return false, nil
	}
	return false, err
}
