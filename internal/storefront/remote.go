package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"yoolivery/internal/domain/model"
	"yoolivery/internal/handler"
	"yoolivery/internal/infra/kvstore"
	"yoolivery/internal/usecase"
	auth "yoolivery/internal/usecase/auth_usecase"
)

// REST APIのクライアント。
// ログイン後のトークンは auth.token に保存し、Authorization: Bearer で送る。
// 通信エラーは再試行せずTransportエラーにする
type Remote struct {
	baseURL string
	client  *http.Client
	session kvstore.Accessor
}

var _ Backend = (*Remote)(nil)

// baseURLは "http://localhost:8080/api" のように/apiまで
func NewRemote(baseURL string, client *http.Client, session kvstore.Accessor) *Remote {
	if client == nil {
		client = http.DefaultClient
	}
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		session: session,
	}
}

type cartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	DOB          string `json:"dob"`
	AadhaarLast4 string `json:"aadhaar_last4"`
}

type profileRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

type orderRequest struct {
	Address       string `json:"address"`
	PaymentMethod string `json:"payment_method,omitempty"`
}

type userResponse struct {
	User auth.ProfileOutput `json:"user"`
}

func (r *Remote) ListProducts(ctx context.Context, in usecase.ListProductsInput) (usecase.ProductListOutput, error) {
	q := url.Values{}
	if in.Category != "" {
		q.Set("category", in.Category)
	}
	if in.Search != "" {
		q.Set("search", in.Search)
	}
	if in.Page > 0 {
		q.Set("page", strconv.Itoa(in.Page))
	}
	if in.Limit > 0 {
		q.Set("limit", strconv.Itoa(in.Limit))
	}
	path := "/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out usecase.ProductListOutput
	err := r.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (r *Remote) GetProduct(ctx context.Context, id string) (model.Product, error) {
	var out model.Product
	err := r.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (r *Remote) ListCategories(ctx context.Context) ([]usecase.CategoryOutput, error) {
	var out struct {
		Categories []usecase.CategoryOutput `json:"categories"`
	}
	err := r.do(ctx, http.MethodGet, "/categories", nil, &out)
	return out.Categories, err
}

func (r *Remote) Register(ctx context.Context, in auth.RegisterUserInput) (auth.ProfileOutput, error) {
	var out auth.AuthOutput
	err := r.do(ctx, http.MethodPost, "/auth/register", registerRequest{
		Name:         in.Name,
		Email:        in.Email,
		Password:     in.Password,
		Phone:        in.Phone,
		Address:      in.Address,
		DOB:          in.DOB,
		AadhaarLast4: in.AadhaarLast4,
	}, &out)
	if err != nil {
		return auth.ProfileOutput{}, err
	}
	if err := r.session.Save(ctx, KeyToken, out.Token); err != nil {
		return auth.ProfileOutput{}, err
	}
	return out.User, nil
}

func (r *Remote) Login(ctx context.Context, email string, password string) (bool, error) {
	var out auth.AuthOutput
	err := r.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &out)
	if ok, err := loginResult(err); !ok {
		return false, err
	}
	if err := r.session.Save(ctx, KeyToken, out.Token); err != nil {
		return false, err
	}
	return true, nil
}

// サーバー側でトークンを無効にしてから手元のトークンを消す。
// 既に無効（401）なら手元を消すだけ
func (r *Remote) Logout(ctx context.Context) error {
	err := r.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	if err != nil && usecase.KindOf(err) != usecase.KindAuth {
		return err
	}
	return r.session.Delete(ctx, KeyToken)
}

func (r *Remote) Profile(ctx context.Context) (auth.ProfileOutput, error) {
	var out userResponse
	err := r.do(ctx, http.MethodGet, "/user/profile", nil, &out)
	return out.User, err
}

func (r *Remote) UpdateProfile(ctx context.Context, in auth.UpdateProfileInput) (auth.ProfileOutput, error) {
	var out userResponse
	err := r.do(ctx, http.MethodPut, "/user/profile", profileRequest{
		Name:    in.Name,
		Phone:   in.Phone,
		Address: in.Address,
	}, &out)
	return out.User, err
}

func (r *Remote) Cart(ctx context.Context) (usecase.CartOutput, error) {
	var out usecase.CartOutput
	err := r.do(ctx, http.MethodGet, "/cart", nil, &out)
	return out, err
}

func (r *Remote) AddItem(ctx context.Context, productID string, quantity int64) (usecase.CartOutput, error) {
	var out usecase.CartOutput
	err := r.do(ctx, http.MethodPost, "/cart", cartRequest{ProductID: productID, Quantity: quantity}, &out)
	return out, err
}

func (r *Remote) SetQuantity(ctx context.Context, productID string, quantity int64) (usecase.CartOutput, error) {
	var out usecase.CartOutput
	err := r.do(ctx, http.MethodPut, "/cart/update", cartRequest{ProductID: productID, Quantity: quantity}, &out)
	return out, err
}

func (r *Remote) RemoveItem(ctx context.Context, productID string) (usecase.CartOutput, error) {
	var out usecase.CartOutput
	err := r.do(ctx, http.MethodDelete, "/cart/items/"+url.PathEscape(productID), nil, &out)
	return out, err
}

func (r *Remote) ClearCart(ctx context.Context) (usecase.CartOutput, error) {
	var out usecase.CartOutput
	err := r.do(ctx, http.MethodDelete, "/cart/clear", nil, &out)
	return out, err
}

func (r *Remote) Checkout(ctx context.Context, in usecase.PlaceOrderInput) (usecase.OrderOutput, error) {
	var out usecase.OrderOutput
	err := r.do(ctx, http.MethodPost, "/orders", orderRequest{
		Address:       in.Address,
		PaymentMethod: in.PaymentMethod,
	}, &out, handler.IdempotencyKeyHeader, in.IdempotencyKey)
	return out, err
}

func (r *Remote) Orders(ctx context.Context) ([]usecase.OrderOutput, error) {
	var out struct {
		Orders []usecase.OrderOutput `json:"orders"`
	}
	err := r.do(ctx, http.MethodGet, "/orders", nil, &out)
	return out.Orders, err
}

func (r *Remote) Order(ctx context.Context, id string) (usecase.OrderOutput, error) {
	var out usecase.OrderOutput
	err := r.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, &out)
	return out, err
}

// 1リクエスト送ってoutに読む。
// 4xx/5xxは {"error": "..."} をHTTPErrorにして返す
func (r *Remote) do(ctx context.Context, method string, path string, body any, out any, headers ...string) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		if headers[i+1] != "" {
			req.Header.Set(headers[i], headers[i+1])
		}
	}

	var token string
	if _, err := r.session.Load(ctx, KeyToken, &token); err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return usecase.NewTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return usecase.NewTransportError(err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var er handler.ErrorResponse
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(data, &er) == nil && er.Error != "" {
			msg = er.Error
		}
		return usecase.NewHTTPError(resp.StatusCode, msg)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
