package auth

import (
	"context"
	"time"
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID string, tokenVersion int, now time.Time) (token string, expiresAt time.Time, err error)
}

// 入力の検証（年齢・Aadhaar・email重複・長さの上限など）。
// 失敗はusecase.HTTPErrorで返す
type AccountValidator interface {
	ValidateRegister(ctx context.Context, in RegisterUserInput) error
	ValidateLogin(in LoginInput) error
	ValidateProfileUpdate(in UpdateProfileInput) error
}
