package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"yoolivery/internal/repository"
	"yoolivery/internal/usecase"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string
	Password string
}

// メールまたはパスワードが違う
var ErrInvalidCredentials = usecase.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")

type LoginUsecase struct {
	userRepo  repository.UserRepository
	validator AccountValidator
	verifier  PasswordVerifier
	issuer    AccessTokenIssuer
	clock     usecase.Clock
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	validator AccountValidator,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock usecase.Clock,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo:  userRepo,
		validator: validator,
		verifier:  verifier,
		issuer:    issuer,
		clock:     clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (AuthOutput, error) {
	var out AuthOutput

	if err := u.validator.ValidateLogin(in); err != nil {
		return out, err
	}
	email := strings.TrimSpace(in.Email)

	//emailでユーザー取得（大文字小文字は区別しない）
	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, ErrInvalidCredentials
		}
		return out, usecase.NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return out, ErrInvalidCredentials
	}

	//AccessToken発行
	now := u.clock.Now()
	token, exp, err := u.issuer.Issue(user.ID, user.TokenVersion, now)
	if err != nil {
		return out, usecase.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	//最終ログイン時刻更新
	user.LastLoginAt = &now
	if err := u.userRepo.Update(ctx, user); err != nil {
		return out, usecase.NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out.User = toProfileOutput(user)
	out.Token = token
	out.ExpiresIn = int(exp.Sub(now).Seconds())
	return out, nil
}
