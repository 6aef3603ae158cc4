package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"yoolivery/internal/domain/model"
	"yoolivery/internal/repository"
	"yoolivery/internal/usecase"
)

// 会員登録の入力
type RegisterUserInput struct {
	Name         string
	Email        string
	Password     string
	Phone        string
	Address      string
	DOB          string // YYYY-MM-DD
	AadhaarLast4 string
}

// RegisterUserUsecaseは会員登録の処理。
// 成功したらそのままログイン状態にする（トークンを返す）。
type RegisterUserUsecase struct {
	userRepo  repository.UserRepository
	validator AccountValidator
	hasher    PasswordHasher
	issuer    AccessTokenIssuer
	idGen     usecase.IDGenerator
	clock     usecase.Clock
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	validator AccountValidator,
	hasher PasswordHasher,
	issuer AccessTokenIssuer,
	idGen usecase.IDGenerator,
	clock usecase.Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo:  userRepo,
		validator: validator,
		hasher:    hasher,
		issuer:    issuer,
		idGen:     idGen,
		clock:     clock,
	}
}

var errEmailTaken = usecase.NewHTTPError(http.StatusConflict, "Email already registered")

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (AuthOutput, error) {
	var out AuthOutput

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.DOB = strings.TrimSpace(in.DOB)
	in.AadhaarLast4 = strings.TrimSpace(in.AadhaarLast4)

	// 入力検証（21歳以上・Aadhaar・email重複）
	if err := u.validator.ValidateRegister(ctx, in); err != nil {
		return out, err
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, usecase.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	now := u.clock.Now()
	user := &model.User{
		ID:              u.idGen.NewID(),
		Name:            in.Name,
		Email:           in.Email,
		EmailNormalized: model.NormalizeEmail(in.Email),
		PasswordHash:    hashed, // ハッシュを保存（平文は保存しない）
		Phone:           strings.TrimSpace(in.Phone),
		Address:         strings.TrimSpace(in.Address),
		DOB:             in.DOB,
		AadhaarLast4:    in.AadhaarLast4,
		TokenVersion:    0,
		LastLoginAt:     &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// 保存（同時登録でvalidatorをすり抜けた重複もここで409）
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return out, errEmailTaken
		}
		return out, usecase.NewHTTPError(http.StatusInternalServerError, "db error")
	}

	token, exp, err := u.issuer.Issue(user.ID, user.TokenVersion, now)
	if err != nil {
		return out, usecase.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	out.User = toProfileOutput(user)
	out.Token = token
	out.ExpiresIn = int(exp.Sub(now).Seconds())
	return out, nil
}
