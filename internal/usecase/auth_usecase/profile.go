package auth

import (
	"context"
	"errors"
	"net/http"

	"yoolivery/internal/domain/model"
	"yoolivery/internal/repository"
	"yoolivery/internal/usecase"
)

// 部分更新。nilの項目は変えない。
// id・email・dob・aadhaar_last4 はここからは変えられない
type UpdateProfileInput struct {
	Name    *string
	Phone   *string
	Address *string
}

type ProfileUsecase struct {
	userRepo  repository.UserRepository
	validator AccountValidator
	clock     usecase.Clock
}

func NewProfileUsecase(userRepo repository.UserRepository, validator AccountValidator, clock usecase.Clock) *ProfileUsecase {
	return &ProfileUsecase{userRepo: userRepo, validator: validator, clock: clock}
}

func (u *ProfileUsecase) Get(ctx context.Context, userID string) (ProfileOutput, error) {
	user, err := u.find(ctx, userID)
	if err != nil {
		return ProfileOutput{}, err
	}
	return toProfileOutput(user), nil
}

// 渡された項目をマージする。見るのは長さの上限だけ
func (u *ProfileUsecase) Update(ctx context.Context, userID string, in UpdateProfileInput) (ProfileOutput, error) {
	if err := u.validator.ValidateProfileUpdate(in); err != nil {
		return ProfileOutput{}, err
	}
	user, err := u.find(ctx, userID)
	if err != nil {
		return ProfileOutput{}, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	user.UpdatedAt = u.clock.Now()

	if err := u.userRepo.Update(ctx, user); err != nil {
		return ProfileOutput{}, usecase.NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toProfileOutput(user), nil
}

func (u *ProfileUsecase) find(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, usecase.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, usecase.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return nil, usecase.NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return user, nil
}
