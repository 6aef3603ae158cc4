package auth

import (
	"context"
	"errors"
	"net/http"

	"yoolivery/internal/repository"
	"yoolivery/internal/usecase"
)

// token_versionを上げて、発行済みトークンをすべて無効にする
type LogoutUsecase struct {
	userRepo repository.UserRepository
}

func NewLogoutUsecase(userRepo repository.UserRepository) *LogoutUsecase {
	return &LogoutUsecase{userRepo: userRepo}
}

func (u *LogoutUsecase) Execute(ctx context.Context, userID string) error {
	if userID == "" {
		return usecase.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	err := u.userRepo.IncrementTokenVersion(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return usecase.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return usecase.NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
