package middleware

import (
	"errors"
	"net/http"

	"yoolivery/internal/repository"

	"github.com/labstack/echo/v4"
)

// AuthJWTの後ろに置く。
// ログアウトでtoken_versionが上がっていれば、古いトークンは "Token revoked"
func TokenVersionGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := UserID(c)
			tv, hasTV := c.Get(CtxTokenVersionKey).(int)
			if !ok || !hasTV || tv < 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			user, err := userRepo.FindByID(c.Request().Context(), userID)
			switch {
			case errors.Is(err, repository.ErrNotFound), err == nil && user == nil:
				// 削除済みのユーザー
				return c.JSON(http.StatusUnauthorized, errorJSON(errBadToken.Error()))
			case err != nil:
				c.Logger().Errorf("token version lookup: %v", err)
				return c.JSON(http.StatusUnauthorized, errorJSON(errBadToken.Error()))
			}

			if user.TokenVersion != tv {
				return c.JSON(http.StatusUnauthorized, errorJSON("Token revoked"))
			}
			return next(c)
		}
	}
}

// ハンドラ用。AuthJWTを通っていなければfalse
func UserID(c echo.Context) (string, bool) {
	id, ok := c.Get(CtxUserIDKey).(string)
	return id, ok && id != ""
}
