package handler

import (
	"net/http"

	"yoolivery/internal/config"
	"yoolivery/internal/middleware"
	"yoolivery/internal/repository"
	auth "yoolivery/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// /user/profile
type UserHandler struct {
	uc *auth.ProfileUsecase
}

func NewUserHandler(uc *auth.ProfileUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// 送られた項目だけ更新。email・dob・aadhaar_last4 は受け付けない。
// 長さの上限はusecaseで見る
type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type profileResponse struct {
	User auth.ProfileOutput `json:"user"`
}

func (h *UserHandler) RegisterRoutes(g *echo.Group, cfg config.Config, userRepo repository.UserRepository) {
	u := g.Group("/user")
	u.Use(middleware.AuthJWT(cfg))
	u.Use(middleware.TokenVersionGuard(userRepo))

	u.GET("/profile", h.get)
	u.PUT("/profile", h.update)
}

func (h *UserHandler) get(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, profileResponse{User: out})
}

func (h *UserHandler) update(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	out, err := h.uc.Update(c.Request().Context(), userID, auth.UpdateProfileInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, profileResponse{User: out})
}
