package handler

import (
	"net/http"

	"yoolivery/internal/config"
	"yoolivery/internal/middleware"
	"yoolivery/internal/repository"
	auth "yoolivery/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase        // ログインusecase
	logoutUC   *auth.LogoutUsecase
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	logoutUC *auth.LogoutUsecase,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		logoutUC:   logoutUC,
	}
}

// /auth/register のリクエストボディ。
// 長さ・年齢・Aadhaarなどの中身はusecase側で見る（CLIのローカル動作と同じルール）
type RegisterRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	DOB          string `json:"dob"`
	AadhaarLast4 string `json:"aadhaar_last4"`
}

// /auth/login のリクエストボディ。
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) RegisterRoutes(g *echo.Group, cfg config.Config, userRepo repository.UserRepository) {
	a := g.Group("/auth")
	a.POST("/register", h.register)
	a.POST("/login", h.login)
	a.POST("/logout", h.logout, middleware.AuthJWT(cfg), middleware.TokenVersionGuard(userRepo))
}

// POST /auth/register
func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Phone:        req.Phone,
		Address:      req.Address,
		DOB:          req.DOB,
		AadhaarLast4: req.AadhaarLast4,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// POST /auth/login
func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /auth/logout（発行済みトークンを全部無効に）
func (h *AuthHandler) logout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.logoutUC.Execute(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}
