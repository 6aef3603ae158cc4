package server

import (
	"yoolivery/internal/config"
	"yoolivery/internal/handler"
	"yoolivery/internal/repository"

	"github.com/labstack/echo/v4"
)

// 全ハンドラ
type Handlers struct {
	Health  *handler.HealthHandler
	Product *handler.ProductHandler
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
}

// /api 配下に登録
func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	api := e.Group("/api")

	h.Health.RegisterRoutes(api)
	h.Product.RegisterRoutes(api)
	h.Auth.RegisterRoutes(api, cfg, userRepo)
	h.User.RegisterRoutes(api, cfg, userRepo)
	h.Cart.RegisterRoutes(api, cfg, userRepo)
	h.Order.RegisterRoutes(api, cfg, userRepo)
}
