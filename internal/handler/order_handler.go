package handler

import (
	"net/http"

	"yoolivery/internal/config"
	"yoolivery/internal/middleware"
	"yoolivery/internal/repository"
	"yoolivery/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 同じキーの再送は最初の注文を返す
const IdempotencyKeyHeader = "X-Idempotency-Key"

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type PlaceOrderRequest struct {
	Address       string `json:"address" validate:"max=500"`
	PaymentMethod string `json:"payment_method" validate:"max=10"`
}

type ordersResponse struct {
	Orders []usecase.OrderOutput `json:"orders"`
}

func (h *OrderHandler) RegisterRoutes(g *echo.Group, cfg config.Config, userRepo repository.UserRepository) {
	og := g.Group("/orders")
	og.Use(middleware.AuthJWT(cfg))
	og.Use(middleware.TokenVersionGuard(userRepo))

	og.GET("", h.list)
	og.POST("", h.create)
	og.GET("/:id", h.detail)
}

func (h *OrderHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req PlaceOrderRequest
	if err := bindJSON(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), userID, usecase.PlaceOrderInput{
		Address:        req.Address,
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: c.Request().Header.Get(IdempotencyKeyHeader),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.ListOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ordersResponse{Orders: out})
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.GetOrder(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
