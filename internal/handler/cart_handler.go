package handler

import (
	"net/http"

	"yoolivery/internal/config"
	"yoolivery/internal/middleware"
	"yoolivery/internal/repository"
	"yoolivery/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// quantity省略・0以下は1
type AddCartRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Quantity  int64  `json:"quantity"`
}

// quantity 0以下は削除
type UpdateCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Quantity  *int64 `json:"quantity" validate:"required"`
}

func (h *CartHandler) RegisterRoutes(g *echo.Group, cfg config.Config, userRepo repository.UserRepository) {
	cg := g.Group("/cart")
	cg.Use(middleware.AuthJWT(cfg))
	cg.Use(middleware.TokenVersionGuard(userRepo))

	cg.GET("", h.getCart)
	cg.POST("", h.addToCart)
	cg.PUT("/update", h.updateItem)
	cg.DELETE("/items/:productId", h.deleteItem)
	cg.DELETE("/clear", h.clear)
}

func (h *CartHandler) getCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req AddCartRequest
	if err := bindJSON(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	out, err := h.uc.AddItem(c.Request().Context(), userID, usecase.AddCartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req UpdateCartItemRequest
	if err := bindJSON(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	out, err := h.uc.SetQuantity(c.Request().Context(), userID, usecase.SetCartQuantityInput{
		ProductID: req.ProductID,
		Quantity:  *req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), userID, c.Param("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) clear(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.Clear(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
