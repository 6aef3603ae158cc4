package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *HealthHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/health", h.health)
}

func (h *HealthHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "OK", Timestamp: time.Now().UTC()})
}
