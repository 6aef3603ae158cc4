package handler

import (
	"log/slog"
	"net/http"

	"yoolivery/internal/middleware"
	"yoolivery/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// usecaseのエラーをレスポンスに変換
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError {
			slog.ErrorContext(c.Request().Context(), "request failed", "path", c.Path(), "error", err)
		}
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	slog.ErrorContext(c.Request().Context(), "unexpected error", "path", c.Path(), "error", err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func getUserIDFromContext(c echo.Context) (string, bool) {
	return middleware.UserID(c)
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
}
