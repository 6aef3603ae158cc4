package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"yoolivery/internal/config"
	"yoolivery/internal/handler"
	"yoolivery/internal/middleware"
	"yoolivery/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

// ミドルウェアとルートを載せたechoを返す
func New(cfg config.Config, log *slog.Logger, userRepo repository.UserRepository, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.FEURL},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, handler.IdempotencyKeyHeader},
	}))
	e.Use(echomw.BodyLimit("1M"))

	RegisterRoutes(e, cfg, userRepo, h)
	return e
}

// ctxが終わるまで動かす。終わったら受付中のリクエストを待って止める
func Start(ctx context.Context, e *echo.Echo, addr string, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
