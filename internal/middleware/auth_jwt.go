package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"yoolivery/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// echo.Contextに入れるキー
const (
	CtxUserIDKey       = "user_id"       // string
	CtxTokenVersionKey = "token_version" // int
)

var (
	errNoToken      = errors.New("Access token required")
	errMalformedHdr = errors.New("unauthorized")
	errBadToken     = errors.New("Invalid token")
)

// Authorization: Bearer <jwt> を検証し、sub と tv をContextに載せる。
// 失効（tvの比較）は TokenVersionGuard が見る
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	secret := []byte(cfg.JWTSecret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON(err.Error()))
			}

			userID, tv, err := parseAccessToken(raw, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON(errBadToken.Error()))
			}

			c.Set(CtxUserIDKey, userID)
			c.Set(CtxTokenVersionKey, tv)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errNoToken
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errMalformedHdr
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errNoToken
	}
	return token, nil
}

// HS256のみ。expはParseが見る
func parseAccessToken(raw string, secret []byte) (string, int, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", 0, errBadToken
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return "", 0, errBadToken
	}
	tv, err := claimInt(claims["tv"])
	if err != nil || tv < 0 {
		return "", 0, errBadToken
	}
	return userID, tv, nil
}

// JSON数値はfloat64で来る
func claimInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case string:
		i, err := strconv.ParseInt(n, 10, 32)
		return int(i), err
	default:
		return 0, errors.New("invalid int claim")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
