package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// HS256でアクセストークンを作る。
// sub=ユーザーID, tv=token_version
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), ttl: ttl}
}

func (i *JWTIssuer) Issue(userID string, tokenVersion int, now time.Time) (string, time.Time, error) {
	exp := now.Add(i.ttl)
	claims := jwt.MapClaims{
		"sub": userID,
		"tv":  tokenVersion,
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
