package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// handlerまで運ぶエラー。Statusがそのままレスポンスになる
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// エラーの種類
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindAuth       ErrorKind = "auth"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindTransport  ErrorKind = "transport"
	KindInternal   ErrorKind = "internal"
)

// 通信できなかったとき（クライアント側だけで使う）
const StatusTransport = http.StatusBadGateway

func NewTransportError(err error) error {
	return &HTTPError{Status: StatusTransport, Message: fmt.Sprintf("could not reach server: %v", err)}
}

func (e *HTTPError) Kind() ErrorKind {
	switch {
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return KindValidation
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return KindAuth
	case e.Status == http.StatusNotFound:
		return KindNotFound
	case e.Status == http.StatusConflict:
		return KindConflict
	case e.Status == StatusTransport:
		return KindTransport
	default:
		return KindInternal
	}
}

// HTTPError以外はInternal
func KindOf(err error) ErrorKind {
	if he, ok := AsHTTPError(err); ok {
		return he.Kind()
	}
	return KindInternal
}

var (
	errUnauthorized = NewHTTPError(http.StatusUnauthorized, "unauthorized")
	errDB           = NewHTTPError(http.StatusInternalServerError, "db error")
)
