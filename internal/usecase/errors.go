package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// handlerはerrors.Isでこれらを見て、リダイレクト先やステータスを決める
var (
	//ログインしていない
	ErrUnauthenticated = errors.New("unauthenticated")
	//カートが空
	ErrEmptyCart = errors.New("empty cart")
	//商品・注文などが無い
	ErrNotFound = errors.New("not found")
	//在庫不足（トランザクションは全部戻る）
	ErrInsufficientStock = errors.New("insufficient stock")
	//条件付き更新で負けた
	ErrConflict = errors.New("conflict")
	//403　権限
	ErrForbidden = errors.New("forbidden")
	//400 入力不足
	ErrValidation = errors.New("validation error")
	//500
	ErrInternal = errors.New("internal error")
)

type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.Err }

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Err:     kindOf(status),
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func kindOf(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthenticated
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusBadRequest:
		return ErrValidation
	default:
		return ErrInternal
	}
}

func errUnauthenticated() error {
	return NewHTTPError(http.StatusUnauthorized, "unauthenticated")
}

func errEmptyCart() error {
	return &HTTPError{Status: http.StatusBadRequest, Message: "cart is empty", Err: ErrEmptyCart}
}

func errNotFound(what string) error {
	return NewHTTPError(http.StatusNotFound, what+" not found")
}

func errInsufficientStock(productName string) error {
	return &HTTPError{
		Status:  http.StatusConflict,
		Message: "insufficient stock for " + productName,
		Err:     ErrInsufficientStock,
	}
}

func errValidation(msg string) error {
	return NewHTTPError(http.StatusBadRequest, msg)
}

// 想定外のDBエラーはログに残して500にする
func dbError(ctx context.Context, op string, err error) error {
	slog.ErrorContext(ctx, "db error", "op", op, "err", err)
	return NewHTTPError(http.StatusInternalServerError, "db error")
}

// WithinTxの中で作ったHTTPErrorはそのまま返し、それ以外はdb errorにする
func txError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	return dbError(ctx, op, err)
}
