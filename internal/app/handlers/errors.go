package handlers

import (
	"errors"
	"net/http"

	"github.com/ecoswap/ecoswap/internal/service"
	"github.com/ecoswap/ecoswap/internal/storage"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// statusFromError переводит ошибки нижних слоев в HTTP-статус и сообщение.
// Три класса: 400 (невалидный запрос или нарушение бизнес-правила),
// 401/403 (аутентификация и доступ), 404 (запись отсутствует или не принадлежит
// вызывающему). Все остальное - 500 без деталей наружу.
func statusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, storage.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, storage.ErrCategoryNotFound):
		return http.StatusNotFound, "category not found"
	case errors.Is(err, storage.ErrOrderItemNotFound):
		return http.StatusNotFound, "order item not found"
	case errors.Is(err, storage.ErrRequestNotFound):
		return http.StatusNotFound, "request not found"
	case errors.Is(err, service.ErrSellerNotFound):
		return http.StatusNotFound, "seller not found"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, service.ErrUserInactive):
		return http.StatusForbidden, "account is deactivated"
	case errors.Is(err, storage.ErrEmailTaken):
		return http.StatusBadRequest, "email already registered"
	case errors.Is(err, storage.ErrCategoryTaken):
		return http.StatusBadRequest, "category name already exists"
	case errors.Is(err, service.ErrInvalidUserType):
		return http.StatusBadRequest, "invalid user type"
	case errors.Is(err, service.ErrEmptyOrder):
		return http.StatusBadRequest, "order has no items"
	case errors.Is(err, service.ErrInsufficientStock):
		return http.StatusBadRequest, "insufficient stock"
	case errors.Is(err, service.ErrProductUnavailable):
		return http.StatusBadRequest, "product is not available"
	case errors.Is(err, service.ErrInvalidStatusChange):
		return http.StatusBadRequest, "invalid status transition"
	case errors.Is(err, service.ErrInvalidRating):
		return http.StatusBadRequest, "rating must be between 1 and 5"
	case errors.Is(err, service.ErrInvalidRequestStatus):
		return http.StatusBadRequest, "status must be approved or declined"
	case errors.Is(err, service.ErrRequestNotPending):
		return http.StatusBadRequest, "only pending requests can be deleted"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
