package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ecoswap/ecoswap/internal/auth/authmiddleware"
	"github.com/ecoswap/ecoswap/internal/lib/api"
	"github.com/ecoswap/ecoswap/internal/service"
)

// CheckoutRequest представляет входной JSON оформления заказа.
type CheckoutRequest struct {
	Items []struct {
		ProductID int64 `json:"productId" validate:"required,gt=0"`
		Quantity  int   `json:"quantity" validate:"required,gt=0"`
	} `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string `json:"shippingAddress" validate:"required,min=5"`
}

// OrderItemStatusRequest представляет входной JSON смены статуса позиции.
type OrderItemStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=shipped delivered cancelled"`
}

// CheckoutHandler обрабатывает запрос POST /api/orders (только покупатель)
func CheckoutHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutHandler"
		logger := log.With(slog.String("op", op))

		user, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "validation error")
			return
		}

		items := make([]service.OrderItemInput, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, service.OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
		}

		order, err := orderService.Checkout(r.Context(), user.ID, items, req.ShippingAddress)
		if err != nil {
			logger.Error("checkout failed", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.Created(w, order); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// BuyerOrdersHandler обрабатывает запрос GET /api/orders/buyer
func BuyerOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.BuyerOrdersHandler"
		logger := log.With(slog.String("op", op))

		user, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		orders, err := orderService.ListBuyerOrders(r.Context(), user.ID)
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, orders); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// SellerOrdersHandler обрабатывает запрос GET /api/orders/seller
func SellerOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SellerOrdersHandler"
		logger := log.With(slog.String("op", op))

		user, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := orderService.ListSellerItems(r.Context(), user.ID)
		if err != nil {
			logger.Error("failed to list seller items", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, items); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// OrderItemStatusHandler обрабатывает запрос PUT /api/orders/items/{id}/status (только продавец)
func OrderItemStatusHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderItemStatusHandler"
		logger := log.With(slog.String("op", op))

		user, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id, err := idParam(r, "id")
		if err != nil {
			api.Error(w, http.StatusBadRequest, "invalid order item id")
			return
		}

		var req OrderItemStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "validation error")
			return
		}

		if err := orderService.UpdateItemStatus(r.Context(), id, user.ID, req.Status); err != nil {
			logger.Error("failed to update item status", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, map[string]string{"message": "status updated"}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
