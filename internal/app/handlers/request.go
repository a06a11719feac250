package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ecoswap/ecoswap/internal/auth/authmiddleware"
	"github.com/ecoswap/ecoswap/internal/lib/api"
	"github.com/ecoswap/ecoswap/internal/service"
)

// CreateRequestRequest представляет входной JSON заявки покупателя.
// requestedPrice опционален: покупатель может не предлагать свою цену.
type CreateRequestRequest struct {
	ItemName       string   `json:"itemName" validate:"required,min=2"`
	SellerID       int64    `json:"sellerId" validate:"required,gt=0"`
	Message        string   `json:"message"`
	PickupAddress  string   `json:"pickupAddress" validate:"required,min=5"`
	RequestedPrice *float64 `json:"requestedPrice,omitempty" validate:"omitempty,gt=0"`
}

// RequestStatusRequest представляет входной JSON решения продавца.
type RequestStatusRequest struct {
	Status        string   `json:"status" validate:"required,oneof=approved declined"`
	ApprovedPrice *float64 `json:"approvedPrice,omitempty" validate:"omitempty,gt=0"`
}

// CreateRequestHandler обрабатывает запрос POST /api/requests/create (только покупатель)
func CreateRequestHandler(log *slog.Logger, requestService service.RequestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateRequestHandler"
		logger := log.With(slog.String("op", op))

		user, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req CreateRequestRequest
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

		request, err := requestService.CreateRequest(r.Context(), user.ID, req.SellerID,
			req.ItemName, req.PickupAddress, req.Message, req.RequestedPrice)
		if err != nil {
			logger.Error("failed to create request", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.Created(w, request); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// BuyerRequestsHandler обрабатывает запрос GET /api/requests/buyer
func BuyerRequestsHandler(log *slog.Logger, requestService service.RequestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.BuyerRequestsHandler"
		logger := log.With(slog.String("op", op))

		user, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		requests, err := requestService.ListBuyerRequests(r.Context(), user.ID)
		if err != nil {
			logger.Error("failed to list buyer requests", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, requests); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// SellerRequestsHandler обрабатывает запрос GET /api/requests/seller
func SellerRequestsHandler(log *slog.Logger, requestService service.RequestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SellerRequestsHandler"
		logger := log.With(slog.String("op", op))

		user, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		requests, err := requestService.ListSellerRequests(r.Context(), user.ID)
		if err != nil {
			logger.Error("failed to list seller requests", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, requests); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// RequestStatusHandler обрабатывает запрос PUT /api/requests/{id}/status (продавец-владелец)
func RequestStatusHandler(log *slog.Logger, requestService service.RequestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RequestStatusHandler"
		logger := log.With(slog.String("op", op))

		user, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id, err := idParam(r, "id")
		if err != nil {
			api.Error(w, http.StatusBadRequest, "invalid request id")
			return
		}

		var req RequestStatusRequest
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

		request, err := requestService.UpdateRequestStatus(r.Context(), id, user.ID, req.Status, req.ApprovedPrice)
		if err != nil {
			logger.Error("failed to update request status", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, request); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// DeleteRequestHandler обрабатывает запрос DELETE /api/requests/{id} (покупатель-владелец)
func DeleteRequestHandler(log *slog.Logger, requestService service.RequestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteRequestHandler"
		logger := log.With(slog.String("op", op))

		user, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id, err := idParam(r, "id")
		if err != nil {
			api.Error(w, http.StatusBadRequest, "invalid request id")
			return
		}

		if err := requestService.DeleteRequest(r.Context(), id, user.ID); err != nil {
			logger.Error("failed to delete request", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, map[string]string{"message": "request deleted"}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
