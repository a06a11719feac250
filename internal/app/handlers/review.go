package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ecoswap/ecoswap/internal/auth/authmiddleware"
	"github.com/ecoswap/ecoswap/internal/lib/api"
	"github.com/ecoswap/ecoswap/internal/service"
)

// ReviewRequest представляет входной JSON отзыва.
type ReviewRequest struct {
	ProductID int64  `json:"productId" validate:"required,gt=0"`
	OrderID   *int64 `json:"orderId,omitempty" validate:"omitempty,gt=0"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// CreateReviewHandler обрабатывает запрос POST /api/reviews (только покупатель)
func CreateReviewHandler(log *slog.Logger, reviewService service.ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateReviewHandler"
		logger := log.With(slog.String("op", op))

		user, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req ReviewRequest
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

		review, err := reviewService.CreateReview(r.Context(), user.ID, req.ProductID, req.OrderID, req.Rating, req.Comment)
		if err != nil {
			logger.Error("failed to create review", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.Created(w, review); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// ProductReviewsHandler обрабатывает запрос GET /api/products/{id}/reviews
func ProductReviewsHandler(log *slog.Logger, reviewService service.ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductReviewsHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r, "id")
		if err != nil {
			api.Error(w, http.StatusBadRequest, "invalid product id")
			return
		}

		reviews, err := reviewService.ListProductReviews(r.Context(), id)
		if err != nil {
			logger.Error("failed to list reviews", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, reviews); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
