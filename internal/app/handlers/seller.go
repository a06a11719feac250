package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ecoswap/ecoswap/internal/auth/authmiddleware"
	"github.com/ecoswap/ecoswap/internal/lib/api"
	"github.com/ecoswap/ecoswap/internal/service"
)

// SellerDashboardHandler обрабатывает запрос GET /api/seller/dashboard
func SellerDashboardHandler(log *slog.Logger, sellerService service.SellerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SellerDashboardHandler"
		logger := log.With(slog.String("op", op))

		user, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		dashboard, err := sellerService.GetDashboard(r.Context(), user.ID)
		if err != nil {
			logger.Error("failed to get dashboard", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, dashboard); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
