package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ecoswap/ecoswap/internal/domain/models"
	"github.com/ecoswap/ecoswap/internal/lib/api"
	"github.com/ecoswap/ecoswap/internal/service"
)

// UserResponse - представление пользователя в админских ответах, без хэша пароля.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	UserType  string    `json:"user_type"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserActiveRequest представляет входной JSON включения/выключения аккаунта.
type UserActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		UserType:  user.UserType,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// CommissionHandler обрабатывает запрос GET /api/admin/commission
func CommissionHandler(log *slog.Logger, adminService service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CommissionHandler"
		logger := log.With(slog.String("op", op))

		report, err := adminService.GetCommissionReport(r.Context())
		if err != nil {
			logger.Error("failed to build commission report", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, report); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// StatsHandler обрабатывает запрос GET /api/admin/stats
func StatsHandler(log *slog.Logger, adminService service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.StatsHandler"
		logger := log.With(slog.String("op", op))

		stats, err := adminService.GetStats(r.Context())
		if err != nil {
			logger.Error("failed to get stats", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, stats); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// ListUsersHandler обрабатывает запрос GET /api/admin/users
func ListUsersHandler(log *slog.Logger, adminService service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListUsersHandler"
		logger := log.With(slog.String("op", op))

		users, err := adminService.ListUsers(r.Context())
		if err != nil {
			logger.Error("failed to list users", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		resp := make([]UserResponse, 0, len(users))
		for _, user := range users {
			resp = append(resp, toUserResponse(user))
		}

		if err := api.OK(w, resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// UserActiveHandler обрабатывает запрос PUT /api/admin/users/{id}/active
func UserActiveHandler(log *slog.Logger, adminService service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UserActiveHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r, "id")
		if err != nil {
			api.Error(w, http.StatusBadRequest, "invalid user id")
			return
		}

		var req UserActiveRequest
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

		if err := adminService.SetUserActive(r.Context(), id, *req.IsActive); err != nil {
			logger.Error("failed to update user", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, map[string]string{"message": "user updated"}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
