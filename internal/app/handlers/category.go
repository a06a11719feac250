package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ecoswap/ecoswap/internal/lib/api"
	"github.com/ecoswap/ecoswap/internal/service"
)

// CategoryRequest представляет входной JSON категории.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
}

// ListCategoriesHandler обрабатывает запрос GET /api/categories
func ListCategoriesHandler(log *slog.Logger, categoryService service.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListCategoriesHandler"
		logger := log.With(slog.String("op", op))

		categories, err := categoryService.ListCategories(r.Context())
		if err != nil {
			logger.Error("failed to list categories", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, categories); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// CreateCategoryHandler обрабатывает запрос POST /api/categories (только админ)
func CreateCategoryHandler(log *slog.Logger, categoryService service.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateCategoryHandler"
		logger := log.With(slog.String("op", op))

		var req CategoryRequest
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

		category, err := categoryService.CreateCategory(r.Context(), req.Name, req.Description)
		if err != nil {
			logger.Error("failed to create category", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.Created(w, category); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// UpdateCategoryHandler обрабатывает запрос PUT /api/categories/{id} (только админ)
func UpdateCategoryHandler(log *slog.Logger, categoryService service.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateCategoryHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r, "id")
		if err != nil {
			api.Error(w, http.StatusBadRequest, "invalid category id")
			return
		}

		var req CategoryRequest
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

		category, err := categoryService.UpdateCategory(r.Context(), id, req.Name, req.Description)
		if err != nil {
			logger.Error("failed to update category", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, category); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// DeleteCategoryHandler обрабатывает запрос DELETE /api/categories/{id} (только админ)
func DeleteCategoryHandler(log *slog.Logger, categoryService service.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteCategoryHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r, "id")
		if err != nil {
			api.Error(w, http.StatusBadRequest, "invalid category id")
			return
		}

		if err := categoryService.DeleteCategory(r.Context(), id); err != nil {
			logger.Error("failed to delete category", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, map[string]string{"message": "category deleted"}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
