package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ecoswap/ecoswap/internal/auth/authmiddleware"
	"github.com/ecoswap/ecoswap/internal/lib/api"
	"github.com/ecoswap/ecoswap/internal/service"
)

// ProductRequest представляет входной JSON объявления продавца.
type ProductRequest struct {
	CategoryID  int64   `json:"categoryId" validate:"required,gt=0"`
	Name        string  `json:"name" validate:"required,min=2"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Condition   string  `json:"condition" validate:"required"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,url"`
	Stock       int     `json:"stock" validate:"required,gt=0"`
}

func (p ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Condition:   p.Condition,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
	}
}

// ListProductsHandler обрабатывает запрос GET /api/products.
// Пагинация через page/limit, фильтры category и search опциональны.
func ListProductsHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		page := intQuery(r, "page", 1)
		limit := intQuery(r, "limit", 0)
		search := r.URL.Query().Get("search")

		var categoryID int64
		if raw := r.URL.Query().Get("category"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				api.Error(w, http.StatusBadRequest, "invalid category parameter")
				return
			}
			categoryID = id
		}

		result, err := productService.ListProducts(r.Context(), categoryID, search, page, limit)
		if err != nil {
			logger.Error("failed to list products", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, result); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// GetProductHandler обрабатывает запрос GET /api/products/{id}
func GetProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r, "id")
		if err != nil {
			api.Error(w, http.StatusBadRequest, "invalid product id")
			return
		}

		product, err := productService.GetProduct(r.Context(), id)
		if err != nil {
			logger.Error("failed to get product", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, product); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// SellerProductsHandler обрабатывает запрос GET /api/seller/products
func SellerProductsHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SellerProductsHandler"
		logger := log.With(slog.String("op", op))

		user, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		products, err := productService.ListSellerProducts(r.Context(), user.ID)
		if err != nil {
			logger.Error("failed to list seller products", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, products); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// CreateProductHandler обрабатывает запрос POST /api/products
func CreateProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateProductHandler"
		logger := log.With(slog.String("op", op))

		user, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req ProductRequest
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

		product, err := productService.CreateProduct(r.Context(), user.ID, req.toInput())
		if err != nil {
			logger.Error("failed to create product", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.Created(w, product); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// UpdateProductHandler обрабатывает запрос PUT /api/products/{id}
func UpdateProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateProductHandler"
		logger := log.With(slog.String("op", op))

		user, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id, err := idParam(r, "id")
		if err != nil {
			api.Error(w, http.StatusBadRequest, "invalid product id")
			return
		}

		var req ProductRequest
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

		product, err := productService.UpdateProduct(r.Context(), id, user.ID, req.toInput())
		if err != nil {
			logger.Error("failed to update product", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, product); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// DeleteProductHandler обрабатывает запрос DELETE /api/products/{id}
func DeleteProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteProductHandler"
		logger := log.With(slog.String("op", op))

		user, ok := authmiddleware.FromContext(r.Context())
		if !ok {
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id, err := idParam(r, "id")
		if err != nil {
			api.Error(w, http.StatusBadRequest, "invalid product id")
			return
		}

		if err := productService.DeleteProduct(r.Context(), id, user.ID); err != nil {
			logger.Error("failed to delete product", slog.Any("error", err))
			status, msg := statusFromError(err)
			api.Error(w, status, msg)
			return
		}

		if err := api.OK(w, map[string]string{"message": "product removed from catalog"}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
