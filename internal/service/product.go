package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ecoswap/ecoswap/internal/domain/models"
	"github.com/ecoswap/ecoswap/internal/storage"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ProductInput - данные объявления от продавца.
type ProductInput struct {
	CategoryID  int64
	Name        string
	Description string
	Price       float64
	Condition   string
	ImageURL    string
	Stock       int
}

// ProductPage - страница каталога с данными для пагинации.
type ProductPage struct {
	Products []*models.Product `json:"products"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

type ProductService interface {
	ListProducts(ctx context.Context, categoryID int64, search string, page, limit int) (*ProductPage, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListSellerProducts(ctx context.Context, sellerID int64) ([]*models.Product, error)
	CreateProduct(ctx context.Context, sellerID int64, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id, sellerID int64, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id, sellerID int64) error
}

type productService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
}

func NewProductService(log *slog.Logger, productRepo storage.ProductStorage) ProductService {
	return &productService{log: log, productRepo: productRepo}
}

// ListProducts возвращает страницу каталога. Номера страниц с единицы,
// limit ограничен сверху, offset вычисляется из номера страницы.
func (s *productService) ListProducts(ctx context.Context, categoryID int64, search string, page, limit int) (*ProductPage, error) {
	const op = "service.ProductService.ListProducts"

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := storage.ProductFilter{
		CategoryID: categoryID,
		Search:     search,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}
	products, total, err := s.productRepo.ListProducts(ctx, filter)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if products == nil {
		products = []*models.Product{}
	}

	return &ProductPage{
		Products: products,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

func (s *productService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "service.ProductService.GetProduct"
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}

func (s *productService) ListSellerProducts(ctx context.Context, sellerID int64) ([]*models.Product, error) {
	const op = "service.ProductService.ListSellerProducts"
	products, err := s.productRepo.ListProductsBySeller(ctx, sellerID)
	if err != nil {
		s.log.Error("failed to list seller products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func (s *productService) CreateProduct(ctx context.Context, sellerID int64, input ProductInput) (*models.Product, error) {
	const op = "service.ProductService.CreateProduct"
	logger := s.log.With(slog.String("op", op), slog.Int64("sellerID", sellerID))

	product, err := s.productRepo.CreateProduct(ctx, &models.Product{
		SellerID:    sellerID,
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Condition:   input.Condition,
		ImageURL:    input.ImageURL,
		Stock:       input.Stock,
	})
	if err != nil {
		logger.Error("failed to create product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product created", slog.Int64("productID", product.ID))
	return product, nil
}

// UpdateProduct обновляет объявление; чужое объявление выглядит как отсутствующее.
func (s *productService) UpdateProduct(ctx context.Context, id, sellerID int64, input ProductInput) (*models.Product, error) {
	const op = "service.ProductService.UpdateProduct"

	product := &models.Product{
		ID:          id,
		SellerID:    sellerID,
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Condition:   input.Condition,
		ImageURL:    input.ImageURL,
		Stock:       input.Stock,
	}
	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.productRepo.GetProductByID(ctx, id)
}

func (s *productService) DeleteProduct(ctx context.Context, id, sellerID int64) error {
	const op = "service.ProductService.DeleteProduct"
	if err := s.productRepo.DeactivateProduct(ctx, id, sellerID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("product deactivated", slog.String("op", op), slog.Int64("productID", id))
	return nil
}
