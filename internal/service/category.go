package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ecoswap/ecoswap/internal/domain/models"
	"github.com/ecoswap/ecoswap/internal/storage"
)

// CategoryService - справочник категорий: чтение публичное, запись только для админа
// (роль проверяется на уровне маршрутов).
type CategoryService interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	CreateCategory(ctx context.Context, name, description string) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, name, description string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type categoryService struct {
	log          *slog.Logger
	categoryRepo storage.CategoryStorage
}

func NewCategoryService(log *slog.Logger, categoryRepo storage.CategoryStorage) CategoryService {
	return &categoryService{log: log, categoryRepo: categoryRepo}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	const op = "service.CategoryService.ListCategories"
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		s.log.Error("failed to list categories", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return categories, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	const op = "service.CategoryService.CreateCategory"
	category, err := s.categoryRepo.CreateCategory(ctx, &models.Category{Name: name, Description: description})
	if err != nil {
		s.log.Error("failed to create category", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("category created", slog.String("op", op), slog.Int64("categoryID", category.ID))
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id int64, name, description string) (*models.Category, error) {
	const op = "service.CategoryService.UpdateCategory"
	category := &models.Category{ID: id, Name: name, Description: description}
	if err := s.categoryRepo.UpdateCategory(ctx, category); err != nil {
		s.log.Error("failed to update category", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	const op = "service.CategoryService.DeleteCategory"
	if err := s.categoryRepo.DeleteCategory(ctx, id); err != nil {
		s.log.Error("failed to delete category", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
