package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ecoswap/ecoswap/internal/domain/models"
	"github.com/ecoswap/ecoswap/internal/storage"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type ReviewService interface {
	CreateReview(ctx context.Context, buyerID, productID int64, orderID *int64, rating int, comment string) (*models.Review, error)
	ListProductReviews(ctx context.Context, productID int64) ([]*models.Review, error)
}

type reviewService struct {
	log         *slog.Logger
	reviewRepo  storage.ReviewStorage
	productRepo storage.ProductStorage
}

func NewReviewService(log *slog.Logger, reviewRepo storage.ReviewStorage, productRepo storage.ProductStorage) ReviewService {
	return &reviewService{
		log:         log,
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// CreateReview создает отзыв; товар должен существовать.
func (s *reviewService) CreateReview(ctx context.Context, buyerID, productID int64, orderID *int64, rating int, comment string) (*models.Review, error) {
	const op = "service.ReviewService.CreateReview"
	logger := s.log.With(slog.String("op", op), slog.Int64("buyerID", buyerID), slog.Int64("productID", productID))

	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidRating)
	}

	if _, err := s.productRepo.GetProductByID(ctx, productID); err != nil {
		logger.Warn("review for missing product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	review, err := s.reviewRepo.CreateReview(ctx, &models.Review{
		ProductID: productID,
		BuyerID:   buyerID,
		OrderID:   orderID,
		Rating:    rating,
		Comment:   comment,
	})
	if err != nil {
		logger.Error("failed to create review", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("review created", slog.Int64("reviewID", review.ID))
	return review, nil
}

func (s *reviewService) ListProductReviews(ctx context.Context, productID int64) ([]*models.Review, error) {
	const op = "service.ReviewService.ListProductReviews"
	reviews, err := s.reviewRepo.GetReviewsByProductID(ctx, productID)
	if err != nil {
		s.log.Error("failed to list reviews", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reviews, nil
}
