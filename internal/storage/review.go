package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ecoswap/ecoswap/internal/domain/models"
	"github.com/lib/pq"
)

// ReviewStorage описывает методы для работы с отзывами.
type ReviewStorage interface {
	CreateReview(ctx context.Context, review *models.Review) (*models.Review, error)
	GetReviewsByProductID(ctx context.Context, productID int64) ([]*models.Review, error)
}

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) ReviewStorage {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) CreateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO reviews (product_id, buyer_id, order_id, rating, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id, created_at`,
		review.ProductID, review.BuyerID, review.OrderID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" { // foreign_key_violation
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

func (r *reviewRepository) GetReviewsByProductID(ctx context.Context, productID int64) ([]*models.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rv.id, rv.product_id, rv.buyer_id, u.name, rv.order_id, rv.rating, rv.comment, rv.created_at
		 FROM reviews rv
		 JOIN users u ON rv.buyer_id = u.id
		 WHERE rv.product_id = $1
		 ORDER BY rv.created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review := &models.Review{}
		if err := rows.Scan(&review.ID, &review.ProductID, &review.BuyerID, &review.BuyerName,
			&review.OrderID, &review.Rating, &review.Comment, &review.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
