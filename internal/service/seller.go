package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ecoswap/ecoswap/internal/storage"
)

// SellerDashboard - сводка заработка продавца из двух независимых источников:
// доставленные позиции заказов (quantity * price) и одобренные заявки (sellerEarnings).
type SellerDashboard struct {
	OrderRevenue    float64 `json:"order_revenue"`
	RequestEarnings float64 `json:"request_earnings"`
	TotalEarnings   float64 `json:"total_earnings"`
}

type SellerService interface {
	GetDashboard(ctx context.Context, sellerID int64) (*SellerDashboard, error)
}

type sellerService struct {
	log         *slog.Logger
	orderRepo   storage.OrderStorage
	requestRepo storage.RequestStorage
}

func NewSellerService(log *slog.Logger, orderRepo storage.OrderStorage, requestRepo storage.RequestStorage) SellerService {
	return &sellerService{
		log:         log,
		orderRepo:   orderRepo,
		requestRepo: requestRepo,
	}
}

func (s *sellerService) GetDashboard(ctx context.Context, sellerID int64) (*SellerDashboard, error) {
	const op = "service.SellerService.GetDashboard"
	logger := s.log.With(slog.String("op", op), slog.Int64("sellerID", sellerID))

	orderRevenue, err := s.orderRepo.SumDeliveredBySeller(ctx, sellerID)
	if err != nil {
		logger.Error("failed to sum delivered items", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	requestEarnings, err := s.requestRepo.SumApprovedEarningsBySeller(ctx, sellerID)
	if err != nil {
		logger.Error("failed to sum request earnings", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &SellerDashboard{
		OrderRevenue:    orderRevenue,
		RequestEarnings: requestEarnings,
		TotalEarnings:   orderRevenue + requestEarnings,
	}, nil
}
