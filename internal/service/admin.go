package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ecoswap/ecoswap/internal/domain/models"
	"github.com/ecoswap/ecoswap/internal/storage"
)

const topSellersLimit = 5

// SellerTotals - агрегат по одному продавцу в отчете по комиссии.
type SellerTotals struct {
	SellerID        int64   `json:"seller_id"`
	TotalEarnings   float64 `json:"total_earnings"`
	TotalCommission float64 `json:"total_commission"`
}

// CommissionReport - сводный отчет по комиссии платформы.
// Пересчитывается на каждый запрос, кэша нет.
type CommissionReport struct {
	TotalCommission     float64         `json:"total_commission"`
	ThisMonthCommission float64         `json:"this_month_commission"`
	ThisWeekCommission  float64         `json:"this_week_commission"`
	TopSellers          []*SellerTotals `json:"top_sellers"`
}

// PlatformStats - счетчики для админской панели.
type PlatformStats struct {
	Users    int64 `json:"users"`
	Products int64 `json:"products"`
	Orders   int64 `json:"orders"`
}

type AdminService interface {
	GetCommissionReport(ctx context.Context) (*CommissionReport, error)
	GetStats(ctx context.Context) (*PlatformStats, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	SetUserActive(ctx context.Context, userID int64, active bool) error
}

type adminService struct {
	log         *slog.Logger
	userRepo    storage.UserStorage
	productRepo storage.ProductStorage
	orderRepo   storage.OrderStorage
	requestRepo storage.RequestStorage
}

func NewAdminService(log *slog.Logger, userRepo storage.UserStorage, productRepo storage.ProductStorage,
	orderRepo storage.OrderStorage, requestRepo storage.RequestStorage) AdminService {
	return &adminService{
		log:         log,
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		requestRepo: requestRepo,
	}
}

// GetCommissionReport складывает комиссию по всем одобренным заявкам.
// Заявки, одобренные без цены, в расчет не входят (ценовые поля пустые).
// thisMonth считается от первого числа текущего месяца, thisWeek - за последние 7 дней,
// обе границы по updated_at заявки.
func (s *adminService) GetCommissionReport(ctx context.Context) (*CommissionReport, error) {
	const op = "service.AdminService.GetCommissionReport"

	requests, err := s.requestRepo.ListApprovedRequests(ctx)
	if err != nil {
		s.log.Error("failed to list approved requests", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	weekStart := now.AddDate(0, 0, -7)

	report := &CommissionReport{TopSellers: []*SellerTotals{}}
	bySeller := make(map[int64]*SellerTotals)

	for _, req := range requests {
		if req.AdminCommission == nil || req.SellerEarnings == nil {
			continue
		}
		commission := *req.AdminCommission
		earnings := *req.SellerEarnings

		report.TotalCommission += commission
		if !req.UpdatedAt.Before(monthStart) {
			report.ThisMonthCommission += commission
		}
		if !req.UpdatedAt.Before(weekStart) {
			report.ThisWeekCommission += commission
		}

		totals, ok := bySeller[req.SellerID]
		if !ok {
			totals = &SellerTotals{SellerID: req.SellerID}
			bySeller[req.SellerID] = totals
		}
		totals.TotalEarnings += earnings
		totals.TotalCommission += commission
	}

	for _, totals := range bySeller {
		report.TopSellers = append(report.TopSellers, totals)
	}
	sort.Slice(report.TopSellers, func(i, j int) bool {
		return report.TopSellers[i].TotalEarnings > report.TopSellers[j].TotalEarnings
	})
	if len(report.TopSellers) > topSellersLimit {
		report.TopSellers = report.TopSellers[:topSellersLimit]
	}

	return report, nil
}

func (s *adminService) GetStats(ctx context.Context) (*PlatformStats, error) {
	const op = "service.AdminService.GetStats"

	users, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	products, err := s.productRepo.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	orders, err := s.orderRepo.CountOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &PlatformStats{Users: users, Products: products, Orders: orders}, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "service.AdminService.ListUsers"
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		s.log.Error("failed to list users", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// SetUserActive включает или выключает аккаунт. Деактивация - единственный
// механизм отзыва доступа: auth middleware отклонит токены выключенного пользователя.
func (s *adminService) SetUserActive(ctx context.Context, userID int64, active bool) error {
	const op = "service.AdminService.SetUserActive"
	if err := s.userRepo.SetUserActive(ctx, userID, active); err != nil {
		s.log.Error("failed to set user active flag", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user active flag updated", slog.String("op", op),
		slog.Int64("userID", userID), slog.Bool("active", active))
	return nil
}
