package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ecoswap/ecoswap/internal/domain/models"
	"github.com/ecoswap/ecoswap/internal/storage"
)

var (
	ErrInvalidRequestStatus = errors.New("status must be approved or declined")
	ErrRequestNotPending    = errors.New("only pending requests can be deleted")
	ErrSellerNotFound       = errors.New("seller not found")
)

type RequestService interface {
	CreateRequest(ctx context.Context, buyerID, sellerID int64, itemName, pickupAddress, message string, requestedPrice *float64) (*models.Request, error)
	ListBuyerRequests(ctx context.Context, buyerID int64) ([]*models.Request, error)
	ListSellerRequests(ctx context.Context, sellerID int64) ([]*models.Request, error)
	UpdateRequestStatus(ctx context.Context, requestID, sellerID int64, newStatus string, approvedPrice *float64) (*models.Request, error)
	DeleteRequest(ctx context.Context, requestID, buyerID int64) error
}

type requestService struct {
	log         *slog.Logger
	requestRepo storage.RequestStorage
	userRepo    storage.UserStorage
}

func NewRequestService(log *slog.Logger, requestRepo storage.RequestStorage, userRepo storage.UserStorage) RequestService {
	return &requestService{
		log:         log,
		requestRepo: requestRepo,
		userRepo:    userRepo,
	}
}

// CreateRequest создает заявку в статусе pending. Никаких вычислений цены
// на этом шаге нет, requestedPrice сохраняется как есть (может быть nil).
func (s *requestService) CreateRequest(ctx context.Context, buyerID, sellerID int64, itemName, pickupAddress, message string, requestedPrice *float64) (*models.Request, error) {
	const op = "service.RequestService.CreateRequest"
	logger := s.log.With(slog.String("op", op), slog.Int64("buyerID", buyerID), slog.Int64("sellerID", sellerID))

	seller, err := s.userRepo.GetUserByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrSellerNotFound)
		}
		logger.Error("failed to get seller", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if seller.UserType != models.UserTypeSeller {
		return nil, fmt.Errorf("%s: %w", op, ErrSellerNotFound)
	}

	request, err := s.requestRepo.CreateRequest(ctx, &models.Request{
		BuyerID:        buyerID,
		SellerID:       sellerID,
		ItemName:       itemName,
		Message:        message,
		PickupAddress:  pickupAddress,
		RequestedPrice: requestedPrice,
		Status:         models.RequestStatusPending,
	})
	if err != nil {
		logger.Error("failed to create request", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("request created", slog.Int64("requestID", request.ID))
	return request, nil
}

func (s *requestService) ListBuyerRequests(ctx context.Context, buyerID int64) ([]*models.Request, error) {
	const op = "service.RequestService.ListBuyerRequests"
	requests, err := s.requestRepo.GetRequestsByBuyerID(ctx, buyerID)
	if err != nil {
		s.log.Error("failed to list buyer requests", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return requests, nil
}

func (s *requestService) ListSellerRequests(ctx context.Context, sellerID int64) ([]*models.Request, error) {
	const op = "service.RequestService.ListSellerRequests"
	requests, err := s.requestRepo.GetRequestsBySellerID(ctx, sellerID)
	if err != nil {
		s.log.Error("failed to list seller requests", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return requests, nil
}

// UpdateRequestStatus выполняет переход статуса заявки продавцом.
//
// Правила расчета комиссии:
//   - approved + переданная цена: approvedPrice сохраняется,
//     adminCommission = 10% цены, sellerEarnings = 90% цены;
//   - approved без цены: статус меняется, ценовые поля не трогаются;
//   - если заявка УЖЕ approved и передана новая цена, комиссия пересчитывается
//     и перезаписывается независимо от newStatus (коррекция цены);
//   - declined: меняется только статус.
func (s *requestService) UpdateRequestStatus(ctx context.Context, requestID, sellerID int64, newStatus string, approvedPrice *float64) (*models.Request, error) {
	const op = "service.RequestService.UpdateRequestStatus"
	logger := s.log.With(slog.String("op", op), slog.Int64("requestID", requestID),
		slog.Int64("sellerID", sellerID), slog.String("newStatus", newStatus))

	if newStatus != models.RequestStatusApproved && newStatus != models.RequestStatusDeclined {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidRequestStatus)
	}

	request, err := s.requestRepo.GetRequestForSeller(ctx, requestID, sellerID)
	if err != nil {
		if errors.Is(err, storage.ErrRequestNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Error("failed to get request", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var price, commission, earnings *float64
	recompute := newStatus == models.RequestStatusApproved ||
		request.Status == models.RequestStatusApproved
	if approvedPrice != nil && recompute {
		c := *approvedPrice * models.CommissionRate
		e := *approvedPrice * models.SellerEarningsRate
		price, commission, earnings = approvedPrice, &c, &e
		logger.Info("commission computed",
			slog.Float64("approvedPrice", *approvedPrice),
			slog.Float64("adminCommission", c),
			slog.Float64("sellerEarnings", e),
		)
	}

	if err := s.requestRepo.UpdateRequestStatus(ctx, requestID, newStatus, price, commission, earnings); err != nil {
		logger.Error("failed to update request status", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.requestRepo.GetRequestForSeller(ctx, requestID, sellerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("request status updated")
	return updated, nil
}

// DeleteRequest удаляет заявку владельца-покупателя.
// Удалять можно только pending: одобренные и отклоненные заявки уже
// являются частью расчетов с продавцом.
func (s *requestService) DeleteRequest(ctx context.Context, requestID, buyerID int64) error {
	const op = "service.RequestService.DeleteRequest"
	logger := s.log.With(slog.String("op", op), slog.Int64("requestID", requestID), slog.Int64("buyerID", buyerID))

	request, err := s.requestRepo.GetRequestForBuyer(ctx, requestID, buyerID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if request.Status != models.RequestStatusPending {
		logger.Warn("delete rejected for non-pending request", slog.String("status", request.Status))
		return fmt.Errorf("%s: %w", op, ErrRequestNotPending)
	}

	if err := s.requestRepo.DeleteRequest(ctx, requestID, buyerID); err != nil {
		logger.Error("failed to delete request", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("request deleted")
	return nil
}
