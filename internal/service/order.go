package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ecoswap/ecoswap/internal/domain/models"
	"github.com/ecoswap/ecoswap/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrEmptyOrder          = errors.New("order has no items")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrProductUnavailable  = errors.New("product is not available")
	ErrInvalidStatusChange = errors.New("invalid status transition")
)

// OrderItemInput - позиция корзины при оформлении заказа.
type OrderItemInput struct {
	ProductID int64
	Quantity  int
}

type OrderService interface {
	Checkout(ctx context.Context, buyerID int64, items []OrderItemInput, shippingAddress string) (*models.Order, error)
	ListBuyerOrders(ctx context.Context, buyerID int64) ([]*models.Order, error)
	ListSellerItems(ctx context.Context, sellerID int64) ([]*models.OrderItem, error)
	UpdateItemStatus(ctx context.Context, itemID, sellerID int64, status string) error
}

type orderService struct {
	log         *slog.Logger
	db          *sql.DB
	productRepo storage.ProductStorage
	orderRepo   storage.OrderStorage
}

func NewOrderService(log *slog.Logger, db *sql.DB, productRepo storage.ProductStorage, orderRepo storage.OrderStorage) OrderService {
	return &orderService{
		log:         log,
		db:          db,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// Checkout оформляет заказ одной транзакцией: блокирует строки товаров,
// проверяет доступность и остаток, списывает остаток и создает заказ с позициями.
// При любой ошибке транзакция откатывается.
func (s *orderService) Checkout(ctx context.Context, buyerID int64, items []OrderItemInput, shippingAddress string) (*models.Order, error) {
	const op = "service.OrderService.Checkout"
	logger := s.log.With(slog.String("op", op), slog.Int64("buyerID", buyerID))

	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyOrder)
	}
	logger.Info("starting checkout transaction", slog.Int("items", len(items)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	rollback := func() {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
	}

	order := &models.Order{
		BuyerID:         buyerID,
		OrderNumber:     uuid.NewString(),
		ShippingAddress: shippingAddress,
	}

	var orderItems []*models.OrderItem
	for _, in := range items {
		if in.Quantity <= 0 {
			rollback()
			return nil, fmt.Errorf("%s: %w", op, ErrEmptyOrder)
		}

		product, err := s.productRepo.LockProductByIDTx(ctx, tx, in.ProductID)
		if err != nil {
			rollback()
			logger.Error("failed to lock product", slog.Int64("productID", in.ProductID), slog.Any("error", err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !product.IsActive {
			rollback()
			return nil, fmt.Errorf("%s: %w", op, ErrProductUnavailable)
		}
		if product.Stock < in.Quantity {
			rollback()
			logger.Warn("insufficient stock", slog.Int64("productID", product.ID),
				slog.Int("stock", product.Stock), slog.Int("requested", in.Quantity))
			return nil, fmt.Errorf("%s: %w", op, ErrInsufficientStock)
		}

		if err := s.productRepo.UpdateProductStockTx(ctx, tx, product.ID, product.Stock-in.Quantity); err != nil {
			rollback()
			logger.Error("failed to update stock", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to update stock: %w", op, err)
		}

		order.TotalAmount += float64(in.Quantity) * product.Price
		orderItems = append(orderItems, &models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			SellerID:    product.SellerID,
			Quantity:    in.Quantity,
			Price:       product.Price,
			Status:      models.OrderItemStatusPending,
		})
	}

	orderID, err := s.orderRepo.CreateOrderTx(ctx, tx, order)
	if err != nil {
		rollback()
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	order.ID = orderID

	for _, item := range orderItems {
		item.OrderID = orderID
		if err := s.orderRepo.CreateOrderItemTx(ctx, tx, item); err != nil {
			rollback()
			logger.Error("failed to create order item", slog.Any("error", err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	order.Items = orderItems

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("checkout completed", slog.Int64("orderID", orderID), slog.Float64("total", order.TotalAmount))
	return order, nil
}

func (s *orderService) ListBuyerOrders(ctx context.Context, buyerID int64) ([]*models.Order, error) {
	const op = "service.OrderService.ListBuyerOrders"
	orders, err := s.orderRepo.GetOrdersByBuyerID(ctx, buyerID)
	if err != nil {
		s.log.Error("failed to list buyer orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) ListSellerItems(ctx context.Context, sellerID int64) ([]*models.OrderItem, error) {
	const op = "service.OrderService.ListSellerItems"
	items, err := s.orderRepo.GetOrderItemsBySellerID(ctx, sellerID)
	if err != nil {
		s.log.Error("failed to list seller items", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// allowedItemTransitions - допустимые переходы статуса позиции.
// Движение только вперед, отмена возможна только до отправки.
var allowedItemTransitions = map[string][]string{
	models.OrderItemStatusPending: {models.OrderItemStatusShipped, models.OrderItemStatusCancelled},
	models.OrderItemStatusShipped: {models.OrderItemStatusDelivered},
}

func (s *orderService) UpdateItemStatus(ctx context.Context, itemID, sellerID int64, status string) error {
	const op = "service.OrderService.UpdateItemStatus"
	logger := s.log.With(slog.String("op", op), slog.Int64("itemID", itemID), slog.String("status", status))

	item, err := s.orderRepo.GetOrderItemByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	// Чужая позиция не раскрывается, отвечаем как на отсутствующую
	if item.SellerID != sellerID {
		return fmt.Errorf("%s: %w", op, storage.ErrOrderItemNotFound)
	}

	allowed := false
	for _, next := range allowedItemTransitions[item.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		logger.Warn("status transition rejected", slog.String("current", item.Status))
		return fmt.Errorf("%s: %w", op, ErrInvalidStatusChange)
	}

	if err := s.orderRepo.UpdateOrderItemStatus(ctx, itemID, sellerID, status); err != nil {
		logger.Error("failed to update item status", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("order item status updated")
	return nil
}
