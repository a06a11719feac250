package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ecoswap/ecoswap/internal/domain/models"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("order item not found")
)

// OrderStorage описывает методы для работы с заказами и их позициями.
// Создание заказа всегда идет внутри транзакции вместе со списанием остатков.
type OrderStorage interface {
	CreateOrderTx(ctx context.Context, tx *sql.Tx, order *models.Order) (int64, error)
	CreateOrderItemTx(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error
	GetOrdersByBuyerID(ctx context.Context, buyerID int64) ([]*models.Order, error)
	GetOrderItemsBySellerID(ctx context.Context, sellerID int64) ([]*models.OrderItem, error)
	GetOrderItemByID(ctx context.Context, id int64) (*models.OrderItem, error)
	UpdateOrderItemStatus(ctx context.Context, id, sellerID int64, status string) error
	SumDeliveredBySeller(ctx context.Context, sellerID int64) (float64, error)
	CountOrders(ctx context.Context) (int64, error)
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrderTx(ctx context.Context, tx *sql.Tx, order *models.Order) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`INSERT INTO orders (buyer_id, order_number, shipping_address, total_amount, created_at)
		 VALUES ($1, $2, $3, $4, NOW()) RETURNING id`,
		order.BuyerID, order.OrderNumber, order.ShippingAddress, order.TotalAmount,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}
	return id, nil
}

func (r *orderRepository) CreateOrderItemTx(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO order_items (order_id, product_id, seller_id, quantity, price, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		item.OrderID, item.ProductID, item.SellerID, item.Quantity, item.Price, item.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}
	return nil
}

// GetOrdersByBuyerID возвращает заказы покупателя вместе с позициями (JOIN для имени товара).
func (r *orderRepository) GetOrdersByBuyerID(ctx context.Context, buyerID int64) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, buyer_id, order_number, shipping_address, total_amount, created_at
		 FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	byID := make(map[int64]*models.Order)
	for rows.Next() {
		o := &models.Order{}
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.OrderNumber, &o.ShippingAddress, &o.TotalAmount, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	itemRows, err := r.db.QueryContext(ctx,
		`SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.seller_id, oi.quantity, oi.price, oi.status, oi.created_at
		 FROM order_items oi
		 JOIN products p ON oi.product_id = p.id
		 JOIN orders o ON oi.order_id = o.id
		 WHERE o.buyer_id = $1
		 ORDER BY oi.id`, buyerID)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item := &models.OrderItem{}
		if err := itemRows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.SellerID, &item.Quantity, &item.Price, &item.Status, &item.CreatedAt); err != nil {
			return nil, err
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) GetOrderItemsBySellerID(ctx context.Context, sellerID int64) ([]*models.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.seller_id, oi.quantity, oi.price, oi.status, oi.created_at
		 FROM order_items oi
		 JOIN products p ON oi.product_id = p.id
		 WHERE oi.seller_id = $1
		 ORDER BY oi.created_at DESC`, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.SellerID, &item.Quantity, &item.Price, &item.Status, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderRepository) GetOrderItemByID(ctx context.Context, id int64) (*models.OrderItem, error) {
	item := &models.OrderItem{}
	row := r.db.QueryRowContext(ctx,
		`SELECT id, order_id, product_id, seller_id, quantity, price, status, created_at
		 FROM order_items WHERE id = $1`, id)
	if err := row.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.SellerID,
		&item.Quantity, &item.Price, &item.Status, &item.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// UpdateOrderItemStatus обновляет статус позиции, только если она принадлежит продавцу.
func (r *orderRepository) UpdateOrderItemStatus(ctx context.Context, id, sellerID int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE order_items SET status = $1 WHERE id = $2 AND seller_id = $3",
		status, id, sellerID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderItemNotFound
	}
	return nil
}

// SumDeliveredBySeller возвращает выручку продавца по доставленным позициям (quantity * price).
func (r *orderRepository) SumDeliveredBySeller(ctx context.Context, sellerID int64) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(quantity * price), 0) FROM order_items WHERE seller_id = $1 AND status = $2",
		sellerID, models.OrderItemStatusDelivered,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *orderRepository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
