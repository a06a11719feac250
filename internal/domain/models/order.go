package models

import "time"

// Статусы позиции заказа. Переходы только вперед: pending -> shipped -> delivered,
// отмена возможна только из pending.
const (
	OrderItemStatusPending   = "pending"
	OrderItemStatusShipped   = "shipped"
	OrderItemStatusDelivered = "delivered"
	OrderItemStatusCancelled = "cancelled"
)

// Order представляет заказ покупателя
type Order struct {
	ID              int64        `json:"id"`
	BuyerID         int64        `json:"buyer_id"`
	OrderNumber     string       `json:"order_number"`
	ShippingAddress string       `json:"shipping_address"`
	TotalAmount     float64      `json:"total_amount"`
	Items           []*OrderItem `json:"items,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

// OrderItem представляет позицию заказа. SellerID денормализован,
// чтобы продавец мог выбирать свои позиции без JOIN через products.
type OrderItem struct {
	ID          int64     `json:"id"`
	OrderID     int64     `json:"order_id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"` // Заполняется через JOIN с таблицей products
	SellerID    int64     `json:"seller_id"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"` // Цена за единицу на момент покупки
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
