package models

import "time"

// Review представляет отзыв покупателя о товаре.
// OrderID опционален: отзыв может быть не привязан к заказу.
type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	BuyerID   int64     `json:"buyer_id"`
	BuyerName string    `json:"buyer_name,omitempty"` // Заполняется через JOIN с таблицей users
	OrderID   *int64    `json:"order_id,omitempty"`
	Rating    int       `json:"rating"` // от 1 до 5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
