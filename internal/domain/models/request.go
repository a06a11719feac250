package models

import "time"

// Статусы заявки. Начальный статус pending; approved и declined - терминальные,
// возврат в pending не допускается.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusDeclined = "declined"
)

// Доля платформы от согласованной цены заявки.
const (
	CommissionRate     = 0.10
	SellerEarningsRate = 0.90
)

// Request представляет заявку покупателя продавцу на конкретную вещь
// вне стандартного потока корзина/заказ. Цена согласуется продавцом:
// ApprovedPrice, AdminCommission и SellerEarnings заполняются только при одобрении.
type Request struct {
	ID              int64     `json:"id"`
	BuyerID         int64     `json:"buyer_id"`
	SellerID        int64     `json:"seller_id"`
	ItemName        string    `json:"item_name"`
	Message         string    `json:"message"`
	PickupAddress   string    `json:"pickup_address"`
	RequestedPrice  *float64  `json:"requested_price,omitempty"`
	ApprovedPrice   *float64  `json:"approved_price,omitempty"`
	AdminCommission *float64  `json:"admin_commission,omitempty"`
	SellerEarnings  *float64  `json:"seller_earnings,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
