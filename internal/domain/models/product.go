package models

import "time"

// Product представляет объявление продавца о товаре
type Product struct {
	ID           int64     `json:"id"`
	SellerID     int64     `json:"seller_id"`
	CategoryID   int64     `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"` // Заполняется через JOIN с таблицей categories
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Condition    string    `json:"condition"` // например, "like new", "good", "fair"
	ImageURL     string    `json:"image_url"`
	Stock        int       `json:"stock"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
