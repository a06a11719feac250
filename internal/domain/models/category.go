package models

// Category представляет категорию товаров (уникальное название)
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
