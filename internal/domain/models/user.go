package models

import "time"

// Типы пользователей. Плоский enum, роль определяет доступ к эндпоинтам.
const (
	UserTypeBuyer  = "buyer"
	UserTypeSeller = "seller"
	UserTypeAdmin  = "admin"
)

// User представляет пользователя маркетплейса
type User struct {
	ID        int64
	Name      string
	Email     string
	PassHash  []byte
	UserType  string
	IsActive  bool
	CreatedAt time.Time
}
