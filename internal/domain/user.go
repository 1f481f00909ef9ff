package domain

import "time"

const (
	RoleAdmin   = "ADMIN"
	RoleCashier = "CASHIER"
	RoleUser    = "USER"
)

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
