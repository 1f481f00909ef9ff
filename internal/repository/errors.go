package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrVariantNotFound  = errors.New("product variant not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateEmail   = errors.New("email already registered")

	// ErrStockConstraintViolation means an adjustment would drive an
	// inventory quantity below zero. Nothing is written when it occurs.
	ErrStockConstraintViolation = errors.New("stock adjustment would drive quantity negative")
)

// InsufficientStockError names the variant whose stock could not cover a
// checkout line. The whole checkout transaction rolls back when it occurs.
type InsufficientStockError struct {
	ProductVariantID int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product variant %d", e.ProductVariantID)
}

// IsRetryable reports whether err is a transient serialization or deadlock
// failure that a caller may retry with a fresh transaction.
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

func isCheckViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23514"
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
