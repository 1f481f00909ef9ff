package service

import "errors"

var (
	// ErrEmptyOrMissingCart means checkout preconditions were not met:
	// the cart does not exist or holds no lines. Nothing is written.
	ErrEmptyOrMissingCart = errors.New("cart is empty or missing, nothing to checkout")

	// ErrConcurrencyConflict is returned after retries against
	// serialization or deadlock failures are exhausted.
	ErrConcurrencyConflict = errors.New("transaction conflict, retries exhausted")
)
