package utils

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrAuth       = errors.New("not authorized")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrUpstream   = errors.New("payment gateway error")
	ErrIntegrity  = errors.New("invalid signature")
	ErrDatabase   = errors.New("database error")
)

// InsufficientFundsError carries the shortfall details so the client can
// render a "recharge now" prompt with exact numbers. Amounts are minor units.
type InsufficientFundsError struct {
	CurrentBalance int64
	Required       int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient wallet balance: required %d, available %d", e.Required, e.CurrentBalance)
}
