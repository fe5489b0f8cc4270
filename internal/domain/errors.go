package domain

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCreditorNotFound  = errors.New("creditor not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrOverpayment       = errors.New("payment exceeds outstanding balance")
	ErrDuplicateProduct  = errors.New("product already exists")
	ErrDuplicateCreditor = errors.New("creditor already exists")
	ErrEmptyOrder        = errors.New("order has no items")
)
