package services

import (
	"errors"
	"fmt"
)

var (
	ErrBadCreds          = errors.New("invalid email or password")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrForbiddenRole     = errors.New("role not allowed")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAlreadyHired      = errors.New("trainer already hired")
	ErrTrainerBusy       = errors.New("trainer not available")
	ErrSelfDelete        = errors.New("cannot delete own account")
	ErrCheckoutFailed    = errors.New("checkout failed")
)

// ValidationError rejects input before any backend call is made.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }

func invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }
