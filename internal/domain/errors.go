package domain

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrCheckoutFailed    = errors.New("checkout failed")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnauthorized      = errors.New("unauthorized")
)

// CheckoutError reports an aborted checkout unit of work. Nothing it touched
// was committed, so the caller may retry. Transient marks storage conditions
// that are likely to clear on their own (lock contention, dropped
// connections, timeouts) as opposed to data problems.
type CheckoutError struct {
	Cause     error
	Transient bool
}

func NewCheckoutError(cause error) *CheckoutError {
	return &CheckoutError{Cause: cause, Transient: IsTransient(cause)}
}

func (e *CheckoutError) Error() string {
	if e.Cause == nil {
		return ErrCheckoutFailed.Error()
	}
	return ErrCheckoutFailed.Error() + ": " + e.Cause.Error()
}

func (e *CheckoutError) Unwrap() error { return e.Cause }

func (e *CheckoutError) Is(target error) bool { return target == ErrCheckoutFailed }

// IsTransient classifies storage errors that are worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var coded interface{ SQLState() string }
	if errors.As(err, &coded) {
		state := coded.SQLState()
		// 40xxx: transaction rollback (serialization, deadlock); 08xxx: connection.
		return strings.HasPrefix(state, "40") || strings.HasPrefix(state, "08")
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "sqlite_busy")
}
