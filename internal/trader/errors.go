package trader

import (
	"errors"
	"fmt"

	"crypto-trading-sim/internal/models"
)

var (
	// ErrInvalidAmount is returned when the amount text is empty, not a number, or not positive.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientBalance is returned when a sell exceeds the quantity held.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// TradeError describes a rejected trade. It unwraps to one of the sentinel errors above.
type TradeError struct {
	Side   models.Side
	Coin   models.CoinSymbol
	Amount string
	Err    error
}

func (e *TradeError) Error() string {
	return fmt.Sprintf("%s %q %s rejected: %v", e.Side, e.Amount, e.Coin, e.Err)
}

func (e *TradeError) Unwrap() error { return e.Err }

// Message returns the text shown to the user for a rejected trade.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return "Please enter a valid amount"
	case errors.Is(err, ErrInsufficientBalance):
		return "Insufficient balance"
	case err == nil:
		return ""
	}
	return "Trade failed"
}

// Kind returns a stable identifier of the rejection reason for API responses.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient_balance"
	}
	return "internal"
}

// ErrorForKind is the inverse of Kind, used by API clients.
func ErrorForKind(kind string) error {
	switch kind {
	case "invalid_amount":
		return ErrInvalidAmount
	case "insufficient_balance":
		return ErrInsufficientBalance
	}
	return nil
}
