package models

import (
	"fmt"
	"strings"
)

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide accepts "buy" or "sell" in any case.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	}
	return "", fmt.Errorf("unknown trade side %q", s)
}

// TradeRequest is a trade as entered by the user. Amount is kept as the
// raw text so that validation happens in one place.
type TradeRequest struct {
	Coin   CoinSymbol `json:"coin"`
	Amount string     `json:"amount"`
}
