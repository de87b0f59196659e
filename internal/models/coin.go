package models

import (
	"fmt"
	"strings"
)

// CoinSymbol identifies one of the supported cryptocurrencies.
// The set is closed: every value below numCoins is valid.
type CoinSymbol int

const (
	Bitcoin CoinSymbol = iota
	Ethereum
	Cardano

	numCoins
)

var coinNames = [numCoins]string{
	Bitcoin:  "Bitcoin",
	Ethereum: "Ethereum",
	Cardano:  "Cardano",
}

var coinTickers = [numCoins]string{
	Bitcoin:  "BTC",
	Ethereum: "ETH",
	Cardano:  "ADA",
}

// AllCoins returns every supported coin in display order.
func AllCoins() []CoinSymbol {
	coins := make([]CoinSymbol, 0, numCoins)
	for c := CoinSymbol(0); c < numCoins; c++ {
		coins = append(coins, c)
	}
	return coins
}

// Valid reports whether c is one of the supported coins.
func (c CoinSymbol) Valid() bool {
	return c >= 0 && c < numCoins
}

func (c CoinSymbol) String() string {
	if !c.Valid() {
		return fmt.Sprintf("CoinSymbol(%d)", int(c))
	}
	return coinNames[c]
}

// Ticker returns the exchange ticker of the coin, e.g. "BTC".
func (c CoinSymbol) Ticker() string {
	if !c.Valid() {
		return ""
	}
	return coinTickers[c]
}

// ParseCoinSymbol resolves a display name or ticker, case-insensitively.
func ParseCoinSymbol(s string) (CoinSymbol, error) {
	s = strings.TrimSpace(s)
	for c := CoinSymbol(0); c < numCoins; c++ {
		if strings.EqualFold(s, coinNames[c]) || strings.EqualFold(s, coinTickers[c]) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown coin %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c CoinSymbol) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid coin symbol %d", int(c))
	}
	return []byte(coinNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CoinSymbol) UnmarshalText(text []byte) error {
	parsed, err := ParseCoinSymbol(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
