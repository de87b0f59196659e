package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Holding is the quantity of one coin owned and the price basis
// recorded at its last update.
type Holding struct {
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
}

// NewHolding is a shortcut used by seeds and tests.
func NewHolding(quantity, averageCost float64) Holding {
	return Holding{
		Quantity:    decimal.NewFromFloat(quantity),
		AverageCost: decimal.NewFromFloat(averageCost),
	}
}

// Equal compares holdings by decimal value, ignoring representation.
func (h Holding) Equal(o Holding) bool {
	return h.Quantity.Equal(o.Quantity) && h.AverageCost.Equal(o.AverageCost)
}

// Portfolio holds one Holding per supported coin.
// It is a value: transitions produce a new Portfolio and never modify the
// receiver, so a Portfolio can be shared freely once built.
type Portfolio struct {
	holdings [numCoins]Holding
}

// NewPortfolio builds a portfolio from seed holdings. Coins missing from
// the map start with a zero holding.
func NewPortfolio(seed map[CoinSymbol]Holding) (Portfolio, error) {
	var p Portfolio
	for i := range p.holdings {
		p.holdings[i] = Holding{Quantity: decimal.Zero, AverageCost: decimal.Zero}
	}
	for coin, h := range seed {
		if !coin.Valid() {
			return Portfolio{}, fmt.Errorf("invalid coin symbol %d in seed", int(coin))
		}
		if h.Quantity.IsNegative() || h.AverageCost.IsNegative() {
			return Portfolio{}, fmt.Errorf("negative holding for %s in seed", coin)
		}
		p.holdings[coin] = h
	}
	return p, nil
}

// DefaultPortfolio is the seed every session starts from unless configured otherwise.
func DefaultPortfolio() Portfolio {
	p, _ := NewPortfolio(map[CoinSymbol]Holding{
		Bitcoin:  NewHolding(0.5, 27000),
		Ethereum: NewHolding(10, 1800),
		Cardano:  NewHolding(1000, 0.3),
	})
	return p
}

// Holding returns the holding for coin.
func (p Portfolio) Holding(coin CoinSymbol) Holding {
	return p.holdings[coin]
}

// With returns a copy of p where coin's holding is replaced by h.
func (p Portfolio) With(coin CoinSymbol, h Holding) Portfolio {
	p.holdings[coin] = h
	return p
}

// Equal reports whether both portfolios hold the same values for every coin.
func (p Portfolio) Equal(o Portfolio) bool {
	for i := range p.holdings {
		if !p.holdings[i].Equal(o.holdings[i]) {
			return false
		}
	}
	return true
}

// Holdings returns the holdings keyed by coin.
func (p Portfolio) Holdings() map[CoinSymbol]Holding {
	m := make(map[CoinSymbol]Holding, numCoins)
	for i, h := range p.holdings {
		m[CoinSymbol(i)] = h
	}
	return m
}
