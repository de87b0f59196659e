package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MarketPriceTable is the fixed set of unit prices used for valuation.
// It is built once per session and never modified.
type MarketPriceTable struct {
	prices [numCoins]decimal.Decimal
}

// NewMarketPriceTable requires a strictly positive price for every coin.
func NewMarketPriceTable(prices map[CoinSymbol]decimal.Decimal) (MarketPriceTable, error) {
	var t MarketPriceTable
	for _, coin := range AllCoins() {
		price, ok := prices[coin]
		if !ok {
			return MarketPriceTable{}, fmt.Errorf("missing market price for %s", coin)
		}
		if !price.IsPositive() {
			return MarketPriceTable{}, fmt.Errorf("market price for %s must be positive, got %s", coin, price)
		}
		t.prices[coin] = price
	}
	for coin := range prices {
		if !coin.Valid() {
			return MarketPriceTable{}, fmt.Errorf("invalid coin symbol %d in market prices", int(coin))
		}
	}
	return t, nil
}

// DefaultMarketPrices returns the built-in price table.
func DefaultMarketPrices() MarketPriceTable {
	t, _ := NewMarketPriceTable(map[CoinSymbol]decimal.Decimal{
		Bitcoin:  decimal.NewFromInt(27500),
		Ethereum: decimal.NewFromInt(1850),
		Cardano:  decimal.RequireFromString("0.35"),
	})
	return t
}

// Price returns the unit price of coin.
func (t MarketPriceTable) Price(coin CoinSymbol) decimal.Decimal {
	return t.prices[coin]
}

// Prices returns the table keyed by coin.
func (t MarketPriceTable) Prices() map[CoinSymbol]decimal.Decimal {
	m := make(map[CoinSymbol]decimal.Decimal, numCoins)
	for i, p := range t.prices {
		m[CoinSymbol(i)] = p
	}
	return m
}
