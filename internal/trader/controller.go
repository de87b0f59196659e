package trader

import (
	"fmt"
	"strings"

	"crypto-trading-sim/internal/models"
	"github.com/shopspring/decimal"
)

// Bounds of a single trade amount. Exponents are checked before any
// arithmetic since rescaling a decimal with a huge exponent never finishes.
const (
	maxAmountExponent = 15
	minAmountExponent = -18
)

// MaxAmount is the largest amount accepted for a single trade.
var MaxAmount = decimal.New(1, maxAmountExponent)

// ParseAmount parses the amount entered by the user. The amount must be a
// strictly positive decimal number, at most MaxAmount, with no more than
// 18 fractional digits.
func ParseAmount(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	exp := amount.Exponent()
	if exp > maxAmountExponent || exp < minAmountExponent || amount.GreaterThan(MaxAmount) {
		return decimal.Zero, fmt.Errorf("%w: %s is out of range", ErrInvalidAmount, text)
	}
	return amount, nil
}

// Buy adds amountText of coin to the portfolio. The holding's cost basis
// becomes the current market price.
func Buy(portfolio models.Portfolio, prices models.MarketPriceTable, coin models.CoinSymbol, amountText string) (models.Portfolio, error) {
	amount, err := ParseAmount(amountText)
	if err != nil {
		return portfolio, &TradeError{Side: models.SideBuy, Coin: coin, Amount: amountText, Err: err}
	}

	old := portfolio.Holding(coin)
	return portfolio.With(coin, models.Holding{
		Quantity:    old.Quantity.Add(amount),
		AverageCost: prices.Price(coin),
	}), nil
}

// Sell removes amountText of coin from the portfolio, keeping its cost basis.
func Sell(portfolio models.Portfolio, prices models.MarketPriceTable, coin models.CoinSymbol, amountText string) (models.Portfolio, error) {
	amount, err := ParseAmount(amountText)
	if err != nil {
		return portfolio, &TradeError{Side: models.SideSell, Coin: coin, Amount: amountText, Err: err}
	}

	old := portfolio.Holding(coin)
	if old.Quantity.LessThan(amount) {
		return portfolio, &TradeError{Side: models.SideSell, Coin: coin, Amount: amountText, Err: ErrInsufficientBalance}
	}

	return portfolio.With(coin, models.Holding{
		Quantity:    old.Quantity.Sub(amount),
		AverageCost: old.AverageCost,
	}), nil
}

// Execute dispatches to Buy or Sell.
func Execute(side models.Side, portfolio models.Portfolio, prices models.MarketPriceTable, coin models.CoinSymbol, amountText string) (models.Portfolio, error) {
	switch side {
	case models.SideBuy:
		return Buy(portfolio, prices, coin, amountText)
	case models.SideSell:
		return Sell(portfolio, prices, coin, amountText)
	}
	return portfolio, fmt.Errorf("unknown trade side %q", side)
}
