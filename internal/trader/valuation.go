package trader

import (
	"crypto-trading-sim/internal/models"
	"github.com/shopspring/decimal"
)

// CoinValue is the market value of a holding at unitPrice.
func CoinValue(holding models.Holding, unitPrice decimal.Decimal) decimal.Decimal {
	return holding.Quantity.Mul(unitPrice)
}

// TotalValue sums the market value of every holding in the portfolio.
func TotalValue(portfolio models.Portfolio, prices models.MarketPriceTable) decimal.Decimal {
	total := decimal.Zero
	for _, coin := range models.AllCoins() {
		total = total.Add(CoinValue(portfolio.Holding(coin), prices.Price(coin)))
	}
	return total
}

// ValuationRow is one line of the portfolio overview.
type ValuationRow struct {
	Coin        models.CoinSymbol `json:"coin"`
	Quantity    decimal.Decimal   `json:"quantity"`
	AverageCost decimal.Decimal   `json:"average_cost"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
	Value       decimal.Decimal   `json:"value"`
}

// Valuation is the portfolio overview computed from a portfolio and price table.
type Valuation struct {
	Rows  []ValuationRow  `json:"rows"`
	Total decimal.Decimal `json:"total"`
}

// Valuate computes the overview. Nothing is cached between calls.
func Valuate(portfolio models.Portfolio, prices models.MarketPriceTable) Valuation {
	v := Valuation{Rows: make([]ValuationRow, 0, len(models.AllCoins()))}
	for _, coin := range models.AllCoins() {
		h := portfolio.Holding(coin)
		price := prices.Price(coin)
		v.Rows = append(v.Rows, ValuationRow{
			Coin:        coin,
			Quantity:    h.Quantity,
			AverageCost: h.AverageCost,
			UnitPrice:   price,
			Value:       CoinValue(h, price),
		})
	}
	v.Total = TotalValue(portfolio, prices)
	return v
}
