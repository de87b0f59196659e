package trader

import (
	"errors"
	"testing"

	"crypto-trading-sim/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		name        string
		text        string
		expected    decimal.Decimal
		expectError bool
	}{
		{name: "Integer", text: "5", expected: dec("5")},
		{name: "Fraction", text: "0.0001", expected: dec("0.0001")},
		{name: "Surrounding spaces", text: "  2.5 ", expected: dec("2.5")},
		{name: "Exponent", text: "1e3", expected: dec("1000")},
		{name: "Empty", text: "", expectError: true},
		{name: "Blank", text: "   ", expectError: true},
		{name: "Zero", text: "0", expectError: true},
		{name: "Negative", text: "-5", expectError: true},
		{name: "Not a number", text: "abc", expectError: true},
		{name: "Trailing garbage", text: "12abc", expectError: true},
		{name: "Largest amount", text: "1000000000000000", expected: dec("1e15")},
		{name: "Smallest fraction", text: "1e-18", expected: dec("0.000000000000000001")},
		{name: "Above maximum", text: "1000000000000000.5", expectError: true},
		{name: "Huge exponent", text: "1e100000000", expectError: true},
		{name: "Tiny exponent", text: "1e-100000000", expectError: true},
		{name: "Too many fraction digits", text: "0.0000000000000000001", expectError: true},
		{name: "Zero with huge exponent", text: "0e100000000", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := ParseAmount(tc.text)
			if tc.expectError {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			assert.NoError(t, err)
			assert.True(t, tc.expected.Equal(amount), "expected %s, got %s", tc.expected, amount)
		})
	}
}

func TestBuy(t *testing.T) {
	prices := models.DefaultMarketPrices()

	for _, coin := range models.AllCoins() {
		t.Run(coin.String(), func(t *testing.T) {
			// Arrange
			before := models.DefaultPortfolio()

			// Act
			after, err := Buy(before, prices, coin, "1.25")

			// Assert
			require.NoError(t, err)
			expectedQty := before.Holding(coin).Quantity.Add(dec("1.25"))
			assert.True(t, expectedQty.Equal(after.Holding(coin).Quantity))
			assert.True(t, prices.Price(coin).Equal(after.Holding(coin).AverageCost), "cost basis is reset to the market price")
			for _, other := range models.AllCoins() {
				if other != coin {
					assert.Equal(t, before.Holding(other), after.Holding(other))
				}
			}
			assert.True(t, models.NewHolding(0.5, 27000).Equal(before.Holding(models.Bitcoin)), "input portfolio must not change")
		})
	}
}

func TestSell(t *testing.T) {
	prices := models.DefaultMarketPrices()
	before := models.DefaultPortfolio()

	t.Run("PartialSell", func(t *testing.T) {
		after, err := Sell(before, prices, models.Ethereum, "4")

		require.NoError(t, err)
		assert.True(t, dec("6").Equal(after.Holding(models.Ethereum).Quantity))
		assert.True(t, dec("1800").Equal(after.Holding(models.Ethereum).AverageCost))
		assert.Equal(t, before.Holding(models.Bitcoin), after.Holding(models.Bitcoin))
		assert.Equal(t, before.Holding(models.Cardano), after.Holding(models.Cardano))
	})

	t.Run("SellEverything", func(t *testing.T) {
		after, err := Sell(before, prices, models.Bitcoin, "0.5")

		require.NoError(t, err)
		assert.True(t, after.Holding(models.Bitcoin).Quantity.IsZero())
		assert.True(t, dec("27000").Equal(after.Holding(models.Bitcoin).AverageCost))
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		after, err := Sell(before, prices, models.Bitcoin, "0.5001")

		assert.ErrorIs(t, err, ErrInsufficientBalance)
		assert.Equal(t, before, after)

		var tradeErr *TradeError
		require.True(t, errors.As(err, &tradeErr))
		assert.Equal(t, models.SideSell, tradeErr.Side)
		assert.Equal(t, models.Bitcoin, tradeErr.Coin)
		assert.Equal(t, "0.5001", tradeErr.Amount)
	})

	t.Run("InvalidAmountIsCheckedFirst", func(t *testing.T) {
		_, err := Sell(before, prices, models.Bitcoin, "-100")
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.NotErrorIs(t, err, ErrInsufficientBalance)
	})
}

func TestInvalidAmounts(t *testing.T) {
	prices := models.DefaultMarketPrices()
	before := models.DefaultPortfolio()

	for _, text := range []string{"", "0", "-5", "abc", "1e100000000", "1e-100000000"} {
		for _, side := range []models.Side{models.SideBuy, models.SideSell} {
			t.Run(string(side)+"/"+text, func(t *testing.T) {
				after, err := Execute(side, before, prices, models.Cardano, text)

				assert.ErrorIs(t, err, ErrInvalidAmount)
				assert.Equal(t, before, after)
				assert.Equal(t, "Please enter a valid amount", Message(err))
			})
		}
	}
}

func TestExecute_UnknownSide(t *testing.T) {
	before := models.DefaultPortfolio()
	after, err := Execute(models.Side("HOLD"), before, models.DefaultMarketPrices(), models.Bitcoin, "1")
	assert.Error(t, err)
	assert.Equal(t, before, after)
}

func TestMessageAndKind(t *testing.T) {
	sellErr := &TradeError{Side: models.SideSell, Coin: models.Bitcoin, Amount: "9", Err: ErrInsufficientBalance}

	assert.Equal(t, "Insufficient balance", Message(sellErr))
	assert.Equal(t, "insufficient_balance", Kind(sellErr))
	assert.Equal(t, "invalid_amount", Kind(ErrInvalidAmount))
	assert.Equal(t, "internal", Kind(errors.New("boom")))
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, ErrInsufficientBalance, ErrorForKind("insufficient_balance"))
	assert.Nil(t, ErrorForKind("internal"))
}
