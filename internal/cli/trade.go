package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"crypto-trading-sim/internal/models"
	"crypto-trading-sim/internal/trader"
	"github.com/google/subcommands"
)

// tradeCmd is the buy or the sell command, depending on side.
type tradeCmd struct {
	app    *App
	side   models.Side
	coin   string
	amount string
}

func (c *tradeCmd) Name() string { return strings.ToLower(string(c.side)) }
func (c *tradeCmd) Synopsis() string {
	if c.side == models.SideBuy {
		return "buy coins at the market price"
	}
	return "sell coins from the portfolio"
}
func (c *tradeCmd) Usage() string {
	return fmt.Sprintf(`%s -coin <coin> -amount <amount>

  Records a %s of <amount> coins in the running session.
  <coin> is a coin name or ticker: Bitcoin (BTC), Ethereum (ETH), Cardano (ADA).
`, c.Name(), c.Name())
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.coin, "coin", models.Bitcoin.String(), "coin to trade")
	f.StringVar(&c.amount, "amount", "", "amount of coins (required)")
}

func (c *tradeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	coin, err := models.ParseCoinSymbol(c.coin)
	if err != nil {
		c.app.errorf("%v", err)
		return subcommands.ExitUsageError
	}

	v, err := c.app.Client.Trade(ctx, c.side, coin, c.amount)
	if err != nil {
		if errors.Is(err, trader.ErrInvalidAmount) || errors.Is(err, trader.ErrInsufficientBalance) {
			c.app.errorf("%s", trader.Message(err))
		} else {
			c.app.errorf("%v", err)
		}
		return subcommands.ExitFailure
	}

	return exitStatus(writeValuation(c.app.Stdout, *v))
}
