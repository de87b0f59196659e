package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"
)

type pricesCmd struct {
	app *App
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "show the current market prices" }
func (*pricesCmd) Usage() string {
	return `prices

  Lists the unit price of every supported coin.
`
}
func (*pricesCmd) SetFlags(*flag.FlagSet) {}

func (c *pricesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	prices, err := c.app.Client.GetPrices(ctx)
	if err != nil {
		c.app.errorf("could not get prices: %v", err)
		return subcommands.ExitFailure
	}
	return exitStatus(writePrices(c.app.Stdout, prices))
}

type portfolioCmd struct {
	app *App
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "show the portfolio overview" }
func (*portfolioCmd) Usage() string {
	return `portfolio

  Shows every holding with its market value, and the total portfolio value.
`
}
func (*portfolioCmd) SetFlags(*flag.FlagSet) {}

func (c *portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	v, err := c.app.Client.GetPortfolio(ctx)
	if err != nil {
		c.app.errorf("could not get portfolio: %v", err)
		return subcommands.ExitFailure
	}
	return exitStatus(writeValuation(c.app.Stdout, *v))
}
