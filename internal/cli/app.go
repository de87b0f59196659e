// Package cli implements the command line front end of the simulator.
package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"crypto-trading-sim/internal/client"
	"crypto-trading-sim/internal/config"
	"crypto-trading-sim/internal/models"
	"crypto-trading-sim/internal/trader"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// App carries what the commands share. The CLI is short lived, one App per run.
type App struct {
	Cfg    *config.Config
	Logger *zap.Logger
	Client client.APIClientInterface
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Register adds every command to c.
func Register(c *subcommands.Commander, app *App) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&pricesCmd{app: app}, "market")
	c.Register(&portfolioCmd{app: app}, "market")
	c.Register(&tradeCmd{app: app, side: models.SideBuy}, "trading")
	c.Register(&tradeCmd{app: app, side: models.SideSell}, "trading")
	c.Register(&playCmd{app: app}, "trading")
	c.Register(&learnCmd{app: app}, "learn")
}

func (a *App) errorf(format string, args ...any) {
	fmt.Fprintf(a.Stderr, "Error: "+format+"\n", args...)
}

// writeValuation prints the portfolio overview as aligned columns.
func writeValuation(w io.Writer, v trader.Valuation) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Coin\tQuantity\tAverage cost\tValue\t")
	for _, r := range v.Rows {
		fmt.Fprintf(tw, "%s\t%s coins\t%s\t%s\t\n",
			r.Coin, models.FormatQuantity(r.Quantity), models.FormatUSD(r.AverageCost), models.FormatUSD(r.Value))
	}
	fmt.Fprintf(tw, "Total Portfolio Value\t\t\t%s\t\n", models.FormatUSD(v.Total))
	return tw.Flush()
}

// writePrices prints the market price table.
func writePrices(w io.Writer, prices []client.Price) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, p := range prices {
		fmt.Fprintf(tw, "%s\t%s\t\n", p.Coin, models.FormatUSD(p.Price))
	}
	return tw.Flush()
}

func exitStatus(err error) subcommands.ExitStatus {
	if err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
