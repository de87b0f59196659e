package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"crypto-trading-sim/internal/client"
	"crypto-trading-sim/internal/database"
	"crypto-trading-sim/internal/models"
	"crypto-trading-sim/internal/trader"
	"github.com/google/subcommands"
)

// playCmd runs a local session without the web server.
type playCmd struct {
	app *App
}

func (*playCmd) Name() string     { return "play" }
func (*playCmd) Synopsis() string { return "trade in a local session on the terminal" }
func (*playCmd) Usage() string {
	return `play

  Starts a fresh session seeded from the configuration and reads commands
  from standard input, one per line:

    buy <coin> <amount>
    sell <coin> <amount>
    portfolio
    prices
    help
    quit

  Nothing is kept when the session ends.
`
}
func (*playCmd) SetFlags(*flag.FlagSet) {}

func (c *playCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	prices, err := c.app.Cfg.MarketPrices()
	if err != nil {
		c.app.errorf("invalid market prices: %v", err)
		return subcommands.ExitFailure
	}

	db, err := database.NewDatabase(c.app.Cfg)
	if err != nil {
		c.app.errorf("could not open session store: %v", err)
		return subcommands.ExitFailure
	}

	session, err := trader.NewSession(ctx, c.app.Logger, prices, database.NewSessionStore(db))
	if err != nil {
		c.app.errorf("%v", err)
		return subcommands.ExitFailure
	}

	if err := play(ctx, session, c.app.Stdin, c.app.Stdout); err != nil {
		c.app.errorf("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// play reads commands from in until quit or end of input.
func play(ctx context.Context, session *trader.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, `Crypto Trading Platform. Type "help" for commands.`)
	fmt.Fprint(out, "> ")

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 {
			quit, err := playLine(ctx, session, fields, out)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
		fmt.Fprint(out, "> ")
	}
	fmt.Fprintln(out)
	return scanner.Err()
}

func playLine(ctx context.Context, session *trader.Session, fields []string, out io.Writer) (bool, error) {
	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(out, "buy <coin> <amount> | sell <coin> <amount> | portfolio | prices | quit")
	case "portfolio":
		return false, writeValuation(out, session.Valuation())
	case "prices":
		var prices []client.Price
		for _, coin := range models.AllCoins() {
			prices = append(prices, client.Price{Coin: coin, Price: session.Prices().Price(coin)})
		}
		return false, writePrices(out, prices)
	case "buy", "sell":
		side, _ := models.ParseSide(fields[0])
		if len(fields) < 2 {
			fmt.Fprintf(out, "usage: %s <coin> <amount>\n", fields[0])
			return false, nil
		}
		coin, err := models.ParseCoinSymbol(fields[1])
		if err != nil {
			fmt.Fprintln(out, err)
			return false, nil
		}
		amount := ""
		if len(fields) > 2 {
			amount = fields[2]
		}

		v, err := session.Trade(ctx, side, coin, amount)
		var tradeErr *trader.TradeError
		switch {
		case errors.As(err, &tradeErr):
			fmt.Fprintln(out, trader.Message(err))
		case err != nil:
			return false, err
		default:
			fmt.Fprintf(out, "Total Portfolio Value %s\n", models.FormatUSD(v.Total))
		}
	default:
		fmt.Fprintf(out, "unknown command %q, type \"help\"\n", fields[0])
	}
	return false, nil
}
