package cli

import (
	"context"
	"flag"
	"fmt"

	"crypto-trading-sim/internal/resources"
	"github.com/google/subcommands"
)

type learnCmd struct {
	app   *App
	style string
	width int
}

func (*learnCmd) Name() string     { return "learn" }
func (*learnCmd) Synopsis() string { return "show the educational resources" }
func (*learnCmd) Usage() string {
	return `learn [-style <style>] [-width <columns>]

  Renders the educational resources for the terminal.
`
}

func (c *learnCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.style, "style", "auto", "glamour style: auto, dark, light, notty")
	f.IntVar(&c.width, "width", 80, "word wrap width")
}

func (c *learnCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	out, err := resources.Terminal(c.style, c.width)
	if err != nil {
		c.app.errorf("%v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprint(c.app.Stdout, out)
	return subcommands.ExitSuccess
}
