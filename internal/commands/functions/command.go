package functions

import (
	"fmt"

	"github.com/artuross/lepton/builtin"
	cli "github.com/urfave/cli/v2"
)

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:   "functions",
		Usage:  "Lists the builtin functions available in expressions.",
		Action: run,
	}
}

func run(cliCtx *cli.Context) error {
	for _, name := range builtin.Names() {
		fn, _ := builtin.Lookup(name)

		fmt.Fprintf(cliCtx.App.Writer, "%s/%d\n", fn.Name, fn.Arity)
	}

	return nil
}
