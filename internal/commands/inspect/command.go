package inspect

import (
	"errors"
	"fmt"

	"github.com/artuross/lepton"
	"github.com/kr/pretty"
	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v2"
)

var ErrCommandFailed = errors.New("command failed")

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Prints the variables and the tree of a parsed expression.",
		ArgsUsage: "<expression>",
		Action:    run,
	}
}

func run(cliCtx *cli.Context) error {
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().With().Str("command", "inspect").Logger()

	text := cliCtx.Args().First()
	if text == "" {
		logger.Error().Msg("missing expression argument")
		return ErrCommandFailed
	}

	expr, err := lepton.Parse(text)
	if err != nil {
		logger.Error().Err(err).Str("expression", text).Msg("parse expression")
		return ErrCommandFailed
	}

	fmt.Fprintf(cliCtx.App.Writer, "expression: %s\n", expr.String())
	fmt.Fprintf(cliCtx.App.Writer, "variables: %v\n", expr.Variables())
	fmt.Fprintln(cliCtx.App.Writer, pretty.Sprint(expr.Tree()))

	return nil
}
