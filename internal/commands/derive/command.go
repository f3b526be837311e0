package derive

import (
	"errors"
	"fmt"

	"github.com/artuross/lepton"
	"github.com/artuross/lepton/internal/util/varsutil"
	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v2"
)

var ErrCommandFailed = errors.New("command failed")

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "derive",
		Usage:     "Prints the partial derivative of an expression.",
		ArgsUsage: "<expression>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "by",
				Usage:    "Variable to differentiate with respect to.",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "var",
				Usage: "Variable binding in the form name=value. When given, the derivative is also evaluated.",
			},
		},
		Action: run,
	}
}

func run(cliCtx *cli.Context) error {
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().With().Str("command", "derive").Logger()

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

	derivative, err := expr.Differentiate(cliCtx.String("by"))
	if err != nil {
		logger.Error().Err(err).Msg("differentiate expression")
		return ErrCommandFailed
	}

	fmt.Fprintln(cliCtx.App.Writer, derivative.String())

	bindings := cliCtx.StringSlice("var")
	if len(bindings) == 0 {
		return nil
	}

	variables, err := varsutil.Parse(bindings)
	if err != nil {
		logger.Error().Err(err).Msg("parse variable bindings")
		return ErrCommandFailed
	}

	value, err := derivative.Evaluate(variables)
	if err != nil {
		logger.Error().Err(err).Msg("evaluate derivative")
		return ErrCommandFailed
	}

	fmt.Fprintln(cliCtx.App.Writer, value)

	return nil
}
