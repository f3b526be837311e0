package eval

import (
	"errors"
	"fmt"

	"github.com/artuross/lepton"
	"github.com/artuross/lepton/evaluate"
	"github.com/artuross/lepton/internal/util/varsutil"
	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v2"
)

var ErrCommandFailed = errors.New("command failed")

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "eval",
		Usage:     "Parses an expression and evaluates it.",
		ArgsUsage: "<expression>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "var",
				Usage: "Variable binding in the form name=value. May be repeated.",
			},
		},
		Action: run,
	}
}

func run(cliCtx *cli.Context) error {
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().With().Str("command", "eval").Logger()

	text := cliCtx.Args().First()
	if text == "" {
		logger.Error().Msg("missing expression argument")
		return ErrCommandFailed
	}

	variables, err := varsutil.Parse(cliCtx.StringSlice("var"))
	if err != nil {
		logger.Error().Err(err).Msg("parse variable bindings")
		return ErrCommandFailed
	}

	expr, err := lepton.Parse(text)
	if err != nil {
		logger.Error().Err(err).Str("expression", text).Msg("parse expression")
		return ErrCommandFailed
	}

	value, err := expr.Evaluate(variables)
	if err != nil {
		var undefinedErr *evaluate.UndefinedVariableError
		if errors.As(err, &undefinedErr) {
			logger.Error().
				Str("variable", undefinedErr.Name).
				Strs("required", expr.Variables()).
				Msg("missing variable binding, pass it with --var")
			return ErrCommandFailed
		}

		logger.Error().Err(err).Msg("evaluate expression")
		return ErrCommandFailed
	}

	fmt.Fprintln(cliCtx.App.Writer, value)

	return nil
}
