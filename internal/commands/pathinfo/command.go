package pathinfo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/artuross/lepton/internal/commandinit"
	"github.com/artuross/lepton/internal/defaults"
	"github.com/artuross/lepton/internal/util/varsutil"
	"github.com/artuross/lepton/path"
	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel/trace"
)

var ErrCommandFailed = errors.New("command failed")

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "path",
		Usage: "Evaluates a function-based path: length, moment arms and lengthening speed.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "coordinates",
				Usage:    "Comma-separated coordinate names, in argument order.",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "length",
				Usage:    "Length expression over the coordinate values.",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "value",
				Usage: "Coordinate value in the form name=value. May be repeated.",
			},
			&cli.StringSliceFlag{
				Name:  "speed",
				Usage: "Coordinate speed in the form name=value. May be repeated.",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "Export spans for each path operation over OTLP/gRPC.",
			},
		},
		Action: run,
	}
}

func run(cliCtx *cli.Context) error {
	ctx := cliCtx.Context

	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().With().Str("command", "path").Logger()

	traceProvider := trace.TracerProvider(defaults.TraceProvider)
	if cliCtx.Bool("trace") {
		provider, tpShutdown, err := commandinit.NewOpenTelemetry(ctx, "lepton")
		if err != nil {
			logger.Error().Err(err).Msg("init OTEL provider")
			return ErrCommandFailed
		}
		defer tpShutdown(ctx)

		traceProvider = provider
	}

	coordinates := strings.Split(cliCtx.String("coordinates"), ",")
	for i := range coordinates {
		coordinates[i] = strings.TrimSpace(coordinates[i])
	}

	values, err := varsutil.Parse(cliCtx.StringSlice("value"))
	if err != nil {
		logger.Error().Err(err).Msg("parse coordinate values")
		return ErrCommandFailed
	}

	speeds, err := varsutil.Parse(cliCtx.StringSlice("speed"))
	if err != nil {
		logger.Error().Err(err).Msg("parse coordinate speeds")
		return ErrCommandFailed
	}

	p, err := path.New(
		coordinates,
		cliCtx.String("length"),
		path.WithTracerProvider(traceProvider),
	)
	if err != nil {
		logger.Error().Err(err).Msg("build path")
		return ErrCommandFailed
	}

	length, err := p.Length(ctx, values)
	if err != nil {
		logger.Error().Err(err).Msg("evaluate length")
		return ErrCommandFailed
	}

	fmt.Fprintf(cliCtx.App.Writer, "length: %v\n", length)

	momentArms, err := p.MomentArms(ctx, values)
	if err != nil {
		logger.Error().Err(err).Msg("evaluate moment arms")
		return ErrCommandFailed
	}

	for i, coordinate := range coordinates {
		fmt.Fprintf(cliCtx.App.Writer, "moment arm (%s): %v\n", coordinate, momentArms[i])
	}

	if len(speeds) == 0 {
		return nil
	}

	speed, err := p.LengtheningSpeed(ctx, values, speeds)
	if err != nil {
		logger.Error().Err(err).Msg("evaluate lengthening speed")
		return ErrCommandFailed
	}

	fmt.Fprintf(cliCtx.App.Writer, "lengthening speed: %v\n", speed)

	return nil
}
