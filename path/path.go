// Package path implements a function-based path: a musculoskeletal
// path whose length is an expression over generalized coordinate
// values. Moment arms and lengthening speed are computed from analytic
// derivatives of the length function when no explicit expressions are
// supplied.
package path

import (
	"context"
	"fmt"
	"slices"

	"github.com/artuross/lepton"
	"github.com/artuross/lepton/ast"
	"github.com/artuross/lepton/internal/log/semconv"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

// SpeedSuffix is appended to a coordinate name to form the variable
// under which its generalized speed is bound, both for explicit speed
// expressions and for the map passed to LengtheningSpeed.
const SpeedSuffix = "_u"

type Path struct {
	coordinates []string
	length      *lepton.Expression
	momentArms  []*lepton.Expression
	speed       *lepton.Expression
	tracer      trace.Tracer
}

type config struct {
	momentArmExprs []string
	speedExpr      string
	traceProvider  trace.TracerProvider
}

type Option func(*config)

// WithMomentArmExpressions supplies explicit moment-arm expressions,
// one per coordinate in coordinate order. Without this option the
// moment arms are the negated partial derivatives of the length
// function.
func WithMomentArmExpressions(exprs []string) Option {
	return func(c *config) {
		c.momentArmExprs = exprs
	}
}

// WithSpeedExpression supplies an explicit lengthening-speed
// expression over the coordinate values and the coordinate speeds
// (bound as "<coordinate>_u"). Without this option the speed is the
// chain-rule dot product of the length partials and the speeds.
func WithSpeedExpression(expr string) Option {
	return func(c *config) {
		c.speedExpr = expr
	}
}

func WithTracerProvider(traceProvider trace.TracerProvider) Option {
	return func(c *config) {
		c.traceProvider = traceProvider
	}
}

// New compiles the length expression and the derived moment-arm
// functions for a path over the given coordinates. Every variable of
// the length expression must be a declared coordinate.
func New(coordinates []string, lengthExpr string, opts ...Option) (*Path, error) {
	cfg := config{
		traceProvider: noop.NewTracerProvider(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	length, err := lepton.Parse(lengthExpr)
	if err != nil {
		return nil, fmt.Errorf("path: parse length expression: %w", err)
	}

	for _, name := range length.Variables() {
		if !slices.Contains(coordinates, name) {
			return nil, fmt.Errorf("path: length expression references %q which is not a coordinate", name)
		}
	}

	momentArms, err := buildMomentArms(coordinates, length, cfg.momentArmExprs)
	if err != nil {
		return nil, err
	}

	var speed *lepton.Expression
	if cfg.speedExpr != "" {
		speed, err = parseSpeedExpression(coordinates, cfg.speedExpr)
		if err != nil {
			return nil, err
		}
	}

	p := Path{
		coordinates: slices.Clone(coordinates),
		length:      length,
		momentArms:  momentArms,
		speed:       speed,
		tracer:      cfg.traceProvider.Tracer("github.com/artuross/lepton/path"),
	}

	return &p, nil
}

// buildMomentArms compiles the explicit moment-arm expressions or, if
// none were given, derives each one as -dl/dq from the length
// function.
func buildMomentArms(coordinates []string, length *lepton.Expression, exprs []string) ([]*lepton.Expression, error) {
	if len(exprs) > 0 {
		if len(exprs) != len(coordinates) {
			return nil, fmt.Errorf("path: %d moment arm expressions for %d coordinates", len(exprs), len(coordinates))
		}

		momentArms := make([]*lepton.Expression, len(exprs))
		for i, text := range exprs {
			expr, err := lepton.Parse(text)
			if err != nil {
				return nil, fmt.Errorf("path: parse moment arm expression for %q: %w", coordinates[i], err)
			}

			for _, name := range expr.Variables() {
				if !slices.Contains(coordinates, name) {
					return nil, fmt.Errorf("path: moment arm expression for %q references %q which is not a coordinate", coordinates[i], name)
				}
			}

			momentArms[i] = expr
		}

		return momentArms, nil
	}

	momentArms := make([]*lepton.Expression, len(coordinates))
	for i, coordinate := range coordinates {
		derivative, err := length.Differentiate(coordinate)
		if err != nil {
			return nil, fmt.Errorf("path: differentiate length by %q: %w", coordinate, err)
		}

		// moment arm = -dl/dq
		momentArms[i] = lepton.FromTree(&ast.Unary{
			Op:      ast.OperatorNegate,
			Operand: derivative.Tree(),
		})
	}

	return momentArms, nil
}

func parseSpeedExpression(coordinates []string, text string) (*lepton.Expression, error) {
	expr, err := lepton.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("path: parse speed expression: %w", err)
	}

	for _, name := range expr.Variables() {
		value := slices.Contains(coordinates, name)
		speedName, found := cutSpeedSuffix(name)
		speed := found && slices.Contains(coordinates, speedName)

		if !value && !speed {
			return nil, fmt.Errorf("path: speed expression references %q which is neither a coordinate nor a coordinate speed", name)
		}
	}

	return expr, nil
}

func cutSpeedSuffix(name string) (string, bool) {
	if len(name) <= len(SpeedSuffix) {
		return "", false
	}

	if name[len(name)-len(SpeedSuffix):] != SpeedSuffix {
		return "", false
	}

	return name[:len(name)-len(SpeedSuffix)], true
}

// Coordinates returns the coordinate names in declaration order. The
// order determines which moment-arm function belongs to which
// coordinate.
func (p *Path) Coordinates() []string {
	return slices.Clone(p.coordinates)
}

// Length evaluates the path length at the given coordinate values.
func (p *Path) Length(ctx context.Context, values map[string]float64) (float64, error) {
	_, span := p.tracer.Start(ctx, "Length")
	defer span.End()

	span.SetAttributes(attribute.String(semconv.Expression, p.length.String()))

	length, err := p.length.Evaluate(values)
	if err != nil {
		return 0, fmt.Errorf("path: evaluate length: %w", err)
	}

	return length, nil
}

// MomentArm evaluates the moment arm of the path about one coordinate
// at the given coordinate values.
func (p *Path) MomentArm(ctx context.Context, coordinate string, values map[string]float64) (float64, error) {
	_, span := p.tracer.Start(ctx, "MomentArm")
	defer span.End()

	span.SetAttributes(attribute.String(semconv.Coordinate, coordinate))

	index := slices.Index(p.coordinates, coordinate)
	if index < 0 {
		return 0, fmt.Errorf("path: unknown coordinate %q", coordinate)
	}

	momentArm, err := p.momentArms[index].Evaluate(values)
	if err != nil {
		return 0, fmt.Errorf("path: evaluate moment arm for %q: %w", coordinate, err)
	}

	return momentArm, nil
}

// MomentArms evaluates the moment arms about every coordinate at the
// given coordinate values, in coordinate order. The moment-arm
// expressions are immutable, so one evaluation is fanned out per
// coordinate.
func (p *Path) MomentArms(ctx context.Context, values map[string]float64) ([]float64, error) {
	_, span := p.tracer.Start(ctx, "MomentArms")
	defer span.End()

	momentArms := make([]float64, len(p.coordinates))

	group, _ := errgroup.WithContext(ctx)
	for i, coordinate := range p.coordinates {
		group.Go(func() error {
			momentArm, err := p.momentArms[i].Evaluate(values)
			if err != nil {
				return fmt.Errorf("path: evaluate moment arm for %q: %w", coordinate, err)
			}

			momentArms[i] = momentArm

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return momentArms, nil
}

// LengtheningSpeed evaluates the rate of change of the path length.
// speeds maps each coordinate name to its generalized speed. Without
// an explicit speed expression the chain rule is applied:
// ldot = sum over coordinates of dl/dq * qdot, with dl/dq = -moment
// arm.
func (p *Path) LengtheningSpeed(ctx context.Context, values, speeds map[string]float64) (float64, error) {
	ctx, span := p.tracer.Start(ctx, "LengtheningSpeed")
	defer span.End()

	if p.speed != nil {
		bindings := make(map[string]float64, len(values)+len(speeds))
		for name, value := range values {
			bindings[name] = value
		}
		for name, speed := range speeds {
			bindings[name+SpeedSuffix] = speed
		}

		speed, err := p.speed.Evaluate(bindings)
		if err != nil {
			return 0, fmt.Errorf("path: evaluate speed: %w", err)
		}

		return speed, nil
	}

	total := 0.0
	for _, coordinate := range p.coordinates {
		speed, ok := speeds[coordinate]
		if !ok {
			return 0, fmt.Errorf("path: missing speed for coordinate %q", coordinate)
		}

		momentArm, err := p.MomentArm(ctx, coordinate, values)
		if err != nil {
			return 0, err
		}

		total += -momentArm * speed
	}

	return total, nil
}
