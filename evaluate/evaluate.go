// Package evaluate computes the numeric value of an expression tree
// against a caller-supplied variable map.
//
// Evaluation is a pure function of the tree and the map: no state is
// kept between calls and the tree is never modified, so one tree may
// be evaluated concurrently against distinct maps.
package evaluate

import (
	"errors"
	"fmt"
	"math"

	"github.com/artuross/lepton/ast"
	"github.com/artuross/lepton/builtin"
)

// ErrUnknownFunction is returned for a call node whose name is not in
// the registry. Trees built by the parser never contain such nodes.
var ErrUnknownFunction = errors.New("function is not defined")

// UndefinedVariableError reports a variable referenced by the tree but
// absent from the variable map. Variable presence is checked on every
// evaluation call, never at parse time.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable %q", e.Name)
}

// Evaluate walks the tree bottom-up and returns its value. A nil map
// is valid for trees without variables. Arithmetic follows IEEE-754:
// division by zero and domain errors produce ±Inf or NaN, not errors.
func Evaluate(expr ast.Expr, variables map[string]float64) (float64, error) {
	switch expr := expr.(type) {
	case *ast.Binary:
		return evaluateBinary(expr, variables)

	case *ast.Call:
		return evaluateCall(expr, variables)

	case *ast.Constant:
		return expr.Value, nil

	case *ast.Unary:
		return evaluateUnary(expr, variables)

	case *ast.Variable:
		value, ok := variables[expr.Name]
		if !ok {
			return 0, &UndefinedVariableError{Name: expr.Name}
		}

		return value, nil

	default:
		return 0, fmt.Errorf("unsupported expression type: %T", expr)
	}
}

func evaluateBinary(expr *ast.Binary, variables map[string]float64) (float64, error) {
	left, err := Evaluate(expr.Left, variables)
	if err != nil {
		return 0, err
	}

	right, err := Evaluate(expr.Right, variables)
	if err != nil {
		return 0, err
	}

	switch expr.Op {
	case ast.OperatorAdd:
		return left + right, nil

	case ast.OperatorSubtract:
		return left - right, nil

	case ast.OperatorMultiply:
		return left * right, nil

	case ast.OperatorDivide:
		return left / right, nil

	case ast.OperatorPower:
		return math.Pow(left, right), nil

	default:
		return 0, fmt.Errorf("unsupported binary operator: %q", expr.Op)
	}
}

func evaluateUnary(expr *ast.Unary, variables map[string]float64) (float64, error) {
	operand, err := Evaluate(expr.Operand, variables)
	if err != nil {
		return 0, err
	}

	switch expr.Op {
	case ast.OperatorNegate:
		return -operand, nil

	default:
		return 0, fmt.Errorf("unsupported unary operator: %q", expr.Op)
	}
}

func evaluateCall(expr *ast.Call, variables map[string]float64) (float64, error) {
	fn, ok := builtin.Lookup(expr.Name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownFunction, expr.Name)
	}

	if len(expr.Args) != fn.Arity {
		return 0, fmt.Errorf("function %q expects %d arguments, got %d", fn.Name, fn.Arity, len(expr.Args))
	}

	args := make([]float64, len(expr.Args))
	for i, arg := range expr.Args {
		value, err := Evaluate(arg, variables)
		if err != nil {
			return 0, err
		}

		args[i] = value
	}

	return fn.Eval(args), nil
}
