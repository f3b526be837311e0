// Package derive computes analytic partial derivatives of expression
// trees by structural rewriting: each node kind has a fixed rule, and
// function calls chain through the partial-derivative rules of the
// builtin registry.
//
// The input tree is never modified; every subexpression reused in the
// output is deep-cloned first. The output is folded once so that
// trivially constant subtrees collapse (0*x becomes 0, x+0 becomes x),
// but no further algebraic simplification is attempted.
package derive

import (
	"errors"
	"fmt"

	"github.com/artuross/lepton/ast"
	"github.com/artuross/lepton/builtin"
)

// ErrUnknownFunction is returned for a call node whose name is not in
// the registry. Trees built by the parser never contain such nodes.
var ErrUnknownFunction = errors.New("function is not defined")

// Differentiate returns a new tree representing the partial derivative
// of expr with respect to the named variable.
func Differentiate(expr ast.Expr, name string) (ast.Expr, error) {
	derivative, err := differentiate(expr, name)
	if err != nil {
		return nil, err
	}

	return fold(derivative), nil
}

func differentiate(expr ast.Expr, name string) (ast.Expr, error) {
	switch expr := expr.(type) {
	case *ast.Binary:
		return differentiateBinary(expr, name)

	case *ast.Call:
		return differentiateCall(expr, name)

	case *ast.Constant:
		return &ast.Constant{Value: 0}, nil

	case *ast.Unary:
		if expr.Op != ast.OperatorNegate {
			return nil, fmt.Errorf("unsupported unary operator: %q", expr.Op)
		}

		operand, err := differentiate(expr.Operand, name)
		if err != nil {
			return nil, err
		}

		return &ast.Unary{
			Op:      expr.Op,
			Operand: operand,
		}, nil

	case *ast.Variable:
		if expr.Name == name {
			return &ast.Constant{Value: 1}, nil
		}

		return &ast.Constant{Value: 0}, nil

	default:
		return nil, fmt.Errorf("unsupported expression type: %T", expr)
	}
}

func differentiateBinary(expr *ast.Binary, name string) (ast.Expr, error) {
	left, err := differentiate(expr.Left, name)
	if err != nil {
		return nil, err
	}

	right, err := differentiate(expr.Right, name)
	if err != nil {
		return nil, err
	}

	switch expr.Op {
	case ast.OperatorAdd:
		return add(left, right), nil

	case ast.OperatorSubtract:
		return sub(left, right), nil

	case ast.OperatorMultiply:
		// product rule: da*b + a*db
		return add(
			mul(left, ast.Clone(expr.Right)),
			mul(ast.Clone(expr.Left), right),
		), nil

	case ast.OperatorDivide:
		// quotient rule: (da*b - a*db) / b^2
		return div(
			sub(
				mul(left, ast.Clone(expr.Right)),
				mul(ast.Clone(expr.Left), right),
			),
			mul(ast.Clone(expr.Right), ast.Clone(expr.Right)),
		), nil

	case ast.OperatorPower:
		// d(a^b) = b*a^(b-1)*da + log(a)*a^b*db; when the exponent
		// does not depend on the variable, db folds to zero and the
		// logarithm term vanishes
		return add(
			mul(
				mul(
					ast.Clone(expr.Right),
					pow(ast.Clone(expr.Left), sub(ast.Clone(expr.Right), &ast.Constant{Value: 1})),
				),
				left,
			),
			mul(
				mul(
					&ast.Call{Name: "log", Args: []ast.Expr{ast.Clone(expr.Left)}},
					pow(ast.Clone(expr.Left), ast.Clone(expr.Right)),
				),
				right,
			),
		), nil

	default:
		return nil, fmt.Errorf("unsupported binary operator: %q", expr.Op)
	}
}

// differentiateCall applies the chain rule: the registry supplies
// every partial of the function with respect to its arguments, and the
// result is the sum of partial_i * d(arg_i).
func differentiateCall(expr *ast.Call, name string) (ast.Expr, error) {
	fn, ok := builtin.Lookup(expr.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, expr.Name)
	}

	var sum ast.Expr = &ast.Constant{Value: 0}

	for i, arg := range expr.Args {
		inner, err := differentiate(arg, name)
		if err != nil {
			return nil, err
		}

		args := make([]ast.Expr, len(expr.Args))
		for j, a := range expr.Args {
			args[j] = ast.Clone(a)
		}

		sum = add(sum, mul(fn.Partial(args, i), inner))
	}

	return sum, nil
}

func add(left, right ast.Expr) ast.Expr {
	return &ast.Binary{Op: ast.OperatorAdd, Left: left, Right: right}
}

func sub(left, right ast.Expr) ast.Expr {
	return &ast.Binary{Op: ast.OperatorSubtract, Left: left, Right: right}
}

func mul(left, right ast.Expr) ast.Expr {
	return &ast.Binary{Op: ast.OperatorMultiply, Left: left, Right: right}
}

func div(left, right ast.Expr) ast.Expr {
	return &ast.Binary{Op: ast.OperatorDivide, Left: left, Right: right}
}

func pow(left, right ast.Expr) ast.Expr {
	return &ast.Binary{Op: ast.OperatorPower, Left: left, Right: right}
}
