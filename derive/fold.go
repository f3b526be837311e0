package derive

import (
	"github.com/artuross/lepton/ast"
	"github.com/artuross/lepton/builtin"
	"github.com/artuross/lepton/evaluate"
)

// fold collapses trivially constant subtrees bottom-up. This is the
// only simplification the engine performs; anything smarter is the
// caller's business.
func fold(expr ast.Expr) ast.Expr {
	switch expr := expr.(type) {
	case *ast.Binary:
		return foldBinary(expr)

	case *ast.Call:
		return foldCall(expr)

	case *ast.Unary:
		operand := fold(expr.Operand)

		if value, ok := constantValue(operand); ok && expr.Op == ast.OperatorNegate {
			return &ast.Constant{Value: -value}
		}

		return &ast.Unary{
			Op:      expr.Op,
			Operand: operand,
		}

	default:
		return expr
	}
}

func foldBinary(expr *ast.Binary) ast.Expr {
	left := fold(expr.Left)
	right := fold(expr.Right)

	leftValue, leftConst := constantValue(left)
	rightValue, rightConst := constantValue(right)

	if leftConst && rightConst {
		value, err := evaluate.Evaluate(&ast.Binary{Op: expr.Op, Left: left, Right: right}, nil)
		invariant(err != nil, "foldBinary: constant subtree failed to evaluate")

		return &ast.Constant{Value: value}
	}

	switch expr.Op {
	case ast.OperatorAdd:
		if leftConst && leftValue == 0 {
			return right
		}
		if rightConst && rightValue == 0 {
			return left
		}

	case ast.OperatorSubtract:
		if rightConst && rightValue == 0 {
			return left
		}
		if leftConst && leftValue == 0 {
			return &ast.Unary{Op: ast.OperatorNegate, Operand: right}
		}

	case ast.OperatorMultiply:
		if (leftConst && leftValue == 0) || (rightConst && rightValue == 0) {
			return &ast.Constant{Value: 0}
		}
		if leftConst && leftValue == 1 {
			return right
		}
		if rightConst && rightValue == 1 {
			return left
		}

	case ast.OperatorDivide:
		if leftConst && leftValue == 0 {
			return &ast.Constant{Value: 0}
		}
		if rightConst && rightValue == 1 {
			return left
		}

	case ast.OperatorPower:
		if rightConst && rightValue == 1 {
			return left
		}
	}

	return &ast.Binary{
		Op:    expr.Op,
		Left:  left,
		Right: right,
	}
}

func foldCall(expr *ast.Call) ast.Expr {
	args := make([]ast.Expr, len(expr.Args))
	allConst := true

	for i, arg := range expr.Args {
		args[i] = fold(arg)

		if _, ok := constantValue(args[i]); !ok {
			allConst = false
		}
	}

	folded := &ast.Call{
		Name: expr.Name,
		Args: args,
	}

	if !allConst {
		return folded
	}

	fn, ok := builtin.Lookup(expr.Name)
	if !ok || len(args) != fn.Arity {
		return folded
	}

	value, err := evaluate.Evaluate(folded, nil)
	invariant(err != nil, "foldCall: constant call failed to evaluate")

	return &ast.Constant{Value: value}
}

func constantValue(expr ast.Expr) (float64, bool) {
	c, ok := expr.(*ast.Constant)
	if !ok {
		return 0, false
	}

	return c.Value, true
}

func invariant(assertion bool, message string) {
	if assertion {
		panic(message)
	}
}
