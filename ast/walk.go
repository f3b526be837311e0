package ast

import (
	"sort"
	"strconv"
	"strings"
)

// Variables returns the distinct variable names referenced anywhere in
// the tree, sorted lexicographically.
func Variables(expr Expr) []string {
	seen := map[string]struct{}{}
	collectVariables(expr, seen)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func collectVariables(expr Expr, seen map[string]struct{}) {
	switch expr := expr.(type) {
	case *Binary:
		collectVariables(expr.Left, seen)
		collectVariables(expr.Right, seen)

	case *Call:
		for _, arg := range expr.Args {
			collectVariables(arg, seen)
		}

	case *Unary:
		collectVariables(expr.Operand, seen)

	case *Variable:
		seen[expr.Name] = struct{}{}
	}
}

// Clone returns a deep copy of the tree. Transformations that embed an
// existing subexpression into a new tree must clone it first so that
// no node is ever shared between two trees.
func Clone(expr Expr) Expr {
	switch expr := expr.(type) {
	case *Binary:
		return &Binary{
			Op:    expr.Op,
			Left:  Clone(expr.Left),
			Right: Clone(expr.Right),
		}

	case *Call:
		args := make([]Expr, len(expr.Args))
		for i, arg := range expr.Args {
			args[i] = Clone(arg)
		}

		return &Call{
			Name: expr.Name,
			Args: args,
		}

	case *Constant:
		return &Constant{
			Value: expr.Value,
		}

	case *Unary:
		return &Unary{
			Op:      expr.Op,
			Operand: Clone(expr.Operand),
		}

	case *Variable:
		return &Variable{
			Name: expr.Name,
		}

	default:
		panic("ast: unknown expression type")
	}
}

// Format renders the tree back to expression text. The output parses
// to an equivalent tree; subexpressions are parenthesized wherever
// operator precedence requires it.
func Format(expr Expr) string {
	var b strings.Builder
	formatExpr(&b, expr, 0)

	return b.String()
}

// binding powers used only for rendering; must mirror the parser.
const (
	fmtPrecAdditive       = 1
	fmtPrecMultiplicative = 2
	fmtPrecUnary          = 3
	fmtPrecPower          = 4
)

func formatExpr(b *strings.Builder, expr Expr, parentPrec int) {
	switch expr := expr.(type) {
	case *Binary:
		prec := fmtPrecAdditive
		switch expr.Op {
		case OperatorMultiply, OperatorDivide:
			prec = fmtPrecMultiplicative
		case OperatorPower:
			prec = fmtPrecPower
		}

		needParens := prec < parentPrec
		if needParens {
			b.WriteByte('(')
		}

		// the right operand of a left-associative operator needs one
		// extra level; "^" associates to the right so it is the left
		// operand instead
		leftPrec, rightPrec := prec, prec+1
		if expr.Op == OperatorPower {
			leftPrec, rightPrec = prec+1, prec
		}

		formatExpr(b, expr.Left, leftPrec)
		b.WriteString(string(expr.Op))
		formatExpr(b, expr.Right, rightPrec)

		if needParens {
			b.WriteByte(')')
		}

	case *Call:
		b.WriteString(expr.Name)
		b.WriteByte('(')

		for i, arg := range expr.Args {
			if i > 0 {
				b.WriteString(", ")
			}

			formatExpr(b, arg, 0)
		}

		b.WriteByte(')')

	case *Constant:
		if expr.Value < 0 && parentPrec > 0 {
			b.WriteByte('(')
			b.WriteString(strconv.FormatFloat(expr.Value, 'g', -1, 64))
			b.WriteByte(')')

			return
		}

		b.WriteString(strconv.FormatFloat(expr.Value, 'g', -1, 64))

	case *Unary:
		needParens := fmtPrecUnary < parentPrec
		if needParens {
			b.WriteByte('(')
		}

		b.WriteString(string(expr.Op))
		formatExpr(b, expr.Operand, fmtPrecUnary)

		if needParens {
			b.WriteByte(')')
		}

	case *Variable:
		b.WriteString(expr.Name)

	default:
		panic("ast: unknown expression type")
	}
}
