// Package builtin holds the fixed table of named functions available
// in expressions. The table is initialized once and never mutated, so
// it is safe to consult from any goroutine without locking.
package builtin

import (
	"math"
	"sort"

	"github.com/artuross/lepton/ast"
)

// Function is one registry entry: how to evaluate a call numerically
// and how to differentiate it symbolically.
type Function struct {
	Name  string
	Arity int

	// Eval computes the function over IEEE-754 doubles. Domain errors
	// (sqrt of a negative, log of zero) propagate as NaN or ±Inf and
	// are never reported as Go errors.
	Eval func(args []float64) float64

	// Partial returns the partial derivative of the function with
	// respect to args[index], as a tree over the given argument
	// expressions. Callers own args and must pass clones if the
	// originals may not be shared.
	Partial func(args []ast.Expr, index int) ast.Expr
}

// Lookup returns the registry entry for a function name. The parser
// rejects unknown names, so a failed lookup at evaluation time means
// the tree was built by hand.
func Lookup(name string) (Function, bool) {
	fn, ok := functions[name]

	return fn, ok
}

// Names returns all registered function names, sorted.
func Names() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

var functions = map[string]Function{
	"sqrt": {
		Name:  "sqrt",
		Arity: 1,
		Eval:  func(args []float64) float64 { return math.Sqrt(args[0]) },
		// d sqrt(u) = 0.5 / sqrt(u)
		Partial: func(args []ast.Expr, index int) ast.Expr {
			return div(constant(0.5), call("sqrt", args[0]))
		},
	},
	"exp": {
		Name:  "exp",
		Arity: 1,
		Eval:  func(args []float64) float64 { return math.Exp(args[0]) },
		Partial: func(args []ast.Expr, index int) ast.Expr {
			return call("exp", args[0])
		},
	},
	"log": {
		Name:  "log",
		Arity: 1,
		Eval:  func(args []float64) float64 { return math.Log(args[0]) },
		Partial: func(args []ast.Expr, index int) ast.Expr {
			return div(constant(1), args[0])
		},
	},
	"sin": {
		Name:  "sin",
		Arity: 1,
		Eval:  func(args []float64) float64 { return math.Sin(args[0]) },
		Partial: func(args []ast.Expr, index int) ast.Expr {
			return call("cos", args[0])
		},
	},
	"cos": {
		Name:  "cos",
		Arity: 1,
		Eval:  func(args []float64) float64 { return math.Cos(args[0]) },
		Partial: func(args []ast.Expr, index int) ast.Expr {
			return negate(call("sin", args[0]))
		},
	},
	"tan": {
		Name:  "tan",
		Arity: 1,
		Eval:  func(args []float64) float64 { return math.Tan(args[0]) },
		// d tan(u) = 1 + tan(u)^2
		Partial: func(args []ast.Expr, index int) ast.Expr {
			return add(constant(1), call("square", call("tan", args[0])))
		},
	},
	"asin": {
		Name:  "asin",
		Arity: 1,
		Eval:  func(args []float64) float64 { return math.Asin(args[0]) },
		Partial: func(args []ast.Expr, index int) ast.Expr {
			return div(constant(1), call("sqrt", sub(constant(1), call("square", args[0]))))
		},
	},
	"acos": {
		Name:  "acos",
		Arity: 1,
		Eval:  func(args []float64) float64 { return math.Acos(args[0]) },
		Partial: func(args []ast.Expr, index int) ast.Expr {
			return negate(div(constant(1), call("sqrt", sub(constant(1), call("square", args[0])))))
		},
	},
	"atan": {
		Name:  "atan",
		Arity: 1,
		Eval:  func(args []float64) float64 { return math.Atan(args[0]) },
		Partial: func(args []ast.Expr, index int) ast.Expr {
			return div(constant(1), add(constant(1), call("square", args[0])))
		},
	},
	"sinh": {
		Name:  "sinh",
		Arity: 1,
		Eval:  func(args []float64) float64 { return math.Sinh(args[0]) },
		Partial: func(args []ast.Expr, index int) ast.Expr {
			return call("cosh", args[0])
		},
	},
	"cosh": {
		Name:  "cosh",
		Arity: 1,
		Eval:  func(args []float64) float64 { return math.Cosh(args[0]) },
		Partial: func(args []ast.Expr, index int) ast.Expr {
			return call("sinh", args[0])
		},
	},
	"tanh": {
		Name:  "tanh",
		Arity: 1,
		Eval:  func(args []float64) float64 { return math.Tanh(args[0]) },
		Partial: func(args []ast.Expr, index int) ast.Expr {
			return sub(constant(1), call("square", call("tanh", args[0])))
		},
	},
	"abs": {
		Name:  "abs",
		Arity: 1,
		Eval:  func(args []float64) float64 { return math.Abs(args[0]) },
		// u / |u|; undefined at u = 0 and evaluates to NaN there
		Partial: func(args []ast.Expr, index int) ast.Expr {
			return div(args[0], call("abs", ast.Clone(args[0])))
		},
	},
	"square": {
		Name:  "square",
		Arity: 1,
		Eval:  func(args []float64) float64 { return args[0] * args[0] },
		Partial: func(args []ast.Expr, index int) ast.Expr {
			return mul(constant(2), args[0])
		},
	},
	"cube": {
		Name:  "cube",
		Arity: 1,
		Eval:  func(args []float64) float64 { return args[0] * args[0] * args[0] },
		Partial: func(args []ast.Expr, index int) ast.Expr {
			return mul(constant(3), call("square", args[0]))
		},
	},
	"min": {
		Name:  "min",
		Arity: 2,
		Eval:  func(args []float64) float64 { return math.Min(args[0], args[1]) },
		// from min(a,b) = (a + b - |a-b|) / 2:
		// d/da = (1 - sign(a-b)) / 2, d/db = (1 + sign(a-b)) / 2,
		// with sign(u) written as u/|u|
		Partial: func(args []ast.Expr, index int) ast.Expr {
			s := signOf(sub(args[0], args[1]))
			if index == 0 {
				return div(sub(constant(1), s), constant(2))
			}

			return div(add(constant(1), s), constant(2))
		},
	},
	"max": {
		Name:  "max",
		Arity: 2,
		Eval:  func(args []float64) float64 { return math.Max(args[0], args[1]) },
		Partial: func(args []ast.Expr, index int) ast.Expr {
			s := signOf(sub(args[0], args[1]))
			if index == 0 {
				return div(add(constant(1), s), constant(2))
			}

			return div(sub(constant(1), s), constant(2))
		},
	},
	"pow": {
		Name:  "pow",
		Arity: 2,
		Eval:  func(args []float64) float64 { return math.Pow(args[0], args[1]) },
		// d/da a^b = b * a^(b-1); d/db a^b = log(a) * a^b
		Partial: func(args []ast.Expr, index int) ast.Expr {
			if index == 0 {
				return mul(args[1], call("pow", args[0], sub(ast.Clone(args[1]), constant(1))))
			}

			return mul(call("log", args[0]), call("pow", ast.Clone(args[0]), args[1]))
		},
	},
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

func negate(operand ast.Expr) ast.Expr {
	return &ast.Unary{Op: ast.OperatorNegate, Operand: operand}
}

func constant(value float64) ast.Expr {
	return &ast.Constant{Value: value}
}

func call(name string, args ...ast.Expr) ast.Expr {
	return &ast.Call{Name: name, Args: args}
}

// signOf builds u/|u|. The two uses of u must not alias, so the
// second is cloned.
func signOf(u ast.Expr) ast.Expr {
	return div(u, call("abs", ast.Clone(u)))
}
