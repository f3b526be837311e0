// Package ast defines the expression tree produced by the parser.
//
// Trees are immutable once built: no function in this module ever
// mutates a node in place, and transformations always allocate new
// nodes. A single tree may therefore be evaluated from any number of
// goroutines concurrently.
package ast

var (
	_ Expr = (*Binary)(nil)
	_ Expr = (*Call)(nil)
	_ Expr = (*Constant)(nil)
	_ Expr = (*Unary)(nil)
	_ Expr = (*Variable)(nil)
)

type Expr interface {
	isExpr()
}

type (
	// Binary applies an arithmetic operator to two operands.
	Binary struct {
		Op    BinaryOp
		Left  Expr
		Right Expr
	}

	// Call invokes a builtin function with an ordered argument list.
	Call struct {
		Name string
		Args []Expr
	}

	// Constant is a numeric literal.
	Constant struct {
		Value float64
	}

	// Unary applies an operator to a single operand.
	Unary struct {
		Op      UnaryOp
		Operand Expr
	}

	// Variable is a named value resolved at evaluation time. Dotted
	// names such as "state.muscle1.activation" are opaque strings;
	// the dots carry no meaning inside the engine.
	Variable struct {
		Name string
	}
)

func (e Binary) isExpr()   {}
func (e Call) isExpr()     {}
func (e Constant) isExpr() {}
func (e Unary) isExpr()    {}
func (e Variable) isExpr() {}
