// Package lepton compiles textual math expressions into reusable
// expression trees and evaluates them against named variables.
//
// An expression is parsed once and evaluated many times:
//
//	expr, err := lepton.Parse("sqrt(x)-1")
//	value, err := expr.Evaluate(map[string]float64{"x": 9})
//
// Variable names may contain dots ("state.muscle1.activation"); the
// engine treats them as opaque keys. Parsing never requires variable
// bindings; an unresolved name only surfaces when Evaluate is called
// without it. A parsed expression is immutable and safe to evaluate
// concurrently against distinct variable maps.
package lepton

import (
	"github.com/artuross/lepton/ast"
	"github.com/artuross/lepton/derive"
	"github.com/artuross/lepton/evaluate"
	"github.com/artuross/lepton/lexer"
	"github.com/artuross/lepton/parser"
)

// Expression is the compiled form of an expression string.
type Expression struct {
	root      ast.Expr
	variables []string
}

// Parse compiles an expression string. It returns a *lexer.LexError
// for an unrecognized character, a *lexer.MalformedNumberError for a
// literal that starts like a number but does not parse as one, and a
// *parser.SyntaxError for malformed grammar, an unknown function, or
// a wrong argument count.
func Parse(text string) (*Expression, error) {
	p := parser.NewParser(lexer.NewLexer(text))

	root, err := p.Parse()
	if err != nil {
		return nil, err
	}

	return FromTree(root), nil
}

// FromTree wraps an existing tree. The tree must not be modified
// afterwards; callers keeping their own reference should pass a clone.
func FromTree(root ast.Expr) *Expression {
	return &Expression{
		root:      root,
		variables: ast.Variables(root),
	}
}

// Evaluate computes the expression value. A nil map is valid for
// expressions without variables; a referenced name missing from the
// map yields a *evaluate.UndefinedVariableError.
func (e *Expression) Evaluate(variables map[string]float64) (float64, error) {
	return evaluate.Evaluate(e.root, variables)
}

// Differentiate returns a new expression for the partial derivative
// with respect to the named variable. The receiver is left untouched.
func (e *Expression) Differentiate(name string) (*Expression, error) {
	derivative, err := derive.Differentiate(e.root, name)
	if err != nil {
		return nil, err
	}

	return FromTree(derivative), nil
}

// Variables returns the sorted distinct variable names the expression
// references. Callers use it to check that a variable map is complete
// before evaluating.
func (e *Expression) Variables() []string {
	names := make([]string, len(e.variables))
	copy(names, e.variables)

	return names
}

// Tree returns the root node. The returned tree must be treated as
// read-only.
func (e *Expression) Tree() ast.Expr {
	return e.root
}

func (e *Expression) String() string {
	return ast.Format(e.root)
}
