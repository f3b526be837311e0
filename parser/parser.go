// Package parser builds an expression tree from a token stream using
// recursive descent with precedence climbing.
//
// Parsing never consults variable bindings: any identifier that is not
// a function call is accepted as a variable name, and whether it can
// be resolved is decided at evaluation time.
package parser

import (
	"fmt"
	"io"
	"strconv"

	"github.com/artuross/lepton/ast"
	"github.com/artuross/lepton/builtin"
	"github.com/artuross/lepton/lexer"
)

// SyntaxError reports malformed grammar, an unknown function name, or
// a wrong argument count, with the position of the offending token.
type SyntaxError struct {
	Position lexer.Point
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Position.Line, e.Position.Column, e.Message)
}

type OperatorPrecedence int

const (
	OperatorPrecedenceUnset          OperatorPrecedence = 0
	OperatorPrecedenceAdditive       OperatorPrecedence = 1 // "+" "-"
	OperatorPrecedenceMultiplicative OperatorPrecedence = 2 // "*" "/"
	OperatorPrecedenceNegation       OperatorPrecedence = 3 // unary "-"
	OperatorPrecedencePower          OperatorPrecedence = 4 // "^", right-associative
)

type operator struct {
	op         ast.BinaryOp
	prec       OperatorPrecedence
	rightAssoc bool
}

var operators = map[string]operator{
	"+": {ast.OperatorAdd, OperatorPrecedenceAdditive, false},
	"-": {ast.OperatorSubtract, OperatorPrecedenceAdditive, false},
	"*": {ast.OperatorMultiply, OperatorPrecedenceMultiplicative, false},
	"/": {ast.OperatorDivide, OperatorPrecedenceMultiplicative, false},
	"^": {ast.OperatorPower, OperatorPrecedencePower, true},
}

type Lexer interface {
	ReadToken() (*lexer.Token, error)
	Point() lexer.Point
}

type Parser struct {
	lexer  Lexer
	tokens []*lexer.Token
	pos    int
}

func NewParser(lexer Lexer) *Parser {
	return &Parser{
		lexer: lexer,
	}
}

// Parse consumes the whole token stream and returns the tree. Tokens
// remaining after a complete expression are an error.
func (p *Parser) Parse() (ast.Expr, error) {
	expr, err := p.parseBinaryExpression(OperatorPrecedenceUnset)
	if err != nil {
		return nil, err
	}

	token, err := p.readToken()
	if err == io.EOF {
		return expr, nil
	}
	if err != nil {
		return nil, err
	}

	return nil, &SyntaxError{
		Position: token.Position.Start,
		Message:  fmt.Sprintf("unexpected %q after expression", token.RawValue),
	}
}

func (p *Parser) parseBinaryExpression(minPrec OperatorPrecedence) (ast.Expr, error) {
	left, err := p.parsePrimaryExpression()
	if err != nil {
		return nil, err
	}

	for {
		token, err := p.readToken()
		if err == io.EOF {
			return left, nil
		}
		if err != nil {
			return nil, err
		}

		if token.Type == lexer.TokenTypeRightParen || token.Type == lexer.TokenTypeComma {
			p.unreadToken()

			return left, nil
		}

		if token.Type != lexer.TokenTypeOperator {
			return nil, &SyntaxError{
				Position: token.Position.Start,
				Message:  fmt.Sprintf("expected operator, found %q", token.RawValue),
			}
		}

		op, isOp := operators[token.Value]
		if !isOp {
			return nil, &SyntaxError{
				Position: token.Position.Start,
				Message:  fmt.Sprintf("unsupported operator %q", token.Value),
			}
		}

		if op.prec < minPrec {
			// belongs to an enclosing expression
			p.unreadToken()

			return left, nil
		}

		nextMinPrec := op.prec + 1
		if op.rightAssoc {
			nextMinPrec = op.prec
		}

		right, err := p.parseBinaryExpression(nextMinPrec)
		if err != nil {
			return nil, err
		}

		left = &ast.Binary{
			Op:    op.op,
			Left:  left,
			Right: right,
		}
	}
}

func (p *Parser) parsePrimaryExpression() (ast.Expr, error) {
	token, err := p.readToken()
	if err == io.EOF {
		return nil, &SyntaxError{
			Position: p.lexer.Point(),
			Message:  "unexpected end of expression",
		}
	}
	if err != nil {
		return nil, err
	}

	switch token.Type {
	case lexer.TokenTypeNumber:
		value, err := strconv.ParseFloat(token.Value, 64)
		invariant(err != nil, "parsePrimaryExpression: lexer produced unparseable number")

		return &ast.Constant{
			Value: value,
		}, nil

	case lexer.TokenTypeIdentifier:
		return p.parseIdentifierExpression(token)

	case lexer.TokenTypeLeftParen:
		return p.parseGroupedExpression(token)

	case lexer.TokenTypeOperator:
		if token.Value == "-" {
			return p.parseNegateExpression()
		}

		return nil, &SyntaxError{
			Position: token.Position.Start,
			Message:  fmt.Sprintf("expected operand, found operator %q", token.Value),
		}

	default:
		return nil, &SyntaxError{
			Position: token.Position.Start,
			Message:  fmt.Sprintf("expected operand, found %q", token.RawValue),
		}
	}
}

// parseNegateExpression parses the operand of a unary minus. The
// operand is parsed at the negation precedence level so that "^" on
// its right binds tighter: "-x^2" is "-(x^2)", while "-x*y" is
// "(-x)*y".
func (p *Parser) parseNegateExpression() (ast.Expr, error) {
	operand, err := p.parseBinaryExpression(OperatorPrecedenceNegation)
	if err != nil {
		return nil, err
	}

	expr := &ast.Unary{
		Op:      ast.OperatorNegate,
		Operand: operand,
	}

	return expr, nil
}

// parseIdentifierExpression resolves an identifier to either a
// function call, when followed by "(", or a variable reference.
// Function names are checked against the registry here; variable
// names are never checked against anything.
func (p *Parser) parseIdentifierExpression(token *lexer.Token) (ast.Expr, error) {
	next, err := p.readToken()
	if err == io.EOF {
		return &ast.Variable{
			Name: token.Value,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	if next.Type != lexer.TokenTypeLeftParen {
		p.unreadToken()

		return &ast.Variable{
			Name: token.Value,
		}, nil
	}

	fn, known := builtin.Lookup(token.Value)
	if !known {
		return nil, &SyntaxError{
			Position: token.Position.Start,
			Message:  fmt.Sprintf("unknown function %q", token.Value),
		}
	}

	args, err := p.parseCallArgumentList()
	if err != nil {
		return nil, err
	}

	if len(args) != fn.Arity {
		return nil, &SyntaxError{
			Position: token.Position.Start,
			Message:  fmt.Sprintf("function %q expects %d arguments, got %d", fn.Name, fn.Arity, len(args)),
		}
	}

	expr := &ast.Call{
		Name: fn.Name,
		Args: args,
	}

	return expr, nil
}

func (p *Parser) parseCallArgumentList() ([]ast.Expr, error) {
	args := make([]ast.Expr, 0)

	for {
		arg, err := p.parseBinaryExpression(OperatorPrecedenceUnset)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		// expect either , or )
		token, err := p.readToken()
		if err == io.EOF {
			return nil, &SyntaxError{
				Position: p.lexer.Point(),
				Message:  "unexpected end of expression, expected \")\"",
			}
		}
		if err != nil {
			return nil, err
		}

		if token.Type == lexer.TokenTypeRightParen {
			return args, nil
		}

		if token.Type == lexer.TokenTypeComma {
			continue
		}

		return nil, &SyntaxError{
			Position: token.Position.Start,
			Message:  fmt.Sprintf("expected \",\" or \")\" after argument, found %q", token.RawValue),
		}
	}
}

func (p *Parser) parseGroupedExpression(open *lexer.Token) (ast.Expr, error) {
	expr, err := p.parseBinaryExpression(OperatorPrecedenceUnset)
	if err != nil {
		return nil, err
	}

	token, err := p.readToken()
	if err == io.EOF {
		return nil, &SyntaxError{
			Position: open.Position.Start,
			Message:  "unbalanced parenthesis, expected \")\"",
		}
	}
	if err != nil {
		return nil, err
	}

	if token.Type != lexer.TokenTypeRightParen {
		return nil, &SyntaxError{
			Position: token.Position.Start,
			Message:  fmt.Sprintf("expected \")\", found %q", token.RawValue),
		}
	}

	return expr, nil
}

func (p *Parser) readToken() (*lexer.Token, error) {
	if p.pos >= len(p.tokens) {
		token, err := p.lexer.ReadToken()
		if err != nil {
			return nil, err
		}

		p.tokens = append(p.tokens, token)
		p.pos++

		return token, nil
	}

	token := p.tokens[p.pos]
	p.pos++

	return token, nil
}

func (p *Parser) unreadToken() {
	if p.pos > 0 {
		p.pos--
	}
}

func invariant(assertion bool, message string) {
	if assertion {
		panic(message)
	}
}
