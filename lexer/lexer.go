// Package lexer converts raw expression text into a stream of tokens.
package lexer

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"unicode/utf8"
)

type TokenType string

const (
	TokenTypeComma      TokenType = "COMMA"
	TokenTypeIdentifier TokenType = "IDENTIFIER"
	TokenTypeLeftParen  TokenType = "LEFT_PAREN"
	TokenTypeNumber     TokenType = "NUMBER"
	TokenTypeOperator   TokenType = "OPERATOR"
	TokenTypeRightParen TokenType = "RIGHT_PAREN"
)

// LexError reports a character that cannot start any token.
type LexError struct {
	Point     Point
	Character rune
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%d:%d: unrecognized character %q", e.Point.Line, e.Point.Column, e.Character)
}

// MalformedNumberError reports a literal that starts like a number but
// does not parse as one, such as a lone ".".
type MalformedNumberError struct {
	Point   Point
	Literal string
}

func (e *MalformedNumberError) Error() string {
	return fmt.Sprintf("%d:%d: malformed number %q", e.Point.Line, e.Point.Column, e.Literal)
}

type Point struct {
	Line   int
	Column int
}

type Position struct {
	Start Point
	End   Point
}

type Token struct {
	Type     TokenType
	RawValue string
	Value    string
	Position Position
}

type Lexer struct {
	input    []byte
	point    Point
	position int
}

func NewLexer(input string) *Lexer {
	return &Lexer{
		input:    []byte(input),
		point:    Point{Line: 1, Column: 1},
		position: 0,
	}
}

// ReadToken returns the next token, or io.EOF once the input is
// exhausted. A "-" is always emitted as a plain operator token; the
// parser decides whether it negates or subtracts.
func (l *Lexer) ReadToken() (*Token, error) {
	l.advanceWhitespace()

	r, _, err := l.peek()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}

	if isDigit(r) || r == '.' {
		return l.readNumber()
	}

	if isIdentifierOpeningCharacter(r) {
		return l.readIdentifier()
	}

	if isOperatorCharacter(r) {
		return l.readOperator()
	}

	if r == '(' || r == ')' || r == ',' {
		return l.readDelimiter()
	}

	return nil, &LexError{Point: l.point, Character: r}
}

// Point reports the position of the next unread character. Used for
// error reporting when the input ends mid-expression.
func (l *Lexer) Point() Point {
	return l.point
}

func (l *Lexer) advanceWhitespace() {
	for {
		r, _, err := l.peek()
		if err != nil {
			return
		}

		switch r {
		case ' ', '\t', '\r':
			_, _ = l.read()

		case '\n':
			_, _ = l.read()

			l.point.Line++
			l.point.Column = 1

		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() (*Token, error) {
	startPoint := l.point

	r, err := l.read()
	invariant(err != nil, "readIdentifier: unexpected read() error when consuming first character")
	invariant(!isIdentifierOpeningCharacter(r), "readIdentifier: first character is not valid")

	value := []rune{r}

	for {
		r, _, err := l.peek()
		if err != nil {
			break
		}

		// embedded dots are preserved verbatim; hierarchical names
		// like "state.muscle1.activation" are a single identifier
		if !isIdentifierContinuationCharacter(r) {
			break
		}

		_, err = l.read()
		invariant(err != nil, "readIdentifier: unexpected read() error after peek()")

		value = append(value, r)
	}

	endPoint := l.point

	token := Token{
		Type: TokenTypeIdentifier,
		Position: Position{
			Start: startPoint,
			End:   endPoint,
		},
		RawValue: string(value),
		Value:    string(value),
	}

	return &token, nil
}

func (l *Lexer) readNumber() (*Token, error) {
	startPoint := l.point
	startPos := l.position

	value := make([]rune, 0, 1)

	r, err := l.read()
	invariant(err != nil, "readNumber: unexpected read() error when consuming first character")

	value = append(value, r)
	sawDot := r == '.'

	for {
		r, _, err := l.peek()
		if err != nil {
			break
		}

		if isDigit(r) {
			_, _ = l.read()
			value = append(value, r)

			continue
		}

		if r == '.' && !sawDot {
			_, _ = l.read()
			value = append(value, r)
			sawDot = true

			continue
		}

		if (r == 'e' || r == 'E') && l.startsExponent() {
			l.readExponent(&value)

			break
		}

		break
	}

	endPoint := l.point
	endPos := l.position

	if _, err := strconv.ParseFloat(string(value), 64); err != nil {
		return nil, &MalformedNumberError{Point: startPoint, Literal: string(value)}
	}

	token := Token{
		Type: TokenTypeNumber,
		Position: Position{
			Start: startPoint,
			End:   endPoint,
		},
		RawValue: string(l.input[startPos:endPos]),
		Value:    string(value),
	}

	return &token, nil
}

// startsExponent reports whether the characters after the current
// "e"/"E" continue the number, i.e. a digit or a signed digit.
func (l *Lexer) startsExponent() bool {
	next := l.position + 1
	if next >= len(l.input) {
		return false
	}

	r := rune(l.input[next])
	if isDigit(r) {
		return true
	}

	if r != '+' && r != '-' {
		return false
	}

	if next+1 >= len(l.input) {
		return false
	}

	return isDigit(rune(l.input[next+1]))
}

func (l *Lexer) readExponent(value *[]rune) {
	r, err := l.read()
	invariant(err != nil, "readExponent: unexpected read() error when consuming exponent marker")

	*value = append(*value, r)

	r, _, err2 := l.peek()
	if err2 == nil && (r == '+' || r == '-') {
		_, _ = l.read()
		*value = append(*value, r)
	}

	for {
		r, _, err := l.peek()
		if err != nil || !isDigit(r) {
			return
		}

		_, _ = l.read()
		*value = append(*value, r)
	}
}

func (l *Lexer) readOperator() (*Token, error) {
	startPoint := l.point

	r, err := l.read()
	invariant(err != nil, "readOperator: unexpected read() error when consuming first character")

	endPoint := l.point

	token := Token{
		Type: TokenTypeOperator,
		Position: Position{
			Start: startPoint,
			End:   endPoint,
		},
		RawValue: string(r),
		Value:    string(r),
	}

	return &token, nil
}

func (l *Lexer) readDelimiter() (*Token, error) {
	startPoint := l.point

	r, err := l.read()
	invariant(err != nil, "readDelimiter: unexpected read() error when consuming first character")

	endPoint := l.point

	tokenType := TokenTypeComma
	switch r {
	case '(':
		tokenType = TokenTypeLeftParen
	case ')':
		tokenType = TokenTypeRightParen
	}

	token := Token{
		Type: tokenType,
		Position: Position{
			Start: startPoint,
			End:   endPoint,
		},
		RawValue: string(r),
		Value:    string(r),
	}

	return &token, nil
}

func (l *Lexer) peek() (rune, int, error) {
	if l.position >= len(l.input) {
		return 0, 0, io.EOF
	}

	r, size := utf8.DecodeRune(l.input[l.position:])
	if r == utf8.RuneError && size <= 1 {
		return 0, 0, &LexError{Point: l.point, Character: r}
	}

	return r, size, nil
}

func (l *Lexer) read() (rune, error) {
	r, size, err := l.peek()
	if err != nil {
		return 0, err
	}

	l.position += size
	l.point.Column += size

	return r, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentifierContinuationCharacter(r rune) bool {
	return isIdentifierOpeningCharacter(r) || isDigit(r) || r == '.'
}

func isIdentifierOpeningCharacter(r rune) bool {
	return isLetter(r) || r == '_'
}

func isOperatorCharacter(r rune) bool {
	return slices.Contains([]rune{'+', '-', '*', '/', '^'}, r)
}

func invariant(assertion bool, message string) {
	if assertion {
		panic(message)
	}
}
