package lexer_test

import (
	"fmt"
	"io"
	"testing"

	"github.com/artuross/lepton/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer(t *testing.T) {
	t.Run("operators", func(t *testing.T) {
		values := []string{"+", "-", "*", "/", "^"}

		for index, value := range values {
			t.Run(fmt.Sprintf("%d - %s", index, value), func(t *testing.T) {
				expectedToken := &lexer.Token{
					Type:     lexer.TokenTypeOperator,
					Position: position(1, 1, 1, 2),
					RawValue: value,
					Value:    value,
				}

				tokens := readAll(t, value)

				require.Equal(t, 1, len(tokens), "incorrect number of tokens")

				assert.Equal(t, expectedToken, tokens[0])
			})
		}
	})

	t.Run("remaining", func(t *testing.T) {
		type testCase struct {
			name   string
			input  string
			tokens []*lexer.Token
		}

		testCases := []testCase{
			{
				name:  "number / integer",
				input: "123",
				tokens: []*lexer.Token{
					{
						Type:     lexer.TokenTypeNumber,
						Position: position(1, 1, 1, 4),
						RawValue: "123",
						Value:    "123",
					},
				},
			},
			{
				name:  "number / decimal",
				input: "1.25",
				tokens: []*lexer.Token{
					{
						Type:     lexer.TokenTypeNumber,
						Position: position(1, 1, 1, 5),
						RawValue: "1.25",
						Value:    "1.25",
					},
				},
			},
			{
				name:  "number / leading dot",
				input: ".5",
				tokens: []*lexer.Token{
					{
						Type:     lexer.TokenTypeNumber,
						Position: position(1, 1, 1, 3),
						RawValue: ".5",
						Value:    ".5",
					},
				},
			},
			{
				name:  "number / exponent",
				input: "2e-3",
				tokens: []*lexer.Token{
					{
						Type:     lexer.TokenTypeNumber,
						Position: position(1, 1, 1, 5),
						RawValue: "2e-3",
						Value:    "2e-3",
					},
				},
			},
			{
				name:  "number / e not followed by digit is an identifier",
				input: "2eggs",
				tokens: []*lexer.Token{
					{
						Type:     lexer.TokenTypeNumber,
						Position: position(1, 1, 1, 2),
						RawValue: "2",
						Value:    "2",
					},
					{
						Type:     lexer.TokenTypeIdentifier,
						Position: position(1, 2, 1, 6),
						RawValue: "eggs",
						Value:    "eggs",
					},
				},
			},
			{
				name:  "identifier",
				input: "x",
				tokens: []*lexer.Token{
					{
						Type:     lexer.TokenTypeIdentifier,
						Position: position(1, 1, 1, 2),
						RawValue: "x",
						Value:    "x",
					},
				},
			},
			{
				name:  "identifier / dotted name is one token",
				input: "state.muscle1.activation",
				tokens: []*lexer.Token{
					{
						Type:     lexer.TokenTypeIdentifier,
						Position: position(1, 1, 1, 25),
						RawValue: "state.muscle1.activation",
						Value:    "state.muscle1.activation",
					},
				},
			},
			{
				name:  "delimiters",
				input: "(,)",
				tokens: []*lexer.Token{
					{
						Type:     lexer.TokenTypeLeftParen,
						Position: position(1, 1, 1, 2),
						RawValue: "(",
						Value:    "(",
					},
					{
						Type:     lexer.TokenTypeComma,
						Position: position(1, 2, 1, 3),
						RawValue: ",",
						Value:    ",",
					},
					{
						Type:     lexer.TokenTypeRightParen,
						Position: position(1, 3, 1, 4),
						RawValue: ")",
						Value:    ")",
					},
				},
			},
			{
				name:  "whitespace skipped",
				input: "  1 +\tx",
				tokens: []*lexer.Token{
					{
						Type:     lexer.TokenTypeNumber,
						Position: position(1, 3, 1, 4),
						RawValue: "1",
						Value:    "1",
					},
					{
						Type:     lexer.TokenTypeOperator,
						Position: position(1, 5, 1, 6),
						RawValue: "+",
						Value:    "+",
					},
					{
						Type:     lexer.TokenTypeIdentifier,
						Position: position(1, 7, 1, 8),
						RawValue: "x",
						Value:    "x",
					},
				},
			},
			{
				name:  "minus is always a plain operator",
				input: "-1",
				tokens: []*lexer.Token{
					{
						Type:     lexer.TokenTypeOperator,
						Position: position(1, 1, 1, 2),
						RawValue: "-",
						Value:    "-",
					},
					{
						Type:     lexer.TokenTypeNumber,
						Position: position(1, 2, 1, 3),
						RawValue: "1",
						Value:    "1",
					},
				},
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				tokens := readAll(t, tc.input)

				t.Logf("expression: %v", tc.input)

				require.Equal(t, len(tc.tokens), len(tokens), "incorrect number of tokens")

				for i := range len(tc.tokens) {
					assert.Equal(t, tc.tokens[i], tokens[i], "token index %d", i)
				}
			})
		}
	})

	t.Run("malformed number", func(t *testing.T) {
		lex := lexer.NewLexer("1 + .")

		_, err := lex.ReadToken()
		require.NoError(t, err)

		_, err = lex.ReadToken()
		require.NoError(t, err)

		_, err = lex.ReadToken()
		require.Error(t, err)

		var numErr *lexer.MalformedNumberError
		require.ErrorAs(t, err, &numErr)

		assert.Equal(t, ".", numErr.Literal)
		assert.Equal(t, lexer.Point{Line: 1, Column: 5}, numErr.Point)
	})

	t.Run("unrecognized character", func(t *testing.T) {
		lex := lexer.NewLexer("1 + $")

		_, err := lex.ReadToken()
		require.NoError(t, err)

		_, err = lex.ReadToken()
		require.NoError(t, err)

		_, err = lex.ReadToken()
		require.Error(t, err)

		var lexErr *lexer.LexError
		require.ErrorAs(t, err, &lexErr)

		assert.Equal(t, '$', lexErr.Character)
		assert.Equal(t, lexer.Point{Line: 1, Column: 5}, lexErr.Point)
	})
}

func readAll(t *testing.T, input string) []*lexer.Token {
	t.Helper()

	lex := lexer.NewLexer(input)

	tokens := make([]*lexer.Token, 0)

	index := 0
	for {
		token, err := lex.ReadToken()
		if err == io.EOF {
			break
		}
		require.NoError(t, err, "error when reading token %d", index)

		tokens = append(tokens, token)

		index++
	}

	return tokens
}

func position(startLine, startColumn, endLine, endColumn int) lexer.Position {
	return lexer.Position{
		Start: lexer.Point{
			Line:   startLine,
			Column: startColumn,
		},
		End: lexer.Point{
			Line:   endLine,
			Column: endColumn,
		},
	}
}
