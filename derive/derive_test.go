package derive_test

import (
	"math"
	"testing"

	"github.com/artuross/lepton/ast"
	"github.com/artuross/lepton/derive"
	"github.com/artuross/lepton/evaluate"
	"github.com/artuross/lepton/lexer"
	"github.com/artuross/lepton/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifferentiate(t *testing.T) {
	type testCase struct {
		name      string
		inputExpr string
		by        string
		at        map[string]float64
		expected  float64
	}

	testCases := []testCase{
		{
			name:      "constant",
			inputExpr: "42",
			by:        "x",
			expected:  0,
		},
		{
			name:      "matching variable",
			inputExpr: "x",
			by:        "x",
			expected:  1,
		},
		{
			name:      "other variable",
			inputExpr: "y",
			by:        "x",
			at:        map[string]float64{"y": 7},
			expected:  0,
		},
		{
			name:      "sum rule",
			inputExpr: "x + 2*x",
			by:        "x",
			at:        map[string]float64{"x": 5},
			expected:  3,
		},
		{
			name:      "product rule", // d(x*sin(x)) = sin(x) + x*cos(x)
			inputExpr: "x * sin(x)",
			by:        "x",
			at:        map[string]float64{"x": 0.7},
			expected:  math.Sin(0.7) + 0.7*math.Cos(0.7),
		},
		{
			name:      "quotient rule", // d(1/x) = -1/x^2
			inputExpr: "1 / x",
			by:        "x",
			at:        map[string]float64{"x": 2},
			expected:  -0.25,
		},
		{
			name:      "power rule with constant exponent", // d(x^3) = 3x^2
			inputExpr: "x^3",
			by:        "x",
			at:        map[string]float64{"x": 2},
			expected:  12,
		},
		{
			name:      "power rule with variable exponent", // d(2^x) = log(2)*2^x
			inputExpr: "2^x",
			by:        "x",
			at:        map[string]float64{"x": 3},
			expected:  math.Log(2) * 8,
		},
		{
			name:      "chain rule", // d(sin(x^2)) = cos(x^2)*2x
			inputExpr: "sin(x^2)",
			by:        "x",
			at:        map[string]float64{"x": 0.5},
			expected:  math.Cos(0.25),
		},
		{
			name:      "chain rule through sqrt", // d(sqrt(x)-1) = 0.5/sqrt(x)
			inputExpr: "sqrt(x)-1",
			by:        "x",
			at:        map[string]float64{"x": 9},
			expected:  1.0 / 6,
		},
		{
			name:      "unary minus",
			inputExpr: "-x^2",
			by:        "x",
			at:        map[string]float64{"x": 3},
			expected:  -6,
		},
		{
			name:      "binary function", // d(pow(x, 2)) = 2x
			inputExpr: "pow(x, 2)",
			by:        "x",
			at:        map[string]float64{"x": 4},
			expected:  8,
		},
		{
			name:      "dotted variable",
			inputExpr: "state.muscle1.activation^2",
			by:        "state.muscle1.activation",
			at:        map[string]float64{"state.muscle1.activation": 0.5},
			expected:  1,
		},
		{
			name:      "partial derivative leaves other variables alone", // d/dx (x*y) = y
			inputExpr: "x * y",
			by:        "x",
			at:        map[string]float64{"x": 2, "y": 3},
			expected:  3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			expr := mustParse(t, tc.inputExpr)

			derivative, err := derive.Differentiate(expr, tc.by)
			require.NoError(t, err)

			value, err := evaluate.Evaluate(derivative, tc.at)
			require.NoError(t, err)

			assert.InDelta(t, tc.expected, value, 1e-7)
		})
	}
}

func TestDifferentiate_ConstantFolding(t *testing.T) {
	t.Run("derivative of a constant expression is the zero constant", func(t *testing.T) {
		derivative, err := derive.Differentiate(mustParse(t, "sqrt(9) * 3 + 1"), "x")
		require.NoError(t, err)

		assert.Equal(t, &ast.Constant{Value: 0}, derivative)
	})

	t.Run("vanishing terms are dropped", func(t *testing.T) {
		// d/dx (x^3) with constant exponent must not retain the
		// log-term of the general power rule
		derivative, err := derive.Differentiate(mustParse(t, "x^3"), "x")
		require.NoError(t, err)

		assert.NotContains(t, ast.Format(derivative), "log")
	})
}

func TestDifferentiate_DoesNotMutateInput(t *testing.T) {
	expr := mustParse(t, "x * sin(x) + sqrt(x)")
	variables := map[string]float64{"x": 2.25}

	before, err := evaluate.Evaluate(expr, variables)
	require.NoError(t, err)

	formatted := ast.Format(expr)

	_, err = derive.Differentiate(expr, "x")
	require.NoError(t, err)

	after, err := evaluate.Evaluate(expr, variables)
	require.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Equal(t, formatted, ast.Format(expr))
}

func TestDifferentiate_SharesNoNodesWithInput(t *testing.T) {
	expr := mustParse(t, "x * y")

	derivative, err := derive.Differentiate(expr, "x")
	require.NoError(t, err)

	inputNodes := map[ast.Expr]struct{}{}
	collect(expr, inputNodes)

	walk(derivative, func(node ast.Expr) {
		_, shared := inputNodes[node]
		assert.False(t, shared, "derivative shares node %T with input", node)
	})
}

func TestDifferentiate_UnsupportedUnaryOperator(t *testing.T) {
	expr := &ast.Unary{
		Op:      ast.UnaryOp("!"),
		Operand: &ast.Variable{Name: "x"},
	}

	_, err := derive.Differentiate(expr, "x")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "unsupported unary operator")
}

func TestDifferentiate_UnknownFunction(t *testing.T) {
	expr := &ast.Call{
		Name: "frobnicate",
		Args: []ast.Expr{&ast.Variable{Name: "x"}},
	}

	_, err := derive.Differentiate(expr, "x")
	assert.ErrorIs(t, err, derive.ErrUnknownFunction)
}

func collect(expr ast.Expr, nodes map[ast.Expr]struct{}) {
	walk(expr, func(node ast.Expr) {
		nodes[node] = struct{}{}
	})
}

func walk(expr ast.Expr, visit func(ast.Expr)) {
	visit(expr)

	switch expr := expr.(type) {
	case *ast.Binary:
		walk(expr.Left, visit)
		walk(expr.Right, visit)

	case *ast.Call:
		for _, arg := range expr.Args {
			walk(arg, visit)
		}

	case *ast.Unary:
		walk(expr.Operand, visit)
	}
}

func mustParse(t *testing.T, input string) ast.Expr {
	t.Helper()

	p := parser.NewParser(lexer.NewLexer(input))

	expr, err := p.Parse()
	require.NoError(t, err)

	return expr
}
