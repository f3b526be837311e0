package semconv

// Expression engine
const (
	// Source text of the compiled expression being evaluated.
	Expression = "expression"

	// Name of the variable a lookup or derivative refers to.
	Variable = "variable"
)

// Function-based path
const (
	// Generalized coordinate a moment arm is taken about.
	Coordinate = "coordinate"
)
