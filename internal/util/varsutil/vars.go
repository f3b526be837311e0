// Package varsutil parses "name=value" variable bindings given on the
// command line.
package varsutil

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts bindings of the form "name=value" into a variable
// map. Names are opaque and may contain dots; values must parse as
// floats. Later duplicates win.
func Parse(bindings []string) (map[string]float64, error) {
	variables := make(map[string]float64, len(bindings))

	for _, binding := range bindings {
		name, raw, found := strings.Cut(binding, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid variable binding %q, expected name=value", binding)
		}

		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for variable %q: %w", name, err)
		}

		variables[name] = value
	}

	return variables, nil
}
