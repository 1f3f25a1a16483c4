// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"fmt"
	"strconv"
)

// ParseBoundedInt parses a query parameter as an integer within
// [min, max]. An empty string yields def. It does not swallow bad
// input: non-numeric or out-of-range values return a descriptive error
// naming the parameter, suitable for a 400 response.
func ParseBoundedInt(name, s string, def, min, max int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if n < min || n > max {
		return 0, fmt.Errorf("%s must be between %d and %d", name, min, max)
	}
	return n, nil
}
