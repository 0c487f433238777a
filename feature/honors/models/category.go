package models

import (
	"fmt"
	"strings"
)

// Category is the recognition tier of an honor.
type Category string

// Recognized categories. Special stores "Recommended" and every other
// distinction that is neither a win nor a nomination.
const (
	CategoryWinner  Category = "Winner"
	CategoryNominee Category = "Nominee"
	CategorySpecial Category = "Special"
)

// Rank orders categories for precedence: Winner > Nominee > Special.
// Unknown categories rank 0.
func (c Category) Rank() int {
	switch c {
	case CategoryWinner:
		return 3
	case CategoryNominee:
		return 2
	case CategorySpecial:
		return 1
	default:
		return 0
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c.Rank() > 0
}

// String returns the stored representation.
func (c Category) String() string {
	return string(c)
}

// ParseCategory maps stored or free-text category names onto the closed set.
// "Recommended" is accepted as Special.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "winner":
		return CategoryWinner, nil
	case "nominee", "nominated":
		return CategoryNominee, nil
	case "special", "recommended":
		return CategorySpecial, nil
	default:
		return "", fmt.Errorf("unknown honor category %q", s)
	}
}
