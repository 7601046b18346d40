package parse

import (
	"fmt"
	"regexp"
	"strings"
)

// Quantity is a parsed amount with its unit as written upstream.
// Unit normalization is a separate step (NormalizeUOM) so callers can
// keep the raw spelling when they need it.
type Quantity struct {
	Amount float64
	UOM    string
}

var quantityRe = regexp.MustCompile(`^\s*([0-9][0-9.,]*)\s*([a-zA-Zµ]+\.?)?\s*$`)

// ParseQuantity parses strings like "1,234.56 g", "500g" or
// "2.345,6 grams" into an amount plus unit.
func ParseQuantity(s string) (Quantity, error) {
	m := quantityRe.FindStringSubmatch(s)
	if m == nil {
		return Quantity{}, fmt.Errorf("parse quantity: no numeric amount in %q", s)
	}

	amount, err := ParseNumber(m[1])
	if err != nil {
		return Quantity{}, fmt.Errorf("parse quantity %q: %w", s, err)
	}

	return Quantity{Amount: amount, UOM: strings.TrimSpace(m[2])}, nil
}
