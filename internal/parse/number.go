package parse

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseNumber parses a numeric string that may use either "1,234.56"
// or "1.234,56" style separators.
//
// Heuristic: when both '.' and ',' appear, the rightmost one is the
// decimal point. When only one appears and it is followed by exactly
// three digits, it is treated as a thousands separator, unless the
// whole string has no digits before it worth grouping (a bare "1,234"
// with nothing else stays ambiguous and is read as thousands).
// This mirrors how supplier storefronts actually format prices; do not
// try to outguess it per locale.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parse number: empty input")
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return 0, fmt.Errorf("parse number: unexpected character %q in %q", r, s)
		}
	}

	dot := strings.LastIndexByte(s, '.')
	comma := strings.LastIndexByte(s, ',')

	var normalized string
	switch {
	case dot >= 0 && comma >= 0:
		// Rightmost separator wins as the decimal point.
		if dot > comma {
			normalized = strings.ReplaceAll(s, ",", "")
		} else {
			normalized = strings.ReplaceAll(s, ".", "")
			normalized = strings.Replace(normalized, ",", ".", 1)
		}
	case dot >= 0:
		normalized = resolveSingleSeparator(s, '.')
	case comma >= 0:
		normalized = resolveSingleSeparator(s, ',')
		normalized = strings.Replace(normalized, ",", ".", 1)
	default:
		normalized = s
	}

	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	if neg {
		v = -v
	}
	return v, nil
}

// resolveSingleSeparator decides whether the single occurring separator
// is a thousands group or a decimal point, and strips it when it is a
// group. Multiple occurrences ("1.234.567") are always grouping.
func resolveSingleSeparator(s string, sep byte) string {
	first := strings.IndexByte(s, sep)
	last := strings.LastIndexByte(s, sep)
	if first != last {
		return strings.ReplaceAll(s, string(sep), "")
	}
	tail := s[last+1:]
	if len(tail) == 3 && last > 0 {
		// "1,234" reads as one thousand two hundred thirty four.
		return s[:last] + tail
	}
	return s
}
