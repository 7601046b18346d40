package parse

import "regexp"

var casRe = regexp.MustCompile(`^(\d{2,7})-(\d{2})-(\d)$`)

// ValidCAS reports whether s is a well-formed CAS registry number,
// including its check digit. The check digit is the weighted sum of
// the remaining digits, rightmost weighted 1, modulo 10.
func ValidCAS(s string) bool {
	m := casRe.FindStringSubmatch(s)
	if m == nil {
		return false
	}

	digits := m[1] + m[2]
	sum := 0
	weight := 1
	for i := len(digits) - 1; i >= 0; i-- {
		sum += weight * int(digits[i]-'0')
		weight++
	}
	return sum%10 == int(m[3][0]-'0')
}
