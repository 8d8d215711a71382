package validate

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const MaxQty = 99

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID validates a simple resource identifier (product/category/address ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Qty accepts 1..MaxQty. Out-of-range values are rejected, not clamped.
func Qty(n int) bool { return n >= 1 && n <= MaxQty }

// Money accepts a non-negative amount with at most two decimal places.
func Money(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Equal(d.Round(2))
}

// Percent accepts 0..100 inclusive.
func Percent(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(100))
}

// Text trims s and checks its length window.
func Text(s string, min, max int) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < min || len(s) > max {
		return "", false
	}
	return s, true
}

// Password enforces a length window and character classes for login checks.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 72 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
