package decimalutil

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var decimalStringRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

func init() {
	// Token chains carry up to 18 fractional digits.
	decimal.DivisionPrecision = 18
}

// IsDecimalString returns whether s is a plain unsigned decimal string like
// "123" or "123.456". Signs, exponents and thousand separators are rejected.
func IsDecimalString(s string) bool {
	return decimalStringRegex.MatchString(s)
}

// SplitDecimal splits a decimal string into its integer and fractional parts.
// A missing fractional part yields an empty string.
func SplitDecimal(s string) (string, string) {
	intPart, fracPart, found := strings.Cut(s, ".")
	if !found {
		return intPart, ""
	}
	return intPart, fracPart
}

// TruncateFraction keeps the first n characters of a fractional-digit string.
// It never rounds: dropped digits are discarded unchanged, whatever their
// value. Rounding here could silently push an amount past the reference
// digits or past a dust threshold the user never authorized.
func TruncateFraction(fraction string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(fraction) <= n {
		return fraction
	}
	return fraction[:n]
}

// PadFraction right-pads a fractional-digit string with zeros to length n.
func PadFraction(fraction string, n int) string {
	if len(fraction) >= n {
		return fraction
	}
	return fraction + strings.Repeat("0", n-len(fraction))
}

// ShiftToInteger converts a decimal string to its raw indivisible-unit
// representation by moving the decimal point right by decimals places. The
// shift is pure string concatenation, so it stays exact at 18 decimals where
// float64 multiplication would not.
func ShiftToInteger(s string, decimals int) (string, error) {
	if !IsDecimalString(s) {
		return "", fmt.Errorf("not a decimal string: %q", s)
	}
	intPart, fracPart := SplitDecimal(s)
	if len(fracPart) > decimals {
		return "", fmt.Errorf(
			"%q has %d fractional digits, asset supports %d",
			s, len(fracPart), decimals,
		)
	}
	raw := intPart + PadFraction(fracPart, decimals)
	raw = strings.TrimLeft(raw, "0")
	if raw == "" {
		raw = "0"
	}
	return raw, nil
}

// FromBaseUnits renders a raw indivisible-unit integer string as a decimal
// string with the given number of fractional digits, again by string
// manipulation only.
func FromBaseUnits(raw string, decimals int) (string, error) {
	if raw == "" || strings.ContainsAny(raw, ".-") || !IsDecimalString(raw) {
		return "", fmt.Errorf("not a raw unit string: %q", raw)
	}
	if decimals == 0 {
		return raw, nil
	}
	for len(raw) <= decimals {
		raw = "0" + raw
	}
	cut := len(raw) - decimals
	return raw[:cut] + "." + raw[cut:], nil
}

// Cmp compares two decimal strings by numeric value (not string value) and
// returns -1, 0 or 1. Comparison goes through an arbitrary-precision decimal,
// never a float, so trailing-digit-exact amounts compare correctly.
func Cmp(a, b string) (int, error) {
	x, err := decimal.NewFromString(a)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal %q: %w", a, err)
	}
	y, err := decimal.NewFromString(b)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal %q: %w", b, err)
	}
	return x.Cmp(y), nil
}

// IsPositive reports whether the decimal string is strictly greater than zero.
func IsPositive(s string) bool {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return false
	}
	return d.IsPositive()
}
